package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hardref/pkg/errors"
)

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid setting of a config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks all sections and reports every problem at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "unknown level %q", c.Log.Level)
	}

	if err := errors.ValidateCacheBackend(c.Cache.Backend); err != nil {
		add("cache.backend", "%s", errors.UserMessage(err))
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		add("cache.redis.addr", "required for the redis backend")
	}
	if c.Cache.Redis.DB < 0 {
		add("cache.redis.db", "must not be negative")
	}

	if err := errors.ValidateRegistrySource(c.Registry.Source); err != nil {
		add("registry.source", "%s", errors.UserMessage(err))
	}
	if c.Registry.Source == "mongo" {
		if c.Registry.Mongo.URI == "" {
			add("registry.mongo.uri", "required for the mongo source")
		} else if !strings.HasPrefix(c.Registry.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Registry.Mongo.URI, "mongodb+srv://") {
			add("registry.mongo.uri", "must start with mongodb:// or mongodb+srv://")
		}
	}
	if c.Registry.Mongo.Timeout < 0 {
		add("registry.mongo.timeout", "must not be negative")
	}

	if c.Server.Addr == "" {
		add("server.addr", "required")
	}
	if c.Server.ScanTimeout < 0 {
		add("server.scan_timeout", "must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		add("server.max_body_bytes", "must be positive")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
