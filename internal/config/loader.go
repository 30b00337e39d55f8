package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hardref/pkg/errors"
)

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Load reads the config file at path over the defaults and validates the
// result. An empty path loads the default location, where a missing file is
// not an error; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	cfg.expandEnv()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config %s", path)
	}
	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

func (c *Config) expandEnv() {
	c.Cache.Dir = expandEnvVar(c.Cache.Dir)
	c.Cache.Prefix = expandEnvVar(c.Cache.Prefix)
	c.Cache.Redis.Addr = expandEnvVar(c.Cache.Redis.Addr)
	c.Cache.Redis.Password = expandEnvVar(c.Cache.Redis.Password)
	c.Registry.Mongo.URI = expandEnvVar(c.Registry.Mongo.URI)
	c.Registry.Mongo.Database = expandEnvVar(c.Registry.Mongo.Database)
	c.Server.Addr = expandEnvVar(c.Server.Addr)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
// Unset variables are left as written.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var name string
		if strings.HasPrefix(match, "${") {
			name = match[2 : len(match)-1]
		} else {
			name = match[1:]
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return match
	})
}
