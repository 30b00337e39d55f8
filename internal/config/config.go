// Package config loads hardref settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/hardref/config.toml (falling back to
// ~/.config/hardref/config.toml) unless --config names another one. Every
// setting has a default, so the file is optional. String values may refer
// to environment variables as ${NAME} or $NAME, which keeps credentials such
// as the MongoDB URI out of the file.
//
//	[log]
//	level = "info"
//
//	[scan]
//	function_locals = true
//
//	[cache]
//	backend = "redis"
//	prefix = "team-a:"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[registry]
//	source = "mongo"
//	[registry.mongo]
//	uri = "${HARDREF_MONGO_URI}"
//
//	[server]
//	addr = ":8080"
//	scan_timeout = "30s"
package config

import (
	"time"

	"github.com/matzehuels/hardref/pkg/registry/mongo"
)

// AppName names the config and cache directories.
const AppName = "hardref"

// Config is the complete configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Scan     ScanConfig     `toml:"scan"`
	Cache    CacheConfig    `toml:"cache"`
	Registry RegistryConfig `toml:"registry"`
	Server   ServerConfig   `toml:"server"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// ScanConfig holds scanner defaults.
type ScanConfig struct {
	// FunctionLocals enables the function-local variable sub-scan.
	FunctionLocals bool `toml:"function_locals"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string      `toml:"backend"` // none, file or redis
	Dir     string      `toml:"dir"`     // file backend; empty means the XDG cache dir
	Prefix  string      `toml:"prefix"`  // key prefix for shared backends
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RegistryConfig selects where package dependencies and sizes come from.
type RegistryConfig struct {
	Source string      `toml:"source"` // snapshot or mongo
	Mongo  MongoConfig `toml:"mongo"`
}

// MongoConfig configures the MongoDB registry.
type MongoConfig struct {
	URI        string        `toml:"uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	Timeout    time.Duration `toml:"timeout"`
}

// Options converts the section to connection options.
func (m MongoConfig) Options() mongo.Options {
	return mongo.Options{
		URI:        m.URI,
		Database:   m.Database,
		Collection: m.Collection,
		Timeout:    m.Timeout,
	}
}

// ServerConfig configures "hardref serve".
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	ScanTimeout time.Duration `toml:"scan_timeout"`
	// MaxBodyBytes limits the size of inline snapshots in scan requests.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:  LogConfig{Level: "info"},
		Scan: ScanConfig{FunctionLocals: true},
		Cache: CacheConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Registry: RegistryConfig{
			Source: "snapshot",
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   mongo.DefaultDatabase,
				Collection: mongo.DefaultCollection,
				Timeout:    10 * time.Second,
			},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ScanTimeout:  30 * time.Second,
			MaxBodyBytes: 32 << 20,
		},
	}
}
