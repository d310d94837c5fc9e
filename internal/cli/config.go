package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Store backend names accepted in the configuration file.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendRemote = "remote"
	BackendNull   = "null"
)

// Config holds CLI configuration loaded from config.toml.
type Config struct {
	Store StoreConfig `toml:"store"`
}

// StoreConfig selects and configures the model store backend.
type StoreConfig struct {
	// Backend is one of "file", "redis", "mongo", "remote", or "null".
	Backend string `toml:"backend"`

	// Dir is the directory for the file backend.
	Dir string `toml:"dir"`

	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
	Remote RemoteConfig `toml:"remote"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds mongo backend settings.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// RemoteConfig holds remote backend settings.
type RemoteConfig struct {
	// BaseURL points at a running "portgraph serve" instance.
	BaseURL string `toml:"base_url"`
}

// DefaultConfig returns the configuration used when no config file exists:
// a file store under the user's data directory.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Store.Backend = BackendFile
	if dir, err := dataDir(); err == nil {
		cfg.Store.Dir = filepath.Join(dir, "models")
	} else {
		cfg.Store.Dir = "models"
	}
	cfg.Store.Redis.Addr = "localhost:6379"
	cfg.Store.Mongo.URI = "mongodb://localhost:27017"
	cfg.Store.Mongo.Database = appName
	cfg.Store.Remote.BaseURL = "http://localhost:8080"
	return cfg
}

// LoadConfig reads the configuration from path. An empty path means the
// default location (~/.config/portgraph/config.toml); a missing file at the
// default location falls back to DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	switch cfg.Store.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendRemote, BackendNull:
	default:
		return nil, fmt.Errorf("load config %s: unknown store backend %q", path, cfg.Store.Backend)
	}
	return cfg, nil
}
