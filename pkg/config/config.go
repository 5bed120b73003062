package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV = "CONFIG_FILE"
	envPrefix     = "BONEWA_"
)

type Config struct {
	Environment           string `koanf:"environment"`
	Hostname              string `koanf:"-"`
	ServerHost            string `koanf:"server_host"`
	ServerPort            int    `koanf:"server_port"`
	DatabaseFilePath      string `koanf:"database_file_path"`
	DatabaseDebug         bool   `koanf:"database_debug"`
	DatabaseBusyTimeoutMS int    `koanf:"database_busy_timeout_ms"`
	DatabaseMaxRetries    int    `koanf:"database_max_retries"`
	JWTSecret             string `koanf:"jwt_secret"`

	DatabaseConnectRetryCount int           `koanf:"-"`
	DatabaseConnectRetryDelay time.Duration `koanf:"-"`
}

// DatabaseBusyTimeout is how long SQLite waits on a locked database before
// returning SQLITE_BUSY.
func (cfg *Config) DatabaseBusyTimeout() time.Duration {
	return time.Duration(cfg.DatabaseBusyTimeoutMS) * time.Millisecond
}

// New loads the config from an optional yaml file merged with BONEWA_-prefixed
// environment variables. Environment variables win over the file.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		Environment:               "development",
		Hostname:                  hostname,
		ServerHost:                "127.0.0.1",
		ServerPort:                8698,
		DatabaseFilePath:          "./tmp/data.sqlite",
		DatabaseBusyTimeoutMS:     5000,
		DatabaseMaxRetries:        5,
		JWTSecret:                 "insecure-development-secret",
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
	}

	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	switch cfg.Environment {
	case "test":
		cfg.DatabaseFilePath = "file::memory:?cache=shared"
		cfg.ServerPort = 0
	case "production":
		if cfg.JWTSecret == "insecure-development-secret" {
			return nil, errors.New("jwt_secret must be set in production")
		}
	}

	return cfg, nil
}
