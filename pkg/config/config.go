// Package config assembles service settings from an optional YAML file
// overridden by the process environment. A .env file may pre-seed variables
// that the environment does not already set.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port         string `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	ServiceName  string `yaml:"service_name"`
	APIKey       string `yaml:"api_key"`
	APIKeyHash   string `yaml:"api_key_hash"`
	JWTSecret    string `yaml:"jwt_secret"`
	DBProvider   string `yaml:"db_provider"`
	DBPath       string `yaml:"db_path"`
	DBDSN        string `yaml:"db_dsn"`
	RangeFile    string `yaml:"range_file"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:        "8899",
		LogLevel:    "info",
		ServiceName: "isbn-gateway",
		DBProvider:  "memory",
	}
}

// Load reads ENV_FILE (default ".env") and ISBN_CONFIG from fs, then applies
// environment overrides. A missing .env file is not an error.
func Load(fs afero.Fs) (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadDotEnv(fs, envFile); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if path := os.Getenv("ISBN_CONFIG"); path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// loadDotEnv exports variables from path that are not already set.
func loadDotEnv(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	vars, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); !ok {
			os.Setenv(k, v)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.Port, "PORT")
	override(&c.LogLevel, "LOG_LEVEL")
	override(&c.ServiceName, "OTEL_SERVICE_NAME")
	override(&c.APIKey, "GATEWAY_API_KEY")
	override(&c.APIKeyHash, "GATEWAY_API_KEY_HASH")
	override(&c.JWTSecret, "GATEWAY_JWT_SECRET")
	override(&c.DBProvider, "DB_PROVIDER")
	override(&c.DBPath, "DB_PATH")
	override(&c.DBDSN, "DB_DSN")
	override(&c.RangeFile, "RANGE_FILE")
	override(&c.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
}

// SlogLevel parses LogLevel, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// AuthEnabled reports whether any API credential is configured.
func (c Config) AuthEnabled() bool {
	return c.APIKey != "" || c.APIKeyHash != "" || c.JWTSecret != ""
}
