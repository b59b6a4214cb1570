package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the catalog service. Values come from an
// optional config.yaml and CATALOG_* environment variables; env wins.
type Config struct {
	Addr         string
	Backend      string // "postgres" or "file"
	DatabaseURL  string // required when Backend is "postgres"
	DataPath     string // JSON file path when Backend is "file"
	AdminToken   string
	FetchTimeout time.Duration
	CORSEnabled  bool
}

// Load reads configuration from a config file in path (if present) and the
// environment, then validates it.
func Load(path string) (Config, error) {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("backend", "postgres")
	viper.SetDefault("data_path", "./data/db.json")
	viper.SetDefault("fetch_timeout", "5s")
	viper.SetDefault("cors_enabled", true)

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CATALOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; env vars may carry everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		Addr:         viper.GetString("addr"),
		Backend:      viper.GetString("backend"),
		DatabaseURL:  viper.GetString("database_url"),
		DataPath:     viper.GetString("data_path"),
		AdminToken:   viper.GetString("admin_token"),
		FetchTimeout: viper.GetDuration("fetch_timeout"),
		CORSEnabled:  viper.GetBool("cors_enabled"),
	}

	switch cfg.Backend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("CATALOG_DATABASE_URL is required for the postgres backend")
		}
	case "file":
	default:
		return Config{}, fmt.Errorf("unknown backend %q (want postgres or file)", cfg.Backend)
	}

	if cfg.AdminToken == "" {
		return Config{}, fmt.Errorf("CATALOG_ADMIN_TOKEN is not set")
	}

	return cfg, nil
}
