// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// Cleaning/analysis worker endpoint. Injected so tests can point the
	// orchestrator at a fake worker.
	CleanerURL            string `mapstructure:"CLEANER_URL"`
	CleanerTimeoutSeconds int    `mapstructure:"CLEANER_TIMEOUT_SECONDS"`

	// Search index (RediSearch).
	SearchRedisURL       string `mapstructure:"SEARCH_REDIS_URL"`
	SearchRedisPassword  string `mapstructure:"SEARCH_REDIS_PASSWORD"`
	SearchIndexName      string `mapstructure:"SEARCH_INDEX_NAME"`
	SearchTimeoutSeconds int    `mapstructure:"SEARCH_TIMEOUT_SECONDS"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults are
	// enough to run locally.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	viper.SetDefault("PORT", "8376")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "commentpulse")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CLEANER_URL", "http://127.0.0.1:5001")
	viper.SetDefault("CLEANER_TIMEOUT_SECONDS", 120)
	viper.SetDefault("SEARCH_REDIS_URL", "localhost:6379")
	viper.SetDefault("SEARCH_INDEX_NAME", "comment_index")
	viper.SetDefault("SEARCH_TIMEOUT_SECONDS", 5)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.CleanerURL == "" {
		return errors.New("CLEANER_URL is required")
	}
	if c.SearchIndexName == "" {
		return errors.New("SEARCH_INDEX_NAME is required")
	}
	if c.CleanerTimeoutSeconds <= 0 {
		return errors.New("CLEANER_TIMEOUT_SECONDS must be positive")
	}
	if c.SearchTimeoutSeconds <= 0 {
		return errors.New("SEARCH_TIMEOUT_SECONDS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"
	if isProduction {
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	}

	return nil
}

// CleanerTimeout returns the worker call timeout as a duration.
func (c *Config) CleanerTimeout() time.Duration {
	return time.Duration(c.CleanerTimeoutSeconds) * time.Second
}

// SearchTimeout returns the per-operation index timeout as a duration.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSeconds) * time.Second
}
