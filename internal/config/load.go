package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables (prefixed with CLOUDTASK_, nested keys joined with
// underscores, e.g. CLOUDTASK_DATABASE_URL) take precedence over values from
// the config file. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults. Keys without a meaningful default are still registered so
	// AutomaticEnv can populate them during Unmarshal; validation rejects
	// the empty values afterwards.
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.url", "")
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("queue.amqp_url", "")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("auth.token_lifetime_minutes", 30)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080) // 7 days
	v.SetDefault("queue.worker_count", 2)
	v.SetDefault("queue.buffer_size", 100)
	v.SetDefault("queue.exchange", "cloudtask.jobs")

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment variables take precedence
	v.SetEnvPrefix("CLOUDTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
