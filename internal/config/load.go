package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.timezone", "Europe/Warsaw")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("notify.mailersend_base_url", "https://api.mailersend.com")
	v.SetDefault("notify.email_from_name", "Task Manager")
	v.SetDefault("scheduler.reminder_lead_minutes", 60)
	v.SetDefault("kafka.enabled", false)

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine; environment variables may carry
		// everything.
	}

	// Environment variables: TASKNEST_SERVER_PORT, TASKNEST_DATABASE_URL, ...
	v.SetEnvPrefix("TASKNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal, so bind each
	// known key explicitly.
	for _, key := range []string{
		"server.port", "server.log_level", "server.timezone",
		"database.url",
		"auth.jwt_secret", "auth.token_lifetime_minutes",
		"notify.slack_webhook_url", "notify.mailersend_api_key",
		"notify.mailersend_base_url", "notify.email_from_name",
		"notify.email_from", "notify.email_reply_to",
		"scheduler.reminder_lead_minutes",
		"kafka.enabled", "kafka.brokers", "kafka.audit_topic",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
