package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	// LINE channel credentials are deliberately not required: the service
	// starts in a degraded mode without them so the hosting platform's
	// health checks stay green while credentials are being provisioned.
	LineChannelSecret      string `env:"LINE_CHANNEL_SECRET"`
	LineChannelAccessToken string `env:"LINE_CHANNEL_ACCESS_TOKEN"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis"`

	ResendAPIKey string `env:"RESEND_API_KEY"`
	AdminEmail   string `env:"ADMIN_EMAIL" validate:"omitempty,email"`
	EmailFrom    string `env:"EMAIL_FROM" validate:"omitempty,email"`

	ReplyCopyFile string `env:"REPLY_COPY_FILE"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	hasAPIKey := strings.TrimSpace(c.ResendAPIKey) != ""
	hasRecipient := strings.TrimSpace(c.AdminEmail) != ""
	hasSender := strings.TrimSpace(c.EmailFrom) != ""
	if hasAPIKey != hasRecipient || hasAPIKey != hasSender {
		return fmt.Errorf("RESEND_API_KEY, ADMIN_EMAIL, and EMAIL_FROM must be set together")
	}

	return nil
}

// HasLineCredentials reports whether both channel credentials are present.
// Without them the webhook cannot verify signatures and the gateway cannot
// send replies.
func (c *Config) HasLineCredentials() bool {
	return strings.TrimSpace(c.LineChannelSecret) != "" && strings.TrimSpace(c.LineChannelAccessToken) != ""
}

// NotificationEnabled reports whether admin order-notification email is
// configured.
func (c *Config) NotificationEnabled() bool {
	return strings.TrimSpace(c.ResendAPIKey) != ""
}
