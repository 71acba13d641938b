package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL      string
	HTTPAddress      string
	AppBaseURL       string
	JWTSecret        string
	JWTIssuer        string
	SessionTokenTTL  time.Duration
	ResetTokenTTL    time.Duration
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	EmailFrom        string
	AllowedOrigins   []string
	AllowCredentials bool
}

// Load reads configuration from the environment, with an optional config.json
// in the working directory for local development. DATABASE_URL and JWT_SECRET
// have no usable defaults and are required.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	keys := []string{
		"DATABASE_URL", "HTTP_ADDRESS", "APP_BASE_URL",
		"JWT_SECRET", "JWT_ISSUER", "SESSION_TOKEN_TTL", "RESET_TOKEN_TTL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "EMAIL_FROM",
		"ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
	}
	for _, k := range keys {
		if err := viper.BindEnv(k); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("SESSION_TOKEN_TTL", "1h")
	viper.SetDefault("RESET_TOKEN_TTL", "1h")
	viper.SetDefault("SMTP_PORT", "465")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		HTTPAddress:      viper.GetString("HTTP_ADDRESS"),
		AppBaseURL:       viper.GetString("APP_BASE_URL"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		JWTIssuer:        viper.GetString("JWT_ISSUER"),
		SessionTokenTTL:  viper.GetDuration("SESSION_TOKEN_TTL"),
		ResetTokenTTL:    viper.GetDuration("RESET_TOKEN_TTL"),
		SMTPHost:         viper.GetString("SMTP_HOST"),
		SMTPPort:         viper.GetString("SMTP_PORT"),
		SMTPUsername:     viper.GetString("SMTP_USERNAME"),
		SMTPPassword:     viper.GetString("SMTP_PASSWORD"),
		EmailFrom:        viper.GetString("EMAIL_FROM"),
		AllowedOrigins:   viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials: viper.GetBool("ALLOW_CREDENTIALS"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}
