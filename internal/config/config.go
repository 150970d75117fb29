// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/render"
)

type Config struct {
	// HTTP Server
	Port       string
	StaticPath string

	// Ledger
	Participants []string
	Currency     string
	SymbolLabels bool

	// Logging
	LogLevel string
}

// Load reads a .env file if present, then the environment.
// Variables already set in the environment take precedence over .env.
func Load() *Config {
	// Ignore errors: .env is optional outside local development
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		StaticPath:   getEnv("STATIC_PATH", ""),
		Participants: getEnvList("PARTICIPANTS", models.DefaultParticipants),
		Currency:     getEnv("CURRENCY", "PKR"),
		SymbolLabels: getEnvBool("CURRENCY_SYMBOL", false),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if _, err := models.NewRoster(c.Participants...); err != nil {
		errors = append(errors, fmt.Sprintf("invalid participants: %v", err))
	}

	if _, err := render.NewFormatter(c.Currency, c.SymbolLabels); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency: %v", err))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Roster builds the participant roster. Call Validate first.
func (c *Config) Roster() (*models.Roster, error) {
	return models.NewRoster(c.Participants...)
}

// Formatter builds the currency formatter. Call Validate first.
func (c *Config) Formatter() (*render.Formatter, error) {
	return render.NewFormatter(c.Currency, c.SymbolLabels)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
