package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
)

func validConfig() Config {
	return Config{
		Port:         "8080",
		Participants: []string{"Alice", "Bob", "Charlie", "Dana"},
		Currency:     "PKR",
		LogLevel:     "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "duplicate participant",
			mutate:      func(c *Config) { c.Participants = []string{"Alice", "Alice"} },
			wantErr:     true,
			errorString: "invalid participants",
		},
		{
			name:        "empty roster",
			mutate:      func(c *Config) { c.Participants = nil },
			wantErr:     true,
			errorString: "invalid participants",
		},
		{
			name:        "unknown currency",
			mutate:      func(c *Config) { c.Currency = "ZZZ9" },
			wantErr:     true,
			errorString: "invalid currency",
		},
		{
			name:        "bad log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()

			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PARTICIPANTS", "Ann, Ben ,Cat")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("CURRENCY_SYMBOL", "true")
	t.Setenv("LOG_LEVEL", "debug")

	c := FromEnv()

	if c.Port != "9090" {
		t.Errorf("Port: got %s, want 9090", c.Port)
	}
	if got := strings.Join(c.Participants, "|"); got != "Ann|Ben|Cat" {
		t.Errorf("Participants: got %s, want Ann|Ben|Cat", got)
	}
	if c.Currency != "USD" || !c.SymbolLabels {
		t.Errorf("Currency: got %s symbol=%v", c.Currency, c.SymbolLabels)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	roster, err := c.Roster()
	if err != nil {
		t.Fatalf("Roster() = %v", err)
	}
	if roster.Len() != 3 {
		t.Errorf("Roster size: got %d, want 3", roster.Len())
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "PARTICIPANTS", "CURRENCY", "CURRENCY_SYMBOL", "LOG_LEVEL", "STATIC_PATH"} {
		t.Setenv(key, "")
	}

	c := FromEnv()
	if c.Port != "8080" {
		t.Errorf("Port: got %s, want 8080", c.Port)
	}
	if len(c.Participants) != 4 || c.Participants[0] != "Alice" {
		t.Errorf("Participants: got %v", c.Participants)
	}
	if c.Currency != "PKR" {
		t.Errorf("Currency: got %s, want PKR", c.Currency)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestDotEnvFile(t *testing.T) {
	t.Setenv("CURRENCY", "")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CURRENCY=EUR\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	// godotenv.Load does not override variables that are already set, and
	// an empty value counts as set, so clear it for the duration of the test.
	os.Unsetenv("CURRENCY")
	if err := godotenv.Load(path); err != nil {
		t.Fatalf("godotenv.Load: %v", err)
	}

	if got := FromEnv().Currency; got != "EUR" {
		t.Errorf("Currency: got %s, want EUR", got)
	}
}
