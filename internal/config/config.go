package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLedgerURL  = "https://github.com/loulou867/database_world_collapse/raw/refs/heads/main/evenements_actu.db"
	DefaultLedgerPath = "evenements_actu.db"
)

type Config struct {
	// Ledger cache
	LedgerURL          string
	LedgerPath         string
	LedgerFetchTimeout time.Duration // 0 leaves the transport default in place
	SkipSync           bool

	// Aggregation
	AggregateWorkers int

	// Logging
	LogLevel  string
	LogFormat string

	// AMQP notifications (disabled when AMQPURL is empty)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Google Sheets export (disabled when GoogleSpreadsheetID is empty)
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

func Load() *Config {
	cfg := &Config{
		LedgerURL:          getEnv("LEDGER_URL", DefaultLedgerURL),
		LedgerPath:         getEnv("LEDGER_PATH", DefaultLedgerPath),
		LedgerFetchTimeout: getEnvDuration("LEDGER_FETCH_TIMEOUT", 0),
		SkipSync:           getEnvBool("LEDGER_SKIP_SYNC", false),

		AggregateWorkers: getEnvInt("AGGREGATE_WORKERS", 1),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "collapse"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "ledger_report"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Monthly Severity"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Ledger source is only needed when syncing
	if !c.SkipSync {
		if c.LedgerURL == "" {
			errors = append(errors, "ledger URL cannot be empty")
		} else if parsedURL, err := url.Parse(c.LedgerURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid ledger URL '%s': %v", c.LedgerURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid ledger URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	if strings.TrimSpace(c.LedgerPath) == "" {
		errors = append(errors, "ledger path cannot be empty")
	}

	if c.LedgerFetchTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid ledger fetch timeout %v: must not be negative", c.LedgerFetchTimeout))
	}

	if c.AggregateWorkers < 1 {
		errors = append(errors, fmt.Sprintf("invalid aggregate workers %d: must be at least 1", c.AggregateWorkers))
	} else if c.AggregateWorkers > 12 {
		errors = append(errors, fmt.Sprintf("invalid aggregate workers %d: must be at most 12", c.AggregateWorkers))
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	if !contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	// Validate Google Sheets configuration if export is enabled
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets export")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AMQPEnabled reports whether outcome notifications should be published
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// SheetsEnabled reports whether the matrix should be exported to Google Sheets
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
