package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// MOLIT API
	ServiceKey string
	APIBaseURL string
	PageSize   int

	// Collection
	MonthsBack int

	// Export
	OutputDir    string
	OutputPrefix string
	ExportFormat string

	// Region directory
	RegionCodeURL  string
	SQLiteDBPath   string
	RegionCacheTTL time.Duration

	// Google Sheets (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		ServiceKey: getEnv("MOLIT_SERVICE_KEY", ""),
		APIBaseURL: getEnv("MOLIT_API_URL", ""),
		PageSize:   getEnvInt("MOLIT_PAGE_SIZE", 1000),

		MonthsBack: getEnvInt("MONTHS_BACK", 4),

		OutputDir:    getEnv("OUTPUT_DIR", "./out"),
		OutputPrefix: getEnv("OUTPUT_PREFIX", "apt_trades"),
		ExportFormat: getEnv("EXPORT_FORMAT", "csv"),

		RegionCodeURL:  getEnv("REGION_CODE_URL", ""),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/aptrade.db"),
		RegionCacheTTL: getEnvDuration("REGION_CACHE_TTL", 720*time.Hour),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "거래내역"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "aptrade"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "run_summaries"),
	}
}

// Validate validates the configuration and returns an error if invalid.
// The service key is checked separately at run start, not here, because its
// absence is reported with setup guidance instead of an error.
func (c *Config) Validate() error {
	var errors []string

	if c.MonthsBack < 1 {
		errors = append(errors, fmt.Sprintf("invalid months back %d: must be at least 1", c.MonthsBack))
	} else if c.MonthsBack > 120 {
		errors = append(errors, fmt.Sprintf("invalid months back %d: must be at most 120", c.MonthsBack))
	}

	if c.PageSize < 1 || c.PageSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be between 1 and 10000", c.PageSize))
	}

	switch c.ExportFormat {
	case "csv", "xlsx":
	default:
		errors = append(errors, fmt.Sprintf("invalid export format '%s': must be one of [csv xlsx]", c.ExportFormat))
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		errors = append(errors, "output directory cannot be empty")
	}
	if strings.TrimSpace(c.OutputPrefix) == "" {
		errors = append(errors, "output prefix cannot be empty")
	}
	if strings.TrimSpace(c.SQLiteDBPath) == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}
	if c.RegionCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid region cache TTL %v: must not be negative", c.RegionCacheTTL))
	}

	if c.RegionCodeURL != "" {
		if _, err := url.Parse(c.RegionCodeURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid region code URL '%s': %v", c.RegionCodeURL, err))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
