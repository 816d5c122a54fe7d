package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

// Audit drivers accepted by SCHEDULER_AUDIT_DRIVER.
const (
	AuditDriverNone   = "none"
	AuditDriverMemory = "memory"
	AuditDriverSQLite = "sqlite"
)

// Config captures environment driven configuration values for the scheduler service.
type Config struct {
	HTTPPort        int
	LogLevel        string
	LogFormat       string
	LogFile         string
	SeedFile        string
	AuditDriver     string
	AuditDSN        string
	BusinessHours   scheduler.BusinessHours
	RateLimit       float64
	RateBurst       int
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

// LoadDotEnv loads variables from the given .env files (".env" when none are
// named) without overriding values already present in the environment.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields and reports every invalid
// variable in a single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		LogLevel:        "info",
		LogFormat:       "json",
		AuditDriver:     AuditDriverNone,
		AuditDSN:        "file:audit.db",
		BusinessHours:   scheduler.DefaultBusinessHours,
		RateLimit:       0,
		RateBurst:       20,
		MetricsEnabled:  true,
		ShutdownTimeout: 10 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := env("SCHEDULER_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "SCHEDULER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if level := env("SCHEDULER_LOG_LEVEL"); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = strings.ToLower(level)
		default:
			invalid = append(invalid, "SCHEDULER_LOG_LEVEL")
		}
	}

	if format := env("SCHEDULER_LOG_FORMAT"); format != "" {
		switch strings.ToLower(format) {
		case "json", "text":
			cfg.LogFormat = strings.ToLower(format)
		default:
			invalid = append(invalid, "SCHEDULER_LOG_FORMAT")
		}
	}

	cfg.LogFile = env("SCHEDULER_LOG_FILE")
	cfg.SeedFile = env("SCHEDULER_SEED_FILE")

	if driver := env("SCHEDULER_AUDIT_DRIVER"); driver != "" {
		switch strings.ToLower(driver) {
		case AuditDriverNone, AuditDriverMemory, AuditDriverSQLite:
			cfg.AuditDriver = strings.ToLower(driver)
		default:
			invalid = append(invalid, "SCHEDULER_AUDIT_DRIVER")
		}
	}

	if dsn := env("SCHEDULER_AUDIT_DSN"); dsn != "" {
		cfg.AuditDSN = dsn
	}

	if hoursValue := env("SCHEDULER_BUSINESS_HOURS"); hoursValue != "" {
		hours, err := scheduler.ParseBusinessHours(hoursValue)
		if err != nil {
			invalid = append(invalid, "SCHEDULER_BUSINESS_HOURS")
		} else {
			cfg.BusinessHours = hours
		}
	}

	if rateValue := env("SCHEDULER_RATE_LIMIT"); rateValue != "" {
		rate, err := strconv.ParseFloat(rateValue, 64)
		if err != nil || rate < 0 {
			invalid = append(invalid, "SCHEDULER_RATE_LIMIT")
		} else {
			cfg.RateLimit = rate
		}
	}

	if burstValue := env("SCHEDULER_RATE_BURST"); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil || burst <= 0 {
			invalid = append(invalid, "SCHEDULER_RATE_BURST")
		} else {
			cfg.RateBurst = burst
		}
	}

	if metricsValue := env("SCHEDULER_METRICS_ENABLED"); metricsValue != "" {
		enabled, err := strconv.ParseBool(metricsValue)
		if err != nil {
			invalid = append(invalid, "SCHEDULER_METRICS_ENABLED")
		} else {
			cfg.MetricsEnabled = enabled
		}
	}

	if timeoutValue := env("SCHEDULER_SHUTDOWN_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "SCHEDULER_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
