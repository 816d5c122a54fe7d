package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/meeting-scheduler/internal/scheduler"
)

var schedulerEnv = []string{
	"SCHEDULER_HTTP_PORT",
	"SCHEDULER_LOG_LEVEL",
	"SCHEDULER_LOG_FORMAT",
	"SCHEDULER_LOG_FILE",
	"SCHEDULER_SEED_FILE",
	"SCHEDULER_AUDIT_DRIVER",
	"SCHEDULER_AUDIT_DSN",
	"SCHEDULER_BUSINESS_HOURS",
	"SCHEDULER_RATE_LIMIT",
	"SCHEDULER_RATE_BURST",
	"SCHEDULER_METRICS_ENABLED",
	"SCHEDULER_SHUTDOWN_TIMEOUT",
}

func clearSchedulerEnv(t *testing.T) {
	t.Helper()
	for _, key := range schedulerEnv {
		// Register restoration through Setenv before clearing.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearSchedulerEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.AuditDriver != AuditDriverNone {
			t.Fatalf("expected audit driver none, got %q", cfg.AuditDriver)
		}
		if cfg.BusinessHours != scheduler.DefaultBusinessHours {
			t.Fatalf("unexpected business hours %s", cfg.BusinessHours)
		}
		if !cfg.MetricsEnabled {
			t.Fatal("expected metrics to be enabled by default")
		}
		if cfg.LogFormat != "json" || cfg.LogLevel != "info" {
			t.Fatalf("unexpected log defaults %q/%q", cfg.LogLevel, cfg.LogFormat)
		}
	})

	t.Run("parses provided values", func(t *testing.T) {
		clearSchedulerEnv(t)
		t.Setenv("SCHEDULER_HTTP_PORT", "9090")
		t.Setenv("SCHEDULER_LOG_LEVEL", "DEBUG")
		t.Setenv("SCHEDULER_LOG_FORMAT", "text")
		t.Setenv("SCHEDULER_AUDIT_DRIVER", "sqlite")
		t.Setenv("SCHEDULER_AUDIT_DSN", "file:/tmp/audit.db")
		t.Setenv("SCHEDULER_BUSINESS_HOURS", "08:30-18:00")
		t.Setenv("SCHEDULER_RATE_LIMIT", "2.5")
		t.Setenv("SCHEDULER_RATE_BURST", "5")
		t.Setenv("SCHEDULER_METRICS_ENABLED", "false")
		t.Setenv("SCHEDULER_SHUTDOWN_TIMEOUT", "3s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.LogLevel != "debug" || cfg.LogFormat != "text" {
			t.Fatalf("unexpected log settings %q/%q", cfg.LogLevel, cfg.LogFormat)
		}
		if cfg.AuditDriver != AuditDriverSQLite || cfg.AuditDSN != "file:/tmp/audit.db" {
			t.Fatalf("unexpected audit settings %q/%q", cfg.AuditDriver, cfg.AuditDSN)
		}
		if cfg.BusinessHours.String() != "08:30-18:00" {
			t.Fatalf("unexpected business hours %s", cfg.BusinessHours)
		}
		if cfg.RateLimit != 2.5 || cfg.RateBurst != 5 {
			t.Fatalf("unexpected rate limit %v/%d", cfg.RateLimit, cfg.RateBurst)
		}
		if cfg.MetricsEnabled {
			t.Fatal("expected metrics to be disabled")
		}
		if cfg.ShutdownTimeout != 3*time.Second {
			t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
		}
	})

	t.Run("accepts the memory audit driver", func(t *testing.T) {
		clearSchedulerEnv(t)
		t.Setenv("SCHEDULER_AUDIT_DRIVER", "Memory")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.AuditDriver != AuditDriverMemory {
			t.Fatalf("expected memory audit driver, got %q", cfg.AuditDriver)
		}
	})

	t.Run("reports every invalid variable", func(t *testing.T) {
		clearSchedulerEnv(t)
		t.Setenv("SCHEDULER_HTTP_PORT", "not-a-number")
		t.Setenv("SCHEDULER_AUDIT_DRIVER", "postgres")
		t.Setenv("SCHEDULER_BUSINESS_HOURS", "17:00-09:00")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "環境変数の値が不正です: SCHEDULER_HTTP_PORT, SCHEDULER_AUDIT_DRIVER, SCHEDULER_BUSINESS_HOURS"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearSchedulerEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler.env")
	content := "SCHEDULER_HTTP_PORT=7070\nSCHEDULER_LOG_FORMAT=text\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("SCHEDULER_LOG_FORMAT", "json")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("SCHEDULER_HTTP_PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != 7070 {
		t.Fatalf("expected port from env file, got %d", cfg.HTTPPort)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected existing variable to win, got %q", cfg.LogFormat)
	}
}
