package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContextWithLogger(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatal("expected logger to round trip through context")
	}
	if FromContext(context.Background()) != nil {
		t.Fatal("expected nil logger for bare context")
	}
	if got := ContextWithLogger(ctx, nil); got != ctx {
		t.Fatal("expected nil logger to leave context untouched")
	}
}

func TestFromContextOr(t *testing.T) {
	t.Parallel()

	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	if got := FromContextOr(ContextWithLogger(context.Background(), scoped), fallback); got != scoped {
		t.Fatal("expected context logger to win over fallback")
	}
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback when context has no logger")
	}
	if got := FromContextOr(context.Background(), nil); got != slog.Default() {
		t.Fatal("expected slog.Default when nothing else is available")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("json output respects level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger, closer, err := NewWithWriter(&buf, Config{Level: "warn"})
		if err != nil {
			t.Fatalf("NewWithWriter returned error: %v", err)
		}
		defer closer.Close()

		logger.Info("hidden")
		logger.Warn("shown", "meeting_id", 3)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 1 {
			t.Fatalf("expected one record, got %q", buf.String())
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
			t.Fatalf("expected JSON record: %v", err)
		}
		if record["msg"] != "shown" || record["meeting_id"] != float64(3) {
			t.Fatalf("unexpected record %v", record)
		}
	})

	t.Run("copies records to rotated file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "scheduler.log")
		var buf bytes.Buffer
		logger, closer, err := NewWithWriter(&buf, Config{Format: "text", File: path})
		if err != nil {
			t.Fatalf("NewWithWriter returned error: %v", err)
		}
		logger.Info("persisted")
		if err := closer.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "msg=persisted") {
			t.Fatalf("expected record in file, got %q", string(data))
		}
		if !strings.Contains(buf.String(), "msg=persisted") {
			t.Fatalf("expected record on console, got %q", buf.String())
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		if _, _, err := NewWithWriter(&bytes.Buffer{}, Config{Format: "xml"}); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}
