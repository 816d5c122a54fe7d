package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meeting-scheduler/internal/config"
	"github.com/example/meeting-scheduler/internal/persistence"
	"github.com/example/meeting-scheduler/internal/persistence/sqlite"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig() config.Config {
	return config.Config{
		AuditDriver:     config.AuditDriverNone,
		BusinessHours:   scheduler.DefaultBusinessHours,
		RateBurst:       20,
		ShutdownTimeout: time.Second,
	}
}

const seedYAML = `users:
  - {id: 1, name: Alice}
  - {id: 2, name: Bob}
meetings:
  - {id: 1, participants: [1, 2], start: 2025-07-21T09:00:00Z, end: 2025-07-21T10:00:00Z}
`

func TestNewApp_SQLiteAuditAndSeed(t *testing.T) {
	dir := t.TempDir()
	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o600))
	dbPath := filepath.Join(dir, "audit.db")

	cfg := baseConfig()
	cfg.SeedFile = seedPath
	cfg.AuditDriver = config.AuditDriverSQLite
	cfg.AuditDSN = "file:" + dbPath
	cfg.MetricsEnabled = true

	a, err := newApp(context.Background(), cfg, quietLogger())
	require.NoError(t, err)

	body := `{"participantIds":[1,2],"durationMinutes":30,"earliestStart":"2025-07-21T09:00:00Z","latestEnd":"2025-07-21T17:00:00Z"}`
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/meetings", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Meeting struct {
			ID    int    `json:"id"`
			Start string `json:"start"`
		} `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 2, created.Meeting.ID)
	assert.Equal(t, "2025-07-21T10:00:00Z", created.Meeting.Start)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "meeting_scheduler_schedule_attempts_total")

	require.NoError(t, a.Close())

	store, err := sqlite.Open("file:" + dbPath)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.ListAudit(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "meeting.scheduled", entries[0].Action)
	assert.Equal(t, "meeting:2", entries[0].Target)
}

func TestNewApp_Options(t *testing.T) {
	t.Run("metrics can be disabled", func(t *testing.T) {
		a, err := newApp(context.Background(), baseConfig(), quietLogger())
		require.NoError(t, err)
		defer a.Close()

		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rate limit rejects bursts", func(t *testing.T) {
		cfg := baseConfig()
		cfg.RateLimit = 0.001
		cfg.RateBurst = 1
		a, err := newApp(context.Background(), cfg, quietLogger())
		require.NoError(t, err)
		defer a.Close()

		first := httptest.NewRecorder()
		a.handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		second := httptest.NewRecorder()
		a.handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
	})

	t.Run("memory audit driver serves the journal", func(t *testing.T) {
		cfg := baseConfig()
		cfg.AuditDriver = config.AuditDriverMemory
		a, err := newApp(context.Background(), cfg, quietLogger())
		require.NoError(t, err)
		defer a.Close()

		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Carol"}`)))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = httptest.NewRecorder()
		a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"action":"user.created"`)
		assert.Contains(t, rec.Body.String(), `"target":"user:1"`)
	})

	t.Run("unknown audit driver fails", func(t *testing.T) {
		cfg := baseConfig()
		cfg.AuditDriver = "postgres"
		_, err := newApp(context.Background(), cfg, quietLogger())
		assert.ErrorIs(t, err, persistence.ErrUnknownDriver)
	})

	t.Run("missing seed file fails", func(t *testing.T) {
		cfg := baseConfig()
		cfg.SeedFile = filepath.Join(t.TempDir(), "absent.yaml")
		_, err := newApp(context.Background(), cfg, quietLogger())
		assert.Error(t, err)
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	go func() { done <- serve(ctx, listener, handler, time.Second, quietLogger()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
