package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("issues a request id and exposes it to handlers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		var seen string
		handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := RequestIDFromContext(r.Context())
			require.True(t, ok)
			seen = id
			require.NotNil(t, LoggerFromContext(r.Context()))
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
		assert.Contains(t, buf.String(), `"request_id":"`+seen+`"`)
		assert.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("reuses a caller supplied id", func(t *testing.T) {
		t.Parallel()

		handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set(RequestIDHeader, "trace-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "trace-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	limiter := rate.NewLimiter(rate.Limit(0.001), 2)
	handler := RateLimit(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings", nil))
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	passthrough := RateLimit(nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	rec := httptest.NewRecorder()
	passthrough.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	handler := Recoverer(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "サーバー内部でエラーが発生しました。")
}

func TestTranslateValidationMessage(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"name is required":                           "名前は必須です。",
		"duration must be between 1 and 480 minutes": "所要時間は 1 分以上 480 分以下で指定してください。",
		"name must be at most 64 characters":         "名前は 64 文字以内で指定してください。",
		"something new":                              "something new",
	}
	for in, want := range tests {
		assert.Equal(t, want, translateValidationMessage(in), in)
	}
}
