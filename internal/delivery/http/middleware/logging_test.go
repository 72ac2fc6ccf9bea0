package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingHandler keeps every log record for assertions.
type recordingHandler struct {
	records []slog.Record
}

func (h *recordingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(_ string) slog.Handler { return h }

func recordAttrs(r slog.Record) map[string]slog.Value {
	attrs := make(map[string]slog.Value)
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return attrs
}

func TestLoggingMiddleware(t *testing.T) {
	t.Run("logs method path status and duration", func(t *testing.T) {
		rh := &recordingHandler{}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		handler := LoggingMiddleware(slog.New(rh), next)

		req := httptest.NewRequest(http.MethodPost, "http://test/attendance", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Len(t, rh.records, 1)
		rec := rh.records[0]
		require.Equal(t, "request", rec.Message)
		require.Equal(t, slog.LevelInfo, rec.Level)

		attrs := recordAttrs(rec)
		require.Equal(t, http.MethodPost, attrs["method"].String())
		require.Equal(t, "/attendance", attrs["path"].String())
		require.Equal(t, int64(http.StatusCreated), attrs["status"].Int64())
		require.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
	})

	t.Run("defaults status to 200 when handler never writes a header", func(t *testing.T) {
		rh := &recordingHandler{}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
		handler := LoggingMiddleware(slog.New(rh), next)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://test/events", nil))

		require.Len(t, rh.records, 1)
		require.Equal(t, int64(http.StatusOK), recordAttrs(rh.records[0])["status"].Int64())
	})

	t.Run("server errors log at error level", func(t *testing.T) {
		rh := &recordingHandler{}
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		handler := LoggingMiddleware(slog.New(rh), next)

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://test/domains", nil))

		require.Len(t, rh.records, 1)
		require.Equal(t, slog.LevelError, rh.records[0].Level)
	})
}
