package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("success")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests within rate limit", func(t *testing.T) {
		middleware := RateLimitMiddleware(newNoopLogger(), NewLimiter(10, 10))
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		for range 10 {
			w := httptest.NewRecorder()
			middleware(okHandler(t)).ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "success", w.Body.String())
		}
	})

	t.Run("blocks requests exceeding rate limit", func(t *testing.T) {
		middleware := RateLimitMiddleware(newNoopLogger(), NewLimiter(1, 1))
		req := httptest.NewRequest(http.MethodPost, "/test", nil)

		w := httptest.NewRecorder()
		middleware(okHandler(t)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		middleware(okHandler(t)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.JSONEq(t, `{"status":"Error","error":"too many requests"}`, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("allows requests after rate limit reset", func(t *testing.T) {
		middleware := RateLimitMiddleware(newNoopLogger(), NewLimiter(1, 1))
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		w := httptest.NewRecorder()
		middleware(okHandler(t)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		middleware(okHandler(t)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		time.Sleep(1100 * time.Millisecond)

		w = httptest.NewRecorder()
		middleware(okHandler(t)).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitMiddleware_SharedAcrossEndpoints(t *testing.T) {
	middleware := RateLimitMiddleware(newNoopLogger(), NewLimiter(0.001, 2))
	endpoints := []string{"/api/v1/load/payments", "/api/v1/payments/process", "/api/v1/load/user"}

	success, limited := 0, 0
	for i := range 6 {
		req := httptest.NewRequest(http.MethodPost, endpoints[i%len(endpoints)], nil)
		w := httptest.NewRecorder()
		middleware(okHandler(t)).ServeHTTP(w, req)
		switch w.Code {
		case http.StatusOK:
			success++
		case http.StatusTooManyRequests:
			limited++
		}
	}

	assert.Equal(t, 2, success)
	assert.Equal(t, 4, limited)
}

func TestRateLimitMiddleware_HandlerNotCalledWhenRateLimited(t *testing.T) {
	middleware := RateLimitMiddleware(newNoopLogger(), NewLimiter(0.001, 1))

	var calls int
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	middleware(h).ServeHTTP(httptest.NewRecorder(), req)
	middleware(h).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, calls)
}
