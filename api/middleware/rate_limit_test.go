package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiterStore struct {
	counts map[string]int64
	err    error
}

func (s *stubLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	store := &stubLimiterStore{}
	handler := RateLimit(store, 2, time.Minute, nil)(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/stores", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	store := &stubLimiterStore{}
	handler := RateLimit(store, 1, time.Minute, nil)(okHandler())

	first := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/stores", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(first, r)

	second := httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/stores", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(second, r)

	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", second.Code)
	}
	if got := second.Header().Get("RateLimit-Remaining"); got != "0" {
		t.Fatalf("remaining = %q", got)
	}
	if got := second.Header().Get("RateLimit-Limit"); got != "1" {
		t.Fatalf("limit = %q", got)
	}
}

func TestRateLimitKeysPerClientIP(t *testing.T) {
	store := &stubLimiterStore{}
	handler := RateLimit(store, 1, time.Minute, nil)(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/stores", nil)
		r.RemoteAddr = addr
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("addr %s: status = %d", addr, w.Code)
		}
	}
}

func TestRateLimitUsesForwardedFor(t *testing.T) {
	store := &stubLimiterStore{}
	handler := RateLimit(store, 1, time.Minute, nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/stores", nil)
	r.RemoteAddr = "192.168.0.1:1"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(w, r)

	if _, ok := store.counts["rl:ip:api:203.0.113.7"]; !ok {
		t.Fatalf("expected forwarded IP key, got %v", store.counts)
	}
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	store := &stubLimiterStore{err: errors.New("redis down")}
	handler := RateLimit(store, 1, time.Minute, nil)(okHandler())

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/stores", nil)
	r.RemoteAddr = "10.0.0.1:1"
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want pass-through on store error", w.Code)
	}
}

func TestRateLimitDisabledWithoutStore(t *testing.T) {
	handler := RateLimit(nil, 1, time.Minute, nil)(okHandler())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/stores", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
