package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubLimiter struct {
	result *Result
	err    error
	seen   []RateLimitType
}

func (s *stubLimiter) IsAllowed(_ context.Context, _ string, limitType RateLimitType) (*Result, error) {
	s.seen = append(s.seen, limitType)
	return s.result, s.err
}

func newLimitedEngine(limiter Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware(limiter))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	engine.GET("/health", ok)
	engine.GET("/api/v1/events/:id", ok)
	engine.POST("/api/v1/events/:id/purchase", ok)
	return engine
}

func TestMiddlewareSetsHeadersAndClassifies(t *testing.T) {
	limiter := &stubLimiter{result: &Result{Allowed: true, Limit: 5, Remaining: 4, ResetTime: 1700000000}}
	engine := newLimitedEngine(limiter)

	for _, path := range []string{"/health", "/api/v1/events/abc"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: code %d", path, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "5" || w.Header().Get("X-RateLimit-Remaining") != "4" ||
			w.Header().Get("X-RateLimit-Reset") != "1700000000" {
			t.Errorf("%s: headers %v", path, w.Header())
		}
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events/abc/purchase", nil))

	want := []RateLimitType{RateLimitTypeHealth, RateLimitTypePublic, RateLimitTypeBooking}
	if len(limiter.seen) != len(want) {
		t.Fatalf("seen = %v, want %v", limiter.seen, want)
	}
	for i := range want {
		if limiter.seen[i] != want[i] {
			t.Errorf("seen[%d] = %s, want %s", i, limiter.seen[i], want[i])
		}
	}
}

func TestMiddlewareRejectsWhenLimited(t *testing.T) {
	limiter := &stubLimiter{result: &Result{Allowed: false, Limit: 1, Remaining: 0, ResetTime: time.Now().Unix()}}
	engine := newLimitedEngine(limiter)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events/abc/purchase", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("code = %d, want 429", w.Code)
	}
}

func TestMiddlewareLimiterFailure(t *testing.T) {
	engine := newLimitedEngine(&stubLimiter{err: errors.New("redis down")})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", w.Code)
	}
}

func TestMiddlewareWithMemoryLimiter(t *testing.T) {
	cfg := testConfig()
	engine := newLimitedEngine(NewMemoryLimiter(cfg))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/abc/purchase", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2"}, "192.0.2.1:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "192.0.2.1:1234", "198.51.100.4"},
		{"bad header falls back", map[string]string{"X-Forwarded-For": "garbage"}, "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			if got := getClientIP(c); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
