package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/nexusauth/internal/logging"
)

func TestIPLimiter_AllowAndRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 2)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("1.1.1.1"))
	assert.False(t, l.allow("1.1.1.1"))
	assert.True(t, l.allow("2.2.2.2"), "buckets are per ip")

	now = now.Add(time.Second)
	assert.True(t, l.allow("1.1.1.1"))
}

func TestIPLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("1.1.1.1")
	now = now.Add(10 * time.Minute)
	l.allow("2.2.2.2")
	now = now.Add(25 * time.Minute)

	l.sweep(limiterTTL)
	assert.Equal(t, 1, l.size())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "10.0.0.7:5555"
	r.Header.Set("X-Forwarded-For", "6.6.6.6")
	assert.Equal(t, "10.0.0.7", clientIP(r))

	r.RemoteAddr = "[::1]:80"
	assert.Equal(t, "::1", clientIP(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(r))
}

func TestRateLimit_Handler(t *testing.T) {
	s := NewServer(Config{Path: "/api/auth", RateRPS: 0.001, RateBurst: 2}, &fakeService{}, logging.Discard())
	h := s.Handler()

	codes := make([]int, 0, 3)
	var last string
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"action":"test"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		last = rec.Body.String()
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Contains(t, last, msgTooManyRequests)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "health is not limited")
}

func TestRateLimit_OptionsNotCounted(t *testing.T) {
	s := NewServer(Config{Path: "/api/auth", RateRPS: 0.001, RateBurst: 1}, &fakeService{}, logging.Discard())
	h := s.Handler()

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"action":"test"}`))
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "OPTIONS must not use up the POST budget")
}

func TestRateLimit_Disabled(t *testing.T) {
	s := NewServer(Config{Path: "/api/auth"}, &fakeService{}, logging.Discard())
	assert.Nil(t, s.limiter)

	h := s.Handler()
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(`{"action":"test"}`)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
