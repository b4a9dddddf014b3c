// File: internal/ratelimit/ratelimit_test.go
package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shadowai/shadowai/internal/ratelimit"
)

func testConfig() *ratelimit.Config {
	return &ratelimit.Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Minute,
		BanDuration:   time.Minute,
	}
}

func TestAllowWithinLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		allowed, info := limiter.Allow("1.2.3.4")
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if info.Remaining != 3-i-1 {
			t.Errorf("attempt %d: expected remaining %d, got %d", i+1, 3-i-1, info.Remaining)
		}
	}
}

func TestBanAfterLimitExceeded(t *testing.T) {
	limiter := ratelimit.NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	for i := 0; i < 3; i++ {
		limiter.Allow("1.2.3.4")
	}

	allowed, info := limiter.Allow("1.2.3.4")
	if allowed {
		t.Fatal("fourth attempt should be banned")
	}
	if !info.Banned || info.RetryAfter <= 0 {
		t.Errorf("expected ban with retry-after, got %+v", info)
	}

	// The ban sticks for subsequent attempts.
	if allowed, _ := limiter.Allow("1.2.3.4"); allowed {
		t.Error("banned identifier must stay blocked")
	}

	// Other identifiers are unaffected.
	if allowed, _ := limiter.Allow("5.6.7.8"); !allowed {
		t.Error("other identifiers must not share the ban")
	}
}

func TestRecordSuccessResetsWindow(t *testing.T) {
	limiter := ratelimit.NewMemoryRateLimiter(testConfig())
	defer limiter.Close()

	limiter.Allow("1.2.3.4")
	limiter.Allow("1.2.3.4")
	limiter.RecordSuccess("1.2.3.4")

	_, info := limiter.Allow("1.2.3.4")
	if info.Remaining != 2 {
		t.Errorf("window should reset after success, remaining=%d", info.Remaining)
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	if ip := ratelimit.GetClientIP(r); ip != "10.0.0.1" {
		t.Errorf("expected remote addr host, got %q", ip)
	}

	r.Header.Set("X-Real-IP", "10.0.0.2")
	if ip := ratelimit.GetClientIP(r); ip != "10.0.0.2" {
		t.Errorf("expected X-Real-IP, got %q", ip)
	}

	r.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	if ip := ratelimit.GetClientIP(r); ip != "10.0.0.3" {
		t.Errorf("expected first forwarded IP, got %q", ip)
	}
}
