// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration
	MaxAttempts   int
	CleanupPeriod time.Duration
	BanDuration   time.Duration
}

// DefaultAuthConfig returns sensible defaults for login/register endpoints.
func DefaultAuthConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   5,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// TurnConfig bounds how fast one client can submit completion turns.
func TurnConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   20,
		CleanupPeriod: 10 * time.Minute,
		BanDuration:   5 * time.Minute,
	}
}

// Info describes the limiter's decision for one request.
type Info struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

type record struct {
	count     int
	firstSeen time.Time
	bannedAt  *time.Time
}

// MemoryRateLimiter tracks per-identifier attempt windows in memory. A
// client that exceeds the window limit is banned for BanDuration.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*record
	mu       sync.Mutex
	stopCh   chan struct{}
}

func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	limiter := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*record),
		stopCh:   make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// Allow records one attempt for identifier and reports whether it may proceed.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *Info) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rec, exists := rl.attempts[identifier]

	if !exists || now.Sub(rec.firstSeen) > rl.config.WindowSize && rec.bannedAt == nil {
		rl.attempts[identifier] = &record{count: 1, firstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	if rec.bannedAt != nil {
		if now.Sub(*rec.bannedAt) < rl.config.BanDuration {
			remaining := rl.config.BanDuration - now.Sub(*rec.bannedAt)
			return false, &Info{
				Allowed:    false,
				ResetTime:  rec.bannedAt.Add(rl.config.BanDuration),
				RetryAfter: remaining,
				Banned:     true,
			}
		}
		// Ban expired; start a fresh window.
		rl.attempts[identifier] = &record{count: 1, firstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	rec.count++
	if rec.count > rl.config.MaxAttempts {
		banTime := now
		rec.bannedAt = &banTime
		return false, &Info{
			Allowed:    false,
			ResetTime:  now.Add(rl.config.BanDuration),
			RetryAfter: rl.config.BanDuration,
			Banned:     true,
		}
	}

	return true, &Info{
		Allowed:   true,
		Remaining: rl.config.MaxAttempts - rec.count,
		ResetTime: rec.firstSeen.Add(rl.config.WindowSize),
	}
}

// RecordSuccess clears the attempt window after a successful authentication.
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, identifier)
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for identifier, rec := range rl.attempts {
		windowExpired := rec.bannedAt == nil && now.Sub(rec.firstSeen) > rl.config.WindowSize
		banExpired := rec.bannedAt != nil && now.Sub(*rec.bannedAt) > rl.config.BanDuration
		if windowExpired || banExpired {
			delete(rl.attempts, identifier)
		}
	}
}

// Close stops the cleanup goroutine
func (rl *MemoryRateLimiter) Close() {
	close(rl.stopCh)
}

// GetClientIP extracts the real client IP from request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
