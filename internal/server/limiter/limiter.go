// Package limiter tracks failed login attempts per client key and locks the
// key out once too many failures happen inside a window.
package limiter

import (
	"sync"
	"time"
)

const (
	DefaultWindow      = 15 * time.Minute
	DefaultLockout     = 10 * time.Minute
	DefaultMaxAttempts = 5
)

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// LoginLimiter is safe for concurrent use.
type LoginLimiter struct {
	window      time.Duration
	lockout     time.Duration
	maxAttempts int

	mu       sync.Mutex
	attempts map[string]*attemptState
	now      func() time.Time
}

func New(maxAttempts int, window, lockout time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &LoginLimiter{
		window:      window,
		lockout:     lockout,
		maxAttempts: maxAttempts,
		attempts:    make(map[string]*attemptState),
		now:         time.Now,
	}
}

func NewDefault() *LoginLimiter {
	return New(DefaultMaxAttempts, DefaultWindow, DefaultLockout)
}

// RetryAfter returns how long key stays locked, or zero when it is not locked.
func (l *LoginLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.attempts[key]
	if !ok {
		return 0
	}
	now := l.now()
	if !now.Before(state.lockedUntil) {
		if !state.lockedUntil.IsZero() {
			delete(l.attempts, key)
		}
		return 0
	}
	return state.lockedUntil.Sub(now)
}

// RecordFailure counts a failed attempt and returns how many remain before lockout.
func (l *LoginLimiter) RecordFailure(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.attempts[key]
	if !ok || now.Sub(state.firstAttempt) > l.window {
		state = &attemptState{firstAttempt: now}
		l.attempts[key] = state
	}

	state.count++
	if state.count >= l.maxAttempts {
		state.lockedUntil = now.Add(l.lockout)
		state.count = l.maxAttempts
	}

	return max(l.maxAttempts-state.count, 0)
}

func (l *LoginLimiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, key)
}
