// internal/services/login_throttle.go
package services

import (
	"sync"
	"time"
)

type loginAttempts struct {
	failures    int
	lockedUntil time.Time
	lastSeen    time.Time
}

// LoginThrottle locks a key out after maxFailures consecutive failures.
type LoginThrottle struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempts
	maxFailures int
	lockout     time.Duration
	now         func() time.Time
}

func NewLoginThrottle(maxFailures int, lockout time.Duration) *LoginThrottle {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if lockout <= 0 {
		lockout = 15 * time.Minute
	}
	return &LoginThrottle{
		attempts:    make(map[string]*loginAttempts),
		maxFailures: maxFailures,
		lockout:     lockout,
		now:         time.Now,
	}
}

// Locked reports whether key is locked and for how much longer.
func (t *LoginThrottle) Locked(key string) (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.attempts[key]
	if !ok || a.lockedUntil.IsZero() {
		return false, 0
	}

	now := t.now()
	if !now.Before(a.lockedUntil) {
		delete(t.attempts, key)
		return false, 0
	}
	return true, a.lockedUntil.Sub(now)
}

// Fail records a failed attempt and reports whether key is now locked.
func (t *LoginThrottle) Fail(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	a, ok := t.attempts[key]
	if !ok {
		a = &loginAttempts{}
		t.attempts[key] = a
	}
	a.failures++
	a.lastSeen = now

	if a.failures >= t.maxFailures {
		a.lockedUntil = now.Add(t.lockout)
		return true
	}
	return false
}

func (t *LoginThrottle) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, key)
}

// prune drops entries idle for longer than the lockout window. Callers hold mu.
func (t *LoginThrottle) prune(now time.Time) {
	for key, a := range t.attempts {
		if now.Sub(a.lastSeen) > t.lockout && !now.Before(a.lockedUntil) {
			delete(t.attempts, key)
		}
	}
}
