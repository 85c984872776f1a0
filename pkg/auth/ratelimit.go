package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter checks whether a request should be allowed based on the
// identity's service tier.
type RateLimiter interface {
	Allow(ctx context.Context, identity *Identity) error
}

// TierConfig holds rate limit settings for one service tier.
type TierConfig struct {
	RequestsPerMinute int
}

// InProcessLimiter counts requests per subject and tier over a fixed
// one-minute window, entirely in memory. Suited for a single-process
// deployment; counts are lost on restart.
type InProcessLimiter struct {
	tiers      map[string]TierConfig
	defaultRPM int

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	started time.Time
}

// NewInProcessLimiter creates a limiter. Unknown tiers fall back to
// defaultRPM; a limit of zero or below means unlimited.
func NewInProcessLimiter(tiers map[string]TierConfig, defaultRPM int) *InProcessLimiter {
	return &InProcessLimiter{
		tiers:      tiers,
		defaultRPM: defaultRPM,
		windows:    make(map[string]*window),
	}
}

// Allow returns ErrTooManyRequests when the subject exceeded its tier's
// budget within the current window.
func (l *InProcessLimiter) Allow(_ context.Context, identity *Identity) error {
	tier := identity.ServiceTier
	if tier == "" {
		tier = "default"
	}

	rpm := l.defaultRPM
	if tc, ok := l.tiers[tier]; ok {
		rpm = tc.RequestsPerMinute
	}
	if rpm <= 0 {
		return nil
	}

	key := identity.Subject + ":" + tier
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.started) >= time.Minute {
		l.pruneLocked(now)
		l.windows[key] = &window{count: 1, started: now}
		return nil
	}

	w.count++
	if w.count > rpm {
		return ErrTooManyRequests
	}
	return nil
}

// pruneLocked drops windows that expired, keeping the map bounded by the
// number of subjects active in the last minute. Caller holds l.mu.
func (l *InProcessLimiter) pruneLocked(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.started) >= time.Minute {
			delete(l.windows, key)
		}
	}
}
