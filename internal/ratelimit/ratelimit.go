// Package ratelimit provides per-client fixed-window admission control.
// State is process-local: this is a best-effort abuse guard, not a
// billing control, so nothing survives a restart.
package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed    bool
	Remaining  int           // Admissions left in the current window.
	RetryAfter time.Duration // Time until the window resets; zero when allowed.
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter admits up to limit requests per client identifier per window.
type Limiter struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	limit   int
	window  time.Duration
	maxKeys int
	clients map[string]*window
}

// New creates a Limiter. A nil clock falls back to real time.
func New(limit int, windowLen time.Duration, clock clockwork.Clock) *Limiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	const defaultMaxKeys = 10000

	return &Limiter{
		clock:   clock,
		limit:   limit,
		window:  windowLen,
		maxKeys: defaultMaxKeys,
		clients: make(map[string]*window),
	}
}

// Admit records one request from clientID and reports whether it is
// within quota. The first request from a client, or the first after the
// window elapsed, opens a fresh window.
func (l *Limiter) Admit(clientID string) Decision {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.clients[clientID]
	if !ok || !now.Before(win.resetAt) {
		if len(l.clients) >= l.maxKeys {
			l.sweep(now)
		}
		win = &window{count: 0, resetAt: now.Add(l.window)}
		l.clients[clientID] = win
	}

	if win.count < l.limit {
		win.count++
		return Decision{Allowed: true, Remaining: l.limit - win.count}
	}

	return Decision{Allowed: false, RetryAfter: win.resetAt.Sub(now)}
}

// sweep drops expired windows. Called with the lock held when the map
// hits capacity.
func (l *Limiter) sweep(now time.Time) {
	for id, win := range l.clients {
		if !now.Before(win.resetAt) {
			delete(l.clients, id)
		}
	}
}
