package provider

import (
	"sync"
	"time"
)

// windowLimiter counts requests in fixed windows. The window resets only
// when strictly more than the window duration has elapsed since it opened;
// check and increment happen under one lock so concurrent callers can never
// exceed the limit.
type windowLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         func() time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &windowLimiter{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// allow reports whether one more request fits in the current window, and
// records it if so. A non-positive limit disables limiting.
func (l *windowLimiter) allow() bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	t := l.now()
	if l.windowStart.IsZero() || t.Sub(l.windowStart) > l.window {
		l.windowStart = t
		l.count = 0
	}

	if l.count >= l.limit {
		return false
	}
	l.count++
	return true
}

// snapshot returns the current window usage for status reporting.
func (l *windowLimiter) snapshot() (count, limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.windowStart.IsZero() && l.now().Sub(l.windowStart) > l.window {
		return 0, l.limit
	}
	return l.count, l.limit
}
