package llm

import (
	"context"
	"sync"
	"time"
)

// rpsLimiter is a token bucket refilled lazily on Acquire. A nil limiter
// never blocks.
type rpsLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	capacity float64
	tokens   float64
	last     time.Time
	closed   chan struct{}
	once     sync.Once
}

// newRPSLimiter allows rps calls per second with bursts of up to burst.
// rps <= 0 returns nil.
func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	interval := time.Duration(float64(time.Second) / rps)
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &rpsLimiter{
		interval: interval,
		capacity: float64(burst),
		tokens:   float64(burst),
		last:     time.Now(),
		closed:   make(chan struct{}),
	}
}

// reserve takes a token if one is available, otherwise it reports how long
// until the next one.
func (l *rpsLimiter) reserve(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens += float64(now.Sub(l.last)) / float64(l.interval)
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.last = now
	if l.tokens >= 1 {
		l.tokens--
		return 0
	}
	return time.Duration((1 - l.tokens) * float64(l.interval))
}

// Acquire blocks until a token is available, the context ends or the
// limiter is stopped.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		wait := l.reserve(time.Now())
		if wait == 0 {
			return nil
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-l.closed:
			t.Stop()
			return context.Canceled
		case <-t.C:
		}
	}
}

func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.closed) })
}
