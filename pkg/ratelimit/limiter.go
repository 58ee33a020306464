package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer pauses between outbound requests
type Pacer interface {
	// Pause blocks for the politeness delay or until ctx is done.
	Pause(ctx context.Context) error
}

// FixedDelay pauses for the same duration every time
type FixedDelay struct {
	Delay time.Duration
}

// NewFixedDelay creates a pacer with a constant delay. A zero or negative
// delay returns immediately.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{Delay: delay}
}

// Pause sleeps for the configured delay
func (f *FixedDelay) Pause(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoDelay never pauses
var NoDelay Pacer = noDelay{}

type noDelay struct{}

// Pause returns immediately
func (noDelay) Pause(context.Context) error { return nil }

// CountingPacer records how often Pause was called without sleeping
type CountingPacer struct {
	mu    sync.Mutex
	count int
}

// Pause increments the counter and returns immediately
func (c *CountingPacer) Pause(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

// Count returns the number of pauses so far
func (c *CountingPacer) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// NewRequestLimiter returns a limiter that allows at most requestsPerMinute
// requests, without bursts. It returns nil when requestsPerMinute <= 0,
// meaning no ceiling.
func NewRequestLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
}
