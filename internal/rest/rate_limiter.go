package rest

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiting outbound exchange requests
type RateLimiter struct {
	rate  float64 // tokens per second
	burst int

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimiter creates a token bucket starting at full capacity
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:   requestsPerSecond,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// TryAcquire takes a token without blocking
func (rl *RateLimiter) TryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is cancelled
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if rl.TryAcquire() {
			return nil
		}

		if rl.rate == 0 {
			return context.DeadlineExceeded
		}

		wait := time.Duration((1.0 / rl.rate) * float64(time.Second))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// refill adds tokens for elapsed time. Caller holds the mutex.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.last).Seconds()

	rl.tokens += elapsed * rl.rate
	if rl.tokens > float64(rl.burst) {
		rl.tokens = float64(rl.burst)
	}
	rl.last = now
}
