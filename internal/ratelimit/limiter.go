// Package ratelimit enforces the client-side tokens-per-minute budget of
// the hosted LLM API.
//
// The API rejects callers that exceed a fixed token budget per minute, so
// every request acquires its estimated token cost here first. The Limiter
// tracks grants over a sliding window and makes callers wait until enough
// old grants have aged out, instead of letting the API return errors.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Budget of the hosted deployment: 6000 tokens per trailing minute.
const (
	DefaultCapacity = 6000
	DefaultWindow   = time.Minute
)

// ErrInvalidConfig reports a non-positive capacity or window at construction.
var ErrInvalidConfig = errors.New("invalid rate limiter configuration")

// ErrOversized reports a single request whose token estimate exceeds the
// whole window capacity. Waiting can never free enough budget for it, so
// the caller gets the error immediately instead of blocking forever.
var ErrOversized = errors.New("token estimate exceeds window capacity")

// grant is one admitted request inside the sliding window.
type grant struct {
	at     time.Time
	tokens int
}

// Limiter caps the total tokens granted within any trailing window at a
// fixed capacity. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	grants   []grant

	now func() time.Time // stubbed by tests
}

// New creates a Limiter admitting at most capacity tokens per window.
func New(capacity int, window time.Duration) (*Limiter, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, capacity)
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, window)
	}
	return &Limiter{capacity: capacity, window: window, now: time.Now}, nil
}

// Acquire blocks until tokens can be admitted without the trailing window
// total exceeding capacity, then records the grant and returns. A request
// larger than the whole capacity fails immediately with ErrOversized.
// A canceled context aborts a pending wait with ctx.Err().
func (l *Limiter) Acquire(ctx context.Context, tokens int) error {
	if tokens > l.capacity {
		return fmt.Errorf("%w: need %d tokens, capacity is %d", ErrOversized, tokens, l.capacity)
	}
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)
		consumed := 0
		for _, g := range l.grants {
			consumed += g.tokens
		}
		if consumed+tokens <= l.capacity {
			l.grants = append(l.grants, grant{at: now, tokens: tokens})
			l.mu.Unlock()
			return nil
		}
		// The oldest grant leaves the window first; wait for it, then
		// re-evaluate from scratch (several grants may need to expire).
		wait := l.grants[0].at.Add(l.window).Sub(now)
		l.mu.Unlock()

		if wait > 0 {
			log.Printf("[RateLimit] window full (%d/%d tokens), waiting %v",
				consumed, l.capacity, wait.Round(time.Millisecond))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// prune drops grants whose age has reached the window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.grants) && !l.grants[i].at.After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}

// Consumed returns the token total currently counted against the window.
func (l *Limiter) Consumed() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	total := 0
	for _, g := range l.grants {
		total += g.tokens
	}
	return total
}

// Capacity returns the window capacity the limiter was built with.
func (l *Limiter) Capacity() int {
	return l.capacity
}
