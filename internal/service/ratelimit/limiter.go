// Package ratelimit provides a per-key token bucket, used to throttle
// auth form submissions by client IP.
package ratelimit

import (
	"sync"
	"time"
)

// pruneAfter is how long an idle bucket survives before it is dropped.
const pruneAfter = 10 * time.Minute

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter tracks one token bucket per key.
type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket)}
}

// Allow consumes one token for key if available. A new key starts with a
// full bucket of the given capacity.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		if len(l.m) > 0 {
			l.prune(now)
		}
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// prune drops buckets idle long enough to have refilled completely.
// Caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	for key, b := range l.m {
		if now.Sub(b.last) > pruneAfter {
			delete(l.m, key)
		}
	}
}
