// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a small TTL memoization cache wrapped around
// external-call boundaries. Keys are exact normalized requests; values carry
// an expiry timestamp. Only successful results belong in the cache — callers
// must never store errors.
package cache

import (
	"sync"
	"time"
)

// entry pairs a cached value with its expiry time.
type entry[V any] struct {
	value   V
	expires time.Time
}

// TTL is a process-wide memoization cache safe for concurrent use.
// A nil *TTL is valid and disables memoization: Get always misses and
// Set is a no-op.
type TTL[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// New returns a TTL cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration) *TTL[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock returns a TTL cache using now as its clock. Tests inject a
// fake clock to exercise expiry without sleeping.
func NewWithClock[V any](ttl time.Duration, now func() time.Time) *TTL[V] {
	return &TTL[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the live value for key. Expired entries are evicted and
// reported as misses.
func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh expiry.
func (c *TTL[V]) Set(key string, value V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Len returns the number of stored entries, expired or not. Intended for
// tests inspecting cache behavior.
func (c *TTL[V]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
