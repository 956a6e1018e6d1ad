// Package cache provides a bounded in-process cache with per-entry time-to-live.
package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultTTL is the lifetime of an entry unless configured otherwise.
const DefaultTTL = time.Hour

// DefaultCapacity bounds the number of live entries.
const DefaultCapacity = 10000

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a key-value cache whose entries expire a fixed duration after insertion.
// Expiry is lazy: an expired entry is dropped when it is read, there is no background sweep.
// When full, the least recently used entry is evicted. Safe for concurrent use.
type TTL[K comparable, V any] struct {
	items *lru.Cache[K, entry[V]]
	ttl   time.Duration
	now   func() time.Time
}

// NewTTL creates a cache. Non-positive capacity or ttl fall back to the defaults.
func NewTTL[K comparable, V any](capacity int, ttl time.Duration) (*TTL[K, V], error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	items, err := lru.New[K, entry[V]](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &TTL[K, V]{items: items, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source (tests).
func (c *TTL[K, V]) WithClock(now func() time.Time) *TTL[K, V] {
	c.now = now
	return c
}

// TTL returns the configured entry lifetime.
func (c *TTL[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns a live value. An expired entry is removed and reported as missing.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	var zero V

	e, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.items.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry and restarting its lifetime.
func (c *TTL[K, V]) Set(key K, value V) {
	c.items.Add(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Expired reports whether key is missing or past its lifetime. It does not touch recency.
func (c *TTL[K, V]) Expired(key K) bool {
	e, ok := c.items.Peek(key)
	if !ok {
		return true
	}
	return !c.now().Before(e.expiresAt)
}

// Len returns the number of stored entries, including expired ones not yet read.
func (c *TTL[K, V]) Len() int {
	return c.items.Len()
}
