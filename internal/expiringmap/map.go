package expiringmap

import "time"

// Map is a Store that reads the current instant from a Clock on every call,
// so callers never pass timestamps. Like Store, it is not safe for concurrent use.
type Map[K comparable, V any] struct {
	store *Store[K, V]
	clock Clock
}

// Option configures a Map.
type Option func(*mapOptions)

type mapOptions struct {
	clock Clock
}

// WithClock replaces the system clock. A nil clock is ignored.
func WithClock(c Clock) Option {
	return func(o *mapOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// NewMap creates an empty Map whose entries expire ttl after insertion.
func NewMap[K comparable, V any](ttl time.Duration, opts ...Option) *Map[K, V] {
	o := mapOptions{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Map[K, V]{
		store: New[K, V](ttl),
		clock: o.clock,
	}
}

func (m *Map[K, V]) TTL() time.Duration { return m.store.TTL() }

// Insert stores value under key and returns the previous value if it was still live.
func (m *Map[K, V]) Insert(key K, value V) (V, bool) {
	return m.store.Insert(key, value, m.clock.Now())
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.store.Get(key, m.clock.Now())
}

func (m *Map[K, V]) GetMut(key K) (*V, bool) {
	return m.store.GetMut(key, m.clock.Now())
}

func (m *Map[K, V]) RemoveExpiredEntries() int {
	return m.store.RemoveExpiredEntries(m.clock.Now())
}

func (m *Map[K, V]) Remove(key K) {
	m.store.Remove(key)
}

// Len counts stored entries, expired ones included.
func (m *Map[K, V]) Len() int { return m.store.Len() }

// LiveLen counts entries that are live right now.
func (m *Map[K, V]) LiveLen() int {
	return m.store.LiveLen(m.clock.Now())
}

func (m *Map[K, V]) Clear() { m.store.Clear() }
