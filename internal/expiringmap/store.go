package expiringmap

import "time"

// entry stores a value together with the absolute instant after which it is no longer live.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// live reports whether the entry can still be observed at now.
// The boundary is inclusive: an entry read exactly at expiresAt is live.
func (e *entry[V]) live(now time.Time) bool {
	return !now.After(e.expiresAt)
}

// Store maps keys to values that expire a fixed TTL after insertion.
//
// Every operation takes the current instant explicitly, so the store never reads a clock
// itself. Expired entries are invisible to reads but keep occupying memory until they are
// overwritten, removed, or dropped by RemoveExpiredEntries.
//
// A Store is not safe for concurrent use.
type Store[K comparable, V any] struct {
	items map[K]*entry[V]
	ttl   time.Duration
}

// New creates an empty Store whose entries expire ttl after insertion.
// A negative ttl is treated as zero.
func New[K comparable, V any](ttl time.Duration) *Store[K, V] {
	if ttl < 0 {
		ttl = 0
	}
	return &Store[K, V]{
		items: make(map[K]*entry[V]),
		ttl:   ttl,
	}
}

// TTL returns the time-to-live applied to every inserted entry.
func (s *Store[K, V]) TTL() time.Duration {
	return s.ttl
}

// Insert stores value under key with an expiry of now+TTL, replacing any existing entry.
// It returns the replaced value only if that entry was still live at now.
func (s *Store[K, V]) Insert(key K, value V, now time.Time) (V, bool) {
	var previous V
	old, found := s.items[key]
	s.items[key] = &entry[V]{
		value:     value,
		expiresAt: now.Add(s.ttl),
	}
	if !found || !old.live(now) {
		return previous, false
	}
	return old.value, true
}

// Get returns the value stored under key if it is live at now.
// Expired entries are left in place.
func (s *Store[K, V]) Get(key K, now time.Time) (V, bool) {
	var zero V
	e, ok := s.items[key]
	if !ok || !e.live(now) {
		return zero, false
	}
	return e.value, true
}

// GetMut returns a pointer to the value stored under key if it is live at now.
// Writing through the pointer does not change the entry's expiry. The pointer stays
// valid until the entry is replaced, removed or swept.
func (s *Store[K, V]) GetMut(key K, now time.Time) (*V, bool) {
	e, ok := s.items[key]
	if !ok || !e.live(now) {
		return nil, false
	}
	return &e.value, true
}

// RemoveExpiredEntries drops every entry that is not live at now and returns how many
// were dropped.
func (s *Store[K, V]) RemoveExpiredEntries(now time.Time) int {
	removed := 0
	for k, e := range s.items {
		if !e.live(now) {
			delete(s.items, k)
			removed++
		}
	}
	return removed
}

// Remove deletes the entry for key whether it is live or not.
func (s *Store[K, V]) Remove(key K) {
	delete(s.items, key)
}

// Len returns the number of stored entries, expired ones included.
func (s *Store[K, V]) Len() int {
	return len(s.items)
}

// LiveLen returns the number of entries that are live at now.
func (s *Store[K, V]) LiveLen(now time.Time) int {
	count := 0
	for _, e := range s.items {
		if e.live(now) {
			count++
		}
	}
	return count
}

// Clear drops every entry.
func (s *Store[K, V]) Clear() {
	s.items = make(map[K]*entry[V])
}
