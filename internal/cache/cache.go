package cache

import "time"

// Cache defines the key-value API the service uses on top of an expiring map.
// Every entry shares the same TTL, fixed at construction.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value, replacing any existing entry. It returns the previous
	// value only when that entry was still live.
	Set(key K, value V) (V, bool)

	// Update runs fn against the live value in place. The entry's expiry is unchanged.
	// It reports false, without calling fn, when the key is absent or expired.
	Update(key K, fn func(*V)) bool

	// Delete removes a key whether it is live or expired.
	Delete(key K)

	// Has reports whether a key is present and not expired.
	Has(key K) bool

	// Len returns the number of non-expired items currently stored.
	Len() int

	// Stored returns the number of items held in memory, expired ones included.
	Stored() int

	// Clear removes all entries.
	Clear()

	// PurgeExpired removes expired entries and returns how many were removed.
	PurgeExpired() int

	// TTL returns the time-to-live applied to every entry.
	TTL() time.Duration
}
