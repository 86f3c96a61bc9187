// Package expiringmap provides a generic key-value map whose entries become absent a
// fixed time-to-live after they were inserted.
//
// Store is the clock-free core: each call receives the current instant and an entry is
// live while now <= insertion+TTL. Map wraps a Store and supplies the instant from a Clock.
// Nothing is evicted in the background; expired entries are only reclaimed when the owner
// calls RemoveExpiredEntries, Remove, or overwrites the key.
package expiringmap
