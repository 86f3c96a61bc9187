package cache

import (
	"context"
	"log"
	"time"
)

// Purger is anything that can drop its expired entries on demand.
type Purger interface {
	PurgeExpired() int
}

// Sweeper calls PurgeExpired on a fixed interval. It belongs to the owner of a cache;
// the cache itself never sweeps on its own.
type Sweeper struct {
	target   Purger
	interval time.Duration

	// OnSweep, if set, is called after every sweep that removed at least one entry.
	OnSweep func(removed int)
}

// NewSweeper returns a Sweeper for target. An interval <= 0 disables sweeping.
func NewSweeper(target Purger, interval time.Duration) *Sweeper {
	return &Sweeper{target: target, interval: interval}
}

// SweepOnce purges target immediately and returns the number of removed entries.
func (s *Sweeper) SweepOnce() int {
	removed := s.target.PurgeExpired()
	if removed > 0 {
		log.Printf("cache: swept %d expired entries", removed)
		if s.OnSweep != nil {
			s.OnSweep(removed)
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled. It returns immediately when
// sweeping is disabled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.SweepOnce()
		}
	}
}
