package expiringmap

import "time"

// Clock supplies the current instant to a Map.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock via time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
