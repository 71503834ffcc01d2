package emulator

import (
	"time"
)

// Cadence schedules a periodic action against a wall clock, without
// blocking. Missed periods are dropped rather than replayed.
type Cadence struct {
	Period time.Duration

	next time.Time
}

// NewCadence creates a cadence firing rate times per second.
func NewCadence(rate int) *Cadence {
	if rate < 1 {
		rate = 1
	}
	return &Cadence{Period: time.Second / time.Duration(rate)}
}

// Reset starts the first period at now.
func (cad *Cadence) Reset(now time.Time) {
	cad.next = now.Add(cad.Period)
}

// Due returns true if a period has elapsed since the last time it returned
// true, and starts the next period.
func (cad *Cadence) Due(now time.Time) bool {
	if cad.next.IsZero() {
		cad.Reset(now)
		return false
	}

	if now.Before(cad.next) {
		return false
	}

	cad.next = cad.next.Add(cad.Period)
	if !now.Before(cad.next) {
		// Fell behind by more than a period.
		cad.next = now.Add(cad.Period)
	}

	return true
}
