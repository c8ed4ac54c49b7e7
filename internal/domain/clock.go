package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package time source used for activity evaluation and
// GeneratedAt stamps. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the package time source. Pass nil to restore real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current instant from the package clock. Exposed so the
// pipeline evaluates every group of a cycle against the same "now".
func Now() time.Time {
	return clock.Now()
}
