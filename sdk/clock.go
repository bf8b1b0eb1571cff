package sdk

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Clock supplies the current time. The core never waits on it; it is only sampled.
// clock.Clock and *clock.Mock both implement it.
type Clock interface {
	Now() time.Time
}

// NewManualClock returns a mock clock stopped at start. It only moves through Set and Add, which
// lets tests and simulations fast forward through the timelock delay.
func NewManualClock(start time.Time) *clock.Mock {
	m := clock.NewMock()
	m.Set(start)

	return m
}
