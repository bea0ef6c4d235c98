package policy

import (
	"errors"
	"fmt"
	"time"

	"golift.io/rotastream"
	"golift.io/rotastream/clock"
)

// ErrInvalidInterval is returned by an Interval that is not positive.
var ErrInvalidInterval = errors.New("rotation interval must be positive")

// Interval rotates a fixed duration after each scheduling cycle starts.
type Interval struct {
	Every time.Duration
}

// Every returns a policy that rotates every duration.
func Every(every time.Duration) *Interval {
	return &Interval{Every: every}
}

// TriggerTime satisfies the rotastream.TimePolicy interface.
func (i *Interval) TriggerTime(clk clock.Clock) (time.Time, error) {
	if i.Every <= 0 {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInterval, i.Every)
	}

	return clk.Now().Add(i.Every), nil
}

func (i *Interval) String() string {
	return "every " + i.Every.String()
}

// Our interface must satify a rotastream.TimePolicy.
var _ rotastream.TimePolicy = (*Interval)(nil)
