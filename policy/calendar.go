package policy

import (
	"time"

	"golift.io/rotastream"
	"golift.io/rotastream/clock"
)

// Calendar rotates on a boundary computed from the clock, like the next midnight.
type Calendar struct {
	name     string
	boundary func(clk clock.Clock) time.Time
}

// NewCalendar returns a policy that rotates at whatever boundary returns.
// The boundary must be strictly after clk.Now().
func NewCalendar(name string, boundary func(clk clock.Clock) time.Time) *Calendar {
	return &Calendar{name: name, boundary: boundary}
}

// Hourly rotates at the top of every hour.
func Hourly() *Calendar {
	return NewCalendar("hourly", clock.Clock.NextHour)
}

// Daily rotates at midnight.
func Daily() *Calendar {
	return NewCalendar("daily", clock.Clock.Midnight)
}

// Weekly rotates at midnight between Saturday and Sunday.
func Weekly() *Calendar {
	return NewCalendar("weekly", clock.Clock.SundayMidnight)
}

// TriggerTime satisfies the rotastream.TimePolicy interface.
func (c *Calendar) TriggerTime(clk clock.Clock) (time.Time, error) {
	return c.boundary(clk), nil
}

func (c *Calendar) String() string {
	return c.name
}

// Our interface must satify a rotastream.TimePolicy.
var _ rotastream.TimePolicy = (*Calendar)(nil)
