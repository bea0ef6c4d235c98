// Package clock provides the time source used by rotastream policies and
// schedulers. A Clock is a clockwork.Clock that also knows the calendar
// boundaries the time-based policies rotate on.
//
// Use clockwork.NewFakeClockAt with Wrap in tests to move time by hand:
//
//	fake := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC))
//	clk := clock.Wrap(fake, time.UTC)
//	fake.Advance(time.Second) // fires any timer created from clk.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock supplies the current instant, timers and the next calendar boundaries.
// Every boundary method returns an instant strictly after Now().
type Clock interface {
	clockwork.Clock
	// Midnight returns the next 00:00:00.
	Midnight() time.Time
	// NextHour returns the next top of the hour.
	NextHour() time.Time
	// SundayMidnight returns the next Sunday at 00:00:00.
	SundayMidnight() time.Time
	// Location is the time zone boundaries are computed in.
	Location() *time.Location
}

// Wall is the Clock implementation. It wraps any clockwork.Clock.
type Wall struct {
	clockwork.Clock
	loc *time.Location
}

// New returns a real clock in the local time zone.
func New() *Wall {
	return Wrap(clockwork.NewRealClock(), time.Local)
}

// UTC returns a real clock that computes boundaries in UTC.
func UTC() *Wall {
	return Wrap(clockwork.NewRealClock(), time.UTC)
}

// Wrap turns a clockwork.Clock into a Clock. A nil location means time.Local.
func Wrap(c clockwork.Clock, loc *time.Location) *Wall {
	if loc == nil {
		loc = time.Local
	}

	return &Wall{Clock: c, loc: loc}
}

// Now returns the current instant in the clock's location.
func (w *Wall) Now() time.Time {
	return w.Clock.Now().In(w.loc)
}

// Location returns the clock's time zone.
func (w *Wall) Location() *time.Location {
	return w.loc
}

// Midnight returns the start of tomorrow.
func (w *Wall) Midnight() time.Time {
	now := w.Now()

	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, w.loc)
}

// NextHour returns the start of the next hour.
func (w *Wall) NextHour() time.Time {
	now := w.Now()

	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, w.loc)
}

// SundayMidnight returns the start of the next Sunday. On a Sunday this is a week away.
func (w *Wall) SundayMidnight() time.Time {
	const week = 7

	now := w.Now()
	days := week - int(now.Weekday())

	return time.Date(now.Year(), now.Month(), now.Day()+days, 0, 0, 0, 0, w.loc)
}

// Our Wall must satisfy a Clock.
var _ Clock = (*Wall)(nil)
