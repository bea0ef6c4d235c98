package policy

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"golift.io/rotastream"
	"golift.io/rotastream/clock"
)

// cronParser accepts standard 5 field expressions, an optional seconds
// field, and descriptors like @daily or @every 1h.
var cronParser = cron.NewParser( //nolint:gochecknoglobals
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Schedule rotates on a cron expression.
type Schedule struct {
	spec     string
	schedule cron.Schedule
}

// Cron parses a cron expression into a rotation policy.
// Expressions are evaluated in the clock's time zone unless they start with CRON_TZ=.
func Cron(spec string) (*Schedule, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}

	return &Schedule{spec: spec, schedule: schedule}, nil
}

// TriggerTime satisfies the rotastream.TimePolicy interface.
// A schedule with no future activation returns rotastream.ErrNoTrigger.
func (s *Schedule) TriggerTime(clk clock.Clock) (time.Time, error) {
	next := s.schedule.Next(clk.Now())
	if next.IsZero() {
		return next, fmt.Errorf("cron %q: %w", s.spec, rotastream.ErrNoTrigger)
	}

	return next, nil
}

func (s *Schedule) String() string {
	return "cron(" + s.spec + ")"
}

// Our interface must satify a rotastream.TimePolicy.
var _ rotastream.TimePolicy = (*Schedule)(nil)
