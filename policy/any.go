package policy

import (
	"errors"
	"strings"
	"time"

	"golift.io/rotastream"
	"golift.io/rotastream/clock"
)

// Composite rotates when any of its members would.
// Its trigger time is the earliest trigger of its time-based members, and it
// answers size checks with its size-based members.
type Composite struct {
	policies []rotastream.Policy
}

// Any combines policies into one.
func Any(policies ...rotastream.Policy) *Composite {
	return &Composite{policies: policies}
}

// Policies returns the members.
func (c *Composite) Policies() []rotastream.Policy {
	return c.policies
}

// TriggerTime satisfies the rotastream.TimePolicy interface. A failing member
// is skipped while another member still has a trigger. With no time-based
// members this returns rotastream.ErrNoTrigger.
func (c *Composite) TriggerTime(clk clock.Clock) (time.Time, error) {
	var (
		earliest time.Time
		errs     []error
	)

	for _, policy := range c.policies {
		timer, ok := policy.(rotastream.TimePolicy)
		if !ok {
			continue
		}

		instant, err := timer.TriggerTime(clk)
		if errors.Is(err, rotastream.ErrNoTrigger) {
			continue
		} else if err != nil {
			errs = append(errs, err)
			continue
		}

		if earliest.IsZero() || instant.Before(earliest) {
			earliest = instant
		}
	}

	switch {
	case !earliest.IsZero():
		return earliest, nil
	case len(errs) > 0:
		return earliest, errors.Join(errs...)
	default:
		return earliest, rotastream.ErrNoTrigger
	}
}

// ShouldRotate satisfies the rotastream.SizePolicy interface.
func (c *Composite) ShouldRotate(at rotastream.Evaluation, written, incoming int64) bool {
	for _, policy := range c.policies {
		if sizer, ok := policy.(rotastream.SizePolicy); ok && sizer.ShouldRotate(at, written, incoming) {
			return true
		}
	}

	return false
}

func (c *Composite) String() string {
	names := make([]string, len(c.policies))
	for idx, policy := range c.policies {
		names[idx] = policy.String()
	}

	return "any(" + strings.Join(names, ", ") + ")"
}

// Our interface must satify both policy types.
var (
	_ rotastream.TimePolicy = (*Composite)(nil)
	_ rotastream.SizePolicy = (*Composite)(nil)
)
