package rotastream

//go:generate mockgen -destination=mocks/callback.go -package=mocks golift.io/rotastream Callback

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golift.io/rotastream/clock"
)

// ErrNoTrigger is returned by a TimePolicy that will never fire.
// Its scheduler stops without reporting a failure.
var ErrNoTrigger = errors.New("policy has no time trigger")

// Policy is anything that can trigger a rotation. Policies are passed to
// every Callback so they can tell what caused a rotation.
type Policy interface {
	fmt.Stringer
}

// TimePolicy triggers rotations at instants it computes from a clock.
// TriggerTime is called before every scheduling cycle and must not cache
// results, since calendar boundaries move.
type TimePolicy interface {
	Policy
	TriggerTime(clk clock.Clock) (time.Time, error)
}

// Evaluation is the point in a write where size policies are consulted.
type Evaluation uint8

// BeforeWrite policies see the incoming byte count before it is written and
// can move the write into a fresh file. AfterWrite policies see it after the
// bytes land, so the archive includes the write that crossed the threshold.
const (
	BeforeWrite Evaluation = iota
	AfterWrite
)

func (e Evaluation) String() string {
	if e == BeforeWrite {
		return "before write"
	}

	return "after write"
}

// SizePolicy triggers rotations from write sizes. The stream calls it at both
// evaluation points with the active file's size (written) and the write size
// (incoming); a policy only answers true at the points it cares about.
type SizePolicy interface {
	Policy
	ShouldRotate(at Evaluation, written, incoming int64) bool
}

// Sink is the byte target the stream writes into.
type Sink interface {
	io.WriteCloser
	Flush() error
}

// Formatter turns an archive pattern into a file path.
// It must be deterministic for identical inputs.
type Formatter interface {
	Format(pattern string, instant time.Time, seq int) (string, error)
}

// Callback is notified at each step of a rotation, in this order:
// OnTrigger, OnClose, OnOpen, then OnSuccess or OnFailure.
// OnTrigger, OnClose and OnOpen are called while writes are blocked; do not write
// to the same stream from them, and never call Close from any callback.
// A panic in a callback is recovered and reported, it never aborts a rotation.
// Rotating an empty file calls nothing.
type Callback interface {
	// OnTrigger is called as soon as a policy fires, before any file is touched.
	OnTrigger(policy Policy, instant time.Time)
	// OnClose is called after the old sink is flushed and closed.
	OnClose(policy Policy, instant time.Time, sink Sink)
	// OnOpen is called after the new sink is opened, before writes reach it.
	OnOpen(policy Policy, instant time.Time, sink Sink)
	// OnSuccess is called with the archive path once the new sink is live.
	OnSuccess(policy Policy, instant time.Time, archive string)
	// OnFailure is called instead of OnSuccess when any rotation step fails.
	// The archive may be empty if the failure happened before it was named.
	OnFailure(policy Policy, instant time.Time, archive string, err error)
}

// Manual is the policy passed to callbacks for rotations requested with Stream.Rotate.
var Manual Policy = manual{} //nolint:gochecknoglobals

type manual struct{}

func (manual) String() string { return "manual" }
