package rotastream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golift.io/rotastream/clock"
)

const (
	// minRescheduleDelay is how long a scheduler waits when its policy returns
	// a past trigger twice in a row. The first past trigger fires immediately.
	minRescheduleDelay = 100 * time.Millisecond
	// policyRetryInterval is how long to wait before asking a failed policy again.
	policyRetryInterval = 10 * time.Second
)

// schedState is where a scheduler is in its life.
// Idle -> Scheduled -> Firing -> Scheduled, and any state -> Cancelled.
type schedState int32

const (
	stateIdle schedState = iota
	stateScheduled
	stateFiring
	stateCancelled
)

func (s schedState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateScheduled:
		return "scheduled"
	case stateFiring:
		return "firing"
	case stateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// scheduler runs one time-based policy in its own go routine.
type scheduler struct {
	policy TimePolicy
	clock  clock.Clock
	fire   func(policy Policy, instant time.Time)
	fail   func(policy Policy, instant time.Time, err error)
	ctx    context.Context //nolint:containedctx
	stop   context.CancelFunc
	done   chan struct{} // closed when run() returns.

	mu        sync.Mutex
	state     schedState
	cancelled bool // cancel was requested.
}

func newScheduler(
	policy TimePolicy,
	clk clock.Clock,
	fire func(Policy, time.Time),
	fail func(Policy, time.Time, error),
) *scheduler {
	ctx, stop := context.WithCancel(context.Background())

	return &scheduler{
		policy: policy,
		clock:  clk,
		fire:   fire,
		fail:   fail,
		ctx:    ctx,
		stop:   stop,
		done:   make(chan struct{}),
	}
}

// start moves an idle scheduler to Scheduled and begins waiting for its first trigger.
func (s *scheduler) start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateIdle {
		return
	}

	s.state = stateScheduled

	go s.run()
}

// cancel stops the scheduler from any go routine. A suspended scheduler
// stops without firing; a firing one finishes its rotation, then stops.
// When cancel returns no trigger will be delivered. Safe to call more than once.
// Must not be called from the scheduler's own fire function.
func (s *scheduler) cancel() {
	s.mu.Lock()
	started := s.state != stateIdle
	s.cancelled = true

	if s.state != stateFiring {
		s.state = stateCancelled
	}

	s.mu.Unlock()

	s.stop()

	if started {
		<-s.done
	}
}

// current returns the state.
func (s *scheduler) current() schedState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// transition moves from one state to another. It fails once cancel was requested.
func (s *scheduler) transition(from, to schedState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled || s.state != from {
		return false
	}

	s.state = to

	return true
}

func (s *scheduler) run() {
	defer func() {
		s.mu.Lock()
		s.state = stateCancelled
		s.mu.Unlock()
		close(s.done)
	}()

	immediate := false // the previous cycle fired without waiting.

	for {
		now := s.clock.Now()

		instant, err := s.policy.TriggerTime(s.clock)
		if errors.Is(err, ErrNoTrigger) {
			return
		} else if err != nil {
			s.fail(s.policy, now, fmt.Errorf("computing trigger time: %w", err))

			if !s.wait(policyRetryInterval) {
				return
			}

			continue
		}

		delay := instant.Sub(now)
		past := delay <= 0

		if past && immediate {
			delay = minRescheduleDelay
		}

		immediate = past

		if delay > 0 && !s.wait(delay) {
			return
		}

		if !s.transition(stateScheduled, stateFiring) {
			return
		}

		s.fire(s.policy, instant)

		if !s.transition(stateFiring, stateScheduled) {
			return
		}
	}
}

// wait suspends until the delay passes (true) or the scheduler is cancelled (false).
func (s *scheduler) wait(delay time.Duration) bool {
	timer := s.clock.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-s.ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

// fire is a scheduler's trigger: a full rotation.
func (s *Stream) fire(policy Policy, instant time.Time) {
	s.rotate(policy, instant)
}

// policyFailed reports a policy that could not compute its next trigger.
func (s *Stream) policyFailed(policy Policy, instant time.Time, err error) {
	s.config.Printf("rotastream: policy %v: %v", policy, err)
	s.callbacks.failure(policy, instant, "", err)
}
