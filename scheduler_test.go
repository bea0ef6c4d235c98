package rotastream

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/rotastream/clock"
)

var errPolicy = errors.New("policy broke")

// stepPolicy triggers a fixed delay after now, or fails with err.
type stepPolicy struct {
	delay time.Duration
	err   error
	calls atomic.Int32
}

func (p *stepPolicy) String() string { return "step" }

func (p *stepPolicy) TriggerTime(clk clock.Clock) (time.Time, error) {
	p.calls.Add(1)

	if p.err != nil {
		return time.Time{}, p.err
	}

	return clk.Now().Add(p.delay), nil
}

func blockUntil(t *testing.T, fake interface {
	BlockUntilContext(ctx context.Context, n int) error
}, waiters int,
) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, fake.BlockUntilContext(ctx, waiters), "scheduler never armed its timer")
}

func TestSchedulerCancelWhileScheduled(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	fake := clockwork.NewFakeClock()
	fired := atomic.Int32{}
	sched := newScheduler(&stepPolicy{delay: time.Minute}, clock.Wrap(fake, time.UTC),
		func(Policy, time.Time) { fired.Add(1) }, func(Policy, time.Time, error) {})

	assert.Equal(stateIdle, sched.current())
	sched.start()
	assert.Equal(stateScheduled, sched.current())
	blockUntil(t, fake, 1)

	sched.cancel()
	assert.Equal(stateCancelled, sched.current())

	fake.Advance(time.Hour)
	assert.Zero(fired.Load(), "a cancelled scheduler must never fire")

	sched.cancel() // idempotent.
	sched.start()  // stays cancelled.
	assert.Equal(stateCancelled, sched.current())
}

func TestSchedulerCancelBeforeStart(t *testing.T) {
	t.Parallel()

	sched := newScheduler(&stepPolicy{delay: time.Minute}, clock.New(),
		func(Policy, time.Time) { t.Error("must not fire") }, func(Policy, time.Time, error) {})
	sched.cancel() // must not block waiting for a go routine that never ran.
	sched.start()
	assert.Equal(t, stateCancelled, sched.current())
}

func TestSchedulerCancelWhileFiring(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	var (
		fake     = clockwork.NewFakeClock()
		entered  = make(chan struct{})
		release  = make(chan struct{})
		returned = make(chan struct{})
		fired    atomic.Int32
	)

	sched := newScheduler(&stepPolicy{delay: time.Minute}, clock.Wrap(fake, time.UTC),
		func(Policy, time.Time) {
			fired.Add(1)
			close(entered)
			<-release
		}, func(Policy, time.Time, error) {})

	sched.start()
	blockUntil(t, fake, 1)
	fake.Advance(time.Minute)
	<-entered
	assert.Equal(stateFiring, sched.current())

	go func() {
		sched.cancel()
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("cancel returned before the in-flight rotation finished")
	case <-time.After(50 * time.Millisecond):
	}

	assert.Equal(stateFiring, sched.current(), "the rotation in flight keeps running")
	close(release)
	<-returned

	assert.Equal(stateCancelled, sched.current())
	assert.EqualValues(1, fired.Load())
}

func TestSchedulerReschedules(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	fake := clockwork.NewFakeClock()
	fired := make(chan time.Time, 10)
	policy := &stepPolicy{delay: time.Minute}
	sched := newScheduler(policy, clock.Wrap(fake, time.UTC),
		func(_ Policy, when time.Time) { fired <- when }, func(Policy, time.Time, error) {})
	start := fake.Now()

	sched.start()
	defer sched.cancel()

	for idx := 1; idx <= 3; idx++ {
		blockUntil(t, fake, 1)
		fake.Advance(time.Minute)
		assert.WithinDuration(start.Add(time.Duration(idx)*time.Minute), <-fired, 0)
	}

	blockUntil(t, fake, 1)
	assert.EqualValues(4, policy.calls.Load(), "the trigger is recomputed every cycle")
	assert.Equal(stateScheduled, sched.current())
}

func TestSchedulerPastTrigger(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	fake := clockwork.NewFakeClock()
	fired := make(chan struct{}, 10)
	sched := newScheduler(&stepPolicy{delay: -time.Second}, clock.Wrap(fake, time.UTC),
		func(Policy, time.Time) { fired <- struct{}{} }, func(Policy, time.Time, error) {})

	sched.start()
	defer sched.cancel()

	// The first past trigger fires without a timer.
	<-fired
	// The next one waits for the floor instead of spinning.
	blockUntil(t, fake, 1)
	assert.Empty(fired)
	fake.Advance(minRescheduleDelay)
	<-fired
}

func TestSchedulerPolicyError(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	fake := clockwork.NewFakeClock()
	failures := make(chan error, 10)
	policy := &stepPolicy{err: errPolicy}
	sched := newScheduler(policy, clock.Wrap(fake, time.UTC),
		func(Policy, time.Time) { t.Error("a failing policy must not fire") },
		func(_ Policy, _ time.Time, err error) { failures <- err })

	sched.start()
	defer sched.cancel()

	assert.ErrorIs(<-failures, errPolicy)
	blockUntil(t, fake, 1)
	fake.Advance(policyRetryInterval)
	assert.ErrorIs(<-failures, errPolicy, "the policy is retried after the fallback delay")
	assert.Equal(stateScheduled, sched.current())
}

func TestSchedulerNoTrigger(t *testing.T) {
	t.Parallel()

	sched := newScheduler(&stepPolicy{err: ErrNoTrigger}, clock.New(),
		func(Policy, time.Time) { t.Error("must not fire") },
		func(Policy, time.Time, error) { t.Error("ErrNoTrigger is not a failure") })

	sched.start()
	<-sched.done
	assert.Equal(t, stateCancelled, sched.current())
	sched.cancel()
}
