package rotastream

import (
	"time"
)

// NopCallback does nothing. Embed it in a custom type to provide the
// missing methods for the Callback interface.
type NopCallback struct{}

// OnTrigger satisfies the Callback interface.
func (NopCallback) OnTrigger(Policy, time.Time) {}

// OnClose satisfies the Callback interface.
func (NopCallback) OnClose(Policy, time.Time, Sink) {}

// OnOpen satisfies the Callback interface.
func (NopCallback) OnOpen(Policy, time.Time, Sink) {}

// OnSuccess satisfies the Callback interface.
func (NopCallback) OnSuccess(Policy, time.Time, string) {}

// OnFailure satisfies the Callback interface.
func (NopCallback) OnFailure(Policy, time.Time, string, error) {}

// CallbackFuncs turns plain functions into a Callback. Nil members are skipped.
type CallbackFuncs struct {
	Trigger func(policy Policy, instant time.Time)
	Close   func(policy Policy, instant time.Time, sink Sink)
	Open    func(policy Policy, instant time.Time, sink Sink)
	Success func(policy Policy, instant time.Time, archive string)
	Failure func(policy Policy, instant time.Time, archive string, err error)
}

// OnTrigger satisfies the Callback interface.
func (c *CallbackFuncs) OnTrigger(policy Policy, instant time.Time) {
	if c.Trigger != nil {
		c.Trigger(policy, instant)
	}
}

// OnClose satisfies the Callback interface.
func (c *CallbackFuncs) OnClose(policy Policy, instant time.Time, sink Sink) {
	if c.Close != nil {
		c.Close(policy, instant, sink)
	}
}

// OnOpen satisfies the Callback interface.
func (c *CallbackFuncs) OnOpen(policy Policy, instant time.Time, sink Sink) {
	if c.Open != nil {
		c.Open(policy, instant, sink)
	}
}

// OnSuccess satisfies the Callback interface.
func (c *CallbackFuncs) OnSuccess(policy Policy, instant time.Time, archive string) {
	if c.Success != nil {
		c.Success(policy, instant, archive)
	}
}

// OnFailure satisfies the Callback interface.
func (c *CallbackFuncs) OnFailure(policy Policy, instant time.Time, archive string, err error) {
	if c.Failure != nil {
		c.Failure(policy, instant, archive, err)
	}
}

// callbacks fans a hook out to every configured Callback in order.
// A panicking callback is reported and the rest still run.
type callbacks struct {
	list   []Callback
	printf func(msg string, v ...any)
}

func (c *callbacks) each(hook string, policy Policy, call func(Callback)) {
	for _, callback := range c.list {
		c.safely(hook, policy, callback, call)
	}
}

func (c *callbacks) safely(hook string, policy Policy, callback Callback, call func(Callback)) {
	defer func() {
		if r := recover(); r != nil {
			c.printf("rotastream: %s callback %T panicked (policy %v): %v", hook, callback, policy, r)
		}
	}()

	call(callback)
}

func (c *callbacks) trigger(policy Policy, instant time.Time) {
	c.each("OnTrigger", policy, func(cb Callback) { cb.OnTrigger(policy, instant) })
}

func (c *callbacks) close(policy Policy, instant time.Time, sink Sink) {
	c.each("OnClose", policy, func(cb Callback) { cb.OnClose(policy, instant, sink) })
}

func (c *callbacks) open(policy Policy, instant time.Time, sink Sink) {
	c.each("OnOpen", policy, func(cb Callback) { cb.OnOpen(policy, instant, sink) })
}

func (c *callbacks) success(policy Policy, instant time.Time, archive string) {
	c.each("OnSuccess", policy, func(cb Callback) { cb.OnSuccess(policy, instant, archive) })
}

func (c *callbacks) failure(policy Policy, instant time.Time, archive string, err error) {
	c.each("OnFailure", policy, func(cb Callback) { cb.OnFailure(policy, instant, archive, err) })
}

// Our types must satify a Callback.
var (
	_ Callback = NopCallback{}
	_ Callback = (*CallbackFuncs)(nil)
)
