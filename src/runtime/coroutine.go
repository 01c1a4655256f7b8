package runtime

import (
	"context"
	"fmt"
)

type threadStatus string

const (
	threadSuspended threadStatus = "suspended"
	threadRunning   threadStatus = "running"
	threadNormal    threadStatus = "normal"
	threadDead      threadStatus = "dead"
)

// Coroutine is a cooperatively-scheduled thread of execution, driven
// by a dedicated goroutine handing control back and forth over
// channels instead of replaying a single saved VM frame — this core's
// per-activation register files let an arbitrarily deep call chain
// block on yield without the caller threading a resume point through
// every intervening CALL, so the goroutine's own stack carries that
// depth for free.
type Coroutine struct {
	ec      *ExecutionContext
	fn      Value
	status  threadStatus
	started bool

	resumeCh chan []Value
	yieldCh  chan yieldMsg
	cancel   context.CancelFunc
}

type yieldMsg struct {
	vals []Value
	err  error
	done bool
}

// CoroutineController tracks the coroutine currently running on this
// execution context, the way coroutine.yield needs to find "whoever
// called me" without a parameter.
type CoroutineController struct {
	current *Coroutine
}

// NewCoroutine creates a suspended coroutine that will run fn once resumed.
func (ec *ExecutionContext) NewCoroutine(fn Value) (*Coroutine, error) {
	switch fn.(type) {
	case *Closure, *GoFunc:
	default:
		return nil, fmt.Errorf("cannot create a coroutine from a %s", typeName(fn))
	}
	childCtx, cancel := context.WithCancel(ec.Ctx)
	child := &ExecutionContext{
		Ctx:       childCtx,
		Globals:   ec.Globals,
		Coroutine: &CoroutineController{},
	}
	co := &Coroutine{
		ec:       child,
		fn:       fn,
		status:   threadSuspended,
		resumeCh: make(chan []Value),
		yieldCh:  make(chan yieldMsg),
		cancel:   cancel,
	}
	child.Coroutine.current = co
	return co, nil
}

func (c *Coroutine) String() string { return fmt.Sprintf("thread: %p", c) }

// Status reports the coroutine's current lifecycle state.
func (c *Coroutine) Status() string { return string(c.status) }

// Resume hands args to the coroutine and blocks until it yields,
// returns, or errors.
func (c *Coroutine) Resume(args []Value) ([]Value, error) {
	if c.status == threadDead {
		return nil, fmt.Errorf("cannot resume dead coroutine")
	}
	if c.status == threadRunning || c.status == threadNormal {
		return nil, fmt.Errorf("cannot resume non-suspended coroutine")
	}

	c.status = threadRunning
	if !c.started {
		c.started = true
		go c.run()
	}
	c.resumeCh <- args

	msg := <-c.yieldCh
	if msg.done {
		c.status = threadDead
	} else {
		c.status = threadSuspended
	}
	return msg.vals, msg.err
}

func (c *Coroutine) run() {
	args := <-c.resumeCh
	results, err := c.ec.Call(c.fn, args)
	c.yieldCh <- yieldMsg{vals: results, err: err, done: true}
}

// Yield suspends the currently-running coroutine on this execution
// context, handing vals back to whoever called Resume, and blocks
// until the next Resume call supplies its return values.
func (ec *ExecutionContext) Yield(vals []Value) ([]Value, error) {
	if ec.Coroutine == nil || ec.Coroutine.current == nil {
		return nil, fmt.Errorf("attempt to yield from outside a coroutine")
	}
	co := ec.Coroutine.current
	co.yieldCh <- yieldMsg{vals: vals, done: false}
	return <-co.resumeCh, nil
}
