package runtime

import (
	"context"
	"fmt"

	"github.com/nicokruger/moonshine/src/conf"
	"github.com/nicokruger/moonshine/src/lerrors"
)

// Callable is anything CALL/TAILCALL/SELF/the metamethod dispatchers
// can invoke: a *Closure runs through the activation driver, a
// *GoFunc runs directly.
type Callable interface {
	String() string
}

// ExecutionContext is the interpreter-wide state an Activation shares
// with every frame it calls into: the cancellation context, the
// globals table, and the controllers for coroutine scheduling and the
// debug REPL. The per-activation register file lives on Activation
// rather than here.
type ExecutionContext struct {
	Ctx     context.Context
	Globals *Globals

	Coroutine *CoroutineController
	Debug     *DebugController

	callDepth int64
}

// NewExecutionContext wires a fresh context around globals g.
func NewExecutionContext(ctx context.Context, g *Globals) *ExecutionContext {
	if g == nil {
		g = NewGlobals()
	}
	return &ExecutionContext{Ctx: ctx, Globals: g}
}

// Call invokes fn (a *Closure, *GoFunc, or a *Table with a __call
// metamethod) with args and returns its results.
func (ec *ExecutionContext) Call(fn Value, args []Value) ([]Value, error) {
	ec.callDepth++
	defer func() { ec.callDepth-- }()
	if ec.callDepth > conf.MaxCallDepth {
		return nil, fmt.Errorf("stack overflow: call depth exceeds %d", conf.MaxCallDepth)
	}

	for {
		switch tfn := fn.(type) {
		case *Closure:
			act := newActivation(ec, tfn, args)
			return act.Run()
		case *GoFunc:
			return tfn.Fn(ec, args)
		case *Table:
			meta := tfn.Metamethod("__call")
			if meta == nil {
				return nil, fmt.Errorf("attempt to call a table value")
			}
			fn = meta
			args = append([]Value{tfn}, args...)
		case nil:
			return nil, fmt.Errorf("attempt to call a nil value")
		default:
			return nil, fmt.Errorf("attempt to call a %s value", typeName(fn))
		}
	}
}

// Index implements GETTABLE/SELF's table-or-__index read,
// delegating through chained __index metamethods (function or table).
func (ec *ExecutionContext) Index(source, key Value) (Value, error) {
	for {
		if tbl, ok := source.(*Table); ok {
			v, err := tbl.Get(key)
			if err != nil {
				return nil, err
			}
			if v != nil {
				return v, nil
			}
			meta := tbl.Metamethod("__index")
			if meta == nil {
				return nil, nil
			}
			switch meta.(type) {
			case *Closure, *GoFunc:
				res, err := ec.Call(meta, []Value{source, key})
				if err != nil {
					return nil, err
				}
				if len(res) > 0 {
					return res[0], nil
				}
				return nil, nil
			default:
				source = meta
				continue
			}
		}
		if str, ok := source.(string); ok {
			return ec.indexString(str, key)
		}
		return nil, fmt.Errorf("attempt to index a %s value", typeName(source))
	}
}

// NewIndex implements SETTABLE's table-or-__newindex write.
func (ec *ExecutionContext) NewIndex(table, key, val Value) error {
	tbl, isTbl := table.(*Table)
	if isTbl {
		existing, err := tbl.Get(key)
		if err != nil {
			return err
		}
		if existing != nil || tbl.Metamethod("__newindex") == nil {
			return tbl.Set(key, val)
		}
	}
	if !isTbl {
		return fmt.Errorf("attempt to index a %s value", typeName(table))
	}
	meta := tbl.Metamethod("__newindex")
	switch tm := meta.(type) {
	case *Closure, *GoFunc:
		_, err := ec.Call(tm, []Value{table, key, val})
		return err
	default:
		return ec.NewIndex(meta, key, val)
	}
}

// metamethod looks up name on v's metatable, nil if v has none.
func metamethod(v Value, name string) Value {
	if t, ok := v.(*Table); ok {
		return t.Metamethod(name)
	}
	return nil
}

// wrapRuntimeErr attaches source position info to err the way
// lerrors.Error threads activation frames for a traceback.
func wrapRuntimeErr(filename string, line int64, err error) error {
	if err == nil {
		return nil
	}
	if le, ok := err.(*lerrors.Error); ok {
		return le.WithFrame(filename, line)
	}
	return (&lerrors.Error{Kind: lerrors.RuntimeErr, Filename: filename, Line: line, Err: err}).WithFrame(filename, line)
}
