package runtime

import (
	"fmt"

	"github.com/nicokruger/moonshine/src/conf"
)

// execCall implements CALL and the non-optimizing TAILCALL (TAILCALL
// runs as CALL(A,B,0), never reusing the caller's activation).
func (act *Activation) execCall(a, b, c int64) ([]Value, bool, error) {
	fn := act.regs.Get(a)
	var args []Value
	if b == 0 {
		args = act.regs.Slice(a+1, act.regs.Len()-(a+1))
	} else {
		args = act.regs.Slice(a+1, b-1)
	}

	results, err := act.ec.Call(fn, args)
	if err != nil {
		return nil, false, err
	}

	if c == 0 {
		act.regs.SetSlice(a, results)
		act.regs.Truncate(a + int64(len(results)))
	} else {
		nret := c - 1
		act.regs.SetSlice(a, padOrTrim(results, nret))
	}
	return nil, false, nil
}

// collectReturn gathers RETURN's result slice: B==0 means "everything
// from A to the current register high-water mark".
func (act *Activation) collectReturn(a, b int64) []Value {
	act.closeAll()
	if b == 0 {
		return act.regs.Slice(a, act.regs.Len()-a)
	}
	return act.regs.Slice(a, b-1)
}

func padOrTrim(vals []Value, n int64) []Value {
	out := make([]Value, n)
	copy(out, vals)
	return out
}

// execForPrep implements the numeric for-loop's setup: validate that
// initial/limit/step are numeric and step the control variable back
// by one step so the first FORLOOP iteration lands on the initial
// value. Always jumps to the matching FORLOOP.
func (act *Activation) execForPrep(a int64) (bool, error) {
	init, okI := toNumber(act.regs.Get(a))
	limit, okL := toNumber(act.regs.Get(a + 1))
	step, okS := toNumber(act.regs.Get(a + 2))
	if !okI || !okL || !okS {
		return false, fmt.Errorf("'for' initial value, limit, or step must be a number")
	}
	if step == 0 {
		return false, fmt.Errorf("'for' step is zero")
	}
	act.regs.Set(a, init-step)
	act.regs.Set(a+1, limit)
	act.regs.Set(a+2, step)
	return true, nil
}

// execForLoop advances the control variable by step and, while it
// hasn't crossed limit, re-binds the visible loop variable at A+3 and
// reports that the loop body's jump should be taken.
func (act *Activation) execForLoop(a int64) (bool, error) {
	i, _ := toNumber(act.regs.Get(a))
	limit, _ := toNumber(act.regs.Get(a + 1))
	step, _ := toNumber(act.regs.Get(a + 2))
	i += step
	act.regs.Set(a, i)
	continues := (step > 0 && i <= limit) || (step < 0 && i >= limit)
	if continues {
		act.regs.Set(a+3, i)
	}
	return continues, nil
}

// execTForLoop implements the generic for-loop iterator call: invoke
// the iterator with (state, control), place up to C results at
// R[A+3..A+C+2], and report whether the loop exits (the next
// instruction must be skipped). On continue, R[A+3] is copied into
// R[A+2] as the new control variable. A numeric-string first result is
// coerced to a number before that copy, a quirk preserved from the
// source this core is modeled on.
func (act *Activation) execTForLoop(a, c int64) (bool, error) {
	fn := act.regs.Get(a)
	state := act.regs.Get(a + 1)
	ctrl := act.regs.Get(a + 2)
	results, err := act.ec.Call(fn, []Value{state, ctrl})
	if err != nil {
		return false, err
	}
	if len(results) > 0 {
		if s, ok := results[0].(string); ok {
			if f, ok := toNumber(s); ok {
				results[0] = f
			}
		}
	}
	act.regs.SetSlice(a+3, padOrTrim(results, c))
	if act.regs.Get(a+3) == nil {
		return true, nil
	}
	act.regs.Set(a+2, act.regs.Get(a+3))
	return false, nil
}

// execSetList bulk-stores registers A+1..A+B into table A's array
// part, starting at 1-based index SetListBatchSize*(C-1)+1 (or a
// variable-length tail ending at the current register high-water mark
// when B==0).
func (act *Activation) execSetList(a, b, c int64) error {
	tbl, ok := act.regs.Get(a).(*Table)
	if !ok {
		return fmt.Errorf("attempt to index a %s value", typeName(act.regs.Get(a)))
	}
	n := b
	if n == 0 {
		n = act.regs.Len() - (a + 1)
	}
	base := conf.SetListBatchSize * (c - 1)
	for i := int64(0); i < n; i++ {
		_ = tbl.Set(float64(base+i+1), act.regs.Get(a+1+i))
	}
	return nil
}

// execClosure instantiates the child prototype at Functions[bx],
// resolving each declared upvalue either by sharing this activation's
// open cell for a captured local, or by forwarding this activation's
// own upvalue cell for a captured upvalue-of-an-upvalue.
func (act *Activation) execClosure(a, bx int64) error {
	child := act.proto.Functions[bx]
	if int64(len(child.Upvalues)) > conf.MaxUpvalues {
		return fmt.Errorf("function exceeds %d upvalues", conf.MaxUpvalues)
	}
	upvals := make([]*UpvalueCell, len(child.Upvalues))
	for i, desc := range child.Upvalues {
		if desc.FromStack {
			upvals[i] = act.bindUpvalue(desc.Name, desc.Index)
		} else {
			upvals[i] = act.closure.Upvalues[desc.Index]
		}
	}
	act.regs.Set(a, NewClosure(child, upvals))
	return nil
}

// execVararg copies the activation's surplus arguments (or exactly B-1
// of them when B is non-zero) into registers starting at A, deleting
// any higher register slots either way.
func (act *Activation) execVararg(a, b int64) {
	if b == 0 {
		act.regs.SetSlice(a, act.varargs)
		act.regs.Truncate(a + int64(len(act.varargs)))
		return
	}
	act.regs.SetSlice(a, padOrTrim(act.varargs, b-1))
	act.regs.Truncate(a + b - 1)
}
