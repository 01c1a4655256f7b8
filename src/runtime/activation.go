package runtime

import (
	"fmt"

	"github.com/nicokruger/moonshine/src/bytecode"
	"github.com/nicokruger/moonshine/src/conf"
	"github.com/nicokruger/moonshine/src/proto"
)

// Activation is one call's private execution record: its own register
// file, program counter, and the upvalue cells its closure captured.
// The register file is private to one activation rather than a slice
// of a shared call-stack.
type Activation struct {
	ec       *ExecutionContext
	closure  *Closure
	proto    *proto.Prototype
	regs     *RegisterFile
	pc       int64
	varargs  []Value
	openCells map[int64]*UpvalueCell
	caller   *Activation
}

func newActivation(ec *ExecutionContext, cl *Closure, args []Value) *Activation {
	p := cl.Proto
	act := &Activation{
		ec:        ec,
		closure:   cl,
		proto:     p,
		regs:      newRegisterFile(int(p.ParamCount)),
		openCells: map[int64]*UpvalueCell{},
	}
	n := int(p.ParamCount)
	for i := 0; i < n && i < len(args); i++ {
		act.regs.Set(int64(i), args[i])
	}
	if p.IsVararg != 0 && len(args) > n {
		act.varargs = append([]Value{}, args[n:]...)
	}
	if p.IsVararg == proto.CompatVararg {
		act.regs.Set(int64(n), NewTableWithArray(append([]Value{}, act.varargs...)))
	}
	return act
}

// Run drives the fetch/decode/execute loop until RETURN, returning the
// function's results.
func (act *Activation) Run() ([]Value, error) {
	for {
		if act.pc < 0 || int(act.pc) >= len(act.proto.Instructions) {
			return nil, nil
		}
		instr := act.proto.Instructions[act.pc]
		pos := act.proto.LineAt(act.pc)
		act.pc++

		ret, done, err := act.step(instr)
		if err != nil {
			return nil, wrapRuntimeErr(act.proto.SourceName, pos.Line, err)
		}
		if act.regs.Overflowed() {
			return nil, wrapRuntimeErr(act.proto.SourceName, pos.Line, fmt.Errorf("register file exceeds %d slots", conf.MaxRegisters))
		}
		if done {
			return ret, nil
		}
	}
}

// rk resolves an RK-encoded operand to its value: a constant from the
// prototype's pool if it names one, otherwise a register.
func (act *Activation) rk(operand int64) Value {
	idx, isConst := bytecode.RK(operand)
	if isConst {
		return act.proto.GetConst(idx)
	}
	return act.regs.Get(idx)
}

// bindUpvalue finds or creates the open cell backing local register
// idx, so every closure capturing the same local shares one cell.
func (act *Activation) bindUpvalue(name string, idx int64) *UpvalueCell {
	if cell, ok := act.openCells[idx]; ok {
		return cell
	}
	cell := newOpenUpvalueCell(name, act.regs, idx)
	act.openCells[idx] = cell
	return cell
}

// closeFrom closes every open cell at or above register idx, called
// by CLOSE.
func (act *Activation) closeFrom(idx int64) {
	for reg, cell := range act.openCells {
		if reg >= idx {
			cell.Close()
			delete(act.openCells, reg)
		}
	}
}

func (act *Activation) closeAll() {
	for reg, cell := range act.openCells {
		cell.Close()
		delete(act.openCells, reg)
	}
}

func (act *Activation) runtimeErrorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
