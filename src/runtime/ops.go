package runtime

import (
	"fmt"

	"github.com/nicokruger/moonshine/src/bytecode"
)

// step decodes and executes one instruction, returning (results, true,
// nil) only when RETURN has produced the activation's final values.
// Covers the fixed 38-opcode set with the RK-by-magnitude operand
// encoding.
func (act *Activation) step(instr uint32) ([]Value, bool, error) {
	a := bytecode.GetA(instr)
	b := bytecode.GetB(instr)
	c := bytecode.GetC(instr)

	switch bytecode.GetOp(instr) {
	case bytecode.MOVE:
		act.regs.Set(a, act.regs.Get(b))
	case bytecode.LOADK:
		act.regs.Set(a, act.proto.GetConst(bytecode.GetBx(instr)))
	case bytecode.LOADBOOL:
		act.regs.Set(a, b != 0)
		if c != 0 {
			act.pc++
		}
	case bytecode.LOADNIL:
		for i := a; i <= b; i++ {
			act.regs.Set(i, nil)
		}
	case bytecode.GETUPVAL:
		act.regs.Set(a, act.closure.Upvalues[b].Get())
	case bytecode.GETGLOBAL:
		name := act.proto.GetConst(bytecode.GetBx(instr)).(string)
		if name == "_G" {
			act.regs.Set(a, act.ec.Globals.Table())
		} else {
			act.regs.Set(a, act.ec.Globals.Get(name))
		}
	case bytecode.GETTABLE:
		val, err := act.ec.Index(act.regs.Get(b), act.rk(c))
		if err != nil {
			return nil, false, err
		}
		act.regs.Set(a, val)
	case bytecode.SETGLOBAL:
		act.ec.Globals.Set(act.proto.GetConst(bytecode.GetBx(instr)).(string), act.regs.Get(a))
	case bytecode.SETUPVAL:
		act.closure.Upvalues[b].Set(act.regs.Get(a))
	case bytecode.SETTABLE:
		if err := act.ec.NewIndex(act.regs.Get(a), act.rk(b), act.rk(c)); err != nil {
			return nil, false, err
		}
	case bytecode.NEWTABLE:
		act.regs.Set(a, NewTable())
	case bytecode.SELF:
		tbl := act.regs.Get(b)
		fn, err := act.ec.Index(tbl, act.rk(c))
		if err != nil {
			return nil, false, err
		}
		act.regs.Set(a, fn)
		act.regs.Set(a+1, tbl)
	case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV, bytecode.MOD, bytecode.POW:
		val, err := act.ec.arith(bytecode.GetOp(instr).String(), act.rk(b), act.rk(c))
		if err != nil {
			return nil, false, err
		}
		act.regs.Set(a, val)
	case bytecode.UNM:
		val, err := act.ec.arith("UNM", act.rk(b), nil)
		if err != nil {
			return nil, false, err
		}
		act.regs.Set(a, val)
	case bytecode.NOT:
		act.regs.Set(a, !truthy(act.rk(b)))
	case bytecode.LEN:
		val := act.rk(b)
		switch tv := val.(type) {
		case string:
			act.regs.Set(a, float64(len(tv)))
		case *Table:
			if meta := tv.Metamethod("__len"); meta != nil {
				res, err := act.ec.Call(meta, []Value{tv})
				if err != nil {
					return nil, false, err
				}
				if len(res) > 0 {
					act.regs.Set(a, res[0])
				} else {
					act.regs.Set(a, nil)
				}
			} else {
				act.regs.Set(a, float64(tv.Len()))
			}
		default:
			return nil, false, fmt.Errorf("attempt to get length of a %s value", typeName(val))
		}
	case bytecode.CONCAT:
		result := act.regs.Get(b)
		for i := b + 1; i <= c; i++ {
			next := act.regs.Get(i)
			joined, err := act.ec.concat(result, next)
			if err != nil {
				return nil, false, err
			}
			result = joined
		}
		act.regs.Set(a, result)
	case bytecode.JMP:
		act.pc += bytecode.GetsBx(instr)
	case bytecode.CLOSE:
		act.closeFrom(a)
	case bytecode.EQ:
		isEq, err := act.ec.eq(act.rk(b), act.rk(c))
		if err != nil {
			return nil, false, err
		}
		if isEq != (a != 0) {
			act.pc++
		}
	case bytecode.LT, bytecode.LE:
		// Both LT and LE dispatch to the __le-based comparator; LT's
		// meaning here is "not (c <= b)" so LT and LE share one helper.
		lv, rv := act.rk(b), act.rk(c)
		if bytecode.GetOp(instr) == bytecode.LT {
			lv, rv = rv, lv
		}
		res, err := act.ec.le(lv, rv)
		if err != nil {
			return nil, false, err
		}
		match := res
		if bytecode.GetOp(instr) == bytecode.LT {
			match = !res
		}
		if match != (a != 0) {
			act.pc++
		}
	case bytecode.TEST:
		// Inverted skip: truthy(R(A)) == C skips the following
		// instruction instead of executing it.
		if truthy(act.regs.Get(a)) == (c != 0) {
			act.pc++
		}
	case bytecode.TESTSET:
		val := act.regs.Get(b)
		if truthy(val) == (c != 0) {
			act.pc++
		} else {
			act.regs.Set(a, val)
		}
	case bytecode.CALL:
		return act.execCall(a, b, c)
	case bytecode.TAILCALL:
		// Non-optimizing: runs exactly like CALL(A,B,0), never reusing
		// this activation's stack frame.
		return act.execCall(a, b, 0)
	case bytecode.RETURN:
		return act.collectReturn(a, b), true, nil
	case bytecode.FORPREP:
		jump, err := act.execForPrep(a)
		if err != nil {
			return nil, false, err
		}
		if jump {
			act.pc += bytecode.GetsBx(instr)
		}
	case bytecode.FORLOOP:
		jump, err := act.execForLoop(a)
		if err != nil {
			return nil, false, err
		}
		if jump {
			act.pc += bytecode.GetsBx(instr)
		}
	case bytecode.TFORLOOP:
		stop, err := act.execTForLoop(a, c)
		if err != nil {
			return nil, false, err
		}
		if stop {
			act.pc++
		}
	case bytecode.SETLIST:
		if err := act.execSetList(a, b, c); err != nil {
			return nil, false, err
		}
	case bytecode.CLOSURE:
		if err := act.execClosure(a, bytecode.GetBx(instr)); err != nil {
			return nil, false, err
		}
	case bytecode.VARARG:
		act.execVararg(a, b)
	default:
		return nil, false, fmt.Errorf("unknown opcode %d", bytecode.GetOp(instr))
	}
	return nil, false, nil
}
