package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicokruger/moonshine/src/bytecode"
	"github.com/nicokruger/moonshine/src/proto"
)

func newTestContext() *ExecutionContext {
	g := NewGlobals()
	InstallStdlib(g)
	return NewExecutionContext(context.Background(), g)
}

func runProto(t *testing.T, ec *ExecutionContext, p *proto.Prototype, args ...Value) []Value {
	t.Helper()
	cl := NewClosure(p, nil)
	res, err := ec.Call(cl, args)
	require.NoError(t, err)
	return res
}

func TestMoveLoadReturn(t *testing.T) {
	p := &proto.Prototype{SourceName: "<test>"}
	p.AddConst(float64(23))
	p.Code(bytecode.IABx(bytecode.LOADK, 0, 0), proto.LinePos{})
	p.Code(bytecode.IABC(bytecode.MOVE, 1, 0, 0), proto.LinePos{})
	p.Code(bytecode.IABC(bytecode.RETURN, 0, 3, 0), proto.LinePos{})

	res := runProto(t, newTestContext(), p)
	assert.Equal(t, []Value{float64(23), float64(23)}, res)
}

// TestNumericForLoop sums 1..5 using FORPREP/FORLOOP, the activation
// driver's numeric for-loop scenario.
func TestNumericForLoop(t *testing.T) {
	p := &proto.Prototype{SourceName: "<test>"}
	kInit := p.AddConst(float64(1))  // initial
	kLimit := p.AddConst(float64(5)) // limit
	kStep := p.AddConst(float64(1))  // step (dedupes against kInit)
	kSeed := p.AddConst(float64(0))  // accumulator seed

	// r0,r1,r2 = for-control (init,limit,step); r3 = loop var; r4 = sum
	p.Code(bytecode.IABx(bytecode.LOADK, 0, uint32(kInit)), proto.LinePos{})
	p.Code(bytecode.IABx(bytecode.LOADK, 1, uint32(kLimit)), proto.LinePos{})
	p.Code(bytecode.IABx(bytecode.LOADK, 2, uint32(kStep)), proto.LinePos{})
	p.Code(bytecode.IABx(bytecode.LOADK, 4, uint32(kSeed)), proto.LinePos{}) // r4 = 0
	prep := p.Code(bytecode.IAsBx(bytecode.FORPREP, 0, 0), proto.LinePos{})
	bodyStart := int64(len(p.Instructions))
	p.Code(bytecode.IABC(bytecode.ADD, 4, 4, 3), proto.LinePos{}) // r4 = r4 + r3  (r3 RK register since <256)
	loop := p.Code(bytecode.IAsBx(bytecode.FORLOOP, 0, 0), proto.LinePos{})
	p.Code(bytecode.IABC(bytecode.RETURN, 4, 2, 0), proto.LinePos{})

	p.Instructions[prep] = bytecode.IAsBx(bytecode.FORPREP, 0, int32(loop-prep-1))
	p.Instructions[loop] = bytecode.IAsBx(bytecode.FORLOOP, 0, int32(bodyStart-loop-1))

	res := runProto(t, newTestContext(), p)
	require.Len(t, res, 1)
	assert.Equal(t, float64(15), res[0])
}

// TestClosureCapturesLocal builds an outer function that sets a local
// and a nested closure via CLOSURE that reads it through an upvalue.
func TestClosureCapturesLocal(t *testing.T) {
	inner := &proto.Prototype{
		SourceName: "<test>",
		Upvalues:   []proto.UpvalueDesc{{Name: "x", FromStack: true, Index: 0}},
	}
	inner.Code(bytecode.IABC(bytecode.GETUPVAL, 0, 0, 0), proto.LinePos{})
	inner.Code(bytecode.IABC(bytecode.RETURN, 0, 2, 0), proto.LinePos{})

	outer := &proto.Prototype{SourceName: "<test>"}
	outer.AddConst(float64(42))
	outer.AddFunction(inner)
	outer.Code(bytecode.IABx(bytecode.LOADK, 0, 0), proto.LinePos{})   // r0 = 42 (captured local)
	outer.Code(bytecode.IABx(bytecode.CLOSURE, 1, 0), proto.LinePos{}) // r1 = closure over r0
	outer.Code(bytecode.IABC(bytecode.CALL, 1, 1, 2), proto.LinePos{})
	outer.Code(bytecode.IABC(bytecode.RETURN, 1, 2, 0), proto.LinePos{})

	res := runProto(t, newTestContext(), outer)
	require.Len(t, res, 1)
	assert.Equal(t, float64(42), res[0])
}

// TestTableAddMetamethod exercises ADD's metamethod fallback for a
// table operand.
func TestTableAddMetamethod(t *testing.T) {
	ec := newTestContext()
	addImpl := NewGoFunc("__add", func(_ *ExecutionContext, args []Value) ([]Value, error) {
		l := args[0].(*Table)
		lv, _ := l.Get("v")
		rv, _ := toNumber(args[1])
		return []Value{lv.(float64) + rv}, nil
	})
	mt := NewTable()
	_ = mt.Set("__add", addImpl)
	tbl := NewTable()
	_ = tbl.Set("v", float64(10))
	tbl.SetMetatable(mt)

	result, err := ec.arith("ADD", tbl, float64(5))
	require.NoError(t, err)
	assert.Equal(t, float64(15), result)
}

// TestVarargsCompatFlag exercises the legacy "arg" table staging for
// IsVararg == proto.CompatVararg.
func TestVarargsCompatFlag(t *testing.T) {
	p := &proto.Prototype{SourceName: "<test>", ParamCount: 0, IsVararg: proto.CompatVararg}
	p.Code(bytecode.IABC(bytecode.VARARG, 0, 0, 0), proto.LinePos{})
	p.Code(bytecode.IABC(bytecode.RETURN, 0, 0, 0), proto.LinePos{})

	cl := NewClosure(p, nil)
	act := newActivation(newTestContext(), cl, []Value{"a", "b"})
	argTbl, ok := act.regs.Get(0).(*Table)
	require.True(t, ok)
	v, _ := argTbl.Get(float64(1))
	assert.Equal(t, "a", v)
	_, err := act.Run()
	require.NoError(t, err)
}

// TestCoroutineYieldInsideNestedCall exercises a coroutine that yields
// from inside a Go-function call nested under the coroutine body.
func TestCoroutineYieldInsideNestedCall(t *testing.T) {
	ec := newTestContext()
	yieldFn := NewGoFunc("yielder", func(inner *ExecutionContext, _ []Value) ([]Value, error) {
		return inner.Yield([]Value{float64(1)})
	})
	body := NewGoFunc("body", func(inner *ExecutionContext, _ []Value) ([]Value, error) {
		return inner.Call(yieldFn, nil)
	})
	co, err := ec.NewCoroutine(body)
	require.NoError(t, err)

	res, err := co.Resume(nil)
	require.NoError(t, err)
	assert.Equal(t, []Value{float64(1)}, res)
	assert.Equal(t, "suspended", co.Status())

	res, err = co.Resume([]Value{float64(2)})
	require.NoError(t, err)
	assert.Equal(t, []Value{float64(2)}, res)
	assert.Equal(t, "dead", co.Status())
}

// TestArithmeticOnNonNumericErrors exercises ADD's error path when an
// operand is neither numeric nor metamethod-bearing.
func TestArithmeticOnNonNumericErrors(t *testing.T) {
	ec := newTestContext()
	_, err := ec.arith("ADD", NewTable(), float64(1))
	assert.Error(t, err)
}
