package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithNumericFastPath(t *testing.T) {
	ec := newTestContext()
	cases := []struct {
		op       string
		l, r     float64
		expected float64
	}{
		{"ADD", 2, 3, 5},
		{"SUB", 5, 3, 2},
		{"MUL", 4, 3, 12},
		{"DIV", 9, 3, 3},
		{"POW", 2, 3, 8},
	}
	for _, c := range cases {
		res, err := ec.arith(c.op, c.l, c.r)
		require.NoError(t, err)
		assert.Equal(t, c.expected, res)
	}
}

// TestModSignOfDividend locks in MOD's math.Mod semantics (sign of the
// dividend), a deliberate departure from floor-based modulo.
func TestModSignOfDividend(t *testing.T) {
	ec := newTestContext()
	res, err := ec.arith("MOD", float64(-1), float64(2))
	require.NoError(t, err)
	assert.Equal(t, float64(-1), res)
}

func TestUnmNegatesNumeric(t *testing.T) {
	ec := newTestContext()
	res, err := ec.arith("UNM", float64(7), nil)
	require.NoError(t, err)
	assert.Equal(t, float64(-7), res)
}

func TestArithErrorsOnNonNumericNoMetamethod(t *testing.T) {
	ec := newTestContext()
	_, err := ec.arith("ADD", "not a number", float64(1))
	assert.Error(t, err)
}

func TestConcatNumericAndString(t *testing.T) {
	ec := newTestContext()
	res, err := ec.concat("count: ", float64(3))
	require.NoError(t, err)
	assert.Equal(t, "count: 3", res)
}

func TestConcatDelegatesToMetamethod(t *testing.T) {
	ec := newTestContext()
	mt := NewTable()
	_ = mt.Set("__concat", NewGoFunc("__concat", func(_ *ExecutionContext, args []Value) ([]Value, error) {
		return []Value{"joined"}, nil
	}))
	tbl := NewTable()
	tbl.SetMetatable(mt)
	res, err := ec.concat(tbl, "x")
	require.NoError(t, err)
	assert.Equal(t, "joined", res)
}

func TestEqRequiresMatchingType(t *testing.T) {
	ec := newTestContext()
	eq, err := ec.eq(float64(1), "1")
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqNumberByValue(t *testing.T) {
	ec := newTestContext()
	eq, err := ec.eq(float64(3), float64(3))
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqTablesFallThroughToMetamethod(t *testing.T) {
	ec := newTestContext()
	mt := NewTable()
	_ = mt.Set("__eq", NewGoFunc("__eq", func(_ *ExecutionContext, args []Value) ([]Value, error) {
		return []Value{true}, nil
	}))
	a, b := NewTable(), NewTable()
	a.SetMetatable(mt)
	eq, err := ec.eq(a, b)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestLeNumericAndString(t *testing.T) {
	ec := newTestContext()
	le, err := ec.le(float64(1), float64(2))
	require.NoError(t, err)
	assert.True(t, le)

	le, err = ec.le("abc", "abd")
	require.NoError(t, err)
	assert.True(t, le)
}

// TestLeErrorsWithoutMetamethod exercises the "attempt to compare"
// error path when types differ and neither side has __le.
func TestLeErrorsWithoutMetamethod(t *testing.T) {
	ec := newTestContext()
	_, err := ec.le(NewTable(), float64(1))
	assert.Error(t, err)
}
