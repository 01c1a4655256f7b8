package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringLibLenUpperLower(t *testing.T) {
	ec := newTestContext()
	res, err := stdStringLen(ec, []Value{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []Value{float64(5)}, res)

	res, err = stdStringUpper(ec, []Value{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []Value{"HELLO"}, res)

	res, err = stdStringLower(ec, []Value{"HELLO"})
	require.NoError(t, err)
	assert.Equal(t, []Value{"hello"}, res)
}

func TestStringLibSubPositiveRange(t *testing.T) {
	ec := newTestContext()
	res, err := stdStringSub(ec, []Value{"hello world", float64(1), float64(5)})
	require.NoError(t, err)
	assert.Equal(t, []Value{"hello"}, res)
}

// TestStringLibSubNegativeIndices exercises the Lua-style from-the-end
// indexing normalizeRange applies.
func TestStringLibSubNegativeIndices(t *testing.T) {
	ec := newTestContext()
	res, err := stdStringSub(ec, []Value{"hello world", float64(-5)})
	require.NoError(t, err)
	assert.Equal(t, []Value{"world"}, res)
}

func TestStringLibByte(t *testing.T) {
	ec := newTestContext()
	res, err := stdStringByte(ec, []Value{"A"})
	require.NoError(t, err)
	assert.Equal(t, []Value{float64('A')}, res)
}

func TestStringLibRep(t *testing.T) {
	ec := newTestContext()
	res, err := stdStringRep(ec, []Value{"ab", float64(3)})
	require.NoError(t, err)
	assert.Equal(t, []Value{"ababab"}, res)
}

func TestStringLibRepNonPositiveCount(t *testing.T) {
	ec := newTestContext()
	res, err := stdStringRep(ec, []Value{"ab", float64(0)})
	require.NoError(t, err)
	assert.Equal(t, []Value{""}, res)
}

func TestStringLibArgTypeError(t *testing.T) {
	ec := newTestContext()
	_, err := stdStringUpper(ec, []Value{float64(1)})
	assert.Error(t, err)
}

func TestIndexStringResolvesLibraryFunction(t *testing.T) {
	ec := newTestContext()
	v, err := ec.indexString("hello", "upper")
	require.NoError(t, err)
	fn, ok := v.(*GoFunc)
	require.True(t, ok)
	res, err := fn.Fn(ec, []Value{"hello"})
	require.NoError(t, err)
	assert.Equal(t, []Value{"HELLO"}, res)
}

func TestIndexStringUnknownMethodReturnsNil(t *testing.T) {
	ec := newTestContext()
	v, err := ec.indexString("hello", "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}
