package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableArrayGetSet(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.Set(float64(1), "a"))
	assert.NoError(t, tbl.Set(float64(2), "b"))
	v, err := tbl.Get(float64(1))
	assert.NoError(t, err)
	assert.Equal(t, "a", v)
	assert.Equal(t, int64(2), tbl.Len())
}

func TestTableHashGetSet(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.Set("key", "val"))
	v, err := tbl.Get("key")
	assert.NoError(t, err)
	assert.Equal(t, "val", v)
}

func TestTableSetNilDeletes(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.Set("key", "val"))
	assert.NoError(t, tbl.Set("key", nil))
	v, _ := tbl.Get("key")
	assert.Nil(t, v)
}

func TestTableNilKeyErrors(t *testing.T) {
	tbl := NewTable()
	_, err := tbl.Get(nil)
	assert.Error(t, err)
	assert.Error(t, tbl.Set(nil, "x"))
}

func TestTableLenStopsAtHole(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.Set(float64(1), "a"))
	assert.NoError(t, tbl.Set(float64(2), "b"))
	assert.NoError(t, tbl.Set(float64(2), nil))
	assert.Equal(t, int64(1), tbl.Len())
}

func TestTableMetatableAndMetamethod(t *testing.T) {
	tbl := NewTable()
	mt := NewTable()
	assert.NoError(t, mt.Set("__add", "placeholder"))
	tbl.SetMetatable(mt)
	assert.Equal(t, mt, tbl.Metatable())
	assert.Equal(t, "placeholder", tbl.Metamethod("__add"))
	assert.Nil(t, tbl.Metamethod("__sub"))
}

func TestTableKeysInsertionOrder(t *testing.T) {
	tbl := NewTable()
	assert.NoError(t, tbl.Set("b", 1.0))
	assert.NoError(t, tbl.Set("a", 2.0))
	assert.Equal(t, []any{"b", "a"}, tbl.Keys())
}
