package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFileGetHoleIsNil(t *testing.T) {
	r := newRegisterFile(4)
	assert.Nil(t, r.Get(0))
	assert.Nil(t, r.Get(100))
	assert.Nil(t, r.Get(-1))
}

func TestRegisterFileSetExtends(t *testing.T) {
	r := newRegisterFile(2)
	r.Set(10, "hi")
	assert.Equal(t, "hi", r.Get(10))
	assert.GreaterOrEqual(t, r.Len(), int64(11))
}

func TestRegisterFileTruncate(t *testing.T) {
	r := newRegisterFile(1)
	r.Set(5, "a")
	r.Truncate(3)
	assert.Equal(t, int64(3), r.Len())
	assert.Nil(t, r.Get(5))
}

func TestRegisterFileDeleteAtLeavesHole(t *testing.T) {
	r := newRegisterFile(1)
	r.Set(2, "x")
	r.Set(4, "y")
	r.DeleteAt(2)
	assert.Nil(t, r.Get(2))
	assert.Equal(t, "y", r.Get(4))
}

func TestRegisterFileSliceNilPads(t *testing.T) {
	r := newRegisterFile(1)
	r.Set(0, "only")
	out := r.Slice(0, 3)
	assert.Equal(t, []Value{"only", nil, nil}, out)
}

func TestRegisterFileSetSlice(t *testing.T) {
	r := newRegisterFile(1)
	r.SetSlice(2, []Value{"a", "b", "c"})
	assert.Equal(t, "a", r.Get(2))
	assert.Equal(t, "b", r.Get(3))
	assert.Equal(t, "c", r.Get(4))
}
