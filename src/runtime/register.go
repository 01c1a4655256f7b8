package runtime

import "github.com/nicokruger/moonshine/src/conf"

// RegisterFile is the sparse, ordered slot array private to one
// activation. Writing past the current length extends
// it; reading a hole yields nil.
type RegisterFile struct {
	slots      []Value
	overflowed bool
}

// newRegisterFile creates a register file with room for size registers
// pre-allocated (not necessarily "set" — they read as nil until written).
func newRegisterFile(size int) *RegisterFile {
	if size < conf.InitialRegisterSize {
		size = conf.InitialRegisterSize
	}
	return &RegisterFile{slots: make([]Value, size)}
}

// Len reports the register file's current length (its high-water mark,
// not the count of non-nil entries).
func (r *RegisterFile) Len() int64 { return int64(len(r.slots)) }

// Get reads register i, nil if it's out of range or holds a hole.
func (r *RegisterFile) Get(i int64) Value {
	if i < 0 || i >= int64(len(r.slots)) {
		return nil
	}
	return r.slots[i]
}

// Set writes register i, extending the file if i is beyond its current length.
func (r *RegisterFile) Set(i int64, v Value) {
	r.ensure(i)
	r.slots[i] = v
}

// ensure grows the backing slice so index i is addressable, flagging
// Overflowed once growth would cross conf.MaxRegisters.
func (r *RegisterFile) ensure(i int64) {
	if i < int64(len(r.slots)) {
		return
	}
	if i >= conf.MaxRegisters {
		r.overflowed = true
	}
	grown := make([]Value, i+1)
	copy(grown, r.slots)
	r.slots = grown
}

// Overflowed reports whether a write has ever grown this register
// file past conf.MaxRegisters.
func (r *RegisterFile) Overflowed() bool { return r.overflowed }

// Truncate removes all slots at indices >= i, shrinking the register
// file. Used by CALL's and VARARG's multi-value splicing to drop the
// slots above the values they placed.
func (r *RegisterFile) Truncate(i int64) {
	if i < 0 {
		i = 0
	}
	if i >= int64(len(r.slots)) {
		return
	}
	r.slots = r.slots[:i]
}

// DeleteAt clears slot i, leaving the length and every other slot
// unchanged. A hole reads as nil, so for an in-range i this is the
// same as Set(i, nil); an out-of-range i is ignored rather than
// growing the file. The register file does not distinguish a deleted
// slot from one holding nil.
func (r *RegisterFile) DeleteAt(i int64) {
	if i < 0 || i >= int64(len(r.slots)) {
		return
	}
	r.slots[i] = nil
}

// Slice returns registers [from, from+n) as a fresh slice, nil-padded
// if the register file is shorter than from+n. Used to gather call
// arguments and multi-returns.
func (r *RegisterFile) Slice(from, n int64) []Value {
	out := make([]Value, n)
	for i := int64(0); i < n; i++ {
		out[i] = r.Get(from + i)
	}
	return out
}

// SetSlice writes vals into registers starting at from.
func (r *RegisterFile) SetSlice(from int64, vals []Value) {
	for i, v := range vals {
		r.Set(from+int64(i), v)
	}
}
