package runtime

import "fmt"

// UpvalueCell is the indirection a closure captures an outer local
// through. Open, it delegates Get/Set to a live register of the
// activation that owns it; closed (after that activation returns or
// closes it), it owns the captured value directly.
//
// Closes over a *RegisterFile scoped to one activation rather than a
// shared call-stack.
type UpvalueCell struct {
	name     string
	regs     *RegisterFile
	index    int64
	open     bool
	captured Value
}

// newOpenUpvalueCell creates a cell bound to a live register of regs.
func newOpenUpvalueCell(name string, regs *RegisterFile, index int64) *UpvalueCell {
	return &UpvalueCell{name: name, regs: regs, index: index, open: true}
}

// newClosedUpvalueCell creates a cell that is already closed over val,
// for hosts constructing pre-closed cells directly. CLOSURE does not
// use it: an upvalue of the enclosing closure is bound by sharing the
// parent's cell (see execClosure in calls.go).
func newClosedUpvalueCell(name string, val Value) *UpvalueCell {
	return &UpvalueCell{name: name, open: false, captured: val}
}

// Get reads the cell's current value.
func (c *UpvalueCell) Get() Value {
	if c.open {
		return c.regs.Get(c.index)
	}
	return c.captured
}

// Set writes the cell's current value.
func (c *UpvalueCell) Set(v Value) {
	if c.open {
		c.regs.Set(c.index, v)
		return
	}
	c.captured = v
}

// Close transitions the cell from open to closed, capturing whatever
// value its backing register currently holds. After Close, the cell is
// unlinked from any register — later Get/Set operate purely on the
// captured value.
func (c *UpvalueCell) Close() {
	if !c.open {
		return
	}
	c.captured = c.regs.Get(c.index)
	c.open = false
	c.regs = nil
}

// IsOpen reports whether the cell still delegates to a live register.
func (c *UpvalueCell) IsOpen() bool { return c.open }

// Index reports the register index an open cell is bound to. Only
// meaningful while IsOpen.
func (c *UpvalueCell) Index() int64 { return c.index }

func (c *UpvalueCell) String() string {
	return fmt.Sprintf("<upvalue %s open=%v>", c.name, c.open)
}
