package runtime

import (
	"fmt"
)

// Table is the interpreter's associative/array container: member
// get/set keyed by any non-nil value, an optional metatable, and a
// length operator counting consecutive integer keys from 1.
type Table struct {
	array     []Value
	hash      map[any]Value
	keyOrder  []any
	metatable *Table
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{hash: map[any]Value{}}
}

// NewTableWithArray creates a table pre-populated with 1-based array
// values (used for the compat-vararg "arg" table).
func NewTableWithArray(arr []Value) *Table {
	return &Table{array: arr, hash: map[any]Value{}}
}

// Metatable returns the table's associated metatable, nil if none.
func (t *Table) Metatable() *Table { return t.metatable }

// SetMetatable installs mt (possibly nil) as t's metatable.
func (t *Table) SetMetatable(mt *Table) { t.metatable = mt }

// Metamethod looks up a metamethod by its conventional name (__add,
// __sub, __mul, __div, __mod, __pow, __unm, __concat, __eq, __le),
// nil if there is no metatable or no such entry.
func (t *Table) Metamethod(name string) Value {
	if t == nil || t.metatable == nil {
		return nil
	}
	v, _ := t.metatable.hash[name]
	return v
}

// Get returns the value stored at key, nil if absent. A positive
// integral float key addresses the array part first.
func (t *Table) Get(key Value) (Value, error) {
	if key == nil {
		return nil, fmt.Errorf("table index is nil")
	}
	if idx, ok := arrayIndex(key); ok && idx >= 1 {
		if int(idx) <= len(t.array) {
			return t.array[idx-1], nil
		}
		return t.hash[idx], nil
	}
	return t.hash[toKey(key)], nil
}

// Set stores val at key, removing the entry when val is nil.
func (t *Table) Set(key, val Value) error {
	if key == nil {
		return fmt.Errorf("table index is nil")
	}
	if idx, ok := arrayIndex(key); ok && idx >= 1 {
		t.setArray(idx, val)
		return nil
	}
	k := toKey(key)
	_, existed := t.hash[k]
	if val == nil {
		if existed {
			delete(t.hash, k)
			t.removeKeyOrder(k)
		}
		return nil
	}
	if !existed {
		t.keyOrder = append(t.keyOrder, k)
	}
	t.hash[k] = val
	return nil
}

func (t *Table) setArray(idx int64, val Value) {
	if int(idx) <= len(t.array) {
		t.array[idx-1] = val
		return
	}
	if int(idx) == len(t.array)+1 && val != nil {
		t.array = append(t.array, val)
		return
	}
	// Sparse beyond the array part: fall back to the hash part so Get
	// (which only consults the array for in-range indices) still finds it.
	t.hash[idx] = val
}

func (t *Table) removeKeyOrder(k any) {
	for i, existing := range t.keyOrder {
		if existing == k {
			t.keyOrder = append(t.keyOrder[:i], t.keyOrder[i+1:]...)
			return
		}
	}
}

// Keys returns the hash-part keys in insertion order, for pairs()-style iteration.
func (t *Table) Keys() []any { return t.keyOrder }

// Len implements the length operator's default (no __len) behavior:
// the count of the highest k such that integer keys 1..k are all
// non-nil and contiguous.
func (t *Table) Len() int64 {
	n := int64(len(t.array))
	for n > 0 && t.array[n-1] == nil {
		n--
	}
	// continue into the hash part in case the array was never the home
	// of a contiguous run (e.g. all integer keys landed in hash via setArray's
	// sparse fallback).
	for {
		v, ok := t.hash[n+1]
		if !ok || v == nil {
			break
		}
		n++
	}
	return n
}

// arrayIndex reports whether key is an integral float, returned as an
// int64; zero and negative values also report true, so callers check
// idx >= 1 before treating it as an array index.
func arrayIndex(key Value) (int64, bool) {
	f, ok := key.(float64)
	if !ok {
		return 0, false
	}
	i := int64(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}

func (t *Table) String() string { return fmt.Sprintf("table: %p", t) }
