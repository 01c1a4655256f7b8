package runtime

import (
	"fmt"

	"github.com/nicokruger/moonshine/src/proto"
)

// Closure pairs a compiled prototype with the upvalue cells its
// enclosing scope captured for it.
type Closure struct {
	Proto    *proto.Prototype
	Upvalues []*UpvalueCell
}

// NewClosure wraps proto with the upvalue cells CLOSURE bound for it.
func NewClosure(p *proto.Prototype, upvals []*UpvalueCell) *Closure {
	return &Closure{Proto: p, Upvalues: upvals}
}

func (c *Closure) String() string {
	name := c.Proto.Name
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("function: %s", name)
}

// GoFunc is a host function exposed as a callable value, invoked the
// same way a Closure's activation would be: it receives the
// ExecutionContext and its arguments, and returns its results.
type GoFunc struct {
	Name string
	Fn   func(ctx *ExecutionContext, args []Value) ([]Value, error)
}

// NewGoFunc wraps fn as a callable host function named name.
func NewGoFunc(name string, fn func(ctx *ExecutionContext, args []Value) ([]Value, error)) *GoFunc {
	return &GoFunc{Name: name, Fn: fn}
}

func (g *GoFunc) String() string { return fmt.Sprintf("function: builtin:%s", g.Name) }

// Globals is the _G table together with the host convenience of typed
// function registration.
type Globals struct {
	table *Table
}

// NewGlobals creates an empty globals environment.
func NewGlobals() *Globals {
	g := &Globals{table: NewTable()}
	return g
}

// Table exposes the backing _G table, e.g. for GETGLOBAL/SETGLOBAL.
func (g *Globals) Table() *Table { return g.table }

// Get reads a global by name.
func (g *Globals) Get(name string) Value {
	v, _ := g.table.Get(name)
	return v
}

// Set writes a global by name.
func (g *Globals) Set(name string, v Value) { _ = g.table.Set(name, v) }

// Register installs a host function under name.
func (g *Globals) Register(name string, fn func(ctx *ExecutionContext, args []Value) ([]Value, error)) {
	g.Set(name, NewGoFunc(name, fn))
}
