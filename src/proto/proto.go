// Package proto describes the function prototype shape the activation
// driver consumes. The loader/parser that produces these is out of
// scope for the core — this package only carries the
// immutable data a compiled prototype must expose.
package proto

// LinePos is the source position an instruction maps back to, used for
// error-frame attribution.
type LinePos struct {
	Line   int64
	Column int64
}

// CompatVararg is the legacy is_vararg flag value that marks a
// function as wanting the pre-5.1 "arg" table of surplus parameters
// staged at register ParamCount on entry.
const CompatVararg = 7

// NullConst is the sentinel constant-pool entry that LOADK decodes to nil.
type NullConst struct{}

// UpvalueDesc names one upvalue CLOSURE binds when it instantiates
// this prototype: either a live local of the enclosing activation
// (FromStack, addressed by register Index) or one of the enclosing
// closure's own upvalues (addressed by upvalue Index).
type UpvalueDesc struct {
	Name      string
	FromStack bool
	Index     int64
}

// Prototype is the compiled, immutable description of one function
// scope. The main chunk of a program is itself a Prototype with no
// parameters and Vararg set.
type Prototype struct {
	SourceName    string
	Name          string
	Instructions  []uint32
	Constants     []any
	Functions     []*Prototype
	LinePositions []LinePos
	ParamCount    int64
	IsVararg      int64 // CompatVararg (7) triggers legacy vararg-table staging
	Upvalues      []UpvalueDesc
}

// GetConst returns the constant at idx, nil if idx is out of range or
// the constant is the NullConst sentinel.
func (p *Prototype) GetConst(idx int64) any {
	if idx < 0 || int(idx) >= len(p.Constants) {
		return nil
	}
	if _, isNull := p.Constants[idx].(NullConst); isNull {
		return nil
	}
	return p.Constants[idx]
}

// LineAt returns the source position for instruction index pc, the
// zero LinePos if pc is out of range (tests often omit line traces).
func (p *Prototype) LineAt(pc int64) LinePos {
	if pc < 0 || int(pc) >= len(p.LinePositions) {
		return LinePos{}
	}
	return p.LinePositions[pc]
}

// AddConst appends val to the constant pool (deduplicating identical
// simple values) and returns its index, the RK-operand caller encodes
// with bytecode.EncodeK.
func (p *Prototype) AddConst(val any) int64 {
	for i, existing := range p.Constants {
		if existing == val {
			return int64(i)
		}
	}
	p.Constants = append(p.Constants, val)
	return int64(len(p.Constants) - 1)
}

// Code appends an instruction and its source position, returning its pc.
func (p *Prototype) Code(instr uint32, pos LinePos) int64 {
	p.Instructions = append(p.Instructions, instr)
	p.LinePositions = append(p.LinePositions, pos)
	return int64(len(p.Instructions) - 1)
}

// AddFunction registers a nested prototype and returns its index into
// Functions, the Bx operand CLOSURE encodes.
func (p *Prototype) AddFunction(child *Prototype) int64 {
	p.Functions = append(p.Functions, child)
	return int64(len(p.Functions) - 1)
}
