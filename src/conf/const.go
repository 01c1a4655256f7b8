// Package conf holds the tunables shared across the interpreter packages.
package conf

// RKConstThreshold is the RK encoding boundary: an operand value at or
// above this names a constant (value-RKConstThreshold); below it names
// a register.
const RKConstThreshold = 256

const (
	// InitialRegisterSize is the register file capacity an activation
	// starts with before growing.
	InitialRegisterSize = 32
	// MaxRegisters bounds how large a single activation's register file
	// can grow, guarding against runaway bytecode.
	MaxRegisters = 250
	// MaxUpvalues bounds how many upvalue cells a single closure can bind.
	MaxUpvalues = 255
	// MaxCallDepth bounds nested activation calls to catch unbounded
	// recursion before the host stack does.
	MaxCallDepth = 4096
	// SetListBatchSize is the batch size SETLIST encodes its starting
	// index with, preserved from the Lua 5.1 bytecode format.
	SetListBatchSize = 50
)
