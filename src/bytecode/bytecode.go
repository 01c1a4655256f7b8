// Package bytecode packs and unpacks the 32-bit instruction words the
// activation driver dispatches on, and names the fixed 38-opcode
// instruction set.
package bytecode

import (
	"fmt"

	"github.com/nicokruger/moonshine/src/conf"
)

// Op is an opcode ordinal. The dispatch switch in src/runtime/ops.go
// keys on this value directly — the ordinal order below IS the
// wire format's contract, not merely a naming convenience.
type Op uint8

// The 38 opcodes, fixed order, index 0..37.
const (
	MOVE Op = iota
	LOADK
	LOADBOOL
	LOADNIL
	GETUPVAL
	GETGLOBAL
	GETTABLE
	SETGLOBAL
	SETUPVAL
	SETTABLE
	NEWTABLE
	SELF
	ADD
	SUB
	MUL
	DIV
	MOD
	POW
	UNM
	NOT
	LEN
	CONCAT
	JMP
	EQ
	LT
	LE
	TEST
	TESTSET
	CALL
	TAILCALL
	RETURN
	FORLOOP
	FORPREP
	TFORLOOP
	SETLIST
	CLOSE
	CLOSURE
	VARARG
	opcodeCount
)

var names = [opcodeCount]string{
	MOVE: "MOVE", LOADK: "LOADK", LOADBOOL: "LOADBOOL", LOADNIL: "LOADNIL",
	GETUPVAL: "GETUPVAL", GETGLOBAL: "GETGLOBAL", GETTABLE: "GETTABLE",
	SETGLOBAL: "SETGLOBAL", SETUPVAL: "SETUPVAL", SETTABLE: "SETTABLE",
	NEWTABLE: "NEWTABLE", SELF: "SELF", ADD: "ADD", SUB: "SUB", MUL: "MUL",
	DIV: "DIV", MOD: "MOD", POW: "POW", UNM: "UNM", NOT: "NOT", LEN: "LEN",
	CONCAT: "CONCAT", JMP: "JMP", EQ: "EQ", LT: "LT", LE: "LE", TEST: "TEST",
	TESTSET: "TESTSET", CALL: "CALL", TAILCALL: "TAILCALL", RETURN: "RETURN",
	FORLOOP: "FORLOOP", FORPREP: "FORPREP", TFORLOOP: "TFORLOOP",
	SETLIST: "SETLIST", CLOSE: "CLOSE", CLOSURE: "CLOSURE", VARARG: "VARARG",
}

// String renders an opcode's mnemonic, "UNKNOWN" for anything out of range.
func (op Op) String() string {
	if int(op) < 0 || op >= opcodeCount {
		return "UNKNOWN"
	}
	return names[op]
}

// Count is the number of defined opcodes (38), the number of cases the
// dispatch switch in src/runtime/ops.go covers.
const Count = int(opcodeCount)

// Instruction word layout: 32 bits split as
// | C: 9 | B: 9 | A: 8 | Op: 6 |
// Bx/sBx opcodes reinterpret the B and C fields together as one 18-bit
// wide field.
const (
	opBits = 6
	aBits  = 8
	bBits  = 9

	aShift = opBits
	bShift = aShift + aBits
	cShift = bShift + bBits

	opMask = (1 << opBits) - 1
	aMask  = (1 << aBits) - 1
	bMask  = (1 << bBits) - 1
	bxMask = (1 << (bBits + bBits)) - 1 // 18 bits covering B and C together
)

// IABC packs an A-B-C instruction.
func IABC(op Op, a, b, c int64) uint32 {
	return uint32(op)&opMask |
		(uint32(a)&aMask)<<aShift |
		(uint32(b)&bMask)<<bShift |
		(uint32(c)&bMask)<<cShift
}

// IABx packs an A-Bx instruction (LOADK, GETGLOBAL, SETGLOBAL, CLOSURE).
func IABx(op Op, a int64, bx uint32) uint32 {
	return uint32(op)&opMask | (uint32(a)&aMask)<<aShift | (bx&bxMask)<<bShift
}

// IAsBx packs an A-sBx instruction (JMP, FORLOOP, FORPREP).
func IAsBx(op Op, a int64, sbx int32) uint32 {
	return IABx(op, a, uint32(sbx)&bxMask)
}

// GetOp extracts the opcode ordinal.
func GetOp(instr uint32) Op { return Op(instr & opMask) }

// GetA extracts the A operand, present in every instruction format.
func GetA(instr uint32) int64 { return int64((instr >> aShift) & aMask) }

// GetB extracts the B operand of an ABC-format instruction.
func GetB(instr uint32) int64 { return int64((instr >> bShift) & bMask) }

// GetC extracts the C operand of an ABC-format instruction.
func GetC(instr uint32) int64 { return int64((instr >> cShift) & bMask) }

// GetBx extracts the unsigned wide B+C field.
func GetBx(instr uint32) int64 { return int64((instr >> bShift) & bxMask) }

// GetsBx extracts the signed wide B+C field, sign-extended from 18 bits.
func GetsBx(instr uint32) int64 {
	raw := int32((instr >> bShift) & bxMask)
	const signBit = 1 << 17
	if raw&signBit != 0 {
		raw -= 1 << 18
	}
	return int64(raw)
}

// RK resolves a B or C operand: values at or above
// conf.RKConstThreshold name a constant at (value-threshold); values
// below it name a register directly. isConst reports which.
func RK(operand int64) (index int64, isConst bool) {
	if operand >= conf.RKConstThreshold {
		return operand - conf.RKConstThreshold, true
	}
	return operand, false
}

// EncodeK encodes a constant-pool index as an RK operand.
func EncodeK(constIndex int64) int64 { return constIndex + conf.RKConstThreshold }

// String renders an instruction for debugging/tracing.
func String(instr uint32) string {
	op := GetOp(instr)
	switch op {
	case LOADK, GETGLOBAL, SETGLOBAL, CLOSURE:
		return fmt.Sprintf("%-10s %-4d %-4d", op, GetA(instr), GetBx(instr))
	case JMP, FORLOOP, FORPREP:
		return fmt.Sprintf("%-10s %-4d %-4d", op, GetA(instr), GetsBx(instr))
	default:
		return fmt.Sprintf("%-10s %-4d %-4d %-4d", op, GetA(instr), GetB(instr), GetC(instr))
	}
}
