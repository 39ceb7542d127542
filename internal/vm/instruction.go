package vm

import "fmt"

// Op identifies a decoded instruction.
type Op uint8

const (
	OpUnknown Op = iota
	OpCls        // 00E0
	OpRet        // 00EE
	OpJp         // 1nnn
	OpCall       // 2nnn
	OpSeImm      // 3xnn
	OpSneImm     // 4xnn
	OpSeReg      // 5xy0
	OpLdImm      // 6xnn
	OpAddImm     // 7xnn
	OpLdReg      // 8xy0
	OpOr         // 8xy1
	OpAnd        // 8xy2
	OpXor        // 8xy3
	OpAddReg     // 8xy4
	OpSub        // 8xy5
	OpShr        // 8xy6
	OpSubn       // 8xy7
	OpShl        // 8xyE
	OpSneReg     // 9xy0
	OpLdI        // Annn
	OpJpV0       // Bnnn
	OpRnd        // Cxnn
	OpDrw        // Dxyn
	OpSkp        // Ex9E
	OpSknp       // ExA1
	OpLdVxDT     // Fx07
	OpLdVxK      // Fx0A
	OpLdDTVx     // Fx15
	OpLdSTVx     // Fx18
	OpAddI       // Fx1E
	OpLdF        // Fx29
	OpLdB        // Fx33
	OpStore      // Fx55
	OpLoad       // Fx65
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpCls:     "cls",
	OpRet:     "ret",
	OpJp:      "jp",
	OpCall:    "call",
	OpSeImm:   "se",
	OpSneImm:  "sne",
	OpSeReg:   "se",
	OpLdImm:   "ld",
	OpAddImm:  "add",
	OpLdReg:   "ld",
	OpOr:      "or",
	OpAnd:     "and",
	OpXor:     "xor",
	OpAddReg:  "add",
	OpSub:     "sub",
	OpShr:     "shr",
	OpSubn:    "subn",
	OpShl:     "shl",
	OpSneReg:  "sne",
	OpLdI:     "ld",
	OpJpV0:    "jp",
	OpRnd:     "rnd",
	OpDrw:     "drw",
	OpSkp:     "skp",
	OpSknp:    "sknp",
	OpLdVxDT:  "ld",
	OpLdVxK:   "ld",
	OpLdDTVx:  "ld",
	OpLdSTVx:  "ld",
	OpAddI:    "add",
	OpLdF:     "ld",
	OpLdB:     "ld",
	OpStore:   "ld",
	OpLoad:    "ld",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpUnknown]
}

// Instruction is a decoded opcode word. Which operand fields are meaningful
// depends on Op.
type Instruction struct {
	Op   Op
	Word uint16

	X   uint8  // register index, bits 8-11
	Y   uint8  // register index, bits 4-7
	N   uint8  // nibble, bits 0-3
	NN  uint8  // byte, bits 0-7
	NNN uint16 // address, bits 0-11
}

// Nibbles splits an opcode word into its four 4-bit fields, most significant
// first.
func Nibbles(word uint16) [4]uint8 {
	return [4]uint8{
		uint8(word>>12) & 0x0F,
		uint8(word>>8) & 0x0F,
		uint8(word>>4) & 0x0F,
		uint8(word) & 0x0F,
	}
}

// Decode matches an opcode word against the instruction set. Words that
// match nothing decode to OpUnknown.
func Decode(word uint16) Instruction {
	n := Nibbles(word)

	return Instruction{
		Op:   decodeOp(n),
		Word: word,
		X:    n[1],
		Y:    n[2],
		N:    n[3],
		NN:   uint8(word & 0x00FF),
		NNN:  word & 0x0FFF,
	}
}

func decodeOp(n [4]uint8) Op {
	switch n[0] {
	case 0x0:
		switch {
		case n[1] == 0x0 && n[2] == 0xE && n[3] == 0x0:
			return OpCls
		case n[1] == 0x0 && n[2] == 0xE && n[3] == 0xE:
			return OpRet
		}

	case 0x1:
		return OpJp

	case 0x2:
		return OpCall

	case 0x3:
		return OpSeImm

	case 0x4:
		return OpSneImm

	case 0x5:
		if n[3] == 0x0 {
			return OpSeReg
		}

	case 0x6:
		return OpLdImm

	case 0x7:
		return OpAddImm

	case 0x8:
		switch n[3] {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}

	case 0x9:
		if n[3] == 0x0 {
			return OpSneReg
		}

	case 0xA:
		return OpLdI

	case 0xB:
		return OpJpV0

	case 0xC:
		return OpRnd

	case 0xD:
		return OpDrw

	case 0xE:
		switch n[2]<<4 | n[3] {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}

	case 0xF:
		switch n[2]<<4 | n[3] {
		case 0x07:
			return OpLdVxDT
		case 0x0A:
			return OpLdVxK
		case 0x15:
			return OpLdDTVx
		case 0x18:
			return OpLdSTVx
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLdF
		case 0x33:
			return OpLdB
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}

	return OpUnknown
}

// String renders the instruction as assembly.
func (in Instruction) String() string {
	name := in.Op.String()

	switch in.Op {
	case OpCls, OpRet:
		return name
	case OpJp, OpCall:
		return fmt.Sprintf("%s 0x%03x", name, in.NNN)
	case OpSeImm, OpSneImm, OpLdImm, OpAddImm, OpRnd:
		return fmt.Sprintf("%s v%x, 0x%02x", name, in.X, in.NN)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShr, OpSubn, OpShl:
		return fmt.Sprintf("%s v%x, v%x", name, in.X, in.Y)
	case OpLdI:
		return fmt.Sprintf("%s i, 0x%03x", name, in.NNN)
	case OpJpV0:
		return fmt.Sprintf("%s v0, 0x%03x", name, in.NNN)
	case OpDrw:
		return fmt.Sprintf("%s v%x, v%x, %d", name, in.X, in.Y, in.N)
	case OpSkp, OpSknp:
		return fmt.Sprintf("%s v%x", name, in.X)
	case OpLdVxDT:
		return fmt.Sprintf("%s v%x, dt", name, in.X)
	case OpLdVxK:
		return fmt.Sprintf("%s v%x, k", name, in.X)
	case OpLdDTVx:
		return fmt.Sprintf("%s dt, v%x", name, in.X)
	case OpLdSTVx:
		return fmt.Sprintf("%s st, v%x", name, in.X)
	case OpAddI:
		return fmt.Sprintf("%s i, v%x", name, in.X)
	case OpLdF:
		return fmt.Sprintf("%s f, v%x", name, in.X)
	case OpLdB:
		return fmt.Sprintf("%s b, v%x", name, in.X)
	case OpStore:
		return fmt.Sprintf("%s [i], v%x", name, in.X)
	case OpLoad:
		return fmt.Sprintf("%s v%x, [i]", name, in.X)
	}

	return fmt.Sprintf("%s 0x%04x", name, in.Word)
}
