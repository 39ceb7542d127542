package vm

import "fmt"

const (
	RegisterCount = 16

	// FlagRegister is VF. Arithmetic, shift and draw instructions write their
	// carry, borrow, shifted-out bit or collision result here, replacing
	// whatever the program stored in it.
	FlagRegister = 0xF
)

// Registers is the V0-VF register file.
type Registers [RegisterCount]uint8

func (r Registers) Get(x uint8) uint8 {
	return r[x&0x0F]
}

func (r *Registers) Set(x uint8, value uint8) {
	r[x&0x0F] = value
}

// Flag returns VF as last written by an instruction.
func (r Registers) Flag() uint8 {
	return r[FlagRegister]
}

func (r *Registers) setFlag(value uint8) {
	r[FlagRegister] = value
}

func (r *Registers) reset() {
	for i := range r {
		r[i] = 0
	}
}

func (r Registers) String() string {
	s := ""
	for i, v := range r {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("v%x=%02x", i, v)
	}
	return s
}
