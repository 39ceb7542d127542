package vm

import "fmt"

// Line is one disassembled word of a ROM image.
type Line struct {
	Addr  uint16
	Instr Instruction
}

func (l Line) String() string {
	return fmt.Sprintf("0x%04x  %04x  %s", l.Addr, l.Instr.Word, l.Instr)
}

// Disassemble decodes a ROM image word by word as if loaded at origin.
// A trailing odd byte is decoded as the high byte of a word with a zero low
// byte, which is what the machine would fetch from cleared memory.
func Disassemble(rom []byte, origin uint16) []Line {
	lines := make([]Line, 0, (len(rom)+1)/InstructionSize)

	for i := 0; i < len(rom); i += InstructionSize {
		word := uint16(rom[i]) << 8
		if i+1 < len(rom) {
			word |= uint16(rom[i+1])
		}

		lines = append(lines, Line{
			Addr:  origin + uint16(i),
			Instr: Decode(word),
		})
	}

	return lines
}
