package vm

import (
	"fmt"
	"log/slog"
)

const (
	MemorySize = 4096

	addrMask = MemorySize - 1
)

// Memory is the 4K address space. Addresses past the end wrap around to the
// start instead of faulting; ROMs that push I beyond 0xFFF read and write
// the low end of memory.
type Memory [MemorySize]uint8

func (m *Memory) Read(addr uint16) uint8 {
	return m[wrapAddr(addr)]
}

func (m *Memory) Write(addr uint16, value uint8) {
	m[wrapAddr(addr)] = value
}

// Span copies n bytes starting at addr, wrapping at the end of memory.
func (m *Memory) Span(addr uint16, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = m.Read(addr + uint16(i))
	}
	return out
}

func (m *Memory) reset() {
	for i := range m {
		m[i] = 0
	}
}

func wrapAddr(addr uint16) uint16 {
	if addr > addrMask {
		slog.Debug("memory address wrapped",
			"addr", fmt.Sprintf("0x%04x", addr),
			"to", fmt.Sprintf("0x%04x", addr&addrMask),
		)
	}

	return addr & addrMask
}
