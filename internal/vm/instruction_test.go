package vm

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNibbles(t *testing.T) {
	assert.Equal(t, [4]uint8{0xD, 0x1, 0x2, 0x5}, Nibbles(0xD125))
	assert.Equal(t, [4]uint8{0x0, 0x0, 0x0, 0x0}, Nibbles(0x0000))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		op   Op
		text string
	}{
		{0x00E0, OpCls, "cls"},
		{0x00EE, OpRet, "ret"},
		{0x1234, OpJp, "jp 0x234"},
		{0x2ABC, OpCall, "call 0xabc"},
		{0x3A42, OpSeImm, "se va, 0x42"},
		{0x4A42, OpSneImm, "sne va, 0x42"},
		{0x5AB0, OpSeReg, "se va, vb"},
		{0x6A42, OpLdImm, "ld va, 0x42"},
		{0x7A42, OpAddImm, "add va, 0x42"},
		{0x8AB0, OpLdReg, "ld va, vb"},
		{0x8AB1, OpOr, "or va, vb"},
		{0x8AB2, OpAnd, "and va, vb"},
		{0x8AB3, OpXor, "xor va, vb"},
		{0x8AB4, OpAddReg, "add va, vb"},
		{0x8AB5, OpSub, "sub va, vb"},
		{0x8AB6, OpShr, "shr va, vb"},
		{0x8AB7, OpSubn, "subn va, vb"},
		{0x8ABE, OpShl, "shl va, vb"},
		{0x9AB0, OpSneReg, "sne va, vb"},
		{0xA123, OpLdI, "ld i, 0x123"},
		{0xB123, OpJpV0, "jp v0, 0x123"},
		{0xCA0F, OpRnd, "rnd va, 0x0f"},
		{0xDAB5, OpDrw, "drw va, vb, 5"},
		{0xEA9E, OpSkp, "skp va"},
		{0xEAA1, OpSknp, "sknp va"},
		{0xFA07, OpLdVxDT, "ld va, dt"},
		{0xFA0A, OpLdVxK, "ld va, k"},
		{0xFA15, OpLdDTVx, "ld dt, va"},
		{0xFA18, OpLdSTVx, "ld st, va"},
		{0xFA1E, OpAddI, "add i, va"},
		{0xFA29, OpLdF, "ld f, va"},
		{0xFA33, OpLdB, "ld b, va"},
		{0xFA55, OpStore, "ld [i], va"},
		{0xFA65, OpLoad, "ld va, [i]"},
		{0x0123, OpUnknown, "unknown 0x0123"},
		{0x00E1, OpUnknown, "unknown 0x00e1"},
		{0x5AB1, OpUnknown, "unknown 0x5ab1"},
		{0x8AB8, OpUnknown, "unknown 0x8ab8"},
		{0x9AB1, OpUnknown, "unknown 0x9ab1"},
		{0xEA9F, OpUnknown, "unknown 0xea9f"},
		{0xFA99, OpUnknown, "unknown 0xfa99"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			in := Decode(tt.word)
			assert.Equal(t, tt.op, in.Op)
			assert.Equal(t, tt.word, in.Word)
			assert.Equal(t, tt.text, in.String())
		})
	}
}

func TestDecodeOperands(t *testing.T) {
	in := Decode(0xD7A3)

	assert.Equal(t, uint8(0x7), in.X)
	assert.Equal(t, uint8(0xA), in.Y)
	assert.Equal(t, uint8(0x3), in.N)
	assert.Equal(t, uint8(0xA3), in.NN)
	assert.Equal(t, uint16(0x7A3), in.NNN)
}

func TestEveryWordDecodes(t *testing.T) {
	seen := map[Op]bool{}
	for w := 0; w <= 0xFFFF; w++ {
		seen[Decode(uint16(w)).Op] = true
	}

	for op := OpUnknown; op <= OpLoad; op++ {
		assert.True(t, seen[op], op.String())
	}
	assert.Equal(t, "unknown", Op(200).String())
}
