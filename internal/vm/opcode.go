package vm

import (
	"fmt"
	"log/slog"

	"github.com/kapitanov/chip8core/internal/keypad"
)

func (vm *VM) execute(in Instruction) error {
	x, y := in.X, in.Y

	switch in.Op {
	// 00E0	cls	Clear the screen
	case OpCls:
		vm.display.Clear()
		vm.next()

	// 00EE	ret	Return from subroutine call
	case OpRet:
		addr, err := vm.stack.Pop()
		if err != nil {
			vm.next()
			return fmt.Errorf("ret at 0x%04x: %w", vm.pc-InstructionSize, err)
		}
		vm.pc = addr
		vm.next()

	// 1nnn	jp nnn	Jump to address nnn
	case OpJp:
		vm.pc = in.NNN

	// 2nnn	call nnn	Jump to subroutine at address nnn
	case OpCall:
		if err := vm.stack.Push(vm.pc); err != nil {
			vm.next()
			return fmt.Errorf("call at 0x%04x: %w", vm.pc-InstructionSize, err)
		}
		vm.pc = in.NNN

	// 3xnn	se vx, nn	Skip if vx == nn
	case OpSeImm:
		vm.skipIf(vm.registers.Get(x) == in.NN)

	// 4xnn	sne vx, nn	Skip if vx != nn
	case OpSneImm:
		vm.skipIf(vm.registers.Get(x) != in.NN)

	// 5xy0	se vx, vy	Skip if vx == vy
	case OpSeReg:
		vm.skipIf(vm.registers.Get(x) == vm.registers.Get(y))

	// 6xnn	ld vx, nn	Move constant to register
	case OpLdImm:
		vm.registers.Set(x, in.NN)
		vm.next()

	// 7xnn	add vx, nn	Add constant to register, no carry generated
	case OpAddImm:
		vm.registers.Set(x, vm.registers.Get(x)+in.NN)
		vm.next()

	// 8xy0	ld vx, vy	Move register vy into vx
	case OpLdReg:
		vm.registers.Set(x, vm.registers.Get(y))
		vm.next()

	// 8xy1	or vx, vy
	case OpOr:
		vm.registers.Set(x, vm.registers.Get(x)|vm.registers.Get(y))
		vm.next()

	// 8xy2	and vx, vy
	case OpAnd:
		vm.registers.Set(x, vm.registers.Get(x)&vm.registers.Get(y))
		vm.next()

	// 8xy3	xor vx, vy
	case OpXor:
		vm.registers.Set(x, vm.registers.Get(x)^vm.registers.Get(y))
		vm.next()

	// 8xy4	add vx, vy	vf is 1 if the sum overflows a byte
	case OpAddReg:
		sum := uint16(vm.registers.Get(x)) + uint16(vm.registers.Get(y))
		vm.registers.Set(x, uint8(sum))
		vm.registers.setFlag(boolToFlag(sum > 0xFF))
		vm.next()

	// 8xy5	sub vx, vy	vx = vx - vy, vf is 0 if signed vx - vy is negative
	case OpSub:
		vm.subtract(x, vm.registers.Get(x), vm.registers.Get(y))
		vm.next()

	// 8xy6	shr vx, vy	vx = vy >> 1, vf gets bit 7 of vy as is
	case OpShr:
		src := vm.registers.Get(y)
		vm.registers.setFlag(src & 0x80)
		vm.registers.Set(x, src>>1)
		vm.next()

	// 8xy7	subn vx, vy	vx = vy - vx, vf is 0 if signed vy - vx is negative
	case OpSubn:
		vm.subtract(x, vm.registers.Get(y), vm.registers.Get(x))
		vm.next()

	// 8xyE	shl vx, vy	vx = vy << 1, vf gets bit 0 of vy
	case OpShl:
		src := vm.registers.Get(y)
		vm.registers.setFlag(src & 0x01)
		vm.registers.Set(x, src<<1)
		vm.next()

	// 9xy0	sne vx, vy	Skip if vx != vy
	case OpSneReg:
		vm.skipIf(vm.registers.Get(x) != vm.registers.Get(y))

	// Annn	ld i, nnn	Load index register with constant nnn
	case OpLdI:
		vm.index = in.NNN
		vm.next()

	// Bnnn	jp v0, nnn	Jump to address nnn + v0
	case OpJpV0:
		vm.pc = in.NNN + uint16(vm.registers.Get(0))

	// Cxnn	rnd vx, nn	vx = random byte masked by nn
	case OpRnd:
		vm.registers.Set(x, uint8(vm.rand.IntN(256))&in.NN)
		vm.next()

	// Dxyn	drw vx, vy, n	XOR an n row sprite from [i] at (vx, vy), vf = collision
	case OpDrw:
		sprite := vm.memory.Span(vm.index, int(in.N))
		collision := vm.display.Blit(int(vm.registers.Get(x)), int(vm.registers.Get(y)), sprite)
		vm.registers.setFlag(boolToFlag(collision))
		vm.next()

	// Ex9E	skp vx	Skip if key vx is pressed
	case OpSkp:
		vm.skipIf(vm.keyPressed(x))

	// ExA1	sknp vx	Skip if key vx is not pressed
	case OpSknp:
		vm.skipIf(!vm.keyPressed(x))

	// Fx07	ld vx, dt	Get delay timer into vx
	case OpLdVxDT:
		vm.registers.Set(x, vm.delayTimer)
		vm.next()

	// Fx0A	ld vx, k	Wait for keypress, put key in vx
	case OpLdVxK:
		if vm.wait.mode == keyResolved && vm.wait.reg == x {
			vm.wait = waitState{}
			vm.next()
			break
		}
		vm.wait = waitState{mode: waitingForKey, reg: x}

	// Fx15	ld dt, vx	Set the delay timer to vx
	case OpLdDTVx:
		vm.delayTimer = vm.registers.Get(x)
		vm.next()

	// Fx18	ld st, vx	Set the sound timer to vx
	case OpLdSTVx:
		vm.soundTimer = vm.registers.Get(x)
		vm.next()

	// Fx1E	add i, vx	Add vx to the index register, vf untouched
	case OpAddI:
		vm.index += uint16(vm.registers.Get(x))
		vm.next()

	// Fx29	ld f, vx	Point i at the font sprite for digit vx
	case OpLdF:
		vm.index = FontAddr + uint16(vm.registers.Get(x))*GlyphSize
		vm.next()

	// Fx33	ld b, vx	Store BCD of vx at i, i+1, i+2; i unchanged
	case OpLdB:
		v := vm.registers.Get(x)
		vm.memory.Write(vm.index, v/100)
		vm.memory.Write(vm.index+1, (v/10)%10)
		vm.memory.Write(vm.index+2, v%10)
		vm.next()

	// Fx55	ld [i], vx	Store v0-vx at i onwards, then i = i + x + 1
	case OpStore:
		for r := uint8(0); r <= x; r++ {
			vm.memory.Write(vm.index+uint16(r), vm.registers.Get(r))
		}
		vm.index += uint16(x) + 1
		vm.next()

	// Fx65	ld vx, [i]	Load v0-vx from i onwards, then i = i + x + 1
	case OpLoad:
		for r := uint8(0); r <= x; r++ {
			vm.registers.Set(r, vm.memory.Read(vm.index+uint16(r)))
		}
		vm.index += uint16(x) + 1
		vm.next()

	// Unknown words stall: pc stays put and the word runs again next cycle.
	case OpUnknown:
		slog.Debug("unknown opcode", "pc", fmt.Sprintf("0x%04x", vm.pc), "opcode", fmt.Sprintf("0x%04x", in.Word))
	}

	return nil
}

func (vm *VM) next() {
	vm.pc += InstructionSize
}

func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2 * InstructionSize
	} else {
		vm.pc += InstructionSize
	}
}

// subtract stores a - b in vx. The flag is cleared when the difference of
// the operands read as signed bytes is negative, and is written after vx.
// The signed difference is widened, so pairs such as 127 - (-56) do not
// wrap.
func (vm *VM) subtract(x uint8, a, b uint8) {
	vm.registers.Set(x, a-b)
	vm.registers.setFlag(signedBorrowFlag(a, b))
}

func signedBorrowFlag(a, b uint8) uint8 {
	return boolToFlag(int(int8(a))-int(int8(b)) >= 0)
}

func (vm *VM) keyPressed(x uint8) bool {
	return vm.keypad.Get(keypad.Key(vm.registers.Get(x)))
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
