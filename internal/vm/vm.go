package vm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/kapitanov/chip8core/internal/display"
	"github.com/kapitanov/chip8core/internal/keypad"
)

const (
	ProgramStart    = uint16(0x200)
	InstructionSize = 2

	// MaxProgramSize is the room between ProgramStart and the end of memory.
	MaxProgramSize = MemorySize - int64(ProgramStart)
)

var (
	ErrROMLoad = errors.New("unable to load rom")
)

// VM is a CHIP-8 machine. It is not safe for concurrent use.
type VM struct {
	memory    Memory    // Memory (4k)
	registers Registers // V registers (V0-VF)
	stack     Stack     // Return addresses

	pc    uint16 // Program counter
	index uint16 // Index register

	delayTimer uint8 // Delay timer
	soundTimer uint8 // Sound timer

	display *display.Display
	keypad  *keypad.Keypad

	wait waitState

	rand    *rand.Rand
	program []byte
}

// Option configures a VM in New.
type Option func(*VM)

// WithRand sets the random source used by the rnd instruction.
func WithRand(r *rand.Rand) Option {
	return func(vm *VM) {
		vm.rand = r
	}
}

// WithSeed makes the rnd instruction deterministic.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}

// New creates a powered-on machine: font loaded, everything else zeroed and
// the program counter at 0x200.
func New(opts ...Option) *VM {
	vm := &VM{
		display: display.New(),
		keypad:  keypad.New(),
	}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.rand == nil {
		vm.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	vm.initialize()
	return vm
}

// Reset powers the machine back on and reloads the last loaded program.
func (vm *VM) Reset() {
	vm.initialize()
	vm.copyProgram()
}

func (vm *VM) initialize() {
	vm.pc = ProgramStart
	vm.index = 0

	vm.display.Clear()

	slog.Debug("clear stack", "n", StackSize)
	vm.stack.reset()

	slog.Debug("clear keypad", "n", keypad.KeyCount)
	vm.keypad.Reset()

	slog.Debug("clear registers", "n", RegisterCount)
	vm.registers.reset()

	slog.Debug("clear memory", "n", MemorySize)
	vm.memory.reset()

	slog.Debug("load font", "at", fmt.Sprintf("0x%04x", FontAddr), "n", len(chip8Font))
	copy(vm.memory[FontAddr:], chip8Font)

	vm.delayTimer = 0
	vm.soundTimer = 0
	vm.wait = waitState{}
}

// LoadROM reads the file at path into memory at 0x200. On failure the
// machine is left as it was.
func (vm *VM) LoadROM(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrROMLoad, path, err)
	}
	defer f.Close()

	if err := vm.Load(f); err != nil {
		return fmt.Errorf("%q: %w", path, err)
	}

	return nil
}

// Load copies a raw ROM image into memory at 0x200. The stream is read before
// memory is touched, so a read error leaves the machine unchanged. At most one
// byte past the program area is read, enough to detect truncation.
func (vm *VM) Load(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(r, MaxProgramSize+1)); err != nil {
		return fmt.Errorf("%w: %w", ErrROMLoad, err)
	}

	vm.program = buf.Bytes()
	vm.copyProgram()
	return nil
}

func (vm *VM) copyProgram() {
	n := copy(vm.memory[ProgramStart:], vm.program)
	if n < len(vm.program) {
		slog.Warn("program truncated", "size", len(vm.program), "loaded", n)
	}

	slog.Info("load program", "at", fmt.Sprintf("0x%04x", ProgramStart), "n", n)
}

// Cycle fetches, decodes and executes one instruction.
//
// A non-nil error is always recoverable: the offending instruction has been
// skipped and the machine can keep running.
func (vm *VM) Cycle() error {
	word := vm.fetchOpcode()
	instr := Decode(word)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", vm.pc),
			"opcode", fmt.Sprintf("0x%04x", word),
			"instr", instr.String(),
		)
	}

	return vm.execute(instr)
}

func (vm *VM) fetchOpcode() uint16 {
	hi := vm.memory.Read(vm.pc)
	lo := vm.memory.Read(vm.pc + 1)

	return uint16(hi)<<8 | uint16(lo)
}

// Current decodes the instruction at pc without executing it.
func (vm *VM) Current() Instruction {
	return Decode(vm.fetchOpcode())
}

// TickTimers decrements the delay and sound timers if they are nonzero.
func (vm *VM) TickTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}

	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// Display returns the framebuffer drawn by cls and drw.
func (vm *VM) Display() *display.Display {
	return vm.display
}

// Keypad returns the key state consulted by skp, sknp and ld vx, k.
func (vm *VM) Keypad() *keypad.Keypad {
	return vm.keypad
}

// PC returns the address of the next instruction.
func (vm *VM) PC() uint16 {
	return vm.pc
}

// Index returns the I register. It is not masked to the address space.
func (vm *VM) Index() uint16 {
	return vm.index
}

// SP returns the number of return addresses on the call stack.
func (vm *VM) SP() int {
	return vm.stack.Len()
}

// Registers returns a copy of v0-vf.
func (vm *VM) Registers() Registers {
	return vm.registers
}

// DelayTimer returns the value ld vx, dt would read.
func (vm *VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer is exposed for front ends; the machine itself makes no sound.
func (vm *VM) SoundTimer() uint8 {
	return vm.soundTimer
}

// Memory returns the address space. The slice aliases the machine.
func (vm *VM) Memory() []uint8 {
	return vm.memory[:]
}
