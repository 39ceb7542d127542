package vm

import (
	"log/slog"

	"github.com/kapitanov/chip8core/internal/keypad"
)

type waitMode uint8

const (
	running waitMode = iota
	waitingForKey
	keyResolved
)

// waitState tracks the ld vx, k instruction. The instruction re-executes
// every cycle: while waiting it leaves pc alone, once resolved it advances.
type waitState struct {
	mode waitMode
	reg  uint8
}

// IsWaitingForKey reports whether the machine is blocked on ld vx, k.
func (vm *VM) IsWaitingForKey() bool {
	return vm.wait.mode == waitingForKey
}

// ResolveWaitForKey ends a pending wait with key k. The keypad is consulted
// again: k only counts if it is still held, so callers must resolve before
// forwarding the matching key release.
func (vm *VM) ResolveWaitForKey(k keypad.Key) {
	if vm.wait.mode != waitingForKey {
		return
	}

	if !vm.keypad.Get(k) {
		slog.Debug("key not held, still waiting", "key", k)
		return
	}

	vm.registers.Set(vm.wait.reg, uint8(k))
	vm.wait.mode = keyResolved
}
