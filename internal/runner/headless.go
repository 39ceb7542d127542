package runner

import (
	"log/slog"

	"github.com/kapitanov/chip8core/internal/vm"
)

// TraceFunc observes the instruction about to execute at pc.
type TraceFunc func(pc uint16, in vm.Instruction)

// RunHeadless executes n cycles as fast as possible, ticking the timers at
// the configured CPU to timer ratio. It returns the number of cycles that
// reported a fault.
func RunHeadless(m *vm.VM, cfg Config, n int, trace TraceFunc) int {
	cfg = cfg.withDefaults()

	cyclesPerTick := cfg.CPUHz / cfg.TimerHz
	if cyclesPerTick < 1 {
		cyclesPerTick = 1
	}

	faults := 0
	for i := 1; i <= n; i++ {
		if trace != nil {
			trace(m.PC(), m.Current())
		}

		if err := m.Cycle(); err != nil {
			slog.Warn("cpu fault", "cycle", i, "err", err)
			faults++
		}

		if i%cyclesPerTick == 0 {
			m.TickTimers()
		}
	}

	return faults
}
