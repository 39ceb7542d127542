package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/kapitanov/chip8core/internal/keypad"
	"github.com/kapitanov/chip8core/internal/vm"
)

const (
	DefaultCPUHz   = 600
	DefaultTimerHz = 60
)

// HAL is the platform layer the runner drives: input, output and frame
// pacing.
type HAL interface {
	ReadInput(keyDown func(keypad.Key), keyUp func(keypad.Key)) error
	Draw(gfx []uint8) error
	WaitForNextFrame() error
}

type Config struct {
	CPUHz   int // instructions per second
	TimerHz int // delay/sound timer decrements per second
}

func DefaultConfig() Config {
	return Config{
		CPUHz:   DefaultCPUHz,
		TimerHz: DefaultTimerHz,
	}
}

func (c Config) withDefaults() Config {
	if c.CPUHz <= 0 {
		c.CPUHz = DefaultCPUHz
	}
	if c.TimerHz <= 0 {
		c.TimerHz = DefaultTimerHz
	}
	return c
}

// Run drives the machine until the HAL or ctx reports an error. HAL errors
// such as a quit or reboot request are returned unchanged.
func Run(ctx context.Context, m *vm.VM, hal HAL, cfg Config) error {
	cfg = cfg.withDefaults()
	slog.Info("run", "cpu_hz", cfg.CPUHz, "timer_hz", cfg.TimerHz)

	pacer := NewPacer(cfg, time.Now())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := runStep(m, hal, pacer, time.Now()); err != nil {
			return err
		}
	}
}

func runStep(m *vm.VM, hal HAL, pacer *Pacer, now time.Time) error {
	if err := hal.ReadInput(KeyDown(m), KeyUp(m)); err != nil {
		return err
	}

	cycles, ticks := pacer.Due(now)
	for i := 0; i < cycles; i++ {
		if err := m.Cycle(); err != nil {
			slog.Warn("cpu fault", "err", err)
		}
	}

	for i := 0; i < ticks; i++ {
		m.TickTimers()
	}

	if m.Display().Dirty() {
		if err := hal.Draw(m.Display().Pixels()); err != nil {
			return err
		}
	}

	return hal.WaitForNextFrame()
}

// KeyDown returns the key press handler for m. The keypad is updated first
// so that a pending wait-for-key sees the key as held.
func KeyDown(m *vm.VM) func(keypad.Key) {
	return func(k keypad.Key) {
		m.Keypad().Set(k, true)

		if m.IsWaitingForKey() {
			m.ResolveWaitForKey(k)
		}
	}
}

func KeyUp(m *vm.VM) func(keypad.Key) {
	return func(k keypad.Key) {
		m.Keypad().Set(k, false)
	}
}
