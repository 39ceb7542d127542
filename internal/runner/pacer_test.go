package runner

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestPacerDue(t *testing.T) {
	t0 := time.Unix(1000, 0)
	p := NewPacer(DefaultConfig(), t0)

	cycles, ticks := p.Due(t0)
	assert.Equal(t, 0, cycles)
	assert.Equal(t, 0, ticks)

	cycles, ticks = p.Due(t0.Add(50 * time.Millisecond))
	assert.Equal(t, 30, cycles)
	assert.Equal(t, 3, ticks)

	cycles, ticks = p.Due(t0.Add(51 * time.Millisecond))
	assert.Equal(t, 0, cycles)
	assert.Equal(t, 0, ticks)
}

func TestPacerKeepsRemainder(t *testing.T) {
	t0 := time.Unix(1000, 0)
	p := NewPacer(Config{CPUHz: 100, TimerHz: 10}, t0)

	total := 0
	for ms := 3; ms <= 90; ms += 3 {
		cycles, _ := p.Due(t0.Add(time.Duration(ms) * time.Millisecond))
		total += cycles
	}
	assert.Equal(t, 9, total)
}

func TestPacerCapsBurst(t *testing.T) {
	t0 := time.Unix(1000, 0)
	p := NewPacer(DefaultConfig(), t0)

	cycles, ticks := p.Due(t0.Add(5 * time.Second))
	assert.Equal(t, 60, cycles)
	assert.Equal(t, 6, ticks)

	cycles, _ = p.Due(t0.Add(5*time.Second + time.Millisecond))
	assert.Equal(t, 0, cycles)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultCPUHz, cfg.CPUHz)
	assert.Equal(t, DefaultTimerHz, cfg.TimerHz)

	cfg = Config{CPUHz: 1000, TimerHz: 30}.withDefaults()
	assert.Equal(t, 1000, cfg.CPUHz)
	assert.Equal(t, 30, cfg.TimerHz)
}
