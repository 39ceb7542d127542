package runner

import "time"

// maxBurst bounds how far the pacer catches up after a stall, in seconds of
// emulated time.
const maxBurst = time.Second / 10

// Pacer converts elapsed wall-clock time into a number of CPU cycles and
// timer ticks. It keeps the remainder, so rates hold over time even when
// Due is called at irregular intervals.
type Pacer struct {
	cpuStep   time.Duration
	timerStep time.Duration

	lastCPU   time.Time
	lastTimer time.Time
}

func NewPacer(cfg Config, now time.Time) *Pacer {
	cfg = cfg.withDefaults()

	return &Pacer{
		cpuStep:   time.Second / time.Duration(cfg.CPUHz),
		timerStep: time.Second / time.Duration(cfg.TimerHz),
		lastCPU:   now,
		lastTimer: now,
	}
}

// Due returns how many cycles and timer ticks are owed at now.
func (p *Pacer) Due(now time.Time) (cycles, ticks int) {
	cycles = due(&p.lastCPU, p.cpuStep, now)
	ticks = due(&p.lastTimer, p.timerStep, now)
	return cycles, ticks
}

func due(last *time.Time, step time.Duration, now time.Time) int {
	elapsed := now.Sub(*last)
	if elapsed < step {
		return 0
	}

	if elapsed > maxBurst {
		*last = now
		return int(maxBurst / step)
	}

	n := int(elapsed / step)
	*last = last.Add(time.Duration(n) * step)
	return n
}
