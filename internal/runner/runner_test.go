package runner

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kapitanov/chip8core/internal/keypad"
	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/retroenv/retrogolib/assert"
)

var errStop = errors.New("stop")

type keyEvent struct {
	key  keypad.Key
	down bool
}

// fakeHAL replays one batch of key events per frame and records draws.
type fakeHAL struct {
	frames [][]keyEvent
	frame  int
	draws  int
	last   []uint8

	stopAfter int
}

func (h *fakeHAL) ReadInput(keyDown func(keypad.Key), keyUp func(keypad.Key)) error {
	if h.stopAfter > 0 && h.frame >= h.stopAfter {
		return errStop
	}

	if h.frame < len(h.frames) {
		for _, e := range h.frames[h.frame] {
			if e.down {
				keyDown(e.key)
			} else {
				keyUp(e.key)
			}
		}
	}
	h.frame++
	return nil
}

func (h *fakeHAL) Draw(gfx []uint8) error {
	h.draws++
	h.last = append(h.last[:0], gfx...)
	return nil
}

func (h *fakeHAL) WaitForNextFrame() error {
	return nil
}

func load(t *testing.T, words ...uint16) *vm.VM {
	t.Helper()

	b := make([]byte, 0, len(words)*2)
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}

	m := vm.New(vm.WithSeed(1))
	assert.NoError(t, m.Load(bytes.NewReader(b)))
	return m
}

func TestRunStepExecutesDueCycles(t *testing.T) {
	// add v0, 1; jp 0x200
	m := load(t, 0x7001, 0x1200)
	hal := &fakeHAL{}
	t0 := time.Unix(0, 0)
	p := NewPacer(DefaultConfig(), t0)

	assert.NoError(t, runStep(m, hal, p, t0.Add(50*time.Millisecond)))

	regs := m.Registers()
	assert.Equal(t, uint8(15), regs.Get(0))
}

func TestRunStepTicksTimers(t *testing.T) {
	// ld v0, 0x10; ld dt, v0; jp 0x204
	m := load(t, 0x6010, 0xF015, 0x1204)
	hal := &fakeHAL{}
	t0 := time.Unix(0, 0)
	p := NewPacer(DefaultConfig(), t0)

	assert.NoError(t, runStep(m, hal, p, t0.Add(5*time.Millisecond)))
	assert.Equal(t, uint8(0x10), m.DelayTimer())

	assert.NoError(t, runStep(m, hal, p, t0.Add(55*time.Millisecond)))
	assert.Equal(t, uint8(0x10-3), m.DelayTimer())
}

func TestRunStepDrawsOnlyWhenDirty(t *testing.T) {
	// ld i, 0x000 (glyph 0); drw v0, v0, 5; jp 0x204
	m := load(t, 0xA000, 0xD005, 0x1204)
	hal := &fakeHAL{}
	t0 := time.Unix(0, 0)
	p := NewPacer(DefaultConfig(), t0)

	assert.NoError(t, runStep(m, hal, p, t0.Add(10*time.Millisecond)))
	assert.Equal(t, 1, hal.draws)
	assert.Equal(t, uint8(1), hal.last[0])

	assert.NoError(t, runStep(m, hal, p, t0.Add(20*time.Millisecond)))
	assert.Equal(t, 1, hal.draws)
}

func TestKeyDownResolvesWait(t *testing.T) {
	// ld v3, k; jp 0x202
	m := load(t, 0xF30A, 0x1202)
	hal := &fakeHAL{
		frames: [][]keyEvent{
			{},
			{{keypad.KeyC, true}, {keypad.KeyC, false}},
		},
	}
	t0 := time.Unix(0, 0)
	p := NewPacer(DefaultConfig(), t0)

	assert.NoError(t, runStep(m, hal, p, t0.Add(5*time.Millisecond)))
	assert.True(t, m.IsWaitingForKey())

	assert.NoError(t, runStep(m, hal, p, t0.Add(10*time.Millisecond)))
	assert.False(t, m.IsWaitingForKey())
	assert.False(t, m.Keypad().Get(keypad.KeyC))

	regs := m.Registers()
	assert.Equal(t, uint8(0xC), regs.Get(3))
	assert.Equal(t, uint16(0x202), m.PC())
}

func TestKeyUpReleases(t *testing.T) {
	m := vm.New()

	KeyDown(m)(keypad.Key5)
	assert.True(t, m.Keypad().Get(keypad.Key5))

	KeyUp(m)(keypad.Key5)
	assert.False(t, m.Keypad().Get(keypad.Key5))
}

func TestRunReturnsHALError(t *testing.T) {
	m := load(t, 0x1200)
	hal := &fakeHAL{stopAfter: 3}

	err := Run(context.Background(), m, hal, DefaultConfig())
	assert.True(t, errors.Is(err, errStop))
	assert.Equal(t, 3, hal.frame)
}

func TestRunStopsOnCancel(t *testing.T) {
	m := load(t, 0x1200)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, m, &fakeHAL{}, DefaultConfig())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunHeadless(t *testing.T) {
	// ld v0, 0x3c; ld dt, v0; add v1, 1; jp 0x204
	m := load(t, 0x603C, 0xF015, 0x7101, 0x1204)

	var traced []vm.Op
	faults := RunHeadless(m, DefaultConfig(), 20, func(pc uint16, in vm.Instruction) {
		traced = append(traced, in.Op)
	})

	assert.Equal(t, 0, faults)
	assert.Equal(t, 20, len(traced))
	assert.Equal(t, vm.OpLdImm, traced[0])
	assert.Equal(t, vm.OpLdDTVx, traced[1])
	assert.Equal(t, vm.OpAddImm, traced[2])
	assert.Equal(t, vm.OpJp, traced[3])
	assert.Equal(t, uint8(0x3C-2), m.DelayTimer())
}

func TestRunHeadlessCountsFaults(t *testing.T) {
	m := load(t, 0x00EE, 0x00EE)

	assert.Equal(t, 2, RunHeadless(m, DefaultConfig(), 2, nil))
}
