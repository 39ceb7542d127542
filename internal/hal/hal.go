package hal

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/kapitanov/chip8core/internal/display"
	"github.com/kapitanov/chip8core/internal/keypad"
	"github.com/veandco/go-sdl2/sdl"
)

const DefaultScale = 16

type Options struct {
	Title string
	Scale int // window pixels per framebuffer pixel
}

type HAL struct {
	window          *sdl.Window
	renderer        *sdl.Renderer
	texture         *sdl.Texture
	backBuffer      []uint32
	backBufferPitch int
}

var (
	ErrReboot = errors.New("reboot")
	ErrQuit   = errors.New("quit")
)

func New(opts Options) (*HAL, error) {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Title == "" {
		opts.Title = "CHIP-8"
	}

	windowWidth := int32(display.Width * opts.Scale)
	windowHeight := int32(display.Height * opts.Scale)

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to init sdl: %w", err)
	}

	window, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, windowWidth, windowHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_UTILITY)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl window: %w", err)
	}
	slog.Debug("hal: create window")
	window.Show()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl renderer: %w", err)
	}
	err = renderer.SetLogicalSize(windowWidth, windowHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to resize sdl renderer: %w", err)
	}
	slog.Debug("hal: create renderer")

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, display.Width, display.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl texture: %w", err)
	}
	slog.Debug("hal: create texture")

	return &HAL{
		window:          window,
		renderer:        renderer,
		texture:         texture,
		backBuffer:      make([]uint32, display.Width*display.Height),
		backBufferPitch: display.Width * int(unsafe.Sizeof(uint32(0))),
	}, nil
}

func (hal *HAL) Shutdown() {
	if err := hal.texture.Destroy(); err != nil {
		slog.Error("failed to destroy sdl texture", "err", err)
	}

	if err := hal.renderer.Destroy(); err != nil {
		slog.Error("failed to destroy sdl renderer", "err", err)
	}

	if err := hal.window.Destroy(); err != nil {
		slog.Error("failed to destroy sdl window", "err", err)
	}

	sdl.Quit()
}

// ReadInput drains pending SDL events. Escape or closing the window yields
// ErrQuit, Backspace yields ErrReboot.
func (hal *HAL) ReadInput(keyDown func(keypad.Key), keyUp func(keypad.Key)) error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch e.GetType() {
		case sdl.QUIT:
			slog.Debug("hal: exit requested")
			return ErrQuit

		case sdl.KEYDOWN:
			if err := hal.processKeyDown(e.(*sdl.KeyboardEvent), keyDown); err != nil {
				return err
			}

		case sdl.KEYUP:
			hal.processKeyUp(e.(*sdl.KeyboardEvent), keyUp)
		}
	}

	return nil
}

func (hal *HAL) processKeyDown(e *sdl.KeyboardEvent, callback func(keypad.Key)) error {
	switch e.Keysym.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return ErrQuit
	case sdl.SCANCODE_BACKSPACE:
		return ErrReboot
	}

	if e.Repeat != 0 {
		return nil
	}

	if key, ok := keyMap[e.Keysym.Scancode]; ok {
		slog.Debug("hal: key down", "key", key)
		callback(key)
	}

	return nil
}

func (hal *HAL) processKeyUp(e *sdl.KeyboardEvent, callback func(keypad.Key)) {
	if key, ok := keyMap[e.Keysym.Scancode]; ok {
		callback(key)
	}
}

// Physical                Logical
// ================        =================
// | 1 | 2 | 3 | 4 |       | 1 | 2 | 3 | C |
// | q | w | e | r |       | 4 | 5 | 6 | D |
// | a | s | d | f |  <=>  | 7 | 8 | 9 | E |
// | z | x | c | v |       | A | 0 | B | F |
// ================        =================
var keyMap = map[sdl.Scancode]keypad.Key{
	sdl.SCANCODE_1: keypad.Key1,
	sdl.SCANCODE_2: keypad.Key2,
	sdl.SCANCODE_3: keypad.Key3,
	sdl.SCANCODE_4: keypad.KeyC,
	sdl.SCANCODE_Q: keypad.Key4,
	sdl.SCANCODE_W: keypad.Key5,
	sdl.SCANCODE_E: keypad.Key6,
	sdl.SCANCODE_R: keypad.KeyD,
	sdl.SCANCODE_A: keypad.Key7,
	sdl.SCANCODE_S: keypad.Key8,
	sdl.SCANCODE_D: keypad.Key9,
	sdl.SCANCODE_F: keypad.KeyE,
	sdl.SCANCODE_Z: keypad.KeyA,
	sdl.SCANCODE_X: keypad.Key0,
	sdl.SCANCODE_C: keypad.KeyB,
	sdl.SCANCODE_V: keypad.KeyF,
}

// Draw paints a row-major framebuffer of display.Width x display.Height
// cells, nonzero meaning lit.
func (hal *HAL) Draw(gfx []uint8) error {
	const (
		bgColor = uint32(0x000000)
		fgColor = uint32(0xbea700)
	)

	for i, p := range gfx {
		if p != 0 {
			hal.backBuffer[i] = fgColor
		} else {
			hal.backBuffer[i] = bgColor
		}
	}

	backBufferPtr := unsafe.Pointer(&hal.backBuffer[0])
	if err := hal.texture.Update(nil, backBufferPtr, hal.backBufferPitch); err != nil {
		return fmt.Errorf("failed to update sdl texture: %w", err)
	}

	if err := hal.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear sdl renderer: %w", err)
	}

	if err := hal.renderer.Copy(hal.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy sdl texture to renderer: %w", err)
	}

	hal.renderer.Present()
	return nil
}

// WaitForNextFrame yields the host CPU between polls; the runner paces the
// machine from wall-clock time, not from this delay.
func (hal *HAL) WaitForNextFrame() error {
	sdl.Delay(1)
	return nil
}
