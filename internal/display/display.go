package display

const (
	Width  = 64
	Height = 32

	// SpriteWidth is the fixed width of every sprite row, one bit per pixel.
	SpriteWidth = 8
)

// Display is the 64x32 monochrome framebuffer. Cells are stored row-major,
// 1 for a lit pixel and 0 for an unlit one.
type Display struct {
	gfx   [Width * Height]uint8
	dirty bool
}

func New() *Display {
	return &Display{dirty: true}
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	for i := range d.gfx {
		d.gfx[i] = 0
	}
	d.dirty = true
}

// Blit XORs an 8 pixel wide sprite onto the framebuffer with its top-left
// corner at (x, y). Each byte of sprite is one row, most significant bit on
// the left. Both axes wrap, so a sprite crossing the right or bottom edge
// continues on the opposite side.
//
// Blit returns true if any lit pixel was turned off.
func (d *Display) Blit(x, y int, sprite []uint8) bool {
	collision := false

	for row, bits := range sprite {
		for col := 0; col < SpriteWidth; col++ {
			mask := uint8(0x80 >> col)
			if bits&mask == 0 {
				continue
			}

			addr := screenAddr(x+col, y+row)
			if d.gfx[addr] != 0 {
				collision = true
			}

			d.gfx[addr] ^= 1
		}
	}

	if len(sprite) > 0 {
		d.dirty = true
	}

	return collision
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	return d.gfx[screenAddr(x, y)] != 0
}

// Pixels returns the row-major framebuffer. The slice aliases the display
// and must not be modified.
func (d *Display) Pixels() []uint8 {
	return d.gfx[:]
}

// Dirty reports whether the framebuffer changed since the last call.
func (d *Display) Dirty() bool {
	dirty := d.dirty
	d.dirty = false
	return dirty
}

func screenAddr(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}

	y %= Height
	if y < 0 {
		y += Height
	}

	return Width*y + x
}
