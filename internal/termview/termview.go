// Package termview draws the framebuffer as text, two pixel rows per line.
package termview

import (
	"strings"

	tm "github.com/buger/goterm"

	"github.com/kapitanov/chip8core/internal/display"
)

const (
	blank  = ' '
	upper  = '▀'
	lower  = '▄'
	filled = '█'
)

// Render returns the framebuffer as display.Height/2 lines of half-block
// characters.
func Render(d *display.Display) string {
	var sb strings.Builder

	for y := 0; y < display.Height; y += 2 {
		for x := 0; x < display.Width; x++ {
			top, bottom := d.Pixel(x, y), d.Pixel(x, y+1)

			switch {
			case top && bottom:
				sb.WriteRune(filled)
			case top:
				sb.WriteRune(upper)
			case bottom:
				sb.WriteRune(lower)
			default:
				sb.WriteRune(blank)
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Show clears the terminal and prints a status line above the framebuffer.
func Show(d *display.Display, status string) {
	tm.Clear()
	tm.MoveCursor(1, 1)

	tm.Println(tm.Bold(status))
	tm.Print(tm.Color(Render(d), tm.YELLOW))

	tm.Flush()
}
