// Package display implements the monochrome pixel grid of the virtual machine.
package display

import "strings"

// Canonical display dimensions.
const (
	Width  = 64
	Height = 32
)

// Glyphs used by the text dump.
const (
	setGlyph   = '#'
	clearGlyph = '.'
)

// Display is a Width x Height grid of boolean pixels that is only mutated
// through XOR blitting. It is a plain value, copying it creates an
// independent snapshot.
type Display struct {
	pixels [Height][Width]bool

	// Clipping selects the edge policy of Draw. When set, only the sprite
	// origin wraps and pixels beyond the canvas edges are skipped. When not
	// set, every pixel coordinate wraps around the canvas.
	Clipping bool
}

// New returns a cleared display using the given edge policy.
func New(clipping bool) Display {
	return Display{Clipping: clipping}
}

// Clear resets every pixel to unset.
func (d *Display) Clear() {
	d.pixels = [Height][Width]bool{}
}

// Pixel returns whether the pixel at the given coordinate is set.
// Coordinates outside of the canvas report unset.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return d.pixels[y][x]
}

// Draw XORs the sprite onto the display with its top left corner at x, y.
// Every sprite byte is one row of 8 pixels, most significant bit leftmost.
// It returns true if any set pixel was cleared by the operation.
func (d *Display) Draw(sprite []byte, x, y int) bool {
	x = mod(x, Width)
	y = mod(y, Height)

	collision := false
	for row, line := range sprite {
		py := y + row
		if py >= Height {
			if d.Clipping {
				break
			}
			py %= Height
		}

		for bit := range 8 {
			if line&(0x80>>bit) == 0 {
				continue
			}

			px := x + bit
			if px >= Width {
				if d.Clipping {
					break
				}
				px %= Width
			}

			if d.pixels[py][px] {
				collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
		}
	}
	return collision
}

// String returns a text dump of the display with one glyph per pixel and
// one line per row.
func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)

	for y := range Height {
		for x := range Width {
			if d.pixels[y][x] {
				sb.WriteByte(setGlyph)
			} else {
				sb.WriteByte(clearGlyph)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// mod returns the non negative remainder of v divided by n.
func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
