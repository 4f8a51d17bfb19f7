package terminal

import (
	"strings"

	"github.com/retroenv/retrochip8/internal/display"
)

const (
	pixelSet   = "██"
	pixelClear = "  "
)

// Frame renders the display with every pixel two characters wide inside a
// border, followed by a status line.
func Frame(d display.Display, status string) string {
	var sb strings.Builder
	border := "+" + strings.Repeat("-", 2*display.Width) + "+\n"

	sb.WriteString(border)
	for y := range display.Height {
		sb.WriteByte('|')
		for x := range display.Width {
			if d.Pixel(x, y) {
				sb.WriteString(pixelSet)
			} else {
				sb.WriteString(pixelClear)
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	sb.WriteString(status)
	sb.WriteByte('\n')
	return sb.String()
}
