package cpu

import (
	"fmt"
	"strings"
)

// Registers returns a textual dump of the registers and the halt state.
func (s *State) Registers() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC: %03X  I: %03X  SP: %02X  DT: %02X  ST: %02X  %s\n",
		s.PC, s.I, s.SP, s.DT, s.ST, s.Halt)

	for i, v := range s.V {
		fmt.Fprintf(&b, "V%X: %02X", i, v)
		if i%8 == 7 {
			b.WriteByte('\n')
		} else {
			b.WriteString("  ")
		}
	}
	return b.String()
}
