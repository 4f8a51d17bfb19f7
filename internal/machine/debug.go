package machine

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrochip8/internal/disasm"
)

// debugInstructions is the number of instructions shown by DebugState.
const debugInstructions = 3

// DebugState returns the disassembly of the instruction at the program
// counter and the two following ones, followed by the register dump.
func (m *Machine) DebugState() string {
	state := &m.cpu.State

	lines := make([]string, debugInstructions)
	width := 0
	for i := range lines {
		address := state.PC + uint16(2*i)
		opcode := state.Memory.ReadOpcode(address)
		lines[i] = fmt.Sprintf("%03X - %s", address&0xFFF, disasm.Text(opcode))
		width = max(width, len(lines[i]))
	}

	var b strings.Builder
	for i, line := range lines {
		prefix := "   "
		if i == 0 {
			prefix = "-> "
		}
		fmt.Fprintf(&b, "%s|%-*s|\n", prefix, width, line)
	}
	b.WriteString(state.Registers())
	return b.String()
}
