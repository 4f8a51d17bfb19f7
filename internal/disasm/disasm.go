// Package disasm converts CHIP-8 opcodes into assembly mnemonics. It serves
// the debug views of the emulator and produces listings of program images.
package disasm

import (
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// ErrUnknownOpcode is returned for instruction words that do not decode to
// any known instruction. They are usually data embedded in the program.
var ErrUnknownOpcode = errors.New("unknown opcode (probably data)")

// sys calls a native machine code routine, it has no retrogolib definition.
var sys = &chip8.Instruction{Name: "sys"}

// Disassemble returns the assembly text of an opcode. An opcode that does
// not decode returns an error wrapping ErrUnknownOpcode, its message is the
// diagnostic text to show in place of the instruction.
func Disassemble(opcode uint16) (string, error) {
	ins := lookup(opcode)
	if ins == nil {
		return "", unknownOpcode(opcode)
	}

	params, ok := formatParams(opcode)
	if !ok {
		return "", unknownOpcode(opcode)
	}
	if params == "" {
		return ins.Name, nil
	}
	return fmt.Sprintf("%s %s", ins.Name, params), nil
}

// Text returns the assembly text of an opcode or the diagnostic text if the
// opcode is unknown.
func Text(opcode uint16) string {
	s, err := Disassemble(opcode)
	if err != nil {
		return err.Error()
	}
	return s
}

func unknownOpcode(opcode uint16) error {
	return fmt.Errorf("%04X | %w", opcode, ErrUnknownOpcode)
}

// lookup returns the instruction of the opcode or nil if it is unknown.
func lookup(opcode uint16) *chip8.Instruction {
	switch {
	case opcode == 0x0000:
		return nil // uninitialized memory
	case opcode&0xF000 == 0x0000 && opcode != 0x00E0 && opcode != 0x00EE:
		return sys
	}

	firstNibble := (opcode & 0xF000) >> 12
	for _, op := range chip8.Opcodes[int(firstNibble)] {
		if op.Info.Mask&opcode == op.Info.Value {
			return op.Instruction
		}
	}
	return nil
}

// formatParams formats the parameters of an opcode. It returns false if the
// sub selector of the opcode family is not valid.
func formatParams(opcode uint16) (string, bool) {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)
	nnn := opcode & 0x0FFF
	kk := opcode & 0x00FF

	switch opcode & 0xF000 {
	case 0x0000:
		if opcode == 0x00E0 || opcode == 0x00EE {
			return "", true
		}
		return fmt.Sprintf("$%03X", nnn), true
	case 0x1000, 0x2000:
		return fmt.Sprintf("$%03X", nnn), true
	case 0x3000, 0x4000, 0x6000, 0x7000, 0xC000:
		return fmt.Sprintf("V%X, $%02X", x, kk), true
	case 0x5000, 0x9000:
		return fmt.Sprintf("V%X, V%X", x, y), opcode&0x000F == 0
	case 0x8000:
		return formatALU(opcode)
	case 0xA000:
		return fmt.Sprintf("I, $%03X", nnn), true
	case 0xB000:
		return fmt.Sprintf("V0, $%03X", nnn), true
	case 0xD000:
		return fmt.Sprintf("V%X, V%X, $%X", x, y, opcode&0x000F), true
	case 0xE000:
		return fmt.Sprintf("V%X", x), kk == 0x9E || kk == 0xA1
	default:
		return formatMisc(opcode)
	}
}

// formatALU formats the register operations of the 8xyN family.
func formatALU(opcode uint16) (string, bool) {
	x := extractRegisterX(opcode)
	y := extractRegisterY(opcode)

	switch opcode & 0x000F {
	case 0x0, 0x1, 0x2, 0x3, 0x4, 0x5, 0x6, 0x7, 0xE:
		return fmt.Sprintf("V%X, V%X", x, y), true
	default:
		return "", false
	}
}

// formatMisc formats the timer, key and memory operations of the Fx family.
func formatMisc(opcode uint16) (string, bool) {
	x := extractRegisterX(opcode)

	switch opcode & 0x00FF {
	case 0x07:
		return fmt.Sprintf("V%X, DT", x), true
	case 0x0A:
		return fmt.Sprintf("V%X, K", x), true
	case 0x15:
		return fmt.Sprintf("DT, V%X", x), true
	case 0x18:
		return fmt.Sprintf("ST, V%X", x), true
	case 0x1E:
		return fmt.Sprintf("I, V%X", x), true
	case 0x29:
		return fmt.Sprintf("F, V%X", x), true
	case 0x33:
		return fmt.Sprintf("B, V%X", x), true
	case 0x55:
		return fmt.Sprintf("[I], V%X", x), true
	case 0x65:
		return fmt.Sprintf("V%X, [I]", x), true
	default:
		return "", false
	}
}

// extractRegisterX extracts the X register nibble from an opcode.
func extractRegisterX(opcode uint16) uint16 {
	return (opcode & 0x0F00) >> 8
}

// extractRegisterY extracts the Y register nibble from an opcode.
func extractRegisterY(opcode uint16) uint16 {
	return (opcode & 0x00F0) >> 4
}
