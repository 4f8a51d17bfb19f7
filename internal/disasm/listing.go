package disasm

import (
	"fmt"
	"io"
	"slices"

	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/set"
)

const (
	funcNaming  = "_func_%04x"
	labelNaming = "_label_%04x"
	dataNaming  = "_data_%04x"
)

// Line is a single line of a program listing.
type Line struct {
	Address uint16
	Data    []byte
	Label   string
	Code    string
	Comment string
}

type destinationKind uint8

const (
	jumpDestination destinationKind = iota
	callDestination
	dataReference
)

type listing struct {
	start  uint16
	end    uint16 // first address after the program
	lines  []Line
	byAddr map[uint16]int // address to line index

	destinations map[uint16]destinationKind
	referenced   set.Set[uint16] // addresses of lines that branch or reference
}

// Program disassembles a program image that is loaded at the program start
// address. Every two bytes are decoded as one instruction, a trailing odd
// byte is listed on its own. Jump, call and data reference targets inside
// the program get labels that the referencing instructions use.
func Program(program []byte) []Line {
	l := &listing{
		start:        memory.ProgramStart,
		end:          memory.ProgramStart + uint16(len(program)),
		byAddr:       make(map[uint16]int, len(program)/2+1),
		destinations: map[uint16]destinationKind{},
		referenced:   set.New[uint16](),
	}

	for i := 0; i < len(program); i += 2 {
		address := l.start + uint16(i)
		if i+1 >= len(program) {
			l.add(Line{
				Address: address,
				Data:    []byte{program[i]},
				Code:    fmt.Sprintf("db $%02X", program[i]),
				Comment: "standalone byte",
			})
			continue
		}

		opcode := uint16(program[i])<<8 | uint16(program[i+1])
		l.add(l.decode(address, opcode, program[i:i+2]))
	}

	l.processDestinations()
	return l.lines
}

func (l *listing) add(line Line) {
	l.byAddr[line.Address] = len(l.lines)
	l.lines = append(l.lines, line)
}

func (l *listing) decode(address, opcode uint16, data []byte) Line {
	line := Line{
		Address: address,
		Data:    []byte{data[0], data[1]},
	}

	code, err := Disassemble(opcode)
	if err != nil {
		line.Code = fmt.Sprintf("dw $%04X", opcode)
		line.Comment = ErrUnknownOpcode.Error()
		return line
	}
	line.Code = code

	ins := lookup(opcode)
	if chip8.SkipInstructions.Contains(ins.Name) {
		line.Comment = "skips next instruction"
	}

	target := opcode & 0x0FFF
	switch opcode & 0xF000 {
	case 0x1000:
		l.addDestination(address, target, jumpDestination)
	case 0x2000:
		l.addDestination(address, target, callDestination)
	case 0xA000:
		l.addDestination(address, target, dataReference)
	}
	return line
}

// addDestination records a target address if it is inside the program.
// Calls take precedence over jumps and both over data references.
func (l *listing) addDestination(from, target uint16, kind destinationKind) {
	if target < l.start || target >= l.end {
		return
	}
	l.referenced.Add(from)

	existing, ok := l.destinations[target]
	if !ok || kind == callDestination || (kind == jumpDestination && existing == dataReference) {
		l.destinations[target] = kind
	}
}

// processDestinations assigns labels to all destinations and updates the
// referencing instructions to use the label names.
func (l *listing) processDestinations() {
	addresses := make([]uint16, 0, len(l.destinations))
	for address := range l.destinations {
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)

	names := make(map[uint16]string, len(addresses))
	for _, address := range addresses {
		var name string
		switch l.destinations[address] {
		case callDestination:
			name = fmt.Sprintf(funcNaming, address)
		case dataReference:
			name = fmt.Sprintf(dataNaming, address)
		default:
			name = fmt.Sprintf(labelNaming, address)
		}
		idx, ok := l.byAddr[address]
		if !ok {
			// the destination is the second byte of an instruction
			l.handleJumpIntoInstruction(address - 1)
			continue
		}
		l.lines[idx].Label = name
		names[address] = name
	}

	for i, line := range l.lines {
		if !l.referenced.Contains(line.Address) {
			continue
		}
		opcode := uint16(line.Data[0])<<8 | uint16(line.Data[1])
		name, ok := names[opcode&0x0FFF]
		if !ok {
			continue
		}
		ins := lookup(opcode)
		if opcode&0xF000 == 0xA000 {
			l.lines[i].Code = fmt.Sprintf("%s I, %s", ins.Name, name)
		} else {
			l.lines[i].Code = fmt.Sprintf("%s %s", ins.Name, name)
		}
	}
}

// handleJumpIntoInstruction marks an instruction that has a destination
// inside its second byte.
func (l *listing) handleJumpIntoInstruction(address uint16) {
	idx, ok := l.byAddr[address]
	if !ok {
		return
	}
	line := &l.lines[idx]
	line.Comment = "branch into instruction detected: " + line.Code
}

// Write writes a program listing in assembler syntax.
func Write(w io.Writer, lines []Line) error {
	for _, line := range lines {
		if line.Label != "" {
			if _, err := fmt.Fprintf(w, "%s:\n", line.Label); err != nil {
				return fmt.Errorf("writing label: %w", err)
			}
		}

		var data string
		for _, b := range line.Data {
			data += fmt.Sprintf("%02X", b)
		}

		s := fmt.Sprintf("  %-24s ; $%03X %s", line.Code, line.Address, data)
		if line.Comment != "" {
			s += " " + line.Comment
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}
