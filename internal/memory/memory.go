// Package memory implements the flat 4KB address space of the virtual machine.
package memory

import (
	"errors"
	"fmt"
)

// CHIP-8 memory layout constants.
//
//	0x000-0x01F: return address stack (16 entries of 2 bytes)
//	0x050-0x09F: font glyphs for the hexadecimal digits 0-F
//	0x200-0xFFF: program space
const (
	// Size is the number of addressable bytes.
	Size = 0x1000

	// ProgramStart is the address where programs are loaded and execution begins.
	ProgramStart = 0x200

	// StackStart is the first byte of the return address stack region.
	StackStart = 0x000
	// StackSize is the size of the return address stack region in bytes.
	StackSize = 0x20

	// FontStart is the address of the first font glyph.
	FontStart = 0x050
	// GlyphSize is the number of bytes of a single font glyph.
	GlyphSize = 5
)

// ErrProgramTooLarge is returned when a program does not fit into the
// memory space after its start address.
var ErrProgramTooLarge = errors.New("program is too big to fit in memory")

var font = [16 * GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the byte store of the machine. It is a plain value, copying it
// creates an independent snapshot.
type Memory struct {
	data [Size]byte
}

// New returns a memory with the font glyphs preloaded.
func New() Memory {
	var m Memory
	copy(m.data[FontStart:], font[:])
	return m
}

// NewWithProgram returns a memory with the font glyphs and the program loaded
// at ProgramStart.
func NewWithProgram(program []byte) (Memory, error) {
	m := New()
	if err := m.Load(program, ProgramStart); err != nil {
		return Memory{}, err
	}
	return m, nil
}

// Read returns the byte at the given address. Addresses wrap at the end of
// the memory space.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&(Size-1)]
}

// Write sets the byte at the given address. Addresses wrap at the end of
// the memory space.
func (m *Memory) Write(address uint16, value byte) {
	m.data[address&(Size-1)] = value
}

// ReadOpcode returns the big-endian 16-bit word at the given address.
func (m *Memory) ReadOpcode(address uint16) uint16 {
	return uint16(m.Read(address))<<8 | uint16(m.Read(address+1))
}

// Load copies the program verbatim into memory starting at the given address.
func (m *Memory) Load(program []byte, start uint16) error {
	if int(start) >= Size || len(program) > Size-int(start) {
		return fmt.Errorf("%w: size %d, space %d (%d - %d)",
			ErrProgramTooLarge, len(program), Size-int(start), Size, start)
	}
	copy(m.data[start:], program)
	return nil
}

// Slice returns count bytes starting at address, wrapping at the end of the
// memory space. The returned slice is a copy.
func (m *Memory) Slice(address uint16, count int) []byte {
	b := make([]byte, count)
	for i := range b {
		b[i] = m.Read(address + uint16(i))
	}
	return b
}

// FontAddress returns the address of the 5 byte glyph of the given
// hexadecimal digit. Only the low nibble of digit is used.
func FontAddress(digit byte) uint16 {
	return FontStart + uint16(digit&0xF)*GlyphSize
}

// ProgramCapacity returns the maximum size of a program loaded at ProgramStart.
func ProgramCapacity() int {
	return Size - ProgramStart
}
