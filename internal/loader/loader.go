// Package loader handles program file loading operations.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/memory"
)

// ErrEmptyProgram is returned for a program file without content.
var ErrEmptyProgram = errors.New("program file is empty")

// Loader handles loading program files from disk.
type Loader struct {
	capacity int
}

// New creates a new program loader that accepts programs up to the size of
// the program space of the memory.
func New() *Loader {
	return &Loader{
		capacity: memory.ProgramCapacity(),
	}
}

// Load reads a raw program image file. The file content is loaded verbatim
// at the program start address, there is no header.
func (l *Loader) Load(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.Read(file)
}

// Read reads a raw program image from a reader.
func (l *Loader) Read(r io.Reader) ([]byte, error) {
	// read one byte more than fits to detect oversized programs
	data, err := io.ReadAll(io.LimitReader(r, int64(l.capacity)+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyProgram
	case len(data) > l.capacity:
		return nil, fmt.Errorf("%w: program exceeds %d bytes", memory.ErrProgramTooLarge, l.capacity)
	}
	return data, nil
}
