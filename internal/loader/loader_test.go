package loader

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load program file", func(t *testing.T) {
		path := createTempFile(t, []byte{0x12, 0x34, 0x56, 0x78})

		data, err := New().Load(path)
		assert.NoError(t, err)
		assert.Len(t, data, 4)
		assert.Equal(t, byte(0x12), data[0])
		assert.Equal(t, byte(0x78), data[3])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(filepath.Join(t.TempDir(), "missing.ch8"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("empty file", func(t *testing.T) {
		path := createTempFile(t, nil)

		_, err := New().Load(path)
		assert.True(t, errors.Is(err, ErrEmptyProgram))
	})
}

func TestRead(t *testing.T) {
	tests := []struct {
		name string
		size int
		err  error
	}{
		{"single byte", 1, nil},
		{"full program space", memory.ProgramCapacity(), nil},
		{"too large", memory.ProgramCapacity() + 1, memory.ErrProgramTooLarge},
		{"far too large", 2 * memory.Size, memory.ErrProgramTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := New().Read(bytes.NewReader(make([]byte, tt.size)))
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			assert.NoError(t, err)
			assert.Len(t, data, tt.size)
		})
	}
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.ch8")
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
