package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestCreateLogger(t *testing.T) {
	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}

func TestLoadEmulator(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected options.Emulator
		errText  string
	}{
		{
			name:     "empty object keeps defaults",
			content:  `{}`,
			expected: options.NewEmulator(),
		},
		{
			name:    "override quirks",
			content: `{"clock_speed_hz": 700, "shifting_with_Vy": false, "emulate_draw_vblank_delay": true, "vblank_idle_cycles": 3}`,
			expected: func() options.Emulator {
				opts := options.NewEmulator()
				opts.ClockSpeedHz = 700
				opts.ShiftingWithVy = false
				opts.EmulateDrawVblankDelay = true
				opts.VblankIdleCycles = 3
				return opts
			}(),
		},
		{
			name:     "invalid json",
			content:  `{"clock_speed_hz": `,
			expected: options.NewEmulator(),
			errText:  "parsing config file",
		},
		{
			name:     "zero clock",
			content:  `{"clock_speed_hz": 0}`,
			expected: options.NewEmulator(),
			errText:  "clock speed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			assert.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			opts, err := LoadEmulator(path)
			if tt.errText != "" {
				assert.ErrorContains(t, err, tt.errText)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, opts)
		})
	}
}

func TestLoadEmulator_Missing(t *testing.T) {
	opts, err := LoadEmulator(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, options.NewEmulator(), opts)
}

func TestLoadOrCreateEmulator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	opts, err := LoadOrCreateEmulator(path)
	assert.NoError(t, err)
	assert.Equal(t, options.NewEmulator(), opts)

	_, err = os.Stat(path)
	assert.NoError(t, err)

	loaded, err := LoadEmulator(path)
	assert.NoError(t, err)
	assert.Equal(t, opts, loaded)
}

func TestWriteEmulator_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	opts := options.NewEmulator()
	opts.SpriteClipping = false
	opts.LogicResetsFlag = false
	assert.NoError(t, WriteEmulator(path, opts))

	loaded, err := LoadEmulator(path)
	assert.NoError(t, err)
	assert.Equal(t, opts, loaded)
}
