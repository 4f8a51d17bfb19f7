package options

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewEmulator(t *testing.T) {
	opts := NewEmulator()
	assert.Equal(t, uint(500), opts.ClockSpeedHz)
	assert.True(t, opts.ShiftingWithVy)
	assert.True(t, opts.SpriteClipping)
	assert.False(t, opts.EmulateDrawVblankDelay)
	assert.Equal(t, uint(0), opts.VblankIdleCycles)
	assert.NoError(t, opts.Validate())
}

func TestEmulator_Validate(t *testing.T) {
	tests := []struct {
		name         string
		clockSpeedHz uint
		err          error
	}{
		{"zero", 0, ErrInvalidClockSpeed},
		{"one", 1, nil},
		{"maximum", MaxClockSpeedHz, nil},
		{"above maximum", MaxClockSpeedHz + 1, ErrClockSpeedTooHigh},
		{"sub nanosecond period", 2_000_000_000, ErrClockSpeedTooHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := NewEmulator()
			opts.ClockSpeedHz = tt.clockSpeedHz

			err := opts.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestOverrides_Apply(t *testing.T) {
	tests := []struct {
		name      string
		overrides Overrides
		expected  func() Emulator
	}{
		{
			name:      "no overrides",
			overrides: Overrides{},
			expected:  NewEmulator,
		},
		{
			name:      "all overrides",
			overrides: Overrides{ClockSpeedHz: 1000, Wraparound: true, VblankDelay: true},
			expected: func() Emulator {
				opts := NewEmulator()
				opts.ClockSpeedHz = 1000
				opts.SpriteClipping = false
				opts.EmulateDrawVblankDelay = true
				return opts
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected(), tt.overrides.Apply(NewEmulator()))
		})
	}
}
