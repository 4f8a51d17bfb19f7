// Package options contains the program and emulator options.
package options

import (
	"errors"
	"fmt"
	"time"
)

// Parameters contains file path options.
type Parameters struct {
	Input       string `flag:"i" usage:"input program file"`
	Config      string `flag:"c" usage:"emulator JSON config file"`
	WriteConfig string `flag:"write-config" usage:"write the effective emulator config to a JSON file"`
}

// Flags contains behavior options.
type Flags struct {
	Disasm   bool `flag:"disasm" usage:"print a disassembly listing of the program and exit"`
	Headless bool `flag:"headless" usage:"run without terminal rendering and print the display at exit"`
	Step     bool `flag:"step" usage:"single step instructions and print the debug state"`
	Frames   int  `flag:"frames" usage:"number of host frames to run, 0 runs until interrupted"`
	Debug    bool `flag:"debug" usage:"enable debug logging"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
}

// Overrides contains emulator options that replace the configured values
// when set on the command line.
type Overrides struct {
	ClockSpeedHz uint `flag:"clock" usage:"instructions per second, 0 keeps the configured value"`
	Wraparound   bool `flag:"wrap" usage:"wrap sprites around the display edges instead of clipping"`
	VblankDelay  bool `flag:"vblank" usage:"delay sprite drawing until the vertical blank"`
}

// Program options of the emulator front end.
type Program struct {
	Parameters
	Flags
	Overrides
}

// Apply returns the emulator options with the command line overrides applied.
func (o Overrides) Apply(opts Emulator) Emulator {
	if o.ClockSpeedHz > 0 {
		opts.ClockSpeedHz = o.ClockSpeedHz
	}
	if o.Wraparound {
		opts.SpriteClipping = false
	}
	if o.VblankDelay {
		opts.EmulateDrawVblankDelay = true
	}
	return opts
}

// MaxClockSpeedHz is the highest clock speed, it results in an instruction
// period of one nanosecond.
const MaxClockSpeedHz = uint(time.Second)

var (
	// ErrInvalidClockSpeed is returned for a clock speed of zero.
	ErrInvalidClockSpeed = errors.New("clock speed must be greater than zero")
	// ErrClockSpeedTooHigh is returned for a clock speed above MaxClockSpeedHz.
	ErrClockSpeedTooHigh = errors.New("clock speed too high")
)

// Emulator defines the machine configuration and the quirk switches that
// select between documented behaviors of historical interpreters.
type Emulator struct {
	ClockSpeedHz uint `json:"clock_speed_hz"` // instructions per second

	ShiftingWithVy         bool `json:"shifting_with_Vy"`          // 8xy6/8xyE shift Vy instead of Vx
	SpriteClipping         bool `json:"sprite_clipping"`           // clip sprites at the edges instead of wrapping
	EmulateDrawVblankDelay bool `json:"emulate_draw_vblank_delay"` // Dxyn waits for vertical blank

	// VblankIdleCycles stalls a draw for this many cycles instead of waiting
	// for the vertical blank signal when the draw delay is emulated.
	VblankIdleCycles uint `json:"vblank_idle_cycles"`

	LogicResetsFlag          bool `json:"logic_resets_flag"`           // 8xy1/8xy2/8xy3 set VF to 0
	LoadStoreIncrementsIndex bool `json:"load_store_increments_index"` // Fx55/Fx65 advance I by X+1
}

// NewEmulator returns a new emulator options instance with default options.
func NewEmulator() Emulator {
	return Emulator{
		ClockSpeedHz:             500,
		ShiftingWithVy:           true,
		SpriteClipping:           true,
		LogicResetsFlag:          true,
		LoadStoreIncrementsIndex: true,
	}
}

// Validate checks the options for values the machine can not run with.
func (e Emulator) Validate() error {
	if e.ClockSpeedHz == 0 {
		return ErrInvalidClockSpeed
	}
	if e.ClockSpeedHz > MaxClockSpeedHz {
		return fmt.Errorf("%w: %d Hz, max %d Hz", ErrClockSpeedTooHigh, e.ClockSpeedHz, MaxClockSpeedHz)
	}
	return nil
}
