// Package machine drives the CPU in real time. It paces instruction
// execution, the 60Hz timer registers and the vertical blank signal with
// three independent timers and exposes the interface used by front ends.
package machine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/retroenv/retrochip8/internal/cpu"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/timer"
	"github.com/retroenv/retrogolib/log"
)

const (
	// SaveSlots is the number of save state slots.
	SaveSlots = 8

	// RefreshRate is the frequency of the timer registers and the
	// vertical blank in Hz.
	RefreshRate = 60
)

// Errors of the host facing operations. They do not affect the machine state.
var (
	ErrSaveSlotOutOfRange = errors.New("save state slot out of range")
	ErrSaveSlotEmpty      = errors.New("save state slot is empty")
	ErrInvalidKey         = errors.New("invalid key")
)

// Machine owns the CPU and the timers that pace it.
type Machine struct {
	logger *log.Logger
	cpu    *cpu.CPU

	instructionTimer *timer.Timer
	registerTimer    *timer.Timer
	vblankTimer      *timer.Timer

	slots [SaveSlots]*cpu.State
	err   error // sticky fatal execution error
}

type settings struct {
	clock timer.Clock
	rng   *rand.Rand
}

// Option configures optional machine settings.
type Option func(*settings)

// WithClock sets the clock that the timers read the time from.
func WithClock(clock timer.Clock) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

// WithRand sets the random number generator of the CPU.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		s.rng = rng
	}
}

// New returns a machine with the program loaded.
func New(logger *log.Logger, program []byte, opts options.Emulator, optionList ...Option) (*Machine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validating options: %w", err)
	}

	s := settings{clock: time.Now}
	for _, option := range optionList {
		option(&s)
	}

	c, err := cpu.New(program, opts, s.rng)
	if err != nil {
		return nil, fmt.Errorf("creating cpu: %w", err)
	}

	refreshPeriod := time.Second / RefreshRate
	m := &Machine{
		logger:           logger,
		cpu:              c,
		instructionTimer: timer.NewWithClock(time.Second/time.Duration(opts.ClockSpeedHz), s.clock),
		registerTimer:    timer.NewWithClock(refreshPeriod, s.clock),
		vblankTimer:      timer.NewWithClock(refreshPeriod, s.clock),
	}

	logger.Info("Machine created",
		log.Int("program_size", len(program)),
		log.Int("clock_speed_hz", int(opts.ClockSpeedHz)),
		log.String("sprite_mode", spriteMode(opts.SpriteClipping)),
		log.Bool("vblank_delay", opts.EmulateDrawVblankDelay))
	return m, nil
}

func spriteMode(clipping bool) string {
	if clipping {
		return "clipping"
	}
	return "wraparound"
}

// Run advances all timers and runs all pending instruction cycles, timer
// register decrements and vertical blank signals. After a fatal execution
// error the machine stops and every call returns that error.
func (m *Machine) Run() error {
	if m.err != nil {
		return m.err
	}

	m.instructionTimer.Run(func() {
		m.runCycle()
	})
	m.registerTimer.Run(m.cpu.DecrementTimers)
	m.vblankTimer.Run(m.cpu.EnterVblank)
	return m.err
}

// runCycle runs a single CPU cycle and returns whether an instruction
// retired. A fatal error is stored and stops all further cycles.
func (m *Machine) runCycle() bool {
	if m.err != nil {
		return false
	}

	pc := m.cpu.PC
	opcode := m.cpu.Opcode()
	halt := m.cpu.Halt
	retired, err := m.cpu.RunCycle()
	if err != nil {
		m.err = fmt.Errorf("running cycle: %w", err)
		m.logger.Error("Execution failed",
			log.Err(err),
			log.Hex("pc", pc),
			log.Hex("opcode", opcode))
		return false
	}

	if halt == cpu.NotHalted && m.cpu.Halt == cpu.WaitingFx0A {
		m.logger.Debug("Waiting for key press", log.Hex("pc", pc))
	}
	return retired
}

// StepDebug runs until exactly one instruction retired and returns the
// debug state afterwards. The timer registers and the vertical blank are
// advanced in lockstep while waiting, all timers are paused again before
// returning. The context cancels a wait that does not complete, for example
// a key wait without key input.
func (m *Machine) StepDebug(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}

	m.Resume()
	defer m.Pause()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("stepping instruction: %w", err)
		}

		retired := false
		m.instructionTimer.Advance()
		m.instructionTimer.TriggerOnce(func() {
			retired = m.runCycle()
		})
		m.registerTimer.Run(m.cpu.DecrementTimers)
		m.vblankTimer.Run(m.cpu.EnterVblank)

		if m.err != nil {
			return "", m.err
		}
		if retired {
			return m.DebugState(), nil
		}
	}
}

// Pause freezes all timers. Time that passes while paused is not used to
// run the machine.
func (m *Machine) Pause() {
	m.instructionTimer.Pause()
	m.registerTimer.Pause()
	m.vblankTimer.Pause()
}

// Resume continues all timers.
func (m *Machine) Resume() {
	m.instructionTimer.Resume()
	m.registerTimer.Resume()
	m.vblankTimer.Resume()
}

// Paused returns whether the timers are paused.
func (m *Machine) Paused() bool {
	return m.instructionTimer.Paused()
}

// Err returns the fatal execution error that stopped the machine, if any.
func (m *Machine) Err() error {
	return m.err
}

// SaveState stores a snapshot of the complete machine state in a slot.
func (m *Machine) SaveState(slot int) error {
	if slot < 0 || slot >= SaveSlots {
		return fmt.Errorf("%w: %d, max %d", ErrSaveSlotOutOfRange, slot, SaveSlots-1)
	}

	state := m.cpu.State
	m.slots[slot] = &state
	m.logger.Debug("State saved", log.Int("slot", slot), log.Hex("pc", state.PC))
	return nil
}

// LoadState restores the machine state from a slot. The slot keeps its
// snapshot and can be loaded again.
func (m *Machine) LoadState(slot int) error {
	if slot < 0 || slot >= SaveSlots {
		return fmt.Errorf("%w: %d, max %d", ErrSaveSlotOutOfRange, slot, SaveSlots-1)
	}

	state := m.slots[slot]
	if state == nil {
		return fmt.Errorf("%w: %d", ErrSaveSlotEmpty, slot)
	}

	m.cpu.State = *state
	m.logger.Debug("State loaded", log.Int("slot", slot), log.Hex("pc", state.PC))
	return nil
}

// PressKey marks a key as held down.
func (m *Machine) PressKey(key uint8) error {
	if key >= keyboard.KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	m.cpu.Keyboard.Press(key)
	return nil
}

// ReleaseKey marks a key as released.
func (m *Machine) ReleaseKey(key uint8) error {
	if key >= keyboard.KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	m.cpu.Keyboard.Release(key)
	return nil
}

// Pixel returns whether the display pixel at the coordinate is set.
func (m *Machine) Pixel(x, y int) bool {
	return m.cpu.Display.Pixel(x, y)
}

// Display returns a copy of the display.
func (m *Machine) Display() display.Display {
	return m.cpu.Display
}

// DisplayString returns a textual dump of the display.
func (m *Machine) DisplayString() string {
	return m.cpu.Display.String()
}

// SoundActive returns whether the sound timer is running.
func (m *Machine) SoundActive() bool {
	return m.cpu.ST > 0
}

// CurrentOpcode returns the instruction word at the program counter.
func (m *Machine) CurrentOpcode() uint16 {
	return m.cpu.Opcode()
}

// State returns a copy of the complete machine state.
func (m *Machine) State() cpu.State {
	return m.cpu.State
}
