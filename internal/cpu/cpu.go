// Package cpu implements the instruction decoder and executor of the virtual
// machine. It owns the registers, memory, display and keyboard state.
package cpu

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrochip8/internal/keyboard"
	"github.com/retroenv/retrochip8/internal/memory"
	"github.com/retroenv/retrochip8/internal/options"
)

// FlagRegister is the index of the register that receives carry, borrow
// and collision results.
const FlagRegister = 0xF

// Fatal execution errors. A CPU that returned one of these should not be
// run any further.
var (
	ErrUninitializedMemory = errors.New("executed opcode 0000, probably uninitialized memory")
	ErrUnknownOpcode       = errors.New("unknown opcode")
	ErrStackOverflow       = errors.New("return address stack overflow")
	ErrStackUnderflow      = errors.New("return address stack underflow")
)

// HaltState describes whether the CPU executes instructions normally or is
// suspended inside a blocking instruction.
type HaltState uint8

const (
	// NotHalted is normal fetch, decode and execute.
	NotHalted HaltState = iota
	// WaitingVblank is a draw waiting for the next vertical blank.
	WaitingVblank
	// ExecutingDRW is a draw that is performed on the next cycle.
	ExecutingDRW
	// WaitingFx0A is a key wait waiting for a full press and release.
	WaitingFx0A
)

var haltStateNames = [...]string{
	NotHalted:     "NotHalted",
	WaitingVblank: "WaitingVblank",
	ExecutingDRW:  "ExecutingDRW",
	WaitingFx0A:   "WaitingFx0A",
}

func (h HaltState) String() string {
	if int(h) < len(haltStateNames) {
		return haltStateNames[h]
	}
	return fmt.Sprintf("HaltState(%d)", uint8(h))
}

// State is the complete machine state. It is a plain value, copying it
// creates an independent snapshot including memory, display and keyboard.
type State struct {
	PC uint16    // program counter
	I  uint16    // index register
	V  [16]uint8 // general purpose registers, VF is the flag register
	SP uint8     // stack pointer, byte offset into the stack region
	DT uint8     // delay timer
	ST uint8     // sound timer

	Halt       HaltState
	IdleCycles uint // remaining stall cycles of a delayed draw

	Memory   memory.Memory
	Display  display.Display
	Keyboard keyboard.Keyboard
}

// CPU executes instructions on its embedded state using the configured
// quirk behaviors.
type CPU struct {
	State

	opts options.Emulator
	rng  *rand.Rand
}

// New returns a CPU with the program loaded at the program start address.
// If rng is nil a randomly seeded generator is used.
func New(program []byte, opts options.Emulator, rng *rand.Rand) (*CPU, error) {
	mem, err := memory.NewWithProgram(program)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := &CPU{
		State: State{
			PC:      memory.ProgramStart,
			Memory:  mem,
			Display: display.New(opts.SpriteClipping),
		},
		opts: opts,
		rng:  rng,
	}
	return c, nil
}

// Options returns the emulator options that the CPU was created with.
func (c *CPU) Options() options.Emulator {
	return c.opts
}

// Opcode returns the instruction word at the program counter.
func (c *CPU) Opcode() uint16 {
	return c.Memory.ReadOpcode(c.PC)
}

// RunCycle runs one cycle of the CPU and returns whether an instruction
// retired. Cycles spent inside a blocking instruction do not retire one.
func (c *CPU) RunCycle() (bool, error) {
	switch c.Halt {
	case NotHalted:
		return c.execute()

	case WaitingVblank:
		return false, nil

	case ExecutingDRW:
		c.draw(opcode(c.Opcode()))
		c.Halt = NotHalted
		return true, nil

	case WaitingFx0A:
		wait := c.Keyboard.Wait()
		if wait.State != keyboard.JustReleased {
			return false, nil
		}
		op := opcode(c.Opcode())
		c.V[op.x()] = wait.Key
		c.Keyboard.EndWait()
		c.Halt = NotHalted
		c.PC += 2
		return true, nil

	default:
		return false, fmt.Errorf("invalid halt state %s", c.Halt)
	}
}

// EnterVblank signals a vertical blank. A draw waiting for it is performed
// on the next cycle.
func (c *CPU) EnterVblank() {
	if c.Halt == WaitingVblank {
		c.Halt = ExecutingDRW
	}
}

// DecrementTimers decrements the delay and sound timers by one, stopping
// at zero.
func (c *CPU) DecrementTimers() {
	if c.DT > 0 {
		c.DT--
	}
	if c.ST > 0 {
		c.ST--
	}
}

// execute fetches, decodes and executes the instruction at the program
// counter. Handlers that enter a halt state or start a draw stall leave
// the instruction unretired.
func (c *CPU) execute() (bool, error) {
	op := opcode(c.Opcode())
	if err := families[op.family()](c, op); err != nil {
		return false, err
	}
	return c.Halt == NotHalted && c.IdleCycles == 0, nil
}

func (c *CPU) push(address uint16) error {
	if int(c.SP)+2 > memory.StackSize {
		return fmt.Errorf("%w: call at address %03X", ErrStackOverflow, c.PC)
	}
	base := memory.StackStart + uint16(c.SP)
	c.Memory.Write(base, byte(address>>8))
	c.Memory.Write(base+1, byte(address))
	c.SP += 2
	return nil
}

func (c *CPU) pop() (uint16, error) {
	if c.SP < 2 {
		return 0, fmt.Errorf("%w: return at address %03X", ErrStackUnderflow, c.PC)
	}
	c.SP -= 2
	base := memory.StackStart + uint16(c.SP)
	return uint16(c.Memory.Read(base))<<8 | uint16(c.Memory.Read(base+1)), nil
}

func (c *CPU) unknownOpcode(op opcode) error {
	return fmt.Errorf("%w: %04X at address %03X", ErrUnknownOpcode, uint16(op), c.PC)
}
