package cpu

import (
	"fmt"

	"github.com/retroenv/retrochip8/internal/memory"
)

// 00E0 CLS, 00EE RET, 0nnn SYS
func (c *CPU) opSystem(op opcode) error {
	switch op.nnn() {
	case 0x0E0:
		c.Display.Clear()
		c.PC += 2

	case 0x0EE:
		address, err := c.pop()
		if err != nil {
			return err
		}
		c.PC = address

	case 0x000:
		return fmt.Errorf("%w: at address %03X", ErrUninitializedMemory, c.PC)

	default:
		// native machine code routines are not supported and ignored
		c.PC += 2
	}
	return nil
}

// 1nnn JP addr
func (c *CPU) opJump(op opcode) error {
	c.PC = op.nnn()
	return nil
}

// 2nnn CALL addr
func (c *CPU) opCall(op opcode) error {
	if err := c.push(c.PC + 2); err != nil {
		return err
	}
	c.PC = op.nnn()
	return nil
}

func (c *CPU) skipIf(cond bool) {
	if cond {
		c.PC += 4
	} else {
		c.PC += 2
	}
}

// 3xkk SE Vx, byte
func (c *CPU) opSkipEqualImmediate(op opcode) error {
	c.skipIf(c.V[op.x()] == op.kk())
	return nil
}

// 4xkk SNE Vx, byte
func (c *CPU) opSkipNotEqualImmediate(op opcode) error {
	c.skipIf(c.V[op.x()] != op.kk())
	return nil
}

// 5xy0 SE Vx, Vy
func (c *CPU) opSkipEqualRegister(op opcode) error {
	if op.n() != 0 {
		return c.unknownOpcode(op)
	}
	c.skipIf(c.V[op.x()] == c.V[op.y()])
	return nil
}

// 9xy0 SNE Vx, Vy
func (c *CPU) opSkipNotEqualRegister(op opcode) error {
	if op.n() != 0 {
		return c.unknownOpcode(op)
	}
	c.skipIf(c.V[op.x()] != c.V[op.y()])
	return nil
}

// 6xkk LD Vx, byte
func (c *CPU) opLoadImmediate(op opcode) error {
	c.V[op.x()] = op.kk()
	c.PC += 2
	return nil
}

// 7xkk ADD Vx, byte. The flag register is not affected.
func (c *CPU) opAddImmediate(op opcode) error {
	c.V[op.x()] += op.kk()
	c.PC += 2
	return nil
}

// 8xy0 LD Vx, Vy
func (c *CPU) opMove(op opcode) error {
	c.V[op.x()] = c.V[op.y()]
	c.PC += 2
	return nil
}

// logic writes the result of a bitwise operation to Vx and optionally
// resets the flag register afterwards.
func (c *CPU) logic(op opcode, result uint8) {
	c.V[op.x()] = result
	if c.opts.LogicResetsFlag {
		c.V[FlagRegister] = 0
	}
	c.PC += 2
}

// 8xy1 OR Vx, Vy
func (c *CPU) opOr(op opcode) error {
	c.logic(op, c.V[op.x()]|c.V[op.y()])
	return nil
}

// 8xy2 AND Vx, Vy
func (c *CPU) opAnd(op opcode) error {
	c.logic(op, c.V[op.x()]&c.V[op.y()])
	return nil
}

// 8xy3 XOR Vx, Vy
func (c *CPU) opXor(op opcode) error {
	c.logic(op, c.V[op.x()]^c.V[op.y()])
	return nil
}

// 8xy4 ADD Vx, Vy. VF is set to the carry.
func (c *CPU) opAdd(op opcode) error {
	sum := uint16(c.V[op.x()]) + uint16(c.V[op.y()])
	c.V[op.x()] = uint8(sum)
	c.V[FlagRegister] = boolToByte(sum > 0xFF)
	c.PC += 2
	return nil
}

// subtract stores minuend - subtrahend in Vx, VF is set to 1 if no borrow
// occurred.
func (c *CPU) subtract(op opcode, minuend, subtrahend uint8) {
	c.V[op.x()] = minuend - subtrahend
	c.V[FlagRegister] = boolToByte(minuend >= subtrahend)
	c.PC += 2
}

// 8xy5 SUB Vx, Vy
func (c *CPU) opSub(op opcode) error {
	c.subtract(op, c.V[op.x()], c.V[op.y()])
	return nil
}

// 8xy7 SUBN Vx, Vy
func (c *CPU) opSubReverse(op opcode) error {
	c.subtract(op, c.V[op.y()], c.V[op.x()])
	return nil
}

// shiftSource returns the value that a shift instruction operates on.
func (c *CPU) shiftSource(op opcode) uint8 {
	if c.opts.ShiftingWithVy {
		return c.V[op.y()]
	}
	return c.V[op.x()]
}

// 8xy6 SHR Vx {, Vy}
func (c *CPU) opShiftRight(op opcode) error {
	value := c.shiftSource(op)
	c.V[op.x()] = value >> 1
	c.V[FlagRegister] = value & 0x01
	c.PC += 2
	return nil
}

// 8xyE SHL Vx {, Vy}
func (c *CPU) opShiftLeft(op opcode) error {
	value := c.shiftSource(op)
	c.V[op.x()] = value << 1
	c.V[FlagRegister] = value >> 7
	c.PC += 2
	return nil
}

// Annn LD I, addr
func (c *CPU) opLoadIndex(op opcode) error {
	c.I = op.nnn()
	c.PC += 2
	return nil
}

// Bnnn JP V0, addr
func (c *CPU) opJumpOffset(op opcode) error {
	c.PC = op.nnn() + uint16(c.V[0])
	return nil
}

// Cxkk RND Vx, byte
func (c *CPU) opRandom(op opcode) error {
	c.V[op.x()] = uint8(c.rng.Uint32()) & op.kk()
	c.PC += 2
	return nil
}

// Dxyn DRW Vx, Vy, nibble
//
// With the vertical blank delay emulated the draw either halts until the
// next vertical blank or, with idle cycles configured, stalls for that many
// cycles before it is performed.
func (c *CPU) opDraw(op opcode) error {
	switch {
	case !c.opts.EmulateDrawVblankDelay:
		c.draw(op)

	case c.opts.VblankIdleCycles == 0:
		c.Halt = WaitingVblank

	case c.IdleCycles == 0:
		c.IdleCycles = c.opts.VblankIdleCycles

	default:
		c.IdleCycles--
		if c.IdleCycles == 0 {
			c.draw(op)
		}
	}
	return nil
}

func (c *CPU) draw(op opcode) {
	sprite := c.Memory.Slice(c.I, int(op.n()))
	collision := c.Display.Draw(sprite, int(c.V[op.x()]), int(c.V[op.y()]))
	c.V[FlagRegister] = boolToByte(collision)
	c.PC += 2
}

// Ex9E SKP Vx
func (c *CPU) opSkipKeyPressed(op opcode) error {
	c.skipIf(c.Keyboard.Pressed(c.V[op.x()]))
	return nil
}

// ExA1 SKNP Vx
func (c *CPU) opSkipKeyNotPressed(op opcode) error {
	c.skipIf(!c.Keyboard.Pressed(c.V[op.x()]))
	return nil
}

// Fx07 LD Vx, DT
func (c *CPU) opLoadDelay(op opcode) error {
	c.V[op.x()] = c.DT
	c.PC += 2
	return nil
}

// Fx0A LD Vx, K halts until a key is pressed and released again. The
// program counter is advanced when the wait completes in RunCycle.
func (c *CPU) opWaitKey(_ opcode) error {
	c.Keyboard.BeginWait()
	c.Halt = WaitingFx0A
	return nil
}

// Fx15 LD DT, Vx
func (c *CPU) opSetDelay(op opcode) error {
	c.DT = c.V[op.x()]
	c.PC += 2
	return nil
}

// Fx18 LD ST, Vx
func (c *CPU) opSetSound(op opcode) error {
	c.ST = c.V[op.x()]
	c.PC += 2
	return nil
}

// Fx1E ADD I, Vx
func (c *CPU) opAddIndex(op opcode) error {
	c.I += uint16(c.V[op.x()])
	c.PC += 2
	return nil
}

// Fx29 LD F, Vx
func (c *CPU) opLoadFont(op opcode) error {
	c.I = memory.FontAddress(c.V[op.x()])
	c.PC += 2
	return nil
}

// Fx33 LD B, Vx
func (c *CPU) opStoreBCD(op opcode) error {
	value := c.V[op.x()]
	c.Memory.Write(c.I, value/100)
	c.Memory.Write(c.I+1, value/10%10)
	c.Memory.Write(c.I+2, value%10)
	c.PC += 2
	return nil
}

// Fx55 LD [I], Vx
func (c *CPU) opStoreRegisters(op opcode) error {
	x := op.x()
	for i := range x + 1 {
		c.Memory.Write(c.I+uint16(i), c.V[i])
	}
	if c.opts.LoadStoreIncrementsIndex {
		c.I += uint16(x) + 1
	}
	c.PC += 2
	return nil
}

// Fx65 LD Vx, [I]
func (c *CPU) opLoadRegisters(op opcode) error {
	x := op.x()
	for i := range x + 1 {
		c.V[i] = c.Memory.Read(c.I + uint16(i))
	}
	if c.opts.LoadStoreIncrementsIndex {
		c.I += uint16(x) + 1
	}
	c.PC += 2
	return nil
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
