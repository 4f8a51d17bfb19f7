package cpu

// opcode is a 16-bit instruction word with accessors for its fields.
//
//	family: F000   x: 0F00   y: 00F0   n: 000F   kk: 00FF   nnn: 0FFF
type opcode uint16

func (o opcode) family() uint8 { return uint8(o >> 12) }
func (o opcode) x() uint8      { return uint8(o>>8) & 0xF }
func (o opcode) y() uint8      { return uint8(o>>4) & 0xF }
func (o opcode) n() uint8      { return uint8(o) & 0xF }
func (o opcode) kk() uint8     { return uint8(o) }
func (o opcode) nnn() uint16   { return uint16(o) & 0x0FFF }

type handler func(c *CPU, op opcode) error

// families dispatches on the top nibble of the opcode.
var families = [16]handler{
	0x0: (*CPU).opSystem,
	0x1: (*CPU).opJump,
	0x2: (*CPU).opCall,
	0x3: (*CPU).opSkipEqualImmediate,
	0x4: (*CPU).opSkipNotEqualImmediate,
	0x5: (*CPU).opSkipEqualRegister,
	0x6: (*CPU).opLoadImmediate,
	0x7: (*CPU).opAddImmediate,
	0x8: (*CPU).opALU,
	0x9: (*CPU).opSkipNotEqualRegister,
	0xA: (*CPU).opLoadIndex,
	0xB: (*CPU).opJumpOffset,
	0xC: (*CPU).opRandom,
	0xD: (*CPU).opDraw,
	0xE: (*CPU).opKey,
	0xF: (*CPU).opMisc,
}

// aluOps dispatches 8xyN on the low nibble.
var aluOps = [16]handler{
	0x0: (*CPU).opMove,
	0x1: (*CPU).opOr,
	0x2: (*CPU).opAnd,
	0x3: (*CPU).opXor,
	0x4: (*CPU).opAdd,
	0x5: (*CPU).opSub,
	0x6: (*CPU).opShiftRight,
	0x7: (*CPU).opSubReverse,
	0xE: (*CPU).opShiftLeft,
}

// keyOps dispatches ExKK on the low byte.
var keyOps = [256]handler{
	0x9E: (*CPU).opSkipKeyPressed,
	0xA1: (*CPU).opSkipKeyNotPressed,
}

// miscOps dispatches FxKK on the low byte.
var miscOps = [256]handler{
	0x07: (*CPU).opLoadDelay,
	0x0A: (*CPU).opWaitKey,
	0x15: (*CPU).opSetDelay,
	0x18: (*CPU).opSetSound,
	0x1E: (*CPU).opAddIndex,
	0x29: (*CPU).opLoadFont,
	0x33: (*CPU).opStoreBCD,
	0x55: (*CPU).opStoreRegisters,
	0x65: (*CPU).opLoadRegisters,
}

func (c *CPU) opALU(op opcode) error {
	h := aluOps[op.n()]
	if h == nil {
		return c.unknownOpcode(op)
	}
	return h(c, op)
}

func (c *CPU) opKey(op opcode) error {
	h := keyOps[op.kk()]
	if h == nil {
		return c.unknownOpcode(op)
	}
	return h(c, op)
}

func (c *CPU) opMisc(op opcode) error {
	h := miscOps[op.kk()]
	if h == nil {
		return c.unknownOpcode(op)
	}
	return h(c, op)
}
