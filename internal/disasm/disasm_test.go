package disasm

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		name     string
		opcode   uint16
		expected string
	}{
		{"CLS", 0x00E0, "cls"},
		{"RET", 0x00EE, "ret"},
		{"SYS", 0x0123, "sys $123"},
		{"JP", 0x1234, "jp $234"},
		{"JP V0", 0xB234, "jp V0, $234"},
		{"CALL", 0x2300, "call $300"},
		{"SE Vx, byte", 0x3234, "se V2, $34"},
		{"SNE Vx, byte", 0x4234, "sne V2, $34"},
		{"SE Vx, Vy", 0x5230, "se V2, V3"},
		{"SNE Vx, Vy", 0x9230, "sne V2, V3"},
		{"LD Vx, byte", 0x6234, "ld V2, $34"},
		{"ADD Vx, byte", 0x7234, "add V2, $34"},
		{"LD Vx, Vy", 0x8230, "ld V2, V3"},
		{"OR", 0x8231, "or V2, V3"},
		{"AND", 0x8232, "and V2, V3"},
		{"XOR", 0x8233, "xor V2, V3"},
		{"ADD Vx, Vy", 0x8234, "add V2, V3"},
		{"SUB", 0x8235, "sub V2, V3"},
		{"SUBN", 0x8237, "subn V2, V3"},
		{"LD I", 0xA234, "ld I, $234"},
		{"RND", 0xC234, "rnd V2, $34"},
		{"DRW", 0xD235, "drw V2, V3, $5"},
		{"SKP", 0xE29E, "skp V2"},
		{"SKNP", 0xE2A1, "sknp V2"},
		{"LD Vx, DT", 0xF207, "ld V2, DT"},
		{"LD Vx, K", 0xF20A, "ld V2, K"},
		{"LD DT, Vx", 0xF215, "ld DT, V2"},
		{"LD ST, Vx", 0xF218, "ld ST, V2"},
		{"ADD I, Vx", 0xF21E, "add I, V2"},
		{"LD F, Vx", 0xF229, "ld F, V2"},
		{"LD B, Vx", 0xF233, "ld B, V2"},
		{"LD [I], Vx", 0xF255, "ld [I], V2"},
		{"LD Vx, [I]", 0xF265, "ld V2, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Disassemble(tt.opcode)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestDisassemble_Unknown(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
	}{
		{"zero", 0x0000},
		{"alu", 0x8238},
		{"skip register", 0x5231},
		{"key", 0xE200},
		{"misc", 0xF2FF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Disassemble(tt.opcode)
			assert.True(t, errors.Is(err, ErrUnknownOpcode))
		})
	}
}

func TestDisassemble_MiscFamily(t *testing.T) {
	selectors := map[uint16]string{
		0x07: "ld V%X, DT",
		0x0A: "ld V%X, K",
		0x15: "ld DT, V%X",
		0x18: "ld ST, V%X",
		0x1E: "add I, V%X",
		0x29: "ld F, V%X",
		0x33: "ld B, V%X",
		0x55: "ld [I], V%X",
		0x65: "ld V%X, [I]",
	}

	for low := range uint16(0x100) {
		for x := range uint16(16) {
			opcode := 0xF000 | x<<8 | low
			s, err := Disassemble(opcode)

			format, ok := selectors[low]
			if !ok {
				assert.True(t, errors.Is(err, ErrUnknownOpcode), fmt.Sprintf("opcode %04X", opcode))
				continue
			}
			assert.NoError(t, err)
			assert.Equal(t, fmt.Sprintf(format, x), s)
		}
	}
}

func TestText(t *testing.T) {
	assert.Equal(t, "cls", Text(0x00E0))
	assert.Equal(t, "FFFF | unknown opcode (probably data)", Text(0xFFFF))
}

func TestProgram(t *testing.T) {
	program := []byte{
		0x22, 0x06, // 200: call 206
		0x12, 0x02, // 202: jp 202
		0xA2, 0x08, // 204: ld I, 208
		0x00, 0xEE, // 206: ret
		0xFF, 0xFF, // 208: data
		0x12, // 20A: standalone byte
	}

	lines := Program(program)
	assert.Len(t, lines, 6)

	assert.Equal(t, uint16(0x200), lines[0].Address)
	assert.Equal(t, "call _func_0206", lines[0].Code)
	assert.Empty(t, lines[0].Label)

	assert.Equal(t, "_label_0202", lines[1].Label)
	assert.Equal(t, "jp _label_0202", lines[1].Code)

	assert.Equal(t, "ld I, _data_0208", lines[2].Code)

	assert.Equal(t, "_func_0206", lines[3].Label)
	assert.Equal(t, "ret", lines[3].Code)

	assert.Equal(t, "_data_0208", lines[4].Label)
	assert.Equal(t, "dw $FFFF", lines[4].Code)
	assert.Equal(t, "unknown opcode (probably data)", lines[4].Comment)

	assert.Equal(t, uint16(0x20A), lines[5].Address)
	assert.Len(t, lines[5].Data, 1)
	assert.Equal(t, "db $12", lines[5].Code)
	assert.Equal(t, "standalone byte", lines[5].Comment)
}

func TestProgram_TargetOutsideProgram(t *testing.T) {
	lines := Program([]byte{0x13, 0x00})
	assert.Len(t, lines, 1)
	assert.Equal(t, "jp $300", lines[0].Code)
}

func TestProgram_JumpIntoInstruction(t *testing.T) {
	lines := Program([]byte{0x12, 0x03, 0x00, 0xE0})
	assert.Len(t, lines, 2)
	assert.Equal(t, "jp $203", lines[0].Code)
	assert.Empty(t, lines[1].Label)
	assert.Equal(t, "branch into instruction detected: cls", lines[1].Comment)
}

func TestWrite(t *testing.T) {
	lines := Program([]byte{0x12, 0x00, 0xAB})

	var buf bytes.Buffer
	assert.NoError(t, Write(&buf, lines))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "_label_0200:\n"))
	assert.Contains(t, out, "jp _label_0200")
	assert.Contains(t, out, "; $200 1200")
	assert.Contains(t, out, "; $202 AB standalone byte")
}
