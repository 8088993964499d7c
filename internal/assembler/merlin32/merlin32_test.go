package merlin32

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

func testProgram(t *testing.T, data []byte, cpu instruction.CPU, address int) *program.Program {
	t.Helper()

	prog := program.New("test.bin", data, cpu)
	assert.NoError(t, prog.AddressMap.Add(program.AddressRegion{Length: len(data), Address: address}))
	return prog
}

func generate(t *testing.T, prog *program.Program) []string {
	t.Helper()

	gen := New(log.NewTestLogger(t))
	assert.NoError(t, gen.Configure(assembler.Config{
		Program:   prog,
		OutputDir: t.TempDir(),
		BaseName:  "test",
	}))

	result, err := gen.GenerateSource(context.Background(), nil)
	assert.NoError(t, err)
	assert.Len(t, result.Files, 1)

	data, err := os.ReadFile(result.Files[0])
	assert.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestGenerator_EquatesAndDci(t *testing.T) {
	prog := testProgram(t, []byte{'A', 'B', 'C', 'D' | 0x80}, instruction.CPU6502, 0x2000)
	assert.NoError(t, prog.AddEquate("SCREEN", 0x0400, ""))
	assert.NoError(t, prog.AddVariable("ptr", 0x10, "pointer"))
	assert.NoError(t, prog.SetFormat(0, program.NewString(program.FormatStringDci, program.SubAscii, 4)))

	lines := generate(t, prog)
	assert.Equal(t, []string{
		"]ptr = $10 ; pointer",
		"SCREEN equ $0400",
		"org $2000",
		"dci 'ABCD'",
	}, lines)
}

func TestGenerator_DciWithEscapedByte(t *testing.T) {
	prog := testProgram(t, []byte{0x01, 'A', 'B', 'C' | 0x80}, instruction.CPU6502, 0x2000)
	assert.NoError(t, prog.SetFormat(0, program.NewString(program.FormatStringDci, program.SubAscii, 4)))

	lines := generate(t, prog)
	assert.Equal(t, "asc 01,'AB',C3", lines[1])
}

func TestGenerator_HighASCIIString(t *testing.T) {
	prog := testProgram(t, []byte{0x03, 'H' | 0x80, 'I' | 0x80, '!' | 0x80}, instruction.CPU6502, 0x2000)
	assert.NoError(t, prog.SetFormat(0, program.NewString(program.FormatStringL8, program.SubHighAscii, 4)))

	lines := generate(t, prog)
	assert.Equal(t, `str "HI!"`, lines[1])
}

func TestGenerator_UndocumentedOpcodeAsData(t *testing.T) {
	prog := testProgram(t, []byte{0x4b, 0x10}, instruction.CPU6502, 0x2000)
	op := instruction.OpDef{Opcode: 0x4b, Mnemonic: "alr", Mode: instruction.Immediate, Undocumented: true}
	assert.NoError(t, prog.SetInstruction(0, op, true, true))

	lines := generate(t, prog)
	assert.Equal(t, "dfb $4b,$10", lines[1])
}

func TestGenerator_RegisterWidths(t *testing.T) {
	prog := testProgram(t, []byte{0xc2, 0x20, 0xa9, 0x34, 0x12}, instruction.CPU65816, 0x8000)
	lda, ok := instruction.Lookup6502(0xa9)
	assert.True(t, ok)
	assert.NoError(t, prog.SetInstruction(0, instruction.Rep, true, true))
	assert.NoError(t, prog.SetInstruction(2, lda.WithWidthFlags(), false, true))

	lines := generate(t, prog)
	assert.Equal(t, []string{
		"org $8000",
		"rep #$20",
		"mx %01",
		"lda #$1234",
	}, lines)
}

func TestGenerator_PageAlignment(t *testing.T) {
	prog := testProgram(t, make([]byte, 0x11), instruction.CPU6502, 0x20f0)
	assert.NoError(t, prog.SetFormat(0, program.NewAligned(program.FormatUninit, 8, 0x10)))

	lines := generate(t, prog)
	assert.Equal(t, []string{
		"org $20f0",
		`ds \`,
		"dfb $00",
	}, lines)
}

func TestAlignOperand(t *testing.T) {
	_, ok := alignOperand(nil, 4, 0)
	assert.False(t, ok)
	_, ok = alignOperand(nil, pageAlignPower, 0xff)
	assert.False(t, ok)
	operand, ok := alignOperand(nil, pageAlignPower, 0)
	assert.True(t, ok)
	assert.Equal(t, `\`, operand)
}

func TestCommand(t *testing.T) {
	cmd := Command("Merlin32", filepath.Join("out", "game"+FileSuffix))
	assert.Equal(t, []string{".", "game" + FileSuffix}, cmd.Args)
	assert.Equal(t, "out", cmd.Dir)
	assert.Equal(t, filepath.Join("out", "game_merlin32"), cmd.OutputFile)
}
