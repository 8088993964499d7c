package asm6

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

func generate(t *testing.T, prog *program.Program) (*assembler.GenerationResult, []string) {
	t.Helper()

	gen := New(log.NewTestLogger(t))
	assert.NoError(t, gen.Configure(assembler.Config{
		Program:   prog,
		OutputDir: t.TempDir(),
		BaseName:  "test",
	}))

	result, err := gen.GenerateSource(context.Background(), nil)
	assert.NoError(t, err)

	data, err := os.ReadFile(result.Files[0])
	assert.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return result, lines
}

//nolint:funlen // test functions can be long
func TestGenerator_Data(t *testing.T) {
	data := []byte{
		0xa9, 0x41, // lda #'A'
		0x00, 0x00, 0x00, // fill
		'h', 'i', // string
		0x34, 0x12, // word
		0xff, 0xff, 0xff, // align
		0x01, 0x02, 0x03, 0x04, 0x05, // include
	}
	prog := program.New("test.bin", data, instruction.CPU6502)
	assert.NoError(t, prog.AddressMap.Add(program.AddressRegion{Length: len(data), Address: 0xc000}))
	lda, ok := instruction.Lookup6502(0xa9)
	assert.True(t, ok)
	assert.NoError(t, prog.SetInstruction(0, lda, true, true))
	prog.Offsets[0].Format = &program.FormatDescriptor{Kind: program.FormatDefault, SubType: program.SubAscii, Length: 1}
	assert.NoError(t, prog.AddLabel(0, "reset"))
	assert.NoError(t, prog.SetFormat(2, program.NewFill(3)))
	assert.NoError(t, prog.SetFormat(5, program.NewString(program.FormatStringGeneric, program.SubAscii, 2)))
	assert.NoError(t, prog.SetFormat(7, program.NewNumeric(2)))
	assert.NoError(t, prog.SetFormat(9, program.NewAligned(program.FormatJunk, 2, 3)))
	assert.NoError(t, prog.SetFormat(12, program.NewBinaryInclude("test_0c.bin", 5)))

	result, lines := generate(t, prog)
	assert.Equal(t, []string{
		".base $c000",
		"reset: lda #'A'",
		".dsb 3",
		`.db "hi"`,
		".dw $1234",
		".align 4,$ff",
		`.incbin "test_0c.bin"`,
	}, lines)
	assert.Equal(t, []assembler.BinaryIncludeExcision{{Offset: 12, Length: 5, Path: "test_0c.bin"}}, result.Excisions)
}

func TestGenerator_Rejects65816(t *testing.T) {
	prog := program.New("test.bin", []byte{0xea}, instruction.CPU65816)
	gen := New(log.NewTestLogger(t))
	assert.Error(t, gen.Configure(assembler.Config{Program: prog}))
}

func TestGenerator_CharacterOperandDowngrade(t *testing.T) {
	prog := program.New("test.bin", []byte{0xa9, ','}, instruction.CPU6502)
	lda, ok := instruction.Lookup6502(0xa9)
	assert.True(t, ok)
	assert.NoError(t, prog.SetInstruction(0, lda, true, true))
	prog.Offsets[0].Format = &program.FormatDescriptor{Kind: program.FormatDefault, SubType: program.SubAscii, Length: 1}

	_, lines := generate(t, prog)
	assert.Equal(t, []string{"lda #$2c"}, lines)
}

func TestCommand(t *testing.T) {
	cmd := Command("asm6f", filepath.Join("out", "game"+FileSuffix))
	assert.Equal(t, []string{"game" + FileSuffix, "game_asm6.bin"}, cmd.Args)
	assert.Equal(t, "out", cmd.Dir)
	assert.Equal(t, filepath.Join("out", "game_asm6.bin"), cmd.OutputFile)
}
