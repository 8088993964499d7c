package writer

import (
	"context"
	"fmt"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

// fakeGenerator outputs region changes and register widths as text lines.
type fakeGenerator struct {
	src     *Source
	data    *DataWriter
	flushes int
	asData  map[int]bool
}

func newFakeGenerator(src *Source) *fakeGenerator {
	return &fakeGenerator{
		src:    src,
		data:   NewDataWriter(src, DataOptions{}),
		asData: map[int]bool{},
	}
}

func (g *fakeGenerator) Name() string                       { return "fake" }
func (g *fakeGenerator) Configure(assembler.Config) error   { return nil }
func (g *fakeGenerator) Quirks() assembler.Quirks           { return g.src.Quirks }
func (g *fakeGenerator) FlushPendingRegionDirectives()      { g.flushes++ }
func (g *fakeGenerator) OutputDataDirective(offset int) int { return g.data.Output(offset) }

func (g *fakeGenerator) GenerateSource(context.Context, assembler.ProgressFunc) (*assembler.GenerationResult, error) {
	return &assembler.GenerationResult{}, nil
}

func (g *fakeGenerator) OutputAddressRegionChange(change program.AddressChange) {
	if change.IsStart {
		g.src.Out.OutputText(fmt.Sprintf(".org $%04x", change.Address))
		return
	}
	g.src.Out.OutputText(fmt.Sprintf("; end $%04x", change.Offset))
}

func (g *fakeGenerator) OutputRegisterWidthDirective(_ int, _, _, newM, newX bool) {
	g.src.Out.OutputText(fmt.Sprintf("; m8=%t x8=%t", newM, newX))
}

func (g *fakeGenerator) ModifyOpcode(offset int, _ instruction.OpDef) (string, bool) {
	return "", !g.asData[offset]
}

func (g *fakeGenerator) ModifyInstructionOperandFormat(_ int, format *program.FormatDescriptor,
	_ int) *program.FormatDescriptor {

	return format
}

func setInstructions(t *testing.T, prog *program.Program, offsets ...int) {
	t.Helper()

	for _, offset := range offsets {
		op, ok := instruction.Lookup6502(prog.Data[offset])
		assert.True(t, ok)
		assert.NoError(t, prog.SetInstruction(offset, op, true, true))
	}
}

func TestGenerate_Instructions(t *testing.T) {
	data := []byte{
		0xa9, 0x10, // lda #$10
		0x8d, 0x00, 0x20, // sta $2000
		0xd0, 0xf9, // bne reset
		0xad, 0x10, 0x00, // lda $0010
		0x4c, 0x00, 0x80, // jmp reset
		0x42,
	}
	prog := testProgram(t, data, 0x8000)
	setInstructions(t, prog, 0, 2, 5, 7, 10)
	assert.NoError(t, prog.AddLabel(0, "reset"))
	prog.Offsets[2].Comment = "control"
	prog.Offsets[13].LongComment = []string{"data"}

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	gen := newFakeGenerator(env.src)
	assert.NoError(t, Generate(gen, env.src))

	assert.Equal(t, []string{
		".org $8000",
		"reset: lda #$10",
		"sta $2000 ; control",
		"bne reset",
		"lda a:$0010",
		"jmp reset",
		"; data",
		".byte $42",
		"; end $000e",
	}, env.lines(t))
	assert.True(t, gen.flushes >= 6)
}

func TestGenerate_CodeAsData(t *testing.T) {
	data := []byte{0xea, 0xa9, 0x10}
	prog := testProgram(t, data, 0x8000)
	setInstructions(t, prog, 0, 1)
	prog.Offsets[1].SetType(program.CodeAsData)

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	gen := newFakeGenerator(env.src)
	gen.asData[0] = true
	assert.NoError(t, Generate(gen, env.src))

	assert.Equal(t, []string{
		".org $8000",
		".byte $ea",
		".byte $a9,$10",
		"; end $0003",
	}, env.lines(t))
}

func TestGenerate_NestedRegions(t *testing.T) {
	prog := testProgram(t, []byte{0xea, 0xea, 0xea, 0xea}, 0x8000)
	assert.NoError(t, prog.AddressMap.Add(program.AddressRegion{Offset: 1, Length: 2, Address: 0x0300}))
	setInstructions(t, prog, 0, 1, 2, 3)

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	assert.Equal(t, []string{
		".org $8000",
		"nop",
		".org $0300",
		"nop",
		"nop",
		"; end $0003",
		"nop",
		"; end $0004",
	}, env.lines(t))
}

func TestGenerate_ZeroPageAndIndirect(t *testing.T) {
	data := []byte{
		0xb1, 0x20, // lda ($20),y
		0xa1, 0x30, // lda ($30,x)
		0x6c, 0x34, 0x12, // jmp ($1234)
		0xb5, 0x10, // lda $10,x
		0x0a, // asl
	}
	prog := testProgram(t, data, 0x8000)
	setInstructions(t, prog, 0, 2, 4, 7, 9)

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	lines := env.lines(t)
	assert.Equal(t, []string{
		"lda ($20),y",
		"lda ($30,x)",
		"jmp ($1234)",
		"lda $10,x",
		"asl",
	}, lines[1:6])
}

func TestGenerate_RegisterWidths(t *testing.T) {
	data := []byte{
		0xc2, 0x20, // rep #$20
		0xa9, 0x34, 0x12, // lda #$1234
		0xaf, 0x56, 0x34, 0x00, // lda $003456 long
		0x54, 0x01, 0x02, // mvn $02,$01
	}
	prog := program.New("test.bin", data, instruction.CPU65816)
	assert.NoError(t, prog.AddressMap.Add(program.AddressRegion{Length: len(data), Address: 0x8000}))

	lda, ok := instruction.Lookup6502(0xa9)
	assert.True(t, ok)
	assert.NoError(t, prog.SetInstruction(0, instruction.Rep, true, true))
	assert.NoError(t, prog.SetInstruction(2, lda.WithWidthFlags(), false, true))
	assert.NoError(t, prog.SetInstruction(5, instruction.LdaLng, false, true))
	assert.NoError(t, prog.SetInstruction(9, instruction.Mvn, false, true))

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	assert.Equal(t, []string{
		".org $8000",
		"rep #$20",
		"; m8=false x8=true",
		"lda #$1234",
		"lda f:$003456",
		"mvn #$02,#$01",
		"; end $000c",
	}, env.lines(t))
}

func TestGenerate_BlockMoveWithoutHash(t *testing.T) {
	prog := program.New("test.bin", []byte{0x54, 0x7e, 0x7f}, instruction.CPU65816)
	assert.NoError(t, prog.SetInstruction(0, instruction.Mvn, true, true))

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	env.src.Quirks.BlockMoveArgsNoHash = true
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	assert.Equal(t, []string{"mvn $7f,$7e"}, env.lines(t))
}

func TestGenerate_BranchBackwardWrap(t *testing.T) {
	prog := testProgram(t, []byte{0xd0, 0xfc}, 0x0000)
	setInstructions(t, prog, 0)

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	assert.Equal(t, "bne $fffe", env.lines(t)[1])
}

func TestGenerate_BranchWrapAsData(t *testing.T) {
	prog := testProgram(t, []byte{0xd0, 0xfc}, 0x0000)
	setInstructions(t, prog, 0)

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	env.src.Quirks.NoPcRelBankWrap = true
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	assert.Equal(t, ".byte $d0,$fc", env.lines(t)[1])
}

func TestGenerate_ImmediateSymbol(t *testing.T) {
	prog := testProgram(t, []byte{0xa9, 0x00, 0xea}, 0x8000)
	setInstructions(t, prog, 0, 2)
	assert.NoError(t, prog.AddLabel(2, "target"))
	prog.Offsets[0].Format = &program.FormatDescriptor{
		Kind:    program.FormatDefault,
		SubType: program.SubSymbol,
		Length:  1,
		Symbol:  &program.SymbolRef{Label: "target", Part: program.PartHigh},
	}

	env := newTestEnv(t, prog, testFormatConfig(), testNames)
	assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

	assert.Equal(t, "lda #>target", env.lines(t)[1])
}

func TestGenerate_ZeroPageLabelWidth(t *testing.T) {
	tests := []struct {
		name     string
		quirks   assembler.Quirks
		forward  string
		backward string
	}{
		{name: "multi pass", forward: "lda zpvar", backward: "lda zpvar"},
		{
			name:     "single pass",
			quirks:   assembler.Quirks{SinglePassAssembler: true},
			forward:  "lda z:zpvar",
			backward: "lda zpvar",
		},
		{
			name:     "single pass without label correction",
			quirks:   assembler.Quirks{SinglePassAssembler: true, SinglePassNoLabelCorrection: true},
			forward:  "lda z:zpvar",
			backward: "lda z:zpvar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := testProgram(t, []byte{0xa5, 0x04, 0xea, 0xea, 0x00, 0x00, 0xa5, 0x04}, 0x0000)
			setInstructions(t, prog, 0, 2, 3, 6)
			assert.NoError(t, prog.AddLabel(4, "zpvar"))
			for _, offset := range []int{0, 6} {
				prog.Offsets[offset].Format = &program.FormatDescriptor{
					Kind:    program.FormatDefault,
					SubType: program.SubSymbol,
					Length:  1,
					Symbol:  &program.SymbolRef{Label: "zpvar"},
				}
			}

			env := newTestEnv(t, prog, testFormatConfig(), testNames)
			env.src.Quirks = tt.quirks
			assert.NoError(t, Generate(newFakeGenerator(env.src), env.src))

			lines := env.lines(t)
			assert.Equal(t, tt.forward, lines[1])
			assert.Equal(t, tt.backward, lines[len(lines)-2])
		})
	}
}
