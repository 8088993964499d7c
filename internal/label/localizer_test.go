package label

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

func testProgram(t *testing.T) *program.Program {
	t.Helper()

	p := program.New("test", make([]byte, 0x20), instruction.CPU6502)
	assert.NoError(t, p.AddressMap.Add(program.AddressRegion{Offset: 0, Length: 0x20, Address: 0x1000}))
	assert.NoError(t, p.AddLabel(0x00, "main"))
	assert.NoError(t, p.AddLocalLabel(0x04, "loop"))
	assert.NoError(t, p.AddLabel(0x10, "other"))
	assert.NoError(t, p.AddLocalLabel(0x14, "skip"))
	return p
}

func reference(t *testing.T, p *program.Program, offset int, target string) {
	t.Helper()

	format := program.FormatDescriptor{
		Kind:    program.FormatNumericLE,
		SubType: program.SubSymbol,
		Length:  2,
		Symbol:  &program.SymbolRef{Label: target},
	}
	p.Offsets[offset].Format = &format
}

func TestLocalizer_LocalLabels(t *testing.T) {
	p := testProgram(t)
	reference(t, p, 0x08, "loop")

	l := New(p, Config{LocalPrefix: "@"})
	l.Analyze()

	assert.True(t, l.IsLocal("loop"))
	assert.Equal(t, "@loop", l.ConvLabel("loop"))
	assert.Equal(t, "main", l.ConvLabel("main"))
	assert.Equal(t, "@skip", l.ConvLabel("skip"))
}

func TestLocalizer_PromoteCrossScope(t *testing.T) {
	p := testProgram(t)
	reference(t, p, 0x18, "loop")

	l := New(p, Config{LocalPrefix: "@"})
	l.Analyze()

	assert.False(t, l.IsLocal("loop"))
	assert.Equal(t, "loop", l.ConvLabel("loop"))
	assert.True(t, l.IsLocal("skip"))
}

func TestLocalizer_PromoteChain(t *testing.T) {
	p := testProgram(t)
	// promoting loop starts a new scope between early and its reference at 0x06
	assert.NoError(t, p.AddLocalLabel(0x02, "early"))
	reference(t, p, 0x18, "loop")
	reference(t, p, 0x06, "early")

	l := New(p, Config{LocalPrefix: "@"})
	l.Analyze()

	assert.False(t, l.IsLocal("loop"))
	assert.False(t, l.IsLocal("early"))
}

func TestLocalizer_PromoteBranchTarget(t *testing.T) {
	p := testProgram(t)
	bne, ok := instruction.Lookup6502(0xd0)
	assert.True(t, ok)
	// bne loop from the scope of other
	p.Data[0x12], p.Data[0x13] = 0xd0, 0xf0
	assert.NoError(t, p.SetInstruction(0x12, bne, true, true))
	// bne skip inside of its own scope
	p.Data[0x16], p.Data[0x17] = 0xd0, 0xfc
	assert.NoError(t, p.SetInstruction(0x16, bne, true, true))

	l := New(p, Config{LocalPrefix: "@"})
	l.Analyze()

	assert.False(t, l.IsLocal("loop"))
	assert.Equal(t, "loop", l.ConvLabel("loop"))
	assert.True(t, l.IsLocal("skip"))
}

func TestLocalizer_PromoteJumpTarget(t *testing.T) {
	p := testProgram(t)
	jmp, ok := instruction.Lookup6502(0x4c)
	assert.True(t, ok)
	// jmp skip from the scope of main
	p.Data[0x08], p.Data[0x09], p.Data[0x0a] = 0x4c, 0x14, 0x10
	assert.NoError(t, p.SetInstruction(0x08, jmp, true, true))

	l := New(p, Config{LocalPrefix: "@"})
	l.Analyze()

	assert.False(t, l.IsLocal("skip"))
	assert.True(t, l.IsLocal("loop"))
}

func TestLocalizer_NoLocalSupport(t *testing.T) {
	p := testProgram(t)

	l := New(p, Config{})
	l.Analyze()

	assert.False(t, l.IsLocal("loop"))
	assert.Equal(t, "loop", l.ConvLabel("loop"))
}

func TestLocalizer_IllegalNames(t *testing.T) {
	p := program.New("test", make([]byte, 0x10), instruction.CPU6502)
	assert.NoError(t, p.AddLabel(0x00, "_start"))
	assert.NoError(t, p.AddLabel(0x02, "A"))
	assert.NoError(t, p.AddLabel(0x04, "a_"))
	assert.NoError(t, p.AddVariable("ptr", 0x10, ""))

	l := New(p, Config{
		IllegalFirstChars: "_",
		ReservedWords:     []string{"a", "x", "y"},
		VariablePrefix:    "]",
	})
	l.Analyze()

	assert.Equal(t, "L_start", l.ConvLabel("_start"))
	assert.Equal(t, "A_", l.ConvLabel("A"))
	assert.Equal(t, "a__2", l.ConvLabel("a_"))
	assert.Equal(t, "]ptr", l.FormatVariableLabel("ptr"))
	assert.Equal(t, "unknown", l.ConvLabel("unknown"))
}
