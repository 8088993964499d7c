package options

import (
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/srcgen/internal/assembler"
)

func TestOutputFlags_Settings(t *testing.T) {
	tests := []struct {
		name    string
		flags   OutputFlags
		want    assembler.Settings
		wantErr bool
	}{
		{
			name:  "defaults",
			flags: NewProgram().OutputFlags,
			want:  assembler.Settings{LabelPlacement: assembler.LabelSplitIfTooLong, HeaderComment: true},
		},
		{
			name:  "separate labels with widths",
			flags: OutputFlags{LabelPlacement: "Separate", LabelWidth: 10, OpcodeWidth: 6, OperandWidth: 20},
			want:  assembler.Settings{LabelPlacement: assembler.LabelSeparate, ColumnWidths: [3]int{10, 6, 20}},
		},
		{
			name:    "unknown placement",
			flags:   OutputFlags{LabelPlacement: "left"},
			wantErr: true,
		},
		{
			name:    "negative width",
			flags:   OutputFlags{LabelPlacement: PlacementInline, OpcodeWidth: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.Settings()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlags_NormalizeAssemblers(t *testing.T) {
	f := Flags{Assemblers: []string{"ACME", "asm6f", "cc65", "acme", " "}}
	assert.NoError(t, f.NormalizeAssemblers())
	assert.Equal(t, []string{assembler.Acme, assembler.Asm6, assembler.Ca65}, f.Assemblers)

	f = Flags{Assemblers: []string{"nesasm"}}
	assert.ErrorContains(t, f.NormalizeAssemblers(), "unsupported assembler 'nesasm'")

	f = Flags{}
	assert.Error(t, f.NormalizeAssemblers())
}

func TestNewProgram(t *testing.T) {
	opts := NewProgram()
	assert.Equal(t, assembler.Dialects, opts.Assemblers)
	assert.Equal(t, 0x8000, opts.LoadAddress)
	assert.NotNil(t, opts.Executables)
}

func TestParameters_Output(t *testing.T) {
	p := Parameters{Input: filepath.Join("roms", "game.bin")}
	assert.Equal(t, "roms", p.OutputDir())
	assert.Equal(t, "game", p.BaseName())

	p.Output = "out"
	assert.Equal(t, "out", p.OutputDir())

	p.Input = "archive.tar.gz"
	assert.Equal(t, "archive.tar", p.BaseName())
}
