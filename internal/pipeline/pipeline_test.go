package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/config"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/options"
	"github.com/retroenv/srcgen/internal/program"
)

// isolate hides installed assemblers from the test.
func isolate(t *testing.T) {
	t.Helper()

	t.Setenv("PATH", t.TempDir())
	for _, dialect := range assembler.Dialects {
		t.Setenv(config.ExecutableEnv(dialect), "")
	}
}

func createTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestNew(t *testing.T) {
	logger := log.NewTestLogger(t)
	p := New(logger, nil)

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.detector)
	assert.NotNil(t, p.loader)
	for _, dialect := range assembler.Dialects {
		_, ok := p.dialects[dialect]
		assert.True(t, ok)
	}
}

func TestExecute_AllDialects(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := createTempFile(t, dir, "game.bin", []byte{0xea, 0xea, 0x60, 0x00})

	opts := options.NewProgram()
	opts.Input = input
	opts.Quiet = true

	p := New(log.NewTestLogger(t), nil)
	results, err := p.Execute(context.Background(), opts)
	assert.NoError(t, err)
	assert.Len(t, results, len(assembler.Dialects))

	for i, dialect := range assembler.Dialects {
		assert.Equal(t, dialect, results[i].Dialect)
		assert.False(t, results[i].Version.IsValid())
		assert.Nil(t, results[i].Invocation)
	}

	for _, name := range []string{"game_acme.S", "game_cc65.S", "game_cc65.cfg", "game_merlin32.S", "game_asm6.asm"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err)
	}
}

func TestExecute_Excisions(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	outDir := t.TempDir()

	prog := program.New("game.bin", []byte{0xea, 1, 2, 3, 0x60}, instruction.CPU6502)
	assert.NoError(t, prog.AddressMap.Add(program.AddressRegion{Length: 5, Address: 0xc000}))
	assert.NoError(t, prog.SetFormat(1, program.NewBinaryInclude("tiles.bin", 3)))

	opts := options.NewProgram()
	opts.Input = filepath.Join(dir, "game.bin")
	opts.Output = outDir
	opts.Assemblers = []string{assembler.Acme, assembler.Ca65}

	p := New(log.NewTestLogger(t), nil)
	results, err := p.ExecuteWithProgram(context.Background(), prog, opts)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Len(t, results[1].Files, 2)

	data, err := os.ReadFile(filepath.Join(outDir, "tiles.bin"))
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestExecute_Deterministic(t *testing.T) {
	isolate(t)

	data := []byte{
		0xa9, 0x00, // main: lda #$00
		0x8d, 0x00, 0x20, // loop: sta $2000
		0xd0, 0xfb, // bne loop
		0x4c, 0x00, 0x80, // jmp main
		'h', 'i', '"', 'x', 0x00,
		0x01, 0x02, 0x03,
	}
	prog := program.New("game.bin", data, instruction.CPU6502)
	assert.NoError(t, prog.AddressMap.Add(program.AddressRegion{Length: len(data), Address: 0x8000}))
	for _, offset := range []int{0, 2, 5, 7} {
		op, ok := instruction.Lookup6502(data[offset])
		assert.True(t, ok)
		assert.NoError(t, prog.SetInstruction(offset, op, true, true))
	}
	assert.NoError(t, prog.SetFormat(10, program.NewString(program.FormatStringNullTerm, program.SubAscii, 5)))
	assert.NoError(t, prog.AddLabel(0, "main"))
	assert.NoError(t, prog.AddLocalLabel(2, "loop"))
	assert.NoError(t, prog.AddLabel(10, "text"))
	assert.NoError(t, prog.AddEquate("PPU_CTRL", 0x2000, "ppu control"))
	assert.NoError(t, prog.AddEquate("APU_STATUS", 0x4015, ""))

	generate := func(outDir string) []Result {
		opts := options.NewProgram()
		opts.Input = filepath.Join(t.TempDir(), "game.bin")
		opts.Output = outDir
		opts.Quiet = true

		p := New(log.NewTestLogger(t), nil)
		results, err := p.ExecuteWithProgram(context.Background(), prog, opts)
		assert.NoError(t, err)
		return results
	}

	first := generate(t.TempDir())
	second := generate(t.TempDir())
	assert.Len(t, second, len(first))

	for i, result := range first {
		assert.Len(t, second[i].Files, len(result.Files))
		for j, file := range result.Files {
			assert.Equal(t, filepath.Base(file), filepath.Base(second[i].Files[j]))

			expected, err := os.ReadFile(file)
			assert.NoError(t, err)
			actual, err := os.ReadFile(second[i].Files[j])
			assert.NoError(t, err)
			assert.Equal(t, string(expected), string(actual))
		}
	}
}

func TestExecute_UnsupportedCPU(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := createTempFile(t, dir, "game.bin", []byte{0xea})

	opts := options.NewProgram()
	opts.Input = input
	opts.CPU = "65816"
	opts.Assemblers = []string{assembler.Asm6}

	p := New(log.NewTestLogger(t), nil)
	_, err := p.Execute(context.Background(), opts)
	assert.ErrorContains(t, err, "does not support cpu")
}

func TestExecute_InvalidSettings(t *testing.T) {
	opts := options.NewProgram()
	opts.LabelPlacement = "diagonal"

	p := New(log.NewTestLogger(t), nil)
	_, err := p.ExecuteWithProgram(context.Background(), program.New("game.bin", []byte{0}, instruction.CPU6502), opts)
	assert.ErrorContains(t, err, "label placement")
}

// writeFakeAcme writes an assembler script that prints an ACME version and
// copies the reference file to the output file argument.
func writeFakeAcme(t *testing.T, dir string, reference []byte) string {
	t.Helper()

	ref := createTempFile(t, dir, "reference.bin", reference)
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 'This is ACME, release 0.97 (\"Zem\")'; exit 0; fi\n" +
		"/bin/cp '" + ref + "' \"$4\"\n"
	path := filepath.Join(dir, "acme")
	assert.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func TestExecute_Verify(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported")
	}
	isolate(t)

	image := []byte{0xea, 0x60}
	tests := []struct {
		name      string
		reference []byte
		wantErr   string
	}{
		{name: "match", reference: image},
		{name: "mismatch", reference: []byte{0xea, 0x40}, wantErr: "verification failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := createTempFile(t, dir, "game.bin", image)

			opts := options.NewProgram()
			opts.Input = input
			opts.Assemblers = []string{assembler.Acme}
			opts.Verify = true
			opts.Executables[assembler.Acme] = writeFakeAcme(t, t.TempDir(), tt.reference)

			p := New(log.NewTestLogger(t), opts.Executables)
			results, err := p.Execute(context.Background(), opts)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, results, 1)
			assert.True(t, results[0].Verified)
			assert.Equal(t, assembler.NewVersion(0, 97, 0), results[0].Version)
			assert.NotNil(t, results[0].Invocation)
			assert.Equal(t, 0, results[0].Invocation.ExitCode)
		})
	}
}

func TestExecute_AssembleWithoutExecutable(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := createTempFile(t, dir, "game.bin", []byte{0xea})

	opts := options.NewProgram()
	opts.Input = input
	opts.Assemblers = []string{assembler.Merlin32}
	opts.Assemble = true

	p := New(log.NewTestLogger(t), nil)
	results, err := p.Execute(context.Background(), opts)
	assert.NoError(t, err)
	assert.Nil(t, results[0].Invocation)
}

func TestExecute_Cancelled(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := createTempFile(t, dir, "game.bin", []byte{0xea})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options.NewProgram()
	opts.Input = input

	p := New(log.NewTestLogger(t), nil)
	_, err := p.Execute(ctx, opts)
	assert.Error(t, err)
}
