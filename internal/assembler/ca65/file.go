// Package ca65 generates source for the ca65 assembler of the cc65 suite.
package ca65

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/region"
	"github.com/retroenv/srcgen/internal/writer"
)

// FileSuffix is appended to the base name of the generated source file.
const FileSuffix = "_cc65.S"

// Generator generates ca65 source and the matching ld65 linker config.
type Generator struct {
	logger *log.Logger

	cfg     assembler.Config
	version assembler.Version
	quirks  assembler.Quirks

	pass *pass
}

type pass struct {
	src      *writer.Source
	data     *writer.DataWriter
	director *region.Deferred
}

// New returns a new ca65 source generator.
func New(logger *log.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Name returns the name of the dialect.
func (g *Generator) Name() string {
	return assembler.Ca65
}

// Quirks returns the quirks of the configured assembler version.
func (g *Generator) Quirks() assembler.Quirks {
	return g.quirks
}

// PseudoOps returns the pseudo-op names of the configured assembler version.
func (g *Generator) PseudoOps() assembler.PseudoOpNames {
	return pseudoOpNames()
}

// Configure configures the generator for a program.
func (g *Generator) Configure(cfg assembler.Config) error {
	if cfg.Program == nil {
		return assembler.ErrNotConfigured
	}
	if err := assembler.ValidateCPU(assembler.Ca65, cfg.Program.CPU); err != nil {
		return fmt.Errorf("validating cpu: %w", err)
	}

	g.cfg = cfg
	g.version = cfg.Version
	if !g.version.IsValid() {
		g.version = defaultVersion
	}
	g.quirks = quirks(g.version)
	return nil
}

// GenerateSource generates the source file and the linker config.
func (g *Generator) GenerateSource(ctx context.Context, progress assembler.ProgressFunc) (*assembler.GenerationResult, error) {
	prog := g.cfg.Program
	if prog == nil {
		return nil, assembler.ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating source: %w", err)
	}
	progress.Report("Generating ca65 source")

	base := filepath.Join(g.cfg.OutputDir, g.cfg.BaseName)
	file, err := writer.CreateSourceFile(base+FileSuffix, g.cfg.Settings, columnWidths, isEquate)
	if err != nil {
		return nil, fmt.Errorf("creating source file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	p := g.newPass(file.Out)
	g.pass = p
	defer func() {
		g.pass = nil
	}()

	if g.cfg.Settings.HeaderComment {
		p.src.OutputHeaderComment("ca65", g.version)
	}
	p.src.Out.OutputLine("", p.src.PseudoOp(assembler.DirCPU), cpuName(prog.CPU), "")
	p.src.Out.OutputText("")
	p.src.OutputEquates()

	if err := writer.Generate(g, p.src); err != nil {
		return nil, fmt.Errorf("generating code: %w", err)
	}
	if err := p.director.Finish(); err != nil {
		g.logger.Error("Address regions are not balanced", log.Err(err))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating source: %w", err)
	}
	if err := file.Commit(); err != nil {
		return nil, err
	}

	configPath := base + ConfigFileSuffix
	if err := writeLinkerConfig(configPath, prog); err != nil {
		return nil, err
	}

	return &assembler.GenerationResult{
		Files:     []string{file.Path(), configPath},
		Excisions: p.data.Excisions(),
	}, nil
}

func (g *Generator) newPass(out *writer.LineWriter) *pass {
	src := writer.NewSource(g.cfg.Program, out, g.logger, writer.SourceConfig{
		Format: formatConfig(),
		Labels: labelConfig,
		Names:  pseudoOpNames(),
		Quirks: g.quirks,
	})
	p := &pass{
		src:  src,
		data: writer.NewDataWriter(src, dataOptions(src)),
	}
	p.director = region.NewDeferred(p)
	return p
}

func writeLinkerConfig(path string, prog *program.Program) error {
	start := max(0, prog.AddressMap.FirstAddress())
	config, err := GenerateLinkerConfig(start, len(prog.Data))
	if err != nil {
		return fmt.Errorf("generating linker config: %w", err)
	}

	file, err := writer.CreateOutputFile(path)
	if err != nil {
		return fmt.Errorf("creating linker config: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	if _, err := file.Write([]byte(config)); err != nil {
		return fmt.Errorf("writing linker config: %w", err)
	}
	if err := file.Commit(); err != nil {
		return fmt.Errorf("committing linker config: %w", err)
	}
	return nil
}

func cpuName(cpu instruction.CPU) string {
	if cpu == instruction.CPU65816 {
		return `"65816"`
	}
	return `"6502X"` // allow unofficial opcodes
}

// OutputAddressRegionChange buffers or outputs the program counter change of a region.
func (g *Generator) OutputAddressRegionChange(change program.AddressChange) {
	g.pass.director.OnChange(change)
}

// FlushPendingRegionDirectives outputs a buffered program counter change.
func (g *Generator) FlushPendingRegionDirectives() {
	g.pass.director.Flush()
}

// OutputRegisterWidthDirective outputs the width directives of the changed registers.
func (g *Generator) OutputRegisterWidthDirective(_ int, prevM, prevX, newM, newX bool) {
	out := g.pass.src.Out
	if prevM != newM {
		opcode := ".a16"
		if newM {
			opcode = ".a8"
		}
		out.OutputLine("", opcode, "", "")
	}
	if prevX != newX {
		opcode := ".i16"
		if newX {
			opcode = ".i8"
		}
		out.OutputLine("", opcode, "", "")
	}
}

// ModifyOpcode returns the 6502X mnemonics of undocumented opcodes.
func (g *Generator) ModifyOpcode(_ int, op instruction.OpDef) (string, bool) {
	return writer.UndocumentedMnemonic(op, undocumented)
}

// ModifyInstructionOperandFormat outputs quote characters as numbers.
func (g *Generator) ModifyInstructionOperandFormat(_ int, format *program.FormatDescriptor,
	operand int) *program.FormatDescriptor {

	return writer.DowngradeCharOperand(format, operand, illegalChars)
}

// Label outputs a label on its own line.
func (p *pass) Label(name string) {
	p.src.OutputLabel(name)
}

// SetPC outputs a program counter change.
func (p *pass) SetPC(address int) {
	p.src.Out.OutputLine("", p.src.PseudoOp(assembler.DirRegionStart), p.src.Formatter.FormatHexValue(address, 4), "")
}
