// Package merlin32 generates source for the Merlin 32 cross assembler.
package merlin32

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
const FileSuffix = "_merlin32.S"

// Generator generates Merlin 32 source.
type Generator struct {
	logger *log.Logger

	cfg     assembler.Config
	version assembler.Version

	pass *pass
}

type pass struct {
	src      *writer.Source
	data     *writer.DataWriter
	director *region.Deferred
}

// New returns a new Merlin 32 source generator.
func New(logger *log.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Name returns the name of the dialect.
func (g *Generator) Name() string {
	return assembler.Merlin32
}

// Quirks returns the quirks of the assembler, they do not depend on the version.
func (g *Generator) Quirks() assembler.Quirks {
	return quirks
}

// PseudoOps returns the pseudo-op names of the assembler.
func (g *Generator) PseudoOps() assembler.PseudoOpNames {
	return assembler.NewPseudoOpNames(pseudoOps)
}

// Configure configures the generator for a program.
func (g *Generator) Configure(cfg assembler.Config) error {
	if cfg.Program == nil {
		return assembler.ErrNotConfigured
	}
	if err := assembler.ValidateCPU(assembler.Merlin32, cfg.Program.CPU); err != nil {
		return fmt.Errorf("validating cpu: %w", err)
	}

	g.cfg = cfg
	g.version = cfg.Version
	if !g.version.IsValid() {
		g.version = defaultVersion
	}
	return nil
}

// GenerateSource generates the source file.
func (g *Generator) GenerateSource(ctx context.Context, progress assembler.ProgressFunc) (*assembler.GenerationResult, error) {
	if g.cfg.Program == nil {
		return nil, assembler.ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating source: %w", err)
	}
	progress.Report("Generating Merlin 32 source")

	path := filepath.Join(g.cfg.OutputDir, g.cfg.BaseName+FileSuffix)
	file, err := writer.CreateSourceFile(path, g.cfg.Settings, columnWidths, isEquate)
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
		p.src.OutputHeaderComment("Merlin 32", g.version)
	}
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

	return &assembler.GenerationResult{
		Files:     []string{path},
		Excisions: p.data.Excisions(),
	}, nil
}

func (g *Generator) newPass(out *writer.LineWriter) *pass {
	src := writer.NewSource(g.cfg.Program, out, g.logger, writer.SourceConfig{
		Format: formatConfig(),
		Labels: labelConfig,
		Names:  assembler.NewPseudoOpNames(pseudoOps),
		Quirks: quirks,
	})
	p := &pass{
		src:  src,
		data: writer.NewDataWriter(src, dataOptions(src)),
	}
	p.director = region.NewDeferred(p)
	return p
}

// OutputAddressRegionChange buffers or outputs the program counter change of a region.
func (g *Generator) OutputAddressRegionChange(change program.AddressChange) {
	g.pass.director.OnChange(change)
}

// FlushPendingRegionDirectives outputs a buffered program counter change.
func (g *Generator) FlushPendingRegionDirectives() {
	g.pass.director.Flush()
}

// OutputRegisterWidthDirective outputs the current register widths, a set
// bit selects 8 bit width.
func (g *Generator) OutputRegisterWidthDirective(_ int, _, _, newM, newX bool) {
	operand := "%" + flagBit(newM) + flagBit(newX)
	g.pass.src.Out.OutputLine("", "mx", operand, "")
}

func flagBit(short bool) string {
	if short {
		return "1"
	}
	return "0"
}

// ModifyOpcode outputs undocumented opcodes as data, they are not supported.
func (g *Generator) ModifyOpcode(_ int, op instruction.OpDef) (string, bool) {
	if op.Undocumented && quirks.NoUndocumentedOpcodes {
		return "", false
	}
	return "", true
}

// ModifyInstructionOperandFormat outputs operand separators as numbers.
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
