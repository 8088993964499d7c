// Package acme generates source for the ACME cross assembler.
package acme

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
const FileSuffix = "_acme.S"

const bankSize = 0x10000

// Generator generates ACME source.
type Generator struct {
	logger *log.Logger

	cfg     assembler.Config
	version assembler.Version
	quirks  assembler.Quirks
	names   assembler.PseudoOpNames

	// the image does not fit a single bank at its load address, the program
	// counter starts at zero and all regions are pseudo program counter blocks
	streamMode bool
	hexImage   bool // addresses above bank zero, the image is output as hex data

	pass *pass
}

// pass contains the state of a single generation pass.
type pass struct {
	src      *writer.Source
	data     *writer.DataWriter
	director *region.Nested
}

// New returns a new ACME source generator.
func New(logger *log.Logger) *Generator {
	return &Generator{
		logger: logger,
	}
}

// Name returns the name of the dialect.
func (g *Generator) Name() string {
	return assembler.Acme
}

// Quirks returns the quirks of the configured assembler version.
func (g *Generator) Quirks() assembler.Quirks {
	return g.quirks
}

// PseudoOps returns the pseudo-op names of the configured assembler version.
func (g *Generator) PseudoOps() assembler.PseudoOpNames {
	return g.names
}

// Configure configures the generator for a program.
func (g *Generator) Configure(cfg assembler.Config) error {
	if cfg.Program == nil {
		return assembler.ErrNotConfigured
	}
	if err := assembler.ValidateCPU(assembler.Acme, cfg.Program.CPU); err != nil {
		return fmt.Errorf("validating cpu: %w", err)
	}

	g.cfg = cfg
	g.version = cfg.Version
	if !g.version.IsValid() {
		g.version = defaultVersion
	}
	g.quirks = quirks(g.version)
	g.names = pseudoOpNames(g.version)

	prog := cfg.Program
	first := max(0, prog.AddressMap.FirstAddress())
	g.streamMode = first+len(prog.Data) > bankSize
	g.hexImage = g.quirks.Bank0Only && outsideBankZero(prog.AddressMap)
	return nil
}

// GenerateSource generates the source file.
func (g *Generator) GenerateSource(ctx context.Context, progress assembler.ProgressFunc) (*assembler.GenerationResult, error) {
	prog := g.cfg.Program
	if prog == nil {
		return nil, assembler.ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generating source: %w", err)
	}
	progress.Report("Generating ACME source")

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
		p.src.OutputHeaderComment("ACME", g.version)
	}
	p.src.Out.OutputLine("", p.src.PseudoOp(assembler.DirCPU), cpuName(prog.CPU), "")
	p.src.Out.OutputText("")
	p.src.OutputEquates()

	result := &assembler.GenerationResult{}
	if g.hexImage {
		g.logger.Warn("Program uses addresses above bank zero, output as hex data")
		p.outputHexImage()
		result.Note = "addresses above $FFFF are not supported, the image was output as hex data"
	} else if err := writer.Generate(g, p.src); err != nil {
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

	result.Files = []string{path}
	result.Excisions = p.data.Excisions()
	return result, nil
}

func (g *Generator) newPass(out *writer.LineWriter) *pass {
	src := writer.NewSource(g.cfg.Program, out, g.logger, writer.SourceConfig{
		Format: formatConfig(),
		Labels: labelConfig,
		Names:  g.names,
		Quirks: g.quirks,
	})
	p := &pass{
		src:  src,
		data: writer.NewDataWriter(src, dataOptions(src, g.quirks)),
	}
	p.director = region.NewNested(p, src.Formatter, g.quirks, g.streamMode)
	return p
}

// outsideBankZero returns whether a region starts above bank zero.
func outsideBankZero(m *program.AddressMap) bool {
	for _, region := range m.Regions() {
		if region.Address >= bankSize {
			return true
		}
	}
	return false
}

func cpuName(cpu instruction.CPU) string {
	if cpu == instruction.CPU65816 {
		return "65816"
	}
	return "6510" // includes the undocumented opcodes
}

// OutputAddressRegionChange outputs the directives of an address region change.
func (g *Generator) OutputAddressRegionChange(change program.AddressChange) {
	g.pass.director.OnChange(change)
}

// FlushPendingRegionDirectives outputs buffered region directives, nested
// blocks are output immediately.
func (g *Generator) FlushPendingRegionDirectives() {
	g.pass.director.Flush()
}

// OutputRegisterWidthDirective outputs the width directives of the changed registers.
func (g *Generator) OutputRegisterWidthDirective(_ int, prevM, prevX, newM, newX bool) {
	out := g.pass.src.Out
	if prevM != newM {
		opcode := "!al"
		if newM {
			opcode = "!as"
		}
		out.OutputLine("", opcode, "", "")
	}
	if prevX != newX {
		opcode := "!rl"
		if newX {
			opcode = "!rs"
		}
		out.OutputLine("", opcode, "", "")
	}
}

// ModifyOpcode returns the 6510 mnemonics of undocumented opcodes.
func (g *Generator) ModifyOpcode(_ int, op instruction.OpDef) (string, bool) {
	return writer.UndocumentedMnemonic(op, undocumented)
}

// ModifyInstructionOperandFormat outputs characters that ACME does not
// accept as quoted character as numbers.
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
	p.src.Out.OutputLine("", "*="+p.src.Formatter.FormatHexValue(address, 4), "", "")
}

// StartBlock outputs the start of a pseudo program counter block.
func (p *pass) StartBlock(operand string) {
	p.src.Out.OutputLine("", p.src.PseudoOp(assembler.DirRegionStart), operand+" {", "")
}

// EndBlock outputs the end of a pseudo program counter block.
func (p *pass) EndBlock() {
	p.src.Out.OutputLine("", p.src.PseudoOp(assembler.DirRegionEnd), "", "")
}

// outputHexImage outputs the whole image as hex data in a single pseudo
// program counter block at the first address.
func (p *pass) outputHexImage() {
	prog := p.src.Program
	p.SetPC(0)
	p.StartBlock(p.src.Formatter.FormatHexValue(max(0, prog.AddressMap.FirstAddress()), 4))
	p.data.OutputHex(prog.Data)
	p.EndBlock()
}
