// Package writer implements common assembly file writing functionality.
package writer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/label"
	"github.com/retroenv/srcgen/internal/program"
)

// maxShortSequence is the maximum number of bytes of a short hex sequence.
const maxShortSequence = 4

// Source is the environment of a single generation pass.
type Source struct {
	Program   *program.Program
	Formatter *format.Formatter
	Localizer *label.Localizer
	Names     assembler.PseudoOpNames
	Quirks    assembler.Quirks
	Out       *LineWriter
	Logger    *log.Logger
}

// Label returns the formatted label definition of the offset.
func (s *Source) Label(offset int) string {
	name := s.Program.Offsets[offset].Label
	if name == "" {
		return ""
	}
	return s.Formatter.FormatLabel(s.Localizer.ConvLabel(name))
}

// Comment returns the formatted end of line comment of the offset.
func (s *Source) Comment(offset int) string {
	return s.Formatter.FormatEOLComment(s.Program.Offsets[offset].Comment)
}

// PseudoOp returns the formatted pseudo-op of the directive kind.
func (s *Source) PseudoOp(kind assembler.DirectiveKind) string {
	return s.Formatter.FormatPseudoOp(s.Names.Name(kind))
}

// Address returns the address of the offset, non addressable offsets are
// reported as address zero.
func (s *Source) Address(offset int) int {
	address := s.Program.AddressMap.AddressOf(offset)
	if address == program.NonAddressable {
		return 0
	}
	return address
}

// ShortSequence formats 1 to 4 bytes as comma separated hex values.
func ShortSequence(f *format.Formatter, data []byte) string {
	if len(data) > maxShortSequence {
		data = data[:maxShortSequence]
	}
	values := make([]string, 0, len(data))
	for _, b := range data {
		values = append(values, f.FormatHexValue(int(b), 2))
	}
	return strings.Join(values, ",")
}

// RepeatedValue returns the value of the data if all bytes are identical.
func RepeatedValue(data []byte) (byte, bool) {
	if len(data) == 0 {
		return 0, false
	}
	for _, b := range data[1:] {
		if b != data[0] {
			return 0, false
		}
	}
	return data[0], true
}

// DenseChunks splits the data in chunks that fit the operand wrap length.
func DenseChunks(f *format.Formatter, data []byte, charsPerByte int) [][]byte {
	perLine := max(1, f.OperandWrapLen()/charsPerByte)
	chunks := make([][]byte, 0, len(data)/perLine+1)
	for len(data) > 0 {
		n := min(perLine, len(data))
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// IsAlignedSpan returns whether the span ends at a 2^power address boundary
// and an alignment directive at the start of the span produces exactly its
// length in bytes.
func IsAlignedSpan(prog *program.Program, offset, length, power int) bool {
	if power <= 0 || power > 16 || length <= 0 {
		return false
	}
	if !prog.AddressMap.IsRangeUnbroken(offset, length) {
		return false
	}
	start := prog.AddressMap.AddressOf(offset)
	if start == program.NonAddressable {
		return false
	}
	size := 1 << power
	return length < size && (start+length)%size == 0
}

// OutputEquates outputs all equates and variables of the program.
func (s *Source) OutputEquates() {
	equates := s.Program.Equates()
	if len(equates) == 0 {
		return
	}

	for _, sym := range equates {
		name := s.Localizer.ConvLabel(sym.Label)
		opcode := s.PseudoOp(assembler.DirEquate)
		if sym.Kind == program.SymbolVariable {
			name = s.Localizer.FormatVariableLabel(sym.Label)
			if s.Names.Has(assembler.DirVariable) {
				opcode = s.PseudoOp(assembler.DirVariable)
			}
		}
		digits := 2
		if sym.Value > 0xff {
			digits = 4
		}
		if sym.Value > 0xffff {
			digits = 6
		}
		s.Out.OutputLine(name, opcode, s.Formatter.FormatHexValue(sym.Value, digits),
			s.Formatter.FormatEOLComment(sym.Comment))
	}
	s.Out.OutputText("")
}

// OutputHeaderComment outputs a comment that identifies the generated file.
func (s *Source) OutputHeaderComment(dialect string, version assembler.Version) {
	prog := s.Program
	lines := []string{
		fmt.Sprintf("Source generated for %s from %s", dialect, prog.Name),
		"Assembler version: " + version.String(),
		"CPU: " + string(prog.CPU),
		"Size: " + strconv.Itoa(len(prog.Data)) + " bytes",
	}
	for _, line := range lines {
		s.Out.OutputText(s.Formatter.FormatFullLineComment(line))
	}
	s.Out.OutputText("")
}

// SourceConfig contains the dialect specific parts of a generation pass.
type SourceConfig struct {
	Format format.Config
	Labels label.Config
	Names  assembler.PseudoOpNames
	Quirks assembler.Quirks
}

// NewSource returns the environment of a generation pass that outputs to
// the line writer. The labels of the program are analyzed for the dialect.
func NewSource(prog *program.Program, out *LineWriter, logger *log.Logger, cfg SourceConfig) *Source {
	localizer := label.New(prog, cfg.Labels)
	localizer.Analyze()

	return &Source{
		Program:   prog,
		Formatter: format.New(cfg.Format),
		Localizer: localizer,
		Names:     cfg.Names,
		Quirks:    cfg.Quirks,
		Out:       out,
		Logger:    logger,
	}
}

// OutputLabel outputs a label on its own line.
func (s *Source) OutputLabel(name string) {
	s.Out.OutputLine(s.Formatter.FormatLabel(s.Localizer.ConvLabel(name)), "", "", "")
}
