package assembler

import (
	"context"
	"errors"

	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

// LabelPlacement defines where labels are output relative to their line.
type LabelPlacement uint8

// label placement policies.
const (
	LabelInline LabelPlacement = iota
	LabelSplitIfTooLong
	LabelSeparate
)

// Settings are the user settings that affect generated source.
type Settings struct {
	LabelPlacement LabelPlacement
	HeaderComment  bool   // output an identifying header comment
	ColumnWidths   [3]int // label, opcode and operand column widths, zero selects the dialect default
}

// Config configures a generator for a generation pass.
type Config struct {
	Program   *program.Program
	OutputDir string
	BaseName  string
	Version   Version // detected assembler version or NoVersion
	Settings  Settings
}

// ErrNotConfigured is returned when a source generation pass is started
// without a configured program.
var ErrNotConfigured = errors.New("generator is not configured")

// ProgressFunc receives coarse progress notifications of a generation pass.
type ProgressFunc func(message string)

// Report sends the message to the progress function, which can be nil.
func (f ProgressFunc) Report(message string) {
	if f != nil {
		f(message)
	}
}

// Generator is the contract that the source generator of every dialect
// implements. The methods besides Name, Configure, GenerateSource and Quirks
// are called by the shared source driver during a generation pass.
type Generator interface {
	Name() string
	Configure(cfg Config) error
	GenerateSource(ctx context.Context, progress ProgressFunc) (*GenerationResult, error)
	Quirks() Quirks

	// OutputAddressRegionChange handles a start or end of an address region.
	OutputAddressRegionChange(change program.AddressChange)
	// FlushPendingRegionDirectives outputs buffered region directives.
	FlushPendingRegionDirectives()
	// OutputDataDirective outputs the data span at the offset and returns the
	// number of bytes that were output.
	OutputDataDirective(offset int) int
	// OutputRegisterWidthDirective outputs a directive about changed register widths,
	// the flags are true for 8 bit registers.
	OutputRegisterWidthDirective(offset int, prevM, prevX, newM, newX bool)
	// ModifyOpcode returns a replacement mnemonic, an empty string to keep the
	// mnemonic, or false if the instruction has to be output as data bytes.
	ModifyOpcode(offset int, op instruction.OpDef) (string, bool)
	// ModifyInstructionOperandFormat returns the operand format to use for the
	// instruction, nil selects plain numeric output.
	ModifyInstructionOperandFormat(offset int, format *program.FormatDescriptor, operand int) *program.FormatDescriptor
}
