// Package format renders numbers, characters, comments and strings in the
// syntax of an assembler dialect.
package format

import (
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
	"github.com/retroenv/srcgen/internal/program"
)

// Delimiters define the quoting of a character operand.
type Delimiters struct {
	Prefix string
	Suffix string // can contain an expression like " | $80"
}

// Config configures the formatter of a dialect.
type Config struct {
	HexPrefix      string
	UpperHex       bool
	UpperOpcodes   bool
	OperandWrapLen int // maximum length of a generated operand

	CommentDelim         string // end of line comment
	FullLineCommentDelim string
	LabelSuffix          string // for example a colon
	LocalLabelPrefix     string

	Operand parameter.Config // force width operand prefixes and indirect addressing
	// opcode suffixes that force absolute or long operand width
	AbsoluteSuffix string
	LongSuffix     string
	LongPrefix     string // operand prefix that forces long width

	// character operand delimiters per encoding, encodings without delimiters
	// are output as numbers
	Characters map[program.FormatSubType]Delimiters

	BankOperator string // expression operator that selects the bank byte
}

const defaultOperandWrapLen = 64
