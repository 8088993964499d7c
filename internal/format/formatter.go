package format

import (
	"fmt"
	"strings"

	"github.com/retroenv/srcgen/internal/program"
)

// Formatter renders values in the syntax of a dialect.
type Formatter struct {
	cfg Config
}

// New returns a new formatter for the given configuration.
func New(cfg Config) *Formatter {
	if cfg.OperandWrapLen <= 0 {
		cfg.OperandWrapLen = defaultOperandWrapLen
	}
	if cfg.FullLineCommentDelim == "" {
		cfg.FullLineCommentDelim = cfg.CommentDelim
	}
	if cfg.BankOperator == "" {
		cfg.BankOperator = "^"
	}
	return &Formatter{cfg: cfg}
}

// Config returns the configuration of the formatter.
func (f *Formatter) Config() Config {
	return f.cfg
}

// OperandWrapLen returns the maximum length of a generated operand.
func (f *Formatter) OperandWrapLen() int {
	return f.cfg.OperandWrapLen
}

// FormatHexValue formats a value as hex number with at least the given
// number of digits, the digits are rounded up to an even count.
func (f *Formatter) FormatHexValue(value, digits int) string {
	if value < 0 {
		value = -value
	}
	digits += digits % 2
	format := "%0*x"
	if f.cfg.UpperHex {
		format = "%0*X"
	}
	return f.cfg.HexPrefix + fmt.Sprintf(format, digits, value)
}

// FormatDenseHex formats the data as hex digits without separators or prefix.
func (f *Formatter) FormatDenseHex(data []byte) string {
	format := "%02x"
	if f.cfg.UpperHex {
		format = "%02X"
	}
	var b strings.Builder
	for _, d := range data {
		fmt.Fprintf(&b, format, d)
	}
	return b.String()
}

// FormatOpcode formats an instruction mnemonic.
func (f *Formatter) FormatOpcode(mnemonic string) string {
	if f.cfg.UpperOpcodes {
		return strings.ToUpper(mnemonic)
	}
	return mnemonic
}

// FormatPseudoOp formats a pseudo-op name.
func (f *Formatter) FormatPseudoOp(name string) string {
	return f.FormatOpcode(name)
}

// FormatEOLComment formats an end of line comment, an empty comment stays empty.
func (f *Formatter) FormatEOLComment(comment string) string {
	if comment == "" {
		return ""
	}
	return f.cfg.CommentDelim + " " + comment
}

// FormatFullLineComment formats a comment that is output as its own line.
func (f *Formatter) FormatFullLineComment(comment string) string {
	if comment == "" {
		return f.cfg.FullLineCommentDelim
	}
	return f.cfg.FullLineCommentDelim + " " + comment
}

// FormatLabel formats a label definition.
func (f *Formatter) FormatLabel(name string) string {
	if name == "" {
		return ""
	}
	return name + f.cfg.LabelSuffix
}

// FormatCharacter formats a byte as character operand in the given encoding.
// It returns false if the byte has no printable representation or the
// dialect does not support the encoding.
func (f *Formatter) FormatCharacter(value int, encoding program.FormatSubType) (string, bool) {
	delims, ok := f.cfg.Characters[encoding]
	if !ok || value < 0 || value > 0xff {
		return "", false
	}
	decode, ok := DecoderFor(encoding)
	if !ok {
		return "", false
	}
	r, ok := decode(byte(value))
	if !ok || strings.ContainsRune(delims.Prefix, r) || r == '\\' {
		return "", false
	}
	return delims.Prefix + string(r) + delims.Suffix, true
}

// FormatSymbol formats a reference to a symbol, selecting the referenced
// byte of the symbol value for immediate operands.
func (f *Formatter) FormatSymbol(ref program.SymbolRef, name string, immediate bool) string {
	if !immediate {
		return name
	}
	switch ref.Part {
	case program.PartHigh:
		return ">" + name
	case program.PartBank:
		return f.cfg.BankOperator + name
	default:
		return "<" + name
	}
}
