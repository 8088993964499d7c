package writer

import (
	"strings"

	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

// UndocumentedMnemonic returns the mnemonic that a dialect uses for an
// undocumented opcode, names maps the opcode table names to the dialect
// names. It returns false if the dialect can not express the opcode.
// Documented opcodes keep their mnemonic.
func UndocumentedMnemonic(op instruction.OpDef, names map[string]string) (string, bool) {
	if !op.Undocumented {
		return "", true
	}
	switch op.Mnemonic {
	case "nop", "sbc":
		// ambiguous, multiple opcodes share the mnemonic and addressing mode
		return "", false
	}
	name, ok := names[op.Mnemonic]
	return name, ok
}

// DowngradeCharOperand returns nil instead of the character operand format
// if the operand decodes to a character that the dialect lexer does not
// accept inside of a quoted character.
func DowngradeCharOperand(desc *program.FormatDescriptor, value int, illegal string) *program.FormatDescriptor {
	if desc == nil || !desc.SubType.IsCharacter() {
		return desc
	}
	decode, ok := format.DecoderFor(desc.SubType)
	if !ok || value < 0 || value > 0xff {
		return nil
	}
	r, ok := decode(byte(value))
	if !ok || strings.ContainsRune(illegal, r) {
		return nil
	}
	return desc
}

// OutputHex outputs the data as dense hex lines without label.
func (d *DataWriter) OutputHex(data []byte) {
	d.outputDense(span{
		data:   data,
		format: program.NewDense(len(data)),
	})
}
