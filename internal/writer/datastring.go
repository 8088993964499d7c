package writer

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/program"
)

// stringKinds maps string formats to their directive kind.
var stringKinds = map[program.FormatKind]assembler.DirectiveKind{
	program.FormatStringGeneric:  assembler.DirStrGeneric,
	program.FormatStringReverse:  assembler.DirStrReverse,
	program.FormatStringNullTerm: assembler.DirStrNullTerm,
	program.FormatStringL8:       assembler.DirStrLen8,
	program.FormatStringL16:      assembler.DirStrLen16,
	program.FormatStringDci:      assembler.DirStrDci,
}

// outputString outputs a string directive. Compact string forms that can
// not express the data are output as generic string including all bytes.
func (d *DataWriter) outputString(s span) {
	encoding, ok := d.stringEncoding(s.format.SubType)
	if !ok {
		d.outputDense(s)
		return
	}

	payload, valid := stringPayload(s.format.Kind, s.data)
	if valid && len(payload) == 0 {
		d.src.Out.OutputLine(s.label, d.src.PseudoOp(assembler.DirByte), ShortSequence(d.src.Formatter, s.data), s.comment)
		return
	}

	kind := stringKinds[s.format.Kind]
	opcode, ok := d.src.Names.Get(kind)
	if !ok || kind == assembler.DirStrGeneric {
		// the generic form reproduces the bytes of every string variant
		d.outputGenericString(s, encoding)
		return
	}
	if !valid {
		d.src.Logger.Debug("String prefix does not match its length",
			log.Hex("offset", s.offset), log.Stringer("kind", s.format.Kind))
		d.outputGenericString(s, encoding)
		return
	}
	if encoding.Xor {
		payload = flipHighBits(payload)
	}

	var lines []string
	switch kind {
	case assembler.DirStrReverse:
		lines = encoding.Op.ConvertReverse(payload)
		if encoding.Op.HasEscapedText() {
			d.outputGenericString(s, encoding)
			return
		}

	case assembler.DirStrLen8, assembler.DirStrLen16:
		lines = encoding.Op.Convert(payload)
		if len(lines) != 1 {
			d.outputGenericString(s, encoding)
			return
		}

	case assembler.DirStrDci:
		// the terminating high bit can only be applied to a character
		lines = encoding.Op.Convert(payload)
		if len(lines) != 1 || encoding.Op.HasEscapedText() {
			d.outputGenericString(s, encoding)
			return
		}

	case assembler.DirStrNullTerm:
		// every directive line appends a terminator
		lines = encoding.Op.Convert(payload)
		if len(lines) != 1 || (d.opts.NullTermTextOnly && encoding.Op.HasEscapedText()) {
			d.outputGenericString(s, encoding)
			return
		}

	default:
		lines = encoding.Op.Convert(payload)
	}

	if encoding.Xor && encoding.Op.HasEscapedText() {
		d.outputDense(s)
		return
	}
	d.outputStringLines(s, d.src.Formatter.FormatPseudoOp(opcode), lines, encoding.Xor)
}

// outputGenericString outputs all bytes of the span with the generic string
// directive. The generic form has no further legality constraints, which
// ends the fallback chain of the compact forms.
func (d *DataWriter) outputGenericString(s span, encoding StringEncoding) {
	opcode := encoding.GenericOpcode
	if opcode == "" {
		name, ok := d.src.Names.Get(assembler.DirStrGeneric)
		if !ok {
			d.outputDense(s)
			return
		}
		opcode = name
	}

	data := s.data
	if encoding.Xor {
		data = flipHighBits(data)
	}
	lines := encoding.Op.Convert(data)
	if encoding.Xor && encoding.Op.HasEscapedText() {
		d.outputDense(s)
		return
	}
	d.outputStringLines(s, d.src.Formatter.FormatPseudoOp(opcode), lines, encoding.Xor)
}

func (d *DataWriter) outputStringLines(s span, opcode string, lines []string, xor bool) {
	label, comment := s.label, s.comment
	if xor {
		d.src.Out.OutputLine(label, d.opts.XorStart, "", comment)
		label, comment = "", ""
	}
	for _, line := range lines {
		d.src.Out.OutputLine(label, opcode, line, comment)
		label, comment = "", ""
	}
	if xor {
		d.src.Out.OutputLine("", d.opts.XorEnd, "", "")
	}
}

func (d *DataWriter) stringEncoding(sub program.FormatSubType) (StringEncoding, bool) {
	if d.opts.StringEncoding == nil {
		return StringEncoding{}, false
	}
	if sub == program.SubNone {
		sub = program.SubAscii
	}
	return d.opts.StringEncoding(sub)
}

// stringPayload returns the character bytes of the string that the string
// directive of the kind outputs, excluding length prefixes and terminators.
// A DCI string payload has the high bit of its last character flipped.
func stringPayload(kind program.FormatKind, data []byte) ([]byte, bool) {
	switch kind {
	case program.FormatStringL8:
		if len(data) < 1 || int(data[0]) != len(data)-1 {
			return nil, false
		}
		return data[1:], true

	case program.FormatStringL16:
		if len(data) < 2 || int(data[0])|int(data[1])<<8 != len(data)-2 {
			return nil, false
		}
		return data[2:], true

	case program.FormatStringNullTerm:
		if data[len(data)-1] != 0 {
			return nil, false
		}
		return data[:len(data)-1], true

	case program.FormatStringDci:
		payload := make([]byte, len(data))
		copy(payload, data)
		payload[len(payload)-1] ^= 0x80
		return payload, true

	default:
		return data, true
	}
}

func flipHighBits(data []byte) []byte {
	flipped := make([]byte, len(data))
	for i, b := range data {
		flipped[i] = b ^ 0x80
	}
	return flipped
}
