package acme

import (
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/writer"
)

// OutputDataDirective outputs the data span at the offset.
func (g *Generator) OutputDataDirective(offset int) int {
	return g.pass.data.Output(offset)
}

func dataOptions(src *writer.Source, quirks assembler.Quirks) writer.DataOptions {
	f := src.Formatter

	var escape rune
	if !quirks.BackslashLiteral {
		escape = '\\'
	}
	newOp := func(decoder format.Decoder) *format.StringOp {
		return format.NewStringOp(f, format.StringConfig{
			Delimiter: '"',
			Escape:    escape,
			Decoder:   decoder,
		})
	}

	return writer.DataOptions{
		QuotedIncludes: true,
		AlignOperand:   alignOperand,
		XorStart:       "!xor $80 {",
		XorEnd:         "}",
		StringEncoding: func(encoding program.FormatSubType) (writer.StringEncoding, bool) {
			switch encoding {
			case program.SubAscii:
				return writer.StringEncoding{Op: newOp(format.DecodeASCII), GenericOpcode: "!text"}, true
			case program.SubHighAscii:
				return writer.StringEncoding{Op: newOp(format.DecodeASCII), GenericOpcode: "!text", Xor: true}, true
			case program.SubPetscii:
				return writer.StringEncoding{Op: newOp(format.DecodePETSCII), GenericOpcode: "!pet"}, true
			case program.SubScreenCode:
				return writer.StringEncoding{Op: newOp(format.DecodeScreenCode), GenericOpcode: "!scr"}, true
			default:
				return writer.StringEncoding{}, false
			}
		},
	}
}

// alignOperand returns the and-mask, the expected remainder and the fill
// value of an alignment to a 2^power boundary.
func alignOperand(f *format.Formatter, power int, fill byte) (string, bool) {
	mask := 1<<power - 1
	digits := 2
	if mask > 0xff {
		digits = 4
	}
	return f.FormatHexValue(mask, digits) + "," + f.FormatHexValue(0, 2) + "," + f.FormatHexValue(int(fill), 2), true
}
