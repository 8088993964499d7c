package merlin32

import (
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/writer"
)

// pageAlignPower is the only alignment that the assembler can express.
const pageAlignPower = 8

// OutputDataDirective outputs the data span at the offset.
func (g *Generator) OutputDataDirective(offset int) int {
	return g.pass.data.Output(offset)
}

// dataOptions returns the data output of Merlin 32. The delimiter of a
// string selects the high bit of its characters.
func dataOptions(src *writer.Source) writer.DataOptions {
	ascii := format.NewStringOp(src.Formatter, format.StringConfig{
		Delimiter: '\'',
		Decoder:   format.DecodeASCII,
		RawHex:    format.RawHexBare,
	})
	highASCII := format.NewStringOp(src.Formatter, format.StringConfig{
		Delimiter: '"',
		Decoder:   format.DecodeHighASCII,
		RawHex:    format.RawHexBare,
	})

	return writer.DataOptions{
		ElideZeroFill: true,
		AlignOperand:  alignOperand,
		StringEncoding: func(encoding program.FormatSubType) (writer.StringEncoding, bool) {
			switch encoding {
			case program.SubAscii:
				return writer.StringEncoding{Op: ascii}, true
			case program.SubHighAscii:
				return writer.StringEncoding{Op: highASCII}, true
			default:
				return writer.StringEncoding{}, false
			}
		},
	}
}

// alignOperand returns the operand that pads to the next page boundary.
func alignOperand(_ *format.Formatter, power int, fill byte) (string, bool) {
	if power != pageAlignPower || fill != 0 {
		return "", false
	}
	return `\`, true
}
