package asm6

import (
	"strconv"

	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/writer"
)

// OutputDataDirective outputs the data span at the offset.
func (g *Generator) OutputDataDirective(offset int) int {
	return g.pass.data.Output(offset)
}

func dataOptions(src *writer.Source) writer.DataOptions {
	ascii := format.NewStringOp(src.Formatter, format.StringConfig{
		Delimiter: '"',
		Decoder:   format.DecodeASCII,
	})

	return writer.DataOptions{
		ElideZeroFill:  true,
		QuotedIncludes: true,
		AlignOperand:   alignOperand,
		StringEncoding: func(encoding program.FormatSubType) (writer.StringEncoding, bool) {
			if encoding != program.SubAscii {
				return writer.StringEncoding{}, false
			}
			return writer.StringEncoding{Op: ascii}, true
		},
	}
}

// alignOperand returns the alignment size in bytes and the fill value if
// it is not zero.
func alignOperand(f *format.Formatter, power int, fill byte) (string, bool) {
	operand := strconv.Itoa(1 << power)
	if fill != 0 {
		operand += "," + f.FormatHexValue(int(fill), 2)
	}
	return operand, true
}
