package ca65

import (
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/writer"
)

// OutputDataDirective outputs the data span at the offset.
func (g *Generator) OutputDataDirective(offset int) int {
	return g.pass.data.Output(offset)
}

// dataOptions returns the data output of ca65. Strings support no escapes,
// quotes are embedded as numbers, which .asciiz does not accept. Other encodings than ASCII are output as
// hex data.
func dataOptions(src *writer.Source) writer.DataOptions {
	ascii := format.NewStringOp(src.Formatter, format.StringConfig{
		Delimiter: '"',
		Decoder:   format.DecodeASCII,
	})

	return writer.DataOptions{
		ElideZeroFill:    true,
		QuotedIncludes:   true,
		NullTermTextOnly: true,
		StringEncoding: func(encoding program.FormatSubType) (writer.StringEncoding, bool) {
			if encoding != program.SubAscii {
				return writer.StringEncoding{}, false
			}
			return writer.StringEncoding{Op: ascii}, true
		},
	}
}
