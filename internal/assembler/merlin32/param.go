package merlin32

import (
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/label"
	"github.com/retroenv/srcgen/internal/program"
)

// defaultVersion is assumed if the installed version is unknown.
var defaultVersion = assembler.NewVersion(1, 0, 0)

var columnWidths = [3]int{12, 8, 24}

var pseudoOps = map[assembler.DirectiveKind]string{
	assembler.DirEquate:        "equ",
	assembler.DirVariable:      "=",
	assembler.DirRegionStart:   "org",
	assembler.DirByte:          "dfb",
	assembler.DirWord:          "dw",
	assembler.DirLong:          "adr",
	assembler.DirDword:         "adrl",
	assembler.DirBigWord:       "ddb",
	assembler.DirFill:          "ds",
	assembler.DirDense:         "hex",
	assembler.DirAlign:         "ds",
	assembler.DirBinaryInclude: "putbin",
	assembler.DirStrGeneric:    "asc",
	assembler.DirStrReverse:    "rev",
	assembler.DirStrLen8:       "str",
	assembler.DirStrLen16:      "strl",
	assembler.DirStrDci:        "dci",
}

// illegalChars can not be used as quoted character operand.
const illegalChars = ",;"

var quirks = assembler.Quirks{
	BlockMoveArgsNoHash:   true,
	TracksSepRepNotEmu:    true,
	NoRelativeRegions:     true,
	NoUndocumentedOpcodes: true,
}

func formatConfig() format.Config {
	return format.Config{
		HexPrefix:            "$",
		CommentDelim:         ";",
		FullLineCommentDelim: "*",
		LocalLabelPrefix:     ":",
		Operand: parameter.Config{
			IndirectPrefix: "(",
			IndirectSuffix: ")",
		},
		AbsoluteSuffix: ":",
		LongSuffix:     "l",
		Characters: map[program.FormatSubType]format.Delimiters{
			program.SubAscii:     {Prefix: "'", Suffix: "'"},
			program.SubHighAscii: {Prefix: `"`, Suffix: `"`},
		},
		BankOperator: "^",
	}
}

var labelConfig = label.Config{
	LocalPrefix:       ":",
	VariablePrefix:    "]",
	IllegalFirstChars: "0123456789",
}

func isEquate(opcode string) bool {
	return opcode == "equ" || opcode == "="
}
