package asm6

import (
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/label"
	"github.com/retroenv/srcgen/internal/program"
)

// defaultVersion is assumed if the installed version is unknown.
var defaultVersion = assembler.NewVersion(1, 6, 0)

var columnWidths = [3]int{16, 8, 24}

var pseudoOps = map[assembler.DirectiveKind]string{
	assembler.DirEquate:        "=",
	assembler.DirRegionStart:   ".base",
	assembler.DirByte:          ".db",
	assembler.DirWord:          ".dw",
	assembler.DirFill:          ".dsb",
	assembler.DirDense:         ".hex",
	assembler.DirAlign:         ".align",
	assembler.DirBinaryInclude: ".incbin",
	assembler.DirStrGeneric:    ".db",
}

// undocumented maps the undocumented 6502 opcodes to the asm6f mnemonics.
var undocumented = map[string]string{
	"slo": "slo",
	"rla": "rla",
	"sre": "sre",
	"rra": "rra",
	"sax": "sax",
	"lax": "lax",
	"dcp": "dcp",
	"isc": "isc",
	"anc": "anc",
	"alr": "alr",
	"arr": "arr",
	"axs": "axs",
}

// illegalChars can not be used as quoted character operand.
const illegalChars = ",;'"

var quirks = assembler.Quirks{
	NoRelativeRegions: true,
}

func formatConfig() format.Config {
	return format.Config{
		HexPrefix:        "$",
		CommentDelim:     ";",
		LabelSuffix:      ":",
		LocalLabelPrefix: "@",
		Operand: parameter.Config{
			ZeroPagePrefix: "",
			AbsolutePrefix: "a:",
			IndirectPrefix: "(",
			IndirectSuffix: ")",
		},
		Characters: map[program.FormatSubType]format.Delimiters{
			program.SubAscii: {Prefix: "'", Suffix: "'"},
		},
	}
}

var labelConfig = label.Config{
	LocalPrefix:       "@",
	IllegalFirstChars: "0123456789",
	ReservedWords:     []string{"a", "x", "y"},
}

func isEquate(opcode string) bool {
	return opcode == "="
}
