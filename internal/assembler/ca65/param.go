package ca65

import (
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/label"
	"github.com/retroenv/srcgen/internal/program"
)

// defaultVersion is assumed if the installed version is unknown.
var defaultVersion = assembler.NewVersion(2, 18, 0)

// blockMoveHashVersion is the first version that expects block move bank
// operands with '#'.
var blockMoveHashVersion = assembler.NewVersion(2, 19, 0)

var columnWidths = [3]int{16, 8, 24}

var pseudoOps = map[assembler.DirectiveKind]string{
	assembler.DirEquate:        "=",
	assembler.DirRegionStart:   ".org",
	assembler.DirByte:          ".byte",
	assembler.DirWord:          ".word",
	assembler.DirLong:          ".faraddr",
	assembler.DirDword:         ".dword",
	assembler.DirBigWord:       ".dbyt",
	assembler.DirFill:          ".res",
	assembler.DirBinaryInclude: ".incbin",
	assembler.DirStrGeneric:    ".byte",
	assembler.DirStrNullTerm:   ".asciiz",
	assembler.DirCPU:           ".setcpu",
}

// undocumented maps the undocumented 6502 opcodes to the 6502X mnemonics.
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
const illegalChars = `'"`

func pseudoOpNames() assembler.PseudoOpNames {
	return assembler.NewPseudoOpNames(pseudoOps)
}

func quirks(version assembler.Version) assembler.Quirks {
	q := assembler.Quirks{
		SinglePassAssembler:         true,
		SinglePassNoLabelCorrection: true,
		NoRelativeRegions:           true,
	}
	if version.Less(blockMoveHashVersion) {
		q.BlockMoveArgsNoHash = true
	}
	return q
}

func formatConfig() format.Config {
	return format.Config{
		HexPrefix:        "$",
		CommentDelim:     ";",
		LabelSuffix:      ":",
		LocalLabelPrefix: "@",
		Operand: parameter.Config{
			ZeroPagePrefix: "z:",
			AbsolutePrefix: "a:",
			IndirectPrefix: "(",
			IndirectSuffix: ")",
		},
		LongPrefix: "f:",
		Characters: map[program.FormatSubType]format.Delimiters{
			program.SubAscii: {Prefix: "'", Suffix: "'"},
		},
		BankOperator: "^",
	}
}

var labelConfig = label.Config{
	LocalPrefix:       "@",
	IllegalFirstChars: "0123456789",
	ReservedWords:     []string{"a", "x", "y", "s", "z", "f"},
}

func isEquate(opcode string) bool {
	return opcode == "="
}
