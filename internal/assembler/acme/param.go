package acme

import (
	"github.com/retroenv/retrogolib/arch/system/nes/parameter"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/label"
	"github.com/retroenv/srcgen/internal/program"
)

// defaultVersion is assumed if the installed version is unknown.
var defaultVersion = assembler.NewVersion(0, 96, 4)

// escapeVersion is the first version that supports backslash escapes in
// strings, the hex directive and block move operands with '#'.
var escapeVersion = assembler.NewVersion(0, 97, 0)

var columnWidths = [3]int{16, 8, 20}

var pseudoOps = map[assembler.DirectiveKind]string{
	assembler.DirEquate:        "=",
	assembler.DirRegionStart:   "!pseudopc",
	assembler.DirRegionEnd:     "}",
	assembler.DirByte:          "!byte",
	assembler.DirWord:          "!word",
	assembler.DirLong:          "!24",
	assembler.DirDword:         "!32",
	assembler.DirBigWord:       "!be16",
	assembler.DirBigLong:       "!be24",
	assembler.DirBigDword:      "!be32",
	assembler.DirFill:          "!fill",
	assembler.DirDense:         "!hex",
	assembler.DirAlign:         "!align",
	assembler.DirBinaryInclude: "!binary",
	assembler.DirStrGeneric:    "!text",
	assembler.DirCPU:           "!cpu",
}

// undocumented maps the undocumented 6502 opcodes to the 6510 mnemonics.
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
	"alr": "asr",
	"arr": "arr",
	"axs": "sbx",
}

// illegalChars can not be used as quoted character operand.
const illegalChars = `\{}`

func pseudoOpNames(version assembler.Version) assembler.PseudoOpNames {
	names := make(map[assembler.DirectiveKind]string, len(pseudoOps))
	for kind, name := range pseudoOps {
		names[kind] = name
	}
	if version.Less(escapeVersion) {
		delete(names, assembler.DirDense)
	}
	return assembler.NewPseudoOpNames(names)
}

func quirks(version assembler.Version) assembler.Quirks {
	q := assembler.Quirks{
		TracksSepRepNotEmu: true,
		NoPcRelBankWrap:    true,
		Bank0Only:          true,
	}
	if version.Less(escapeVersion) {
		q.BackslashLiteral = true
		q.BlockMoveArgsNoHash = true
	}
	return q
}

func formatConfig() format.Config {
	return format.Config{
		HexPrefix:        "$",
		CommentDelim:     ";",
		LocalLabelPrefix: ".",
		Operand: parameter.Config{
			IndirectPrefix: "(",
			IndirectSuffix: ")",
		},
		AbsoluteSuffix: "+2",
		LongSuffix:     "+3",
		Characters: map[program.FormatSubType]format.Delimiters{
			program.SubAscii:     {Prefix: "'", Suffix: "'"},
			program.SubHighAscii: {Prefix: "'", Suffix: "' | $80"},
		},
	}
}

var labelConfig = label.Config{
	LocalPrefix:       ".",
	IllegalFirstChars: "0123456789",
}

func isEquate(opcode string) bool {
	return opcode == "="
}
