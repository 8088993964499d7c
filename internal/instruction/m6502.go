package instruction

import (
	"strings"

	"github.com/retroenv/retrogolib/arch/cpu/m6502"
)

var modes6502 = map[m6502.AddressingMode]AddrMode{
	m6502.ImpliedAddressing:     Implied,
	m6502.AccumulatorAddressing: Accumulator,
	m6502.ImmediateAddressing:   Immediate,
	m6502.ZeroPageAddressing:    ZeroPage,
	m6502.ZeroPageXAddressing:   ZeroPageX,
	m6502.ZeroPageYAddressing:   ZeroPageY,
	m6502.AbsoluteAddressing:    Absolute,
	m6502.AbsoluteXAddressing:   AbsoluteX,
	m6502.AbsoluteYAddressing:   AbsoluteY,
	m6502.IndirectAddressing:    Indirect,
	m6502.IndirectXAddressing:   IndirectX,
	m6502.IndirectYAddressing:   IndirectY,
	m6502.RelativeAddressing:    Relative,
}

// Lookup6502 returns the 6502 opcode definition of the given opcode byte,
// including the undocumented NMOS opcodes.
func Lookup6502(b byte) (OpDef, bool) {
	op := m6502.Opcodes[b]
	if op.Instruction == nil {
		return OpDef{}, false
	}
	mode, ok := modes6502[op.Addressing]
	if !ok {
		return OpDef{}, false
	}

	return OpDef{
		Opcode:       b,
		Mnemonic:     strings.ToLower(op.Instruction.Name),
		Mode:         mode,
		Undocumented: op.Instruction.Unofficial,
	}, true
}

// 65816 opcodes that the source generators need to special case.
var (
	Brk    = OpDef{Opcode: 0x00, Mnemonic: "brk", Mode: Implied}
	Cop    = OpDef{Opcode: 0x02, Mnemonic: "cop", Mode: Immediate}
	Jsl    = OpDef{Opcode: 0x22, Mnemonic: "jsl", Mode: AbsoluteLong}
	Wdm    = OpDef{Opcode: 0x42, Mnemonic: "wdm", Mode: Immediate}
	Mvp    = OpDef{Opcode: 0x44, Mnemonic: "mvp", Mode: BlockMove}
	Mvn    = OpDef{Opcode: 0x54, Mnemonic: "mvn", Mode: BlockMove}
	Jml    = OpDef{Opcode: 0x5C, Mnemonic: "jml", Mode: AbsoluteLong}
	Per    = OpDef{Opcode: 0x62, Mnemonic: "per", Mode: RelativeLong}
	Brl    = OpDef{Opcode: 0x82, Mnemonic: "brl", Mode: RelativeLong}
	LdaLng = OpDef{Opcode: 0xAF, Mnemonic: "lda", Mode: AbsoluteLong}
	Rep    = OpDef{Opcode: 0xC2, Mnemonic: "rep", Mode: Immediate}
	JmlInd = OpDef{Opcode: 0xDC, Mnemonic: "jml", Mode: AbsoluteIndirectLong}
	Sep    = OpDef{Opcode: 0xE2, Mnemonic: "sep", Mode: Immediate}
	Pea    = OpDef{Opcode: 0xF4, Mnemonic: "pea", Mode: Absolute}
	Xce    = OpDef{Opcode: 0xFB, Mnemonic: "xce", Mode: Implied}
)

var opcodes65816 = map[byte]OpDef{}

func init() {
	for _, op := range []OpDef{Brk, Cop, Jsl, Wdm, Mvp, Mvn, Jml, Per, Brl, LdaLng, Rep, JmlInd, Sep, Pea, Xce} {
		opcodes65816[op.Opcode] = op
	}
}

// Lookup returns the opcode definition of the given opcode byte for the CPU.
// The 65816 table contains the documented 6502 opcodes with the immediate
// width rules applied and the 65816 opcodes that source generators special
// case. Other 65816 opcodes are not known.
func Lookup(cpu CPU, b byte) (OpDef, bool) {
	if cpu != CPU65816 {
		return Lookup6502(b)
	}
	if op, ok := opcodes65816[b]; ok {
		return op, true
	}
	op, ok := Lookup6502(b)
	if !ok || op.Undocumented {
		return OpDef{}, false
	}
	return op.WithWidthFlags(), true
}
