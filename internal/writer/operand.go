package writer

import (
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

// InstructionOperand returns the operand of the instruction at the offset
// and an opcode suffix that forces the operand width, if the dialect uses one.
// The value is the little endian operand value, desc an optional format.
func (s *Source) InstructionOperand(offset, value int, desc *program.FormatDescriptor) (string, string) {
	o := s.Program.Offsets[offset]
	op := o.Opcode
	digits := 2 * op.OperandLength(o.ShortM, o.ShortX)

	switch op.Mode {
	case instruction.Implied, instruction.Accumulator:
		return "", ""

	case instruction.Immediate:
		return "", "#" + s.immediateOperand(value, digits, desc)

	case instruction.Relative, instruction.RelativeLong:
		return "", s.branchOperand(offset, value, op.Mode == instruction.RelativeLong)

	case instruction.BlockMove:
		return "", s.blockMoveOperand(offset)
	}

	suffix, address := s.addressOperand(offset, value, digits, desc)
	return suffix, s.wrapAddressMode(op.Mode, address)
}

func (s *Source) immediateOperand(value, digits int, desc *program.FormatDescriptor) string {
	f := s.Formatter
	if desc == nil {
		return f.FormatHexValue(value, digits)
	}

	switch {
	case desc.SubType == program.SubSymbol && desc.Symbol != nil:
		name := s.Localizer.ConvLabel(desc.Symbol.Label)
		return f.FormatSymbol(*desc.Symbol, name, digits == 2)

	case desc.SubType.IsCharacter() && digits == 2:
		if char, ok := f.FormatCharacter(value, desc.SubType); ok {
			return char
		}
	}
	return f.FormatHexValue(value, digits)
}

// branchOperand returns the target of a program counter relative branch.
func (s *Source) branchOperand(offset, value int, long bool) string {
	target, _ := s.BranchTarget(offset, value, long)
	if name, ok := s.addressLabel(target, offset); ok {
		return name
	}
	digits := 4
	if target > 0xffff {
		digits = 6
	}
	return s.Formatter.FormatHexValue(target, digits)
}

// BranchTarget returns the target address of a program counter relative
// branch at the offset. The target wraps inside of the bank of the
// instruction, wrapped reports whether the branch crosses the bank boundary.
func (s *Source) BranchTarget(offset, value int, long bool) (int, bool) {
	return program.BranchTarget(s.Address(offset), value, long)
}

// blockMoveOperand returns the source and destination bank operands, the
// instruction encodes the destination bank first.
func (s *Source) blockMoveOperand(offset int) string {
	f := s.Formatter
	dst := int(s.Program.Data[offset+1])
	src := int(s.Program.Data[offset+2])

	hash := "#"
	if s.Quirks.BlockMoveArgsNoHash {
		hash = ""
	}
	return hash + f.FormatHexValue(src, 2) + "," + hash + f.FormatHexValue(dst, 2)
}

// addressOperand returns the address expression of the operand with an
// operand width override, if the assembler would otherwise pick a different
// addressing mode for the value.
func (s *Source) addressOperand(offset, value, digits int, desc *program.FormatDescriptor) (string, string) {
	cfg := s.Formatter.Config()
	op := s.Program.Offsets[offset].Opcode

	expression := s.Formatter.FormatHexValue(value, digits)
	effective := value
	switch {
	case desc != nil && desc.SubType == program.SubSymbol && desc.Symbol != nil:
		expression = s.Localizer.ConvLabel(desc.Symbol.Label)
		if sym, ok := s.Program.Symbols.Get(desc.Symbol.Label); ok {
			effective = sym.Value
			if op.IsZeroPageMode() && s.forceZeroPageWidth(sym, offset) {
				return "", cfg.Operand.ZeroPagePrefix + expression
			}
		}

	case op.IsJump():
		target := value
		if !op.IsLongMode() {
			target = s.Address(offset)&0xff0000 | value
		}
		if name, ok := s.addressLabel(target, offset); ok {
			expression = name
		}
	}

	switch {
	case op.IsAbsoluteMode() && effective <= 0xff:
		if cfg.AbsoluteSuffix != "" {
			return cfg.AbsoluteSuffix, expression
		}
		return "", cfg.Operand.AbsolutePrefix + expression

	case op.IsLongMode() && effective <= 0xffff:
		if cfg.LongSuffix != "" {
			return cfg.LongSuffix, expression
		}
		return "", cfg.LongPrefix + expression

	case op.IsZeroPageMode() && effective > 0xff:
		return "", cfg.Operand.ZeroPagePrefix + expression
	}
	return "", expression
}

func (s *Source) wrapAddressMode(mode instruction.AddrMode, address string) string {
	cfg := s.Formatter.Config().Operand
	indirect := func(inner string) string {
		return cfg.IndirectPrefix + inner + cfg.IndirectSuffix
	}

	switch mode {
	case instruction.ZeroPageX, instruction.AbsoluteX, instruction.AbsoluteLongX:
		return address + ",x"
	case instruction.ZeroPageY, instruction.AbsoluteY:
		return address + ",y"
	case instruction.Indirect, instruction.ZeroPageIndirect:
		return indirect(address)
	case instruction.IndirectX, instruction.AbsoluteIndirectX:
		return indirect(address + ",x")
	case instruction.IndirectY:
		return indirect(address) + ",y"
	case instruction.ZeroPageIndirectLong, instruction.AbsoluteIndirectLong:
		return "[" + address + "]"
	case instruction.ZeroPageIndirectLongY:
		return "[" + address + "],y"
	case instruction.StackRelative:
		return address + ",s"
	case instruction.StackRelativeIndirectY:
		return indirect(address+",s") + ",y"
	default:
		return address
	}
}

// forceZeroPageWidth returns whether a direct page reference to the label
// at the offset needs an explicit width. Single pass assemblers assume
// absolute width for forward references, without label correction the
// assumed width is kept for all references to labels of the program.
func (s *Source) forceZeroPageWidth(sym program.Symbol, offset int) bool {
	switch {
	case !s.Quirks.SinglePassAssembler:
		return false
	case sym.Offset > offset:
		return true
	default:
		return s.Quirks.SinglePassNoLabelCorrection && sym.Offset >= 0
	}
}

// addressLabel returns the converted name of the label at the address.
func (s *Source) addressLabel(address, near int) (string, bool) {
	target, ok := s.Program.OffsetForAddress(address, near)
	if !ok {
		return "", false
	}
	name := s.Program.Offsets[target].Label
	if name == "" {
		return "", false
	}
	return s.Localizer.ConvLabel(name), true
}
