// Package instruction contains fundamental types for CPU instructions and opcodes.
package instruction

import (
	"fmt"
	"strings"
)

// CPU defines the processor variant of a program.
type CPU string

// supported processor variants.
const (
	CPU6502  CPU = "6502"
	CPU65816 CPU = "65816"
)

// CPUFromString parses a CPU name, an empty name selects the 6502.
func CPUFromString(s string) (CPU, error) {
	switch strings.ToLower(s) {
	case "", "6502", "6510", "2a03":
		return CPU6502, nil
	case "65816", "65802":
		return CPU65816, nil
	default:
		return "", fmt.Errorf("unsupported cpu '%s'", s)
	}
}

// HasAddr16 returns whether the CPU address space is limited to 16 bits.
func (c CPU) HasAddr16() bool {
	return c != CPU65816
}

// AddrMode defines the addressing mode of an opcode.
type AddrMode uint8

// addressing modes.
const (
	Implied AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
	RelativeLong
	AbsoluteLong
	AbsoluteLongX
	ZeroPageIndirect
	ZeroPageIndirectLong
	ZeroPageIndirectLongY
	StackRelative
	StackRelativeIndirectY
	AbsoluteIndirectX
	AbsoluteIndirectLong
	BlockMove
)

// ImmWidth defines how the size of an immediate operand is determined.
type ImmWidth uint8

// immediate operand widths.
const (
	ImmFixed  ImmWidth = iota // 8 bit, or the mode specific size
	ImmWidthM                 // accumulator width flag
	ImmWidthX                 // index register width flag
)

// OpDef defines a single opcode of a CPU.
type OpDef struct {
	Opcode       byte
	Mnemonic     string
	Mode         AddrMode
	Undocumented bool
	Width        ImmWidth
}

// IsValid returns whether the definition describes a known opcode.
func (op OpDef) IsValid() bool {
	return op.Mnemonic != ""
}

// Length returns the instruction length in bytes. The flags define whether the
// accumulator and index registers are in 8 bit mode.
func (op OpDef) Length(shortM, shortX bool) int {
	return 1 + op.OperandLength(shortM, shortX)
}

// OperandLength returns the number of operand bytes following the opcode byte.
func (op OpDef) OperandLength(shortM, shortX bool) int {
	switch op.Mode {
	case Implied, Accumulator:
		return 0

	case Immediate:
		switch op.Width {
		case ImmWidthM:
			if !shortM {
				return 2
			}
		case ImmWidthX:
			if !shortX {
				return 2
			}
		}
		return 1

	case ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY, Relative,
		ZeroPageIndirect, ZeroPageIndirectLong, ZeroPageIndirectLongY,
		StackRelative, StackRelativeIndirectY:
		return 1

	case AbsoluteLong, AbsoluteLongX:
		return 3

	default:
		return 2
	}
}

// IsBranch returns whether the operand is a program counter relative displacement.
func (op OpDef) IsBranch() bool {
	return op.Mode == Relative || op.Mode == RelativeLong
}

// IsJump returns whether the instruction transfers control to an absolute address.
func (op OpDef) IsJump() bool {
	if op.Mode != Absolute && op.Mode != AbsoluteLong {
		return false
	}
	switch op.Mnemonic {
	case "jmp", "jsr", "jml", "jsl":
		return true
	default:
		return false
	}
}

// IsZeroPageMode returns whether the operand is a direct page address.
func (op OpDef) IsZeroPageMode() bool {
	switch op.Mode {
	case ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY,
		ZeroPageIndirect, ZeroPageIndirectLong, ZeroPageIndirectLongY:
		return true
	default:
		return false
	}
}

// IsAbsoluteMode returns whether the operand is a 16 bit address that an
// assembler could confuse with a direct page address.
func (op OpDef) IsAbsoluteMode() bool {
	switch op.Mode {
	case Absolute, AbsoluteX, AbsoluteY:
		return true
	default:
		return false
	}
}

// IsLongMode returns whether the operand is a 24 bit address.
func (op OpDef) IsLongMode() bool {
	return op.Mode == AbsoluteLong || op.Mode == AbsoluteLongX
}

// WithWidthFlags returns the definition with the 65816 immediate width rules applied.
func (op OpDef) WithWidthFlags() OpDef {
	if op.Mode != Immediate {
		return op
	}
	switch op.Mnemonic {
	case "adc", "and", "bit", "cmp", "eor", "lda", "ora", "sbc":
		op.Width = ImmWidthM
	case "cpx", "cpy", "ldx", "ldy":
		op.Width = ImmWidthX
	}
	return op
}
