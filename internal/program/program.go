// Package program represents a disassembled 6502 family program that source can be generated for.
package program

import (
	"errors"
	"fmt"
	"strings"

	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/symbols"
)

// Offset defines the content of an offset in a program that can represent data or code.
type Offset struct {
	Type OffsetType

	Opcode instruction.OpDef // valid if the offset is of type CodeOffset
	// Format describes the data span for offsets of type DataOffset and the
	// optional operand rendering for offsets of type CodeOffset.
	Format *FormatDescriptor

	// register widths in effect for the instruction, true for 8 bit
	ShortM bool
	ShortX bool

	Label       string // name of label or subroutine if identified as a jump destination
	Comment     string
	LongComment []string // full line comments output before the offset
}

// SymbolKind defines the kind of a symbol.
type SymbolKind uint8

// symbol kinds.
const (
	SymbolLabel    SymbolKind = iota // label placed at an offset of the file
	SymbolEquate                     // constant defined outside of the file
	SymbolVariable                   // redefinable assignment, for example a direct page name
)

// Symbol is a named value of a program.
type Symbol struct {
	Label   string
	Value   int
	Kind    SymbolKind
	Local   bool // label is only referenced inside of its enclosing global label scope
	Offset  int  // file offset of a label, -1 for equates
	Comment string
}

// Program defines a program that contains code or data.
type Program struct {
	Name       string
	CPU        instruction.CPU
	Data       []byte
	Offsets    []Offset
	AddressMap *AddressMap
	Symbols    *symbols.Table[string, Symbol]
}

var (
	errOutOfBounds    = errors.New("offset out of bounds")
	errDuplicateLabel = errors.New("duplicate label")
)

// New creates a new program for the given file data.
func New(name string, data []byte, cpu instruction.CPU) *Program {
	offsets := make([]Offset, len(data))
	for i := range offsets {
		offsets[i].ShortM = true
		offsets[i].ShortX = true
	}

	return &Program{
		Name:       name,
		CPU:        cpu,
		Data:       data,
		Offsets:    offsets,
		AddressMap: NewAddressMap(len(data)),
		Symbols:    symbols.New[string, Symbol](),
	}
}

// AddLabel sets a global label at the given offset and registers it as symbol.
func (p *Program) AddLabel(offset int, label string) error {
	return p.addLabel(offset, label, false)
}

// AddLocalLabel sets a local label at the given offset and registers it as symbol.
func (p *Program) AddLocalLabel(offset int, label string) error {
	return p.addLabel(offset, label, true)
}

func (p *Program) addLabel(offset int, label string, local bool) error {
	if offset < 0 || offset >= len(p.Offsets) {
		return fmt.Errorf("%w: $%04x", errOutOfBounds, offset)
	}
	if existing, ok := p.Symbols.Get(label); ok && existing.Offset != offset {
		return fmt.Errorf("%w '%s'", errDuplicateLabel, label)
	}

	p.Offsets[offset].Label = label
	p.Symbols.Set(label, Symbol{
		Label:  label,
		Value:  p.AddressMap.AddressOf(offset),
		Kind:   SymbolLabel,
		Local:  local,
		Offset: offset,
	})
	return nil
}

// AddEquate registers a constant symbol that is not located in the file.
func (p *Program) AddEquate(label string, value int, comment string) error {
	return p.addValue(label, value, SymbolEquate, comment)
}

// AddVariable registers a redefinable symbol that is not located in the file.
func (p *Program) AddVariable(label string, value int, comment string) error {
	return p.addValue(label, value, SymbolVariable, comment)
}

func (p *Program) addValue(label string, value int, kind SymbolKind, comment string) error {
	if p.Symbols.Has(label) {
		return fmt.Errorf("%w '%s'", errDuplicateLabel, label)
	}
	p.Symbols.Set(label, Symbol{
		Label:   label,
		Value:   value,
		Kind:    kind,
		Offset:  -1,
		Comment: comment,
	})
	return nil
}

// Equates returns all equate and variable symbols ordered by value.
func (p *Program) Equates() []Symbol {
	var equates []Symbol
	for _, sym := range symbols.SortedBy(p.Symbols, func(s Symbol) int { return s.Value }) {
		if sym.Kind != SymbolLabel {
			equates = append(equates, sym)
		}
	}
	return equates
}

// Labels returns all label symbols ordered by file offset.
func (p *Program) Labels() []Symbol {
	var labels []Symbol
	for _, sym := range symbols.SortedBy(p.Symbols, func(s Symbol) int { return s.Offset }) {
		if sym.Kind == SymbolLabel {
			labels = append(labels, sym)
		}
	}
	return labels
}

// SetInstruction marks the given offset as start of an instruction.
func (p *Program) SetInstruction(offset int, op instruction.OpDef, shortM, shortX bool) error {
	length := op.Length(shortM, shortX)
	if offset < 0 || offset+length > len(p.Offsets) {
		return fmt.Errorf("%w: instruction at $%04x with length %d", errOutOfBounds, offset, length)
	}

	o := &p.Offsets[offset]
	o.SetType(CodeOffset)
	o.Opcode = op
	o.ShortM = shortM
	o.ShortX = shortX
	for i := 1; i < length; i++ {
		p.Offsets[offset+i].SetType(CodeOperand)
	}
	return nil
}

// SetFormat marks the given offset as start of a formatted data span.
func (p *Program) SetFormat(offset int, format FormatDescriptor) error {
	if err := format.Validate(); err != nil {
		return fmt.Errorf("validating format at $%04x: %w", offset, err)
	}
	if offset < 0 || offset+format.Length > len(p.Offsets) {
		return fmt.Errorf("%w: data at $%04x with length %d", errOutOfBounds, offset, format.Length)
	}

	o := &p.Offsets[offset]
	o.SetType(DataOffset)
	o.Format = &format
	for i := 1; i < format.Length; i++ {
		p.Offsets[offset+i].SetType(DataContinuation)
	}
	return nil
}

// OperandValue returns the little endian value of the operand bytes of the
// instruction at the given offset.
func (p *Program) OperandValue(offset int) int {
	o := p.Offsets[offset]
	length := o.Opcode.OperandLength(o.ShortM, o.ShortX)
	value := 0
	for i := length; i > 0; i-- {
		value = value<<8 | int(p.Data[offset+i])
	}
	return value
}

// BranchTarget returns the target address of a program counter relative
// branch at the address. The target wraps inside of the bank of the
// instruction, wrapped reports whether the branch crosses the bank boundary.
func BranchTarget(address, value int, long bool) (int, bool) {
	var target int
	if long {
		target = address + 3 + int(int16(value))
	} else {
		target = address + 2 + int(int8(value))
	}
	wrapped := address&0xff0000 | target&0xffff
	return wrapped, wrapped != target
}

// TransferTarget returns the address that the branch or jump instruction at
// the offset transfers control to.
func (p *Program) TransferTarget(offset int) (int, bool) {
	o := &p.Offsets[offset]
	if !o.IsType(CodeOffset) {
		return 0, false
	}
	address := max(0, p.AddressMap.AddressOf(offset))
	value := p.OperandValue(offset)

	switch {
	case o.Opcode.IsBranch():
		target, _ := BranchTarget(address, value, o.Opcode.Mode == instruction.RelativeLong)
		return target, true
	case o.Opcode.IsJump():
		if !o.Opcode.IsLongMode() {
			value |= address & 0xff0000
		}
		return value, true
	default:
		return 0, false
	}
}

// OffsetForAddress returns the file offset that maps to the given address.
// If multiple offsets map to it, the one in the region containing the near
// offset is preferred.
func (p *Program) OffsetForAddress(address, near int) (int, bool) {
	found := -1
	for _, r := range p.AddressMap.regions {
		if r.Address == NonAddressable || address < r.Address || address >= r.Address+r.Length {
			continue
		}
		offset := r.Offset + address - r.Address
		if p.AddressMap.AddressOf(offset) != address {
			continue
		}
		if near >= r.Offset && near < r.End() {
			return offset, true
		}
		if found < 0 {
			found = offset
		}
	}
	return found, found >= 0
}

// HexBytes returns the given bytes of the file as hex string.
func (p *Program) HexBytes(offset, length int) string {
	var b strings.Builder
	for i := range length {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", p.Data[offset+i])
	}
	return b.String()
}
