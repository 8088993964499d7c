package program

// OffsetType defines the type of a program offset.
type OffsetType uint8

// offset types.
const (
	UnknownOffset    OffsetType = 0
	CodeOffset       OffsetType = 1 << iota // first byte of an instruction
	CodeOperand                             // operand byte of an instruction
	DataOffset                              // first byte of a formatted data span
	DataContinuation                        // byte that belongs to a data span
	CodeAsData                              // instruction that has to be output as data bytes
	CallDestination                         // destination of a subroutine call
)

// IsType returns whether the offset is of given type.
func (o *Offset) IsType(typ OffsetType) bool {
	ret := o.Type&typ != 0
	return ret
}

// SetType sets the type of the offset.
func (o *Offset) SetType(typ OffsetType) {
	o.Type |= typ
}

// ClearType unsets the type of the offset.
func (o *Offset) ClearType(typ OffsetType) {
	mask := ^(typ)
	o.Type &= mask
}

// IsContinuation returns whether the offset is inside of an instruction or data span.
func (o *Offset) IsContinuation() bool {
	return o.IsType(CodeOperand | DataContinuation)
}
