package program

import (
	"errors"
	"fmt"
)

// FormatKind defines the directive family of an annotated span.
type FormatKind uint8

// format kinds.
const (
	FormatDefault FormatKind = iota
	FormatNumericLE
	FormatNumericBE
	FormatFill
	FormatDense
	FormatUninit
	FormatJunk
	FormatBinaryInclude
	FormatStringGeneric
	FormatStringReverse
	FormatStringNullTerm
	FormatStringL8
	FormatStringL16
	FormatStringDci
)

var formatKindNames = map[FormatKind]string{
	FormatDefault:        "default",
	FormatNumericLE:      "numeric-le",
	FormatNumericBE:      "numeric-be",
	FormatFill:           "fill",
	FormatDense:          "dense",
	FormatUninit:         "uninit",
	FormatJunk:           "junk",
	FormatBinaryInclude:  "binary-include",
	FormatStringGeneric:  "string",
	FormatStringReverse:  "string-reverse",
	FormatStringNullTerm: "string-null",
	FormatStringL8:       "string-l8",
	FormatStringL16:      "string-l16",
	FormatStringDci:      "string-dci",
}

func (k FormatKind) String() string {
	if s, ok := formatKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// FormatKindFromString parses the name of a format kind.
func FormatKindFromString(s string) (FormatKind, error) {
	for kind, name := range formatKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unsupported format kind '%s'", s)
}

// IsString returns whether the kind is one of the string variants.
func (k FormatKind) IsString() bool {
	return k >= FormatStringGeneric && k <= FormatStringDci
}

// IsNumeric returns whether the kind renders as a numeric value.
func (k FormatKind) IsNumeric() bool {
	return k == FormatDefault || k == FormatNumericLE || k == FormatNumericBE
}

// FormatSubType refines the rendering of a format kind.
type FormatSubType uint8

// format sub types.
const (
	SubNone FormatSubType = iota
	SubAscii
	SubHighAscii
	SubPetscii
	SubScreenCode
	SubAlign // uninitialized or junk data that pads to an alignment boundary
	SubSymbol
)

var subTypeNames = map[FormatSubType]string{
	SubNone:       "",
	SubAscii:      "ascii",
	SubHighAscii:  "high-ascii",
	SubPetscii:    "petscii",
	SubScreenCode: "screen-code",
	SubAlign:      "align",
	SubSymbol:     "symbol",
}

func (s FormatSubType) String() string {
	return subTypeNames[s]
}

// FormatSubTypeFromString parses the name of a format sub type.
func FormatSubTypeFromString(s string) (FormatSubType, error) {
	for sub, name := range subTypeNames {
		if name == s {
			return sub, nil
		}
	}
	return 0, fmt.Errorf("unsupported format sub type '%s'", s)
}

// IsCharacter returns whether the sub type selects a character encoding.
func (s FormatSubType) IsCharacter() bool {
	return s >= SubAscii && s <= SubScreenCode
}

// SymbolPart selects the part of a symbol value that an operand references.
type SymbolPart uint8

// symbol parts.
const (
	PartLow SymbolPart = iota
	PartHigh
	PartBank
)

// SymbolRef is a reference from an operand or data value to a symbol.
type SymbolRef struct {
	Label string
	Part  SymbolPart
}

// FormatDescriptor describes how an annotated span is rendered.
// A descriptor is a read-only view supplied by the project model.
type FormatDescriptor struct {
	Kind    FormatKind
	SubType FormatSubType
	Length  int // number of bytes the span covers

	AlignPower int // alignment as power of two, valid for SubAlign
	Symbol     *SymbolRef
	Extra      string // stored file path for binary includes
}

var (
	errInvalidLength = errors.New("invalid format length")
	errNoSymbol      = errors.New("symbol sub type without symbol reference")
)

// Validate checks the descriptor for internal consistency.
func (d FormatDescriptor) Validate() error {
	if d.Length <= 0 {
		return fmt.Errorf("%w: %d", errInvalidLength, d.Length)
	}
	switch d.Kind {
	case FormatDefault:
		if d.Length != 1 {
			return fmt.Errorf("%w: default format covers %d bytes", errInvalidLength, d.Length)
		}
	case FormatNumericLE, FormatNumericBE:
		if d.Length > 4 {
			return fmt.Errorf("%w: numeric value of %d bytes", errInvalidLength, d.Length)
		}
	case FormatStringL8:
		if d.Length < 1 {
			return fmt.Errorf("%w: missing length byte", errInvalidLength)
		}
	case FormatStringL16:
		if d.Length < 2 {
			return fmt.Errorf("%w: missing length word", errInvalidLength)
		}
	case FormatBinaryInclude:
		if d.Extra == "" {
			return errors.New("binary include without file name")
		}
	}
	if d.SubType == SubSymbol && d.Symbol == nil {
		return errNoSymbol
	}
	if d.SubType == SubAlign && (d.AlignPower <= 0 || d.AlignPower > 16) {
		return fmt.Errorf("invalid alignment power %d", d.AlignPower)
	}
	return nil
}

// NewNumeric returns a numeric descriptor, a little endian value for lengths above one.
func NewNumeric(length int) FormatDescriptor {
	if length == 1 {
		return FormatDescriptor{Kind: FormatDefault, Length: 1}
	}
	return FormatDescriptor{Kind: FormatNumericLE, Length: length}
}

// NewFill returns a descriptor for a run of identical bytes.
func NewFill(length int) FormatDescriptor {
	return FormatDescriptor{Kind: FormatFill, Length: length}
}

// NewDense returns a descriptor for raw hex data.
func NewDense(length int) FormatDescriptor {
	return FormatDescriptor{Kind: FormatDense, Length: length}
}

// NewString returns a string descriptor with the given character encoding.
func NewString(kind FormatKind, encoding FormatSubType, length int) FormatDescriptor {
	return FormatDescriptor{Kind: kind, SubType: encoding, Length: length}
}

// NewAligned returns an uninitialized data descriptor that pads to a 2^power boundary.
func NewAligned(kind FormatKind, power, length int) FormatDescriptor {
	return FormatDescriptor{Kind: kind, SubType: SubAlign, AlignPower: power, Length: length}
}

// NewBinaryInclude returns a descriptor that moves the span into an external file.
func NewBinaryInclude(path string, length int) FormatDescriptor {
	return FormatDescriptor{Kind: FormatBinaryInclude, Length: length, Extra: path}
}
