package assembler

import "slices"

// DirectiveKind is an abstract directive that dialects map to a pseudo-op.
type DirectiveKind uint8

// directive kinds.
const (
	DirEquate DirectiveKind = iota
	DirVariable
	DirRegionStart
	DirRegionEnd
	DirByte
	DirWord
	DirLong
	DirDword
	DirBigWord
	DirBigLong
	DirBigDword
	DirFill
	DirDense
	DirAlign
	DirBinaryInclude
	DirStrGeneric
	DirStrReverse
	DirStrNullTerm
	DirStrLen8
	DirStrLen16
	DirStrDci
	DirCPU
)

var directiveNames = map[DirectiveKind]string{
	DirEquate:        "equate",
	DirVariable:      "variable",
	DirRegionStart:   "region-start",
	DirRegionEnd:     "region-end",
	DirByte:          "byte",
	DirWord:          "word",
	DirLong:          "long",
	DirDword:         "dword",
	DirBigWord:       "big-word",
	DirBigLong:       "big-long",
	DirBigDword:      "big-dword",
	DirFill:          "fill",
	DirDense:         "dense",
	DirAlign:         "align",
	DirBinaryInclude: "binary-include",
	DirStrGeneric:    "str-generic",
	DirStrReverse:    "str-reverse",
	DirStrNullTerm:   "str-null-term",
	DirStrLen8:       "str-len8",
	DirStrLen16:      "str-len16",
	DirStrDci:        "str-dci",
	DirCPU:           "cpu",
}

func (k DirectiveKind) String() string {
	return directiveNames[k]
}

// PseudoOpNames maps directive kinds to the pseudo-ops of a dialect.
// A missing kind is not supported by the dialect. The mapping is immutable.
type PseudoOpNames struct {
	names map[DirectiveKind]string
}

// NewPseudoOpNames returns a pseudo-op table, the passed map is copied.
func NewPseudoOpNames(names map[DirectiveKind]string) PseudoOpNames {
	p := PseudoOpNames{
		names: make(map[DirectiveKind]string, len(names)),
	}
	for kind, name := range names {
		if name != "" {
			p.names[kind] = name
		}
	}
	return p
}

// Get returns the pseudo-op of the directive kind.
func (p PseudoOpNames) Get(kind DirectiveKind) (string, bool) {
	name, ok := p.names[kind]
	return name, ok
}

// Name returns the pseudo-op of the directive kind or an empty string.
func (p PseudoOpNames) Name(kind DirectiveKind) string {
	return p.names[kind]
}

// Has returns whether the dialect supports the directive kind.
func (p PseudoOpNames) Has(kind DirectiveKind) bool {
	_, ok := p.names[kind]
	return ok
}

// Kinds returns all supported directive kinds in ascending order.
func (p PseudoOpNames) Kinds() []DirectiveKind {
	kinds := make([]DirectiveKind, 0, len(p.names))
	for kind := range p.names {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// NumericKind returns the directive kind for a numeric value of the given
// width in bytes.
func NumericKind(width int, bigEndian bool) (DirectiveKind, bool) {
	if bigEndian && width > 1 {
		switch width {
		case 2:
			return DirBigWord, true
		case 3:
			return DirBigLong, true
		case 4:
			return DirBigDword, true
		}
		return 0, false
	}
	switch width {
	case 1:
		return DirByte, true
	case 2:
		return DirWord, true
	case 3:
		return DirLong, true
	case 4:
		return DirDword, true
	}
	return 0, false
}
