package loader

import (
	"fmt"

	"github.com/retroenv/srcgen/internal/program"
)

// Project describes the analysis results for a binary image.
type Project struct {
	CPU         string    `json:"cpu"`
	LoadAddress *int      `json:"loadAddress"`
	Regions     []Region  `json:"regions"`
	Code        []Code    `json:"code"`
	Operands    []Operand `json:"operands"`
	Data        []Data    `json:"data"`
	Labels      []Label   `json:"labels"`
	Comments    []Comment `json:"comments"`
	Equates     []Equate  `json:"equates"`
}

// Region maps a range of the file to an address. A missing address marks
// the range as not addressable.
type Region struct {
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Address  *int   `json:"address"`
	PreLabel string `json:"preLabel"`
	Relative bool   `json:"relative"`
}

// Code is a range of instructions, the register widths default to 8 bit.
type Code struct {
	Offset int   `json:"offset"`
	Length int   `json:"length"`
	ShortM *bool `json:"shortM"`
	ShortX *bool `json:"shortX"`
}

// Operand defines the rendering of an instruction operand.
type Operand struct {
	Offset  int        `json:"offset"`
	SubType string     `json:"subType"`
	Symbol  *SymbolRef `json:"symbol"`
}

// Data is a formatted data span.
type Data struct {
	Offset     int        `json:"offset"`
	Length     int        `json:"length"`
	Kind       string     `json:"kind"`
	SubType    string     `json:"subType"`
	AlignPower int        `json:"alignPower"`
	Symbol     *SymbolRef `json:"symbol"`
	File       string     `json:"file"` // file name of a binary include
}

// SymbolRef references a part of a symbol value.
type SymbolRef struct {
	Label string `json:"label"`
	Part  string `json:"part"` // low, high or bank
}

// Label is a label at a file offset.
type Label struct {
	Offset int    `json:"offset"`
	Name   string `json:"name"`
	Local  bool   `json:"local"`
}

// Comment contains the comments of a file offset.
type Comment struct {
	Offset  int      `json:"offset"`
	Comment string   `json:"comment"`
	Long    []string `json:"long"`
}

// Equate is a named value that is not part of the file.
type Equate struct {
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Comment  string `json:"comment"`
	Variable bool   `json:"variable"`
}

var symbolParts = map[string]program.SymbolPart{
	"":     program.PartLow,
	"low":  program.PartLow,
	"high": program.PartHigh,
	"bank": program.PartBank,
}

func (s *SymbolRef) ref() (*program.SymbolRef, error) {
	if s == nil {
		return nil, nil
	}
	part, ok := symbolParts[s.Part]
	if !ok {
		return nil, fmt.Errorf("unsupported symbol part '%s'", s.Part)
	}
	return &program.SymbolRef{
		Label: s.Label,
		Part:  part,
	}, nil
}
