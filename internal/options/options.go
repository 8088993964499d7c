// Package options contains the program options.
package options

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/srcgen/internal/assembler"
)

// Parameters contains file path options.
type Parameters struct {
	Input   string // binary image
	Project string // optional JSON project description of the image
	Output  string // output directory, defaults to the directory of the input
	Batch   string // glob pattern of images to process
}

// OutputDir returns the directory that generated files are written to.
func (p Parameters) OutputDir() string {
	if p.Output != "" {
		return p.Output
	}
	return filepath.Dir(p.Input)
}

// BaseName returns the input file name without extension, the generated
// file names are derived from it.
func (p Parameters) BaseName() string {
	name := filepath.Base(p.Input)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Flags contains behavior options.
type Flags struct {
	Assemblers  []string // dialects to generate source for
	CPU         string   // cpu of images without project description
	LoadAddress int      // load address of images without project description
	Assemble    bool     // run the external assemblers on the generated source
	Verify      bool     // compare the assembled binaries to the input
	Debug       bool
	Quiet       bool

	// Executables contains configured assembler executable paths by dialect.
	Executables map[string]string
}

// OutputFlags contains source formatting options.
type OutputFlags struct {
	LabelPlacement string
	HeaderComment  bool
	LabelWidth     int
	OpcodeWidth    int
	OperandWidth   int
}

// Program options of the source generator.
type Program struct {
	Parameters
	Flags
	OutputFlags
}

// label placement option values.
const (
	PlacementInline   = "inline"
	PlacementSplit    = "split"
	PlacementSeparate = "separate"
)

var labelPlacements = map[string]assembler.LabelPlacement{
	PlacementInline:   assembler.LabelInline,
	PlacementSplit:    assembler.LabelSplitIfTooLong,
	PlacementSeparate: assembler.LabelSeparate,
}

// NewProgram returns program options with default values.
func NewProgram() Program {
	return Program{
		Flags: Flags{
			Assemblers:  append([]string(nil), assembler.Dialects...),
			LoadAddress: 0x8000,
			Executables: map[string]string{},
		},
		OutputFlags: OutputFlags{
			LabelPlacement: PlacementSplit,
			HeaderComment:  true,
		},
	}
}

// Settings returns the generator settings of the output options.
func (o OutputFlags) Settings() (assembler.Settings, error) {
	placement, ok := labelPlacements[strings.ToLower(o.LabelPlacement)]
	if !ok {
		return assembler.Settings{}, fmt.Errorf("unsupported label placement '%s'", o.LabelPlacement)
	}

	widths := [3]int{o.LabelWidth, o.OpcodeWidth, o.OperandWidth}
	for _, width := range widths {
		if width < 0 {
			return assembler.Settings{}, fmt.Errorf("invalid column width %d", width)
		}
	}

	return assembler.Settings{
		LabelPlacement: placement,
		HeaderComment:  o.HeaderComment,
		ColumnWidths:   widths,
	}, nil
}

// NormalizeAssemblers lower cases the dialect names, resolves aliases and
// removes duplicates. It returns an error for unsupported dialects.
func (f *Flags) NormalizeAssemblers() error {
	seen := map[string]bool{}
	var names []string

	for _, name := range f.Assemblers {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case "":
			continue
		case "asm6f":
			name = assembler.Asm6
		case "cc65":
			name = assembler.Ca65
		case "merlin":
			name = assembler.Merlin32
		}

		if !isDialect(name) {
			return fmt.Errorf("unsupported assembler '%s', valid options: %s",
				name, strings.Join(assembler.Dialects, ", "))
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return fmt.Errorf("no assembler selected, valid options: %s", strings.Join(assembler.Dialects, ", "))
	}
	f.Assemblers = names
	return nil
}

func isDialect(name string) bool {
	for _, dialect := range assembler.Dialects {
		if dialect == name {
			return true
		}
	}
	return false
}
