package writer

import (
	"fmt"

	"github.com/retroenv/srcgen/internal/assembler"
)

// SourceFile is a generated source file of a generation pass. The file only
// becomes visible at its path once it is committed.
type SourceFile struct {
	file *OutputFile
	Out  *LineWriter
}

// CreateSourceFile creates the source file at the path with a line writer
// using the column widths of the settings. Column widths that are not set
// use the default widths of the dialect.
func CreateSourceFile(path string, settings assembler.Settings, defaultWidths [3]int,
	isEquate func(opcode string) bool) (*SourceFile, error) {

	file, err := CreateOutputFile(path)
	if err != nil {
		return nil, err
	}

	widths := defaultWidths
	for i, width := range settings.ColumnWidths {
		if width > 0 {
			widths[i] = width
		}
	}

	return &SourceFile{
		file: file,
		Out:  NewLineWriter(file, widths, settings.LabelPlacement, isEquate),
	}, nil
}

// Path returns the final path of the file.
func (f *SourceFile) Path() string {
	return f.file.Path()
}

// Commit flushes all lines and moves the file to its final path.
func (f *SourceFile) Commit() error {
	if err := f.Out.Flush(); err != nil {
		return fmt.Errorf("writing source file: %w", err)
	}
	if err := f.file.Commit(); err != nil {
		return fmt.Errorf("committing source file: %w", err)
	}
	return nil
}

// Close removes the file if it was not committed.
func (f *SourceFile) Close() error {
	return f.file.Close()
}
