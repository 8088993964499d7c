package writer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/srcgen/internal/assembler"
)

// LineWriter outputs column aligned source lines. The first write error is
// kept and all following writes are ignored.
type LineWriter struct {
	w         *bufio.Writer
	widths    [3]int
	placement assembler.LabelPlacement
	isEquate  func(opcode string) bool
	lines     int
	err       error
}

// NewLineWriter returns a line writer with the label, opcode and operand
// column widths. isEquate returns whether an opcode is an equate directive
// whose label can not be output on a separate line.
func NewLineWriter(w io.Writer, widths [3]int, placement assembler.LabelPlacement,
	isEquate func(opcode string) bool) *LineWriter {

	if isEquate == nil {
		isEquate = func(string) bool { return false }
	}
	return &LineWriter{
		w:         bufio.NewWriter(w),
		widths:    widths,
		placement: placement,
		isEquate:  isEquate,
	}
}

// OutputLine outputs a line consisting of the optional label, opcode,
// operand and comment fields.
func (l *LineWriter) OutputLine(label, opcode, operand, comment string) {
	if label != "" && opcode != "" && !l.isEquate(opcode) && l.separateLabel(label) {
		l.OutputText(label)
		label = ""
	}

	var b strings.Builder
	b.WriteString(label)
	column := l.widths[0]
	appendField(&b, opcode, column)
	column += l.widths[1]
	appendField(&b, operand, column)
	column += l.widths[2]
	appendField(&b, comment, column)

	l.OutputText(b.String())
}

// OutputText outputs a line without any formatting.
func (l *LineWriter) OutputText(line string) {
	if l.err != nil {
		return
	}
	if _, err := l.w.WriteString(line); err != nil {
		l.err = fmt.Errorf("writing line: %w", err)
		return
	}
	if err := l.w.WriteByte('\n'); err != nil {
		l.err = fmt.Errorf("writing line end: %w", err)
		return
	}
	l.lines++
}

// Lines returns the number of lines that were output.
func (l *LineWriter) Lines() int {
	return l.lines
}

// Err returns the first write error.
func (l *LineWriter) Err() error {
	return l.err
}

// Flush writes all buffered lines to the underlying writer.
func (l *LineWriter) Flush() error {
	if l.err != nil {
		return l.err
	}
	if err := l.w.Flush(); err != nil {
		l.err = fmt.Errorf("flushing lines: %w", err)
	}
	return l.err
}

func (l *LineWriter) separateLabel(label string) bool {
	switch l.placement {
	case assembler.LabelSeparate:
		return true
	case assembler.LabelSplitIfTooLong:
		return len(label) >= l.widths[0]
	default:
		return false
	}
}

// appendField pads the line to the column and appends the field. Fields are
// always separated by at least one space.
func appendField(b *strings.Builder, field string, column int) {
	if field == "" {
		return
	}
	if b.Len() < column {
		b.WriteString(strings.Repeat(" ", column-b.Len()))
	} else if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(field)
}
