package writer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/srcgen/internal/assembler"
)

func TestLineWriter_Columns(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewLineWriter(buf, [3]int{8, 6, 10}, assembler.LabelInline, nil)

	w.OutputLine("main:", "lda", "#$00", "; init")
	w.OutputLine("", "sta", "$2000", "")
	w.OutputLine("", "", "", "")
	assert.NoError(t, w.Flush())

	assert.Equal(t, "main:   lda   #$00      ; init\n        sta   $2000\n\n", buf.String())
	assert.Equal(t, 3, w.Lines())
}

func TestLineWriter_LongFieldsAreSeparated(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewLineWriter(buf, [3]int{4, 4, 4}, assembler.LabelInline, nil)

	w.OutputLine("longlabel:", "lda", "table,x", "")
	assert.NoError(t, w.Flush())

	assert.Equal(t, "longlabel: lda table,x\n", buf.String())
}

func TestLineWriter_LabelPlacement(t *testing.T) {
	isEquate := func(opcode string) bool { return opcode == "=" }

	tests := []struct {
		name      string
		placement assembler.LabelPlacement
		label     string
		opcode    string
		want      string
	}{
		{name: "inline", placement: assembler.LabelInline, label: "a_long_label:", opcode: "nop",
			want: "a_long_label: nop\n"},
		{name: "split short label", placement: assembler.LabelSplitIfTooLong, label: "lbl:", opcode: "nop",
			want: "lbl:    nop\n"},
		{name: "split long label", placement: assembler.LabelSplitIfTooLong, label: "a_long_label:", opcode: "nop",
			want: "a_long_label:\n        nop\n"},
		{name: "separate", placement: assembler.LabelSeparate, label: "lbl:", opcode: "nop",
			want: "lbl:\n        nop\n"},
		{name: "equate is never split", placement: assembler.LabelSeparate, label: "PPU", opcode: "=",
			want: "PPU     =\n"},
		{name: "label without opcode", placement: assembler.LabelSeparate, label: "lbl:", opcode: "",
			want: "lbl:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			w := NewLineWriter(buf, [3]int{8, 8, 8}, tt.placement, isEquate)
			w.OutputLine(tt.label, tt.opcode, "", "")
			assert.NoError(t, w.Flush())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

var errWrite = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestLineWriter_StickyError(t *testing.T) {
	w := NewLineWriter(failingWriter{}, [3]int{}, assembler.LabelInline, nil)
	w.OutputText("line")

	err := w.Flush()
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errWrite))
	assert.Equal(t, err, w.Err())

	w.OutputText("ignored")
	assert.Equal(t, err, w.Flush())
}
