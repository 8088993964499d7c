package writer

import (
	"strconv"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/program"
)

// StringEncoding describes how a dialect outputs strings of a character encoding.
type StringEncoding struct {
	Op *format.StringOp
	// GenericOpcode replaces the generic string pseudo-op for the encoding.
	GenericOpcode string
	// Xor converts the bytes with the high bit flipped and wraps the string
	// in the xor block of the dialect.
	Xor bool
}

// DataOptions contains the dialect specific parts of data directive output.
type DataOptions struct {
	ElideZeroFill  bool // fill directives without value fill with zero
	QuotedIncludes bool // binary include paths are quoted
	// NullTermTextOnly is set when the null terminated string directive
	// accepts only string constants and no embedded byte values.
	NullTermTextOnly bool

	// AlignOperand returns the operand of an alignment directive for a
	// 2^power boundary, false if the alignment can not be expressed.
	AlignOperand func(f *format.Formatter, power int, fill byte) (string, bool)
	// StringEncoding returns the string output of a character encoding,
	// false if strings of the encoding have to be output as hex data.
	StringEncoding func(encoding program.FormatSubType) (StringEncoding, bool)

	XorStart string // start of a block that flips the high bit of all bytes
	XorEnd   string
}

// DataWriter selects and outputs the directive for formatted data spans.
type DataWriter struct {
	src       *Source
	opts      DataOptions
	excisions []assembler.BinaryIncludeExcision
}

// NewDataWriter returns a data writer for a generation pass.
func NewDataWriter(src *Source, opts DataOptions) *DataWriter {
	return &DataWriter{
		src:  src,
		opts: opts,
	}
}

// Excisions returns the binary include directives that were output.
func (d *DataWriter) Excisions() []assembler.BinaryIncludeExcision {
	return d.excisions
}

// span is a data span that is output as one or more lines.
type span struct {
	offset  int
	data    []byte
	format  program.FormatDescriptor
	label   string
	comment string
}

// Output outputs the data span at the offset and returns its length.
func (d *DataWriter) Output(offset int) int {
	prog := d.src.Program
	o := &prog.Offsets[offset]

	desc := program.NewNumeric(1)
	if o.IsType(program.DataOffset) && o.Format != nil {
		desc = *o.Format
	}

	length := desc.Length
	if err := desc.Validate(); err != nil || offset+length > len(prog.Data) {
		length = max(1, min(length, len(prog.Data)-offset))
		d.src.Logger.Warn("Invalid data format, using hex output",
			log.Hex("offset", offset), log.Int("length", length))
		desc = program.NewDense(length)
	}
	if length > 1 && !d.isContinuation(offset, length) {
		d.src.Logger.Debug("Data span length does not match program offsets",
			log.Hex("offset", offset), log.Int("length", length))
	}

	s := span{
		offset:  offset,
		data:    prog.Data[offset : offset+length],
		format:  desc,
		label:   d.src.Label(offset),
		comment: d.src.Comment(offset),
	}

	switch desc.Kind {
	case program.FormatDefault, program.FormatNumericLE, program.FormatNumericBE:
		d.outputNumeric(s)
	case program.FormatFill:
		d.outputFill(s)
	case program.FormatDense:
		d.outputDense(s)
	case program.FormatUninit, program.FormatJunk:
		d.outputUninit(s)
	case program.FormatBinaryInclude:
		d.outputBinaryInclude(s)
	case program.FormatStringGeneric, program.FormatStringReverse, program.FormatStringNullTerm,
		program.FormatStringL8, program.FormatStringL16, program.FormatStringDci:
		d.outputString(s)
	default:
		d.src.Logger.Error("Unsupported data format", log.Hex("offset", offset), log.Stringer("kind", desc.Kind))
		d.src.Out.OutputLine(s.label, "???", d.src.Formatter.FormatDenseHex(s.data), s.comment)
	}
	return length
}

func (d *DataWriter) isContinuation(offset, length int) bool {
	offsets := d.src.Program.Offsets
	for i := offset + 1; i < offset+length; i++ {
		if !offsets[i].IsType(program.DataContinuation) {
			return false
		}
	}
	return true
}

func (d *DataWriter) outputNumeric(s span) {
	f := d.src.Formatter
	width := len(s.data)
	bigEndian := s.format.Kind == program.FormatNumericBE

	kind, ok := assembler.NumericKind(width, bigEndian)
	if ok {
		ok = d.src.Names.Has(kind)
	}
	if !ok {
		d.src.Out.OutputLine(s.label, d.src.PseudoOp(assembler.DirByte), ShortSequence(f, s.data), s.comment)
		return
	}

	value := 0
	for i := range width {
		if bigEndian {
			value = value<<8 | int(s.data[i])
		} else {
			value |= int(s.data[i]) << (8 * i)
		}
	}

	operand := f.FormatHexValue(value, 2*width)
	switch {
	case s.format.SubType == program.SubSymbol && s.format.Symbol != nil:
		name := d.src.Localizer.ConvLabel(s.format.Symbol.Label)
		operand = f.FormatSymbol(*s.format.Symbol, name, width == 1)
	case s.format.SubType.IsCharacter() && width == 1:
		if char, ok := f.FormatCharacter(value, s.format.SubType); ok {
			operand = char
		}
	}
	d.src.Out.OutputLine(s.label, d.src.PseudoOp(kind), operand, s.comment)
}

func (d *DataWriter) outputFill(s span) {
	value, ok := RepeatedValue(s.data)
	if !ok || !d.src.Names.Has(assembler.DirFill) {
		d.outputDense(s)
		return
	}

	operand := strconv.Itoa(len(s.data))
	if value != 0 || !d.opts.ElideZeroFill {
		operand += "," + d.src.Formatter.FormatHexValue(int(value), 2)
	}
	d.src.Out.OutputLine(s.label, d.src.PseudoOp(assembler.DirFill), operand, s.comment)
}

func (d *DataWriter) outputDense(s span) {
	f := d.src.Formatter
	opcode, hasDense := d.src.Names.Get(assembler.DirDense)

	charsPerByte := 2
	if !hasDense {
		opcode = d.src.Names.Name(assembler.DirByte)
		charsPerByte = 4 // $xx,
	}
	opcode = f.FormatPseudoOp(opcode)

	label, comment := s.label, s.comment
	for _, chunk := range DenseChunks(f, s.data, charsPerByte) {
		var operand string
		if hasDense {
			operand = f.FormatDenseHex(chunk)
		} else {
			operand = commaHex(f, chunk)
		}
		d.src.Out.OutputLine(label, opcode, operand, comment)
		label, comment = "", ""
	}
}

// outputUninit outputs uninitialized or junk data, preferring an alignment
// directive if the span pads to an alignment boundary.
func (d *DataWriter) outputUninit(s span) {
	value, ok := RepeatedValue(s.data)
	if !ok {
		d.outputDense(s)
		return
	}

	if s.format.SubType == program.SubAlign && d.opts.AlignOperand != nil && d.src.Names.Has(assembler.DirAlign) &&
		IsAlignedSpan(d.src.Program, s.offset, len(s.data), s.format.AlignPower) {

		if operand, ok := d.opts.AlignOperand(d.src.Formatter, s.format.AlignPower, value); ok {
			d.src.Out.OutputLine(s.label, d.src.PseudoOp(assembler.DirAlign), operand, s.comment)
			return
		}
	}

	if len(s.data) > 1 || value == 0 {
		d.outputFill(s)
		return
	}
	d.outputDense(s)
}

func (d *DataWriter) outputBinaryInclude(s span) {
	if !d.src.Names.Has(assembler.DirBinaryInclude) {
		d.outputDense(s)
		return
	}

	path := s.format.Extra
	operand := path
	if d.opts.QuotedIncludes {
		operand = strconv.Quote(path)
	}
	d.src.Out.OutputLine(s.label, d.src.PseudoOp(assembler.DirBinaryInclude), operand, s.comment)

	d.excisions = append(d.excisions, assembler.BinaryIncludeExcision{
		Offset: s.offset,
		Length: len(s.data),
		Path:   path,
	})
}

func commaHex(f *format.Formatter, data []byte) string {
	operand := make([]byte, 0, 4*len(data))
	for i, b := range data {
		if i > 0 {
			operand = append(operand, ',')
		}
		operand = append(operand, f.FormatHexValue(int(b), 2)...)
	}
	return string(operand)
}
