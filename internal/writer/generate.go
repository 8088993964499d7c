package writer

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/program"
)

// Generate outputs the code and data of the program. The generator receives
// the address region changes, data spans and register width changes of the
// pass and can modify the output of instructions.
func Generate(gen assembler.Generator, src *Source) error {
	prog := src.Program
	changes := prog.AddressMap.Iterator()
	shortM, shortX := true, true

	for offset := 0; offset < len(prog.Data); {
		outputAddressChanges(gen, src, changes, offset)

		o := &prog.Offsets[offset]
		if len(o.LongComment) > 0 {
			gen.FlushPendingRegionDirectives()
			for _, line := range o.LongComment {
				src.Out.OutputText(src.Formatter.FormatFullLineComment(line))
			}
		}

		length := instructionLength(prog, offset)
		if length == 0 {
			gen.FlushPendingRegionDirectives()
			n := gen.OutputDataDirective(offset)
			if n <= 0 {
				src.Logger.Error("Data directive output no bytes", log.Hex("offset", offset))
				n = 1
			}
			offset += n
			continue
		}

		if prog.CPU == instruction.CPU65816 && (o.ShortM != shortM || o.ShortX != shortX) {
			gen.FlushPendingRegionDirectives()
			gen.OutputRegisterWidthDirective(offset, shortM, shortX, o.ShortM, o.ShortX)
			shortM, shortX = o.ShortM, o.ShortX
		}

		gen.FlushPendingRegionDirectives()
		outputInstruction(gen, src, offset, length)
		offset += length
	}

	outputAddressChanges(gen, src, changes, len(prog.Data))

	if err := src.Out.Err(); err != nil {
		return fmt.Errorf("writing source: %w", err)
	}
	return nil
}

// outputAddressChanges passes all changes up to the offset to the generator.
// Changes inside of a span that was output as one directive are reported late.
func outputAddressChanges(gen assembler.Generator, src *Source, it *program.ChangeIterator, offset int) {
	for {
		change, ok := it.Peek()
		if !ok || change.Offset > offset {
			return
		}
		it.Next()

		if change.Offset < offset {
			src.Logger.Warn("Address region change inside of a data span or instruction",
				log.Hex("change", change.Offset), log.Hex("offset", offset))
		}
		gen.OutputAddressRegionChange(change)
	}
}

// instructionLength returns the length of the instruction at the offset or
// 0 if the offset has to be output as data.
func instructionLength(prog *program.Program, offset int) int {
	o := prog.Offsets[offset]
	if !o.IsType(program.CodeOffset) || !o.Opcode.IsValid() {
		return 0
	}
	length := o.Opcode.Length(o.ShortM, o.ShortX)
	if offset+length > len(prog.Data) {
		return 0
	}
	return length
}

func outputInstruction(gen assembler.Generator, src *Source, offset, length int) {
	prog := src.Program
	o := prog.Offsets[offset]
	label := src.Label(offset)
	comment := src.Comment(offset)

	value := prog.OperandValue(offset)

	mnemonic, ok := "", !o.IsType(program.CodeAsData)
	if ok {
		mnemonic, ok = gen.ModifyOpcode(offset, o.Opcode)
	}
	if ok && o.Opcode.IsBranch() && src.Quirks.NoPcRelBankWrap {
		_, wrapped := src.BranchTarget(offset, value, o.Opcode.Mode == instruction.RelativeLong)
		ok = !wrapped
	}
	if !ok {
		data := prog.Data[offset : offset+length]
		src.Out.OutputLine(label, src.PseudoOp(assembler.DirByte), ShortSequence(src.Formatter, data), comment)
		return
	}
	if mnemonic == "" {
		mnemonic = o.Opcode.Mnemonic
	}

	desc := gen.ModifyInstructionOperandFormat(offset, o.Format, value)
	suffix, operand := src.InstructionOperand(offset, value, desc)
	src.Out.OutputLine(label, src.Formatter.FormatOpcode(mnemonic)+suffix, operand, comment)
}
