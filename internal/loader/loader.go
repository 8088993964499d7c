// Package loader loads binary images and their optional project description.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/srcgen/internal/instruction"
	"github.com/retroenv/srcgen/internal/options"
	"github.com/retroenv/srcgen/internal/program"
)

// Loader handles loading images and project files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new image loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load loads the input image and applies the project description if one is
// configured. Without a project description the whole image is mapped to
// the load address and output as data. The PRG ROM of NES cartridges is
// mapped to the end of the CPU address space.
func (l *Loader) Load(opts options.Program) (*program.Program, error) {
	data, cartAddress, err := readImage(opts.Input)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %s is empty", opts.Input)
	}

	project := &Project{}
	if opts.Project != "" {
		project, err = ReadProject(opts.Project)
		if err != nil {
			return nil, err
		}
	}

	cpuName := opts.CPU
	if project.CPU != "" {
		cpuName = project.CPU
	}
	cpu, err := instruction.CPUFromString(cpuName)
	if err != nil {
		return nil, fmt.Errorf("parsing cpu: %w", err)
	}

	loadAddress := opts.LoadAddress
	if cartAddress >= 0 {
		l.logger.Debug("Loaded NES cartridge", log.Int("prg", len(data)), log.Hex("address", cartAddress))
		loadAddress = cartAddress
	}
	if project.LoadAddress != nil {
		loadAddress = *project.LoadAddress
	}

	prog := program.New(filepath.Base(opts.Input), data, cpu)
	if err := l.apply(prog, project, loadAddress); err != nil {
		return nil, fmt.Errorf("applying project %s: %w", opts.Project, err)
	}
	return prog, nil
}

// readImage returns the content of the input file. For NES cartridges it
// returns the PRG ROM and its address, otherwise the address is -1.
func readImage(path string) ([]byte, int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".nes") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, -1, fmt.Errorf("reading file %s: %w", path, err)
		}
		return data, -1, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, -1, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	cart, err := cartridge.LoadFile(file)
	if err != nil {
		return nil, -1, fmt.Errorf("loading cartridge: %w", err)
	}

	address := 0x8000
	if len(cart.PRG) <= 0x4000 {
		address = 0xc000
	}
	return cart.PRG, address, nil
}

// ReadProject reads a JSON project description.
func ReadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file %s: %w", path, err)
	}

	project := &Project{}
	if err := json.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", path, err)
	}
	return project, nil
}

func (l *Loader) apply(prog *program.Program, project *Project, loadAddress int) error {
	if err := applyRegions(prog, project.Regions, loadAddress); err != nil {
		return err
	}
	for _, code := range project.Code {
		if err := l.decodeCode(prog, code); err != nil {
			return err
		}
	}
	for _, operand := range project.Operands {
		if err := applyOperand(prog, operand); err != nil {
			return err
		}
	}
	for _, data := range project.Data {
		if err := applyData(prog, data); err != nil {
			return err
		}
	}
	if err := applyLabels(prog, project.Labels); err != nil {
		return err
	}
	if err := applyComments(prog, project.Comments); err != nil {
		return err
	}
	return applyEquates(prog, project.Equates)
}

func applyRegions(prog *program.Program, regions []Region, loadAddress int) error {
	if len(regions) == 0 {
		regions = []Region{{Length: len(prog.Data), Address: &loadAddress}}
	}

	for _, r := range regions {
		address := program.NonAddressable
		if r.Address != nil {
			address = *r.Address
		}
		region := program.AddressRegion{
			Offset:     r.Offset,
			Length:     r.Length,
			Address:    address,
			PreLabel:   r.PreLabel,
			IsRelative: r.Relative,
		}
		if err := prog.AddressMap.Add(region); err != nil {
			return fmt.Errorf("adding address region: %w", err)
		}
	}
	return nil
}

// decodeCode decodes the instructions of a code range linearly. Register
// widths of the 65816 follow the REP and SEP instructions of the range.
// Bytes that do not decode to a known opcode stay data.
func (l *Loader) decodeCode(prog *program.Program, code Code) error {
	end := code.Offset + code.Length
	if code.Offset < 0 || code.Length <= 0 || end > len(prog.Data) {
		return fmt.Errorf("code range at offset $%04x with length %d exceeds file", code.Offset, code.Length)
	}

	shortM, shortX := boolOr(code.ShortM, true), boolOr(code.ShortX, true)
	for offset := code.Offset; offset < end; {
		op, ok := instruction.Lookup(prog.CPU, prog.Data[offset])
		length := op.Length(shortM, shortX)
		if !ok || offset+length > end {
			l.logger.Debug("Unknown opcode in code range", log.Hex("offset", offset), log.Hex("opcode", prog.Data[offset]))
			offset++
			continue
		}

		if err := prog.SetInstruction(offset, op, shortM, shortX); err != nil {
			return fmt.Errorf("setting instruction: %w", err)
		}
		if prog.CPU == instruction.CPU65816 {
			shortM, shortX = trackWidths(op, prog.Data[offset+1:offset+length], shortM, shortX)
		}
		offset += length
	}
	return nil
}

// trackWidths returns the register widths after a REP or SEP instruction.
func trackWidths(op instruction.OpDef, operand []byte, shortM, shortX bool) (bool, bool) {
	if len(operand) == 0 {
		return shortM, shortX
	}

	var set bool
	switch op {
	case instruction.Rep:
		set = false
	case instruction.Sep:
		set = true
	default:
		return shortM, shortX
	}

	if operand[0]&0x20 != 0 {
		shortM = set
	}
	if operand[0]&0x10 != 0 {
		shortX = set
	}
	return shortM, shortX
}

func applyOperand(prog *program.Program, operand Operand) error {
	if operand.Offset < 0 || operand.Offset >= len(prog.Offsets) ||
		!prog.Offsets[operand.Offset].IsType(program.CodeOffset) {

		return fmt.Errorf("operand format at offset $%04x without instruction", operand.Offset)
	}

	sub, err := program.FormatSubTypeFromString(operand.SubType)
	if err != nil {
		return fmt.Errorf("parsing operand format: %w", err)
	}
	symbol, err := operand.Symbol.ref()
	if err != nil {
		return err
	}

	prog.Offsets[operand.Offset].Format = &program.FormatDescriptor{
		Kind:    program.FormatDefault,
		SubType: sub,
		Length:  1,
		Symbol:  symbol,
	}
	return nil
}

func applyData(prog *program.Program, data Data) error {
	kind, err := program.FormatKindFromString(data.Kind)
	if err != nil {
		return fmt.Errorf("parsing data format: %w", err)
	}
	sub, err := program.FormatSubTypeFromString(data.SubType)
	if err != nil {
		return fmt.Errorf("parsing data format: %w", err)
	}
	symbol, err := data.Symbol.ref()
	if err != nil {
		return err
	}

	format := program.FormatDescriptor{
		Kind:       kind,
		SubType:    sub,
		Length:     data.Length,
		AlignPower: data.AlignPower,
		Symbol:     symbol,
		Extra:      data.File,
	}
	if err := prog.SetFormat(data.Offset, format); err != nil {
		return fmt.Errorf("setting data format: %w", err)
	}
	return nil
}

func applyLabels(prog *program.Program, labels []Label) error {
	for _, label := range labels {
		var err error
		if label.Local {
			err = prog.AddLocalLabel(label.Offset, label.Name)
		} else {
			err = prog.AddLabel(label.Offset, label.Name)
		}
		if err != nil {
			return fmt.Errorf("adding label '%s': %w", label.Name, err)
		}
	}
	return nil
}

func applyComments(prog *program.Program, comments []Comment) error {
	for _, comment := range comments {
		if comment.Offset < 0 || comment.Offset >= len(prog.Offsets) {
			return fmt.Errorf("comment at offset $%04x exceeds file", comment.Offset)
		}
		o := &prog.Offsets[comment.Offset]
		o.Comment = comment.Comment
		o.LongComment = append(o.LongComment, comment.Long...)
	}
	return nil
}

func applyEquates(prog *program.Program, equates []Equate) error {
	for _, equate := range equates {
		var err error
		if equate.Variable {
			err = prog.AddVariable(equate.Name, equate.Value, equate.Comment)
		} else {
			err = prog.AddEquate(equate.Name, equate.Value, equate.Comment)
		}
		if err != nil {
			return fmt.Errorf("adding equate '%s': %w", equate.Name, err)
		}
	}
	return nil
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
