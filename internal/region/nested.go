package region

import (
	"github.com/retroenv/srcgen/internal/assembler"
	"github.com/retroenv/srcgen/internal/format"
	"github.com/retroenv/srcgen/internal/program"
)

// Nested outputs regions as nested pseudo program counter blocks. The first
// region sets the real program counter. In load mode it is set to the region
// address and the region has no closing directive, in stream mode it is set
// to zero and the region is output as block.
type Nested struct {
	out        NestedOutput
	formatter  *format.Formatter
	quirks     assembler.Quirks
	streamMode bool

	depth     int
	firstOpen bool // the first region is still open and has no textual close
}

// NewNested returns a nested block director.
func NewNested(out NestedOutput, formatter *format.Formatter, quirks assembler.Quirks, streamMode bool) *Nested {
	return &Nested{
		out:        out,
		formatter:  formatter,
		quirks:     quirks,
		streamMode: streamMode,
		firstOpen:  true,
	}
}

// OnChange handles a start or end event of an address region.
func (n *Nested) OnChange(change program.AddressChange) {
	region := change.Region
	if !change.IsStart {
		n.depth--
		if n.depth > 0 || !n.firstOpen {
			n.out.EndBlock()
		} else {
			n.firstOpen = false
		}
		return
	}

	if region.HasValidPreLabel() {
		n.out.Label(region.PreLabel)
	}

	address := resolveAddress(change.Address)
	if n.depth == 0 && n.firstOpen {
		if !n.streamMode {
			n.depth++
			n.out.SetPC(address)
			return
		}
		// the stream starts at zero, the first region becomes a regular block
		n.out.SetPC(0)
		n.firstOpen = false
	}

	n.out.StartBlock(n.startOperand(region, address))
	n.depth++
}

// startOperand returns the block start address, relative to the current
// program counter if the region is marked relative and the assembler
// supports relative starts.
func (n *Nested) startOperand(region *program.AddressRegion, address int) string {
	if !region.HasValidIsRelative() || n.quirks.NoRelativeRegions {
		return n.formatter.FormatHexValue(address, 4)
	}
	diff := address - region.PreLabelAddress
	if diff < 0 {
		return "*-" + n.formatter.FormatHexValue(-diff, 2)
	}
	return "*+" + n.formatter.FormatHexValue(diff, 2)
}

// Flush is a no-op, nested blocks are output immediately.
func (n *Nested) Flush() {}

// Depth returns the current region nesting depth.
func (n *Nested) Depth() int {
	return n.depth
}

// Pending returns false, nested blocks are output immediately.
func (n *Nested) Pending() bool {
	return false
}

// Finish checks that all regions were closed.
func (n *Nested) Finish() error {
	return finishError(n.depth)
}
