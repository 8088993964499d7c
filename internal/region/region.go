// Package region converts address map changes to the region directives of
// an assembler, either as nested blocks or as deferred program counter changes.
package region

import (
	"errors"
	"fmt"

	"github.com/retroenv/srcgen/internal/program"
)

var errUnbalanced = errors.New("unbalanced address regions")

// Director converts address region changes to directives. The state of a
// director is valid for a single generation pass.
type Director interface {
	// OnChange handles a start or end event of an address region.
	OnChange(change program.AddressChange)
	// Flush outputs a buffered program counter change.
	Flush()
	// Depth returns the current region nesting depth.
	Depth() int
	// Pending returns whether a program counter change is buffered.
	Pending() bool
	// Finish discards buffered changes and checks that all regions were closed.
	Finish() error
}

// Output receives the directives of a director.
type Output interface {
	// Label outputs a label on its own line.
	Label(name string)
	// SetPC outputs a directive that sets the program counter.
	SetPC(address int)
}

// NestedOutput receives the directives of a nested block director.
type NestedOutput interface {
	Output
	// StartBlock outputs the start of a pseudo program counter block.
	StartBlock(operand string)
	// EndBlock outputs the end of a pseudo program counter block.
	EndBlock()
}

// resolveAddress translates the non addressable marker to address zero.
func resolveAddress(address int) int {
	if address == program.NonAddressable {
		return 0
	}
	return address
}

func finishError(depth int) error {
	if depth != 0 {
		return fmt.Errorf("%w: nesting depth %d at end of pass", errUnbalanced, depth)
	}
	return nil
}
