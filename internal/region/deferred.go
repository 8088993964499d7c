package region

import "github.com/retroenv/srcgen/internal/program"

// Deferred buffers program counter changes and outputs only the last one
// before the next output line. Regions with a pre-label or a relative
// address force the output of a buffered change, as the label has to be
// placed at the address of the parent region.
type Deferred struct {
	out Output

	depth        int
	pending      int
	hasPending   bool
	relativeMode bool // output starts immediately until the next flush
}

// NewDeferred returns a deferred program counter director.
func NewDeferred(out Output) *Deferred {
	return &Deferred{
		out: out,
	}
}

// OnChange handles a start or end event of an address region.
func (d *Deferred) OnChange(change program.AddressChange) {
	next := resolveAddress(change.Address)
	if !change.IsStart {
		d.depth--
		d.pending = next
		d.hasPending = true
		return
	}

	d.depth++
	region := change.Region
	if region.HasValidPreLabel() || region.HasValidIsRelative() {
		d.flushPending()
		if region.HasValidPreLabel() {
			d.out.Label(region.PreLabel)
		}
	}
	if region.HasValidIsRelative() {
		d.relativeMode = true
	}

	if d.relativeMode {
		d.out.SetPC(next)
		d.hasPending = false
		return
	}
	d.pending = next
	d.hasPending = true
}

// Flush outputs a buffered program counter change and ends the relative mode.
func (d *Deferred) Flush() {
	d.flushPending()
	d.relativeMode = false
}

func (d *Deferred) flushPending() {
	if !d.hasPending {
		return
	}
	d.out.SetPC(d.pending)
	d.hasPending = false
}

// Depth returns the current region nesting depth.
func (d *Deferred) Depth() int {
	return d.depth
}

// Pending returns whether a program counter change is buffered.
func (d *Deferred) Pending() bool {
	return d.hasPending
}

// Finish discards a buffered change and checks that all regions were closed.
func (d *Deferred) Finish() error {
	d.hasPending = false
	d.relativeMode = false
	return finishError(d.depth)
}
