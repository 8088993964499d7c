package program

import (
	"errors"
	"fmt"
	"slices"
)

// NonAddressable marks file offsets that have no address in the target address space.
const NonAddressable = -1

var errRegionOverlap = errors.New("address regions overlap")

// AddressRegion maps a range of file offsets to a range of addresses.
type AddressRegion struct {
	Offset     int
	Length     int
	Address    int    // address of the first byte or NonAddressable
	PreLabel   string // label placed at the region start in the parent address space
	IsRelative bool   // render the start address relative to the parent program counter

	// PreLabelAddress is the address of the region start in the parent region,
	// it is computed by the address map.
	PreLabelAddress int
}

// End returns the offset following the last byte of the region.
func (r *AddressRegion) End() int {
	return r.Offset + r.Length
}

// HasValidPreLabel returns whether the region has a pre-label that can be placed.
func (r *AddressRegion) HasValidPreLabel() bool {
	return r.PreLabel != "" && r.PreLabelAddress != NonAddressable
}

// HasValidIsRelative returns whether the relative flag can be honored.
func (r *AddressRegion) HasValidIsRelative() bool {
	return r.IsRelative && r.PreLabelAddress != NonAddressable && r.Address != NonAddressable
}

// addressAt returns the address of the given offset inside the region.
func (r *AddressRegion) addressAt(offset int) int {
	if r.Address == NonAddressable {
		return NonAddressable
	}
	return r.Address + offset - r.Offset
}

// AddressChange is an event caused by the start or end of an address region.
type AddressChange struct {
	IsStart bool
	IsFirst bool // first start event of the map
	Offset  int
	Address int // address in effect after the change
	Region  *AddressRegion
}

// AddressMap contains strictly nested address regions over a file.
type AddressMap struct {
	length  int
	regions []*AddressRegion // ordered by offset, outer regions first
}

// NewAddressMap returns an empty address map for a file of the given length.
func NewAddressMap(length int) *AddressMap {
	return &AddressMap{
		length: length,
	}
}

// Length returns the length of the mapped file.
func (m *AddressMap) Length() int {
	return m.length
}

// Add adds a region to the map. Regions must not partially overlap.
func (m *AddressMap) Add(region AddressRegion) error {
	if region.Offset < 0 || region.Length <= 0 || region.End() > m.length {
		return fmt.Errorf("region at offset $%04x with length %d exceeds file length %d",
			region.Offset, region.Length, m.length)
	}
	if region.Address < NonAddressable {
		return fmt.Errorf("invalid region address %d", region.Address)
	}

	for _, existing := range m.regions {
		if region.Offset == existing.Offset && region.Length == existing.Length {
			return fmt.Errorf("%w: duplicate region at offset $%04x", errRegionOverlap, region.Offset)
		}
		disjoint := region.End() <= existing.Offset || existing.End() <= region.Offset
		inside := region.Offset >= existing.Offset && region.End() <= existing.End()
		outside := existing.Offset >= region.Offset && existing.End() <= region.End()
		if !disjoint && !inside && !outside {
			return fmt.Errorf("%w: offset $%04x and $%04x", errRegionOverlap, region.Offset, existing.Offset)
		}
	}

	r := region
	m.regions = append(m.regions, &r)
	slices.SortStableFunc(m.regions, func(a, b *AddressRegion) int {
		if a.Offset != b.Offset {
			return a.Offset - b.Offset
		}
		return b.Length - a.Length
	})
	m.updatePreLabelAddresses()
	return nil
}

// Regions returns a copy of all regions ordered by offset, outer regions first.
func (m *AddressMap) Regions() []AddressRegion {
	regions := make([]AddressRegion, 0, len(m.regions))
	for _, r := range m.regions {
		regions = append(regions, *r)
	}
	return regions
}

// AddressOf returns the address of the given offset, using the innermost region.
func (m *AddressMap) AddressOf(offset int) int {
	var inner *AddressRegion
	for _, r := range m.regions {
		if r.Offset > offset {
			break
		}
		if offset < r.End() {
			inner = r
		}
	}
	if inner == nil {
		return NonAddressable
	}
	return inner.addressAt(offset)
}

// IsRangeUnbroken returns whether no region starts or ends inside the given range.
func (m *AddressMap) IsRangeUnbroken(offset, length int) bool {
	end := offset + length
	for _, r := range m.regions {
		if r.Offset > offset && r.Offset < end {
			return false
		}
		if r.End() > offset && r.End() < end {
			return false
		}
	}
	return true
}

// HighestAddress returns the highest address that any offset maps to.
func (m *AddressMap) HighestAddress() int {
	highest := NonAddressable
	for _, r := range m.regions {
		if r.Address == NonAddressable {
			continue
		}
		highest = max(highest, r.Address+r.Length-1)
	}
	return highest
}

// FirstAddress returns the address of the first addressable region, or
// NonAddressable if no region has an address.
func (m *AddressMap) FirstAddress() int {
	for _, r := range m.regions {
		if r.Address != NonAddressable {
			return r.Address
		}
	}
	return NonAddressable
}

// Changes returns all region start and end events in file order. Ends are
// reported before starts at the same offset, inner regions end first and
// outer regions start first.
func (m *AddressMap) Changes() []AddressChange {
	changes := make([]AddressChange, 0, 2*len(m.regions))
	var stack []*AddressRegion

	popUntil := func(offset int) {
		for len(stack) > 0 && stack[len(stack)-1].End() <= offset {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			address := NonAddressable
			if len(stack) > 0 {
				address = stack[len(stack)-1].addressAt(top.End())
			}
			changes = append(changes, AddressChange{
				Offset:  top.End(),
				Address: address,
				Region:  top,
			})
		}
	}

	for i, r := range m.regions {
		popUntil(r.Offset)
		stack = append(stack, r)
		changes = append(changes, AddressChange{
			IsStart: true,
			IsFirst: i == 0,
			Offset:  r.Offset,
			Address: r.Address,
			Region:  r,
		})
	}
	popUntil(m.length + 1)
	return changes
}

// Iterator returns an iterator over the address change events.
func (m *AddressMap) Iterator() *ChangeIterator {
	return &ChangeIterator{changes: m.Changes()}
}

func (m *AddressMap) updatePreLabelAddresses() {
	var stack []*AddressRegion
	for _, r := range m.regions {
		for len(stack) > 0 && stack[len(stack)-1].End() <= r.Offset {
			stack = stack[:len(stack)-1]
		}
		r.PreLabelAddress = NonAddressable
		if len(stack) > 0 {
			r.PreLabelAddress = stack[len(stack)-1].addressAt(r.Offset)
		}
		stack = append(stack, r)
	}
}

// ChangeIterator walks the address change events of a map in order.
type ChangeIterator struct {
	changes []AddressChange
	pos     int
}

// Peek returns the next change without consuming it.
func (it *ChangeIterator) Peek() (AddressChange, bool) {
	if it.pos >= len(it.changes) {
		return AddressChange{}, false
	}
	return it.changes[it.pos], true
}

// Next returns and consumes the next change.
func (it *ChangeIterator) Next() (AddressChange, bool) {
	change, ok := it.Peek()
	if ok {
		it.pos++
	}
	return change, ok
}
