// Package label converts program labels to legal label names of a dialect.
package label

import (
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/srcgen/internal/program"
	"github.com/retroenv/srcgen/internal/symbols"
)

// Config configures the label rules of a dialect.
type Config struct {
	LocalPrefix       string   // prefix of local labels, empty if not supported
	VariablePrefix    string   // prefix of redefinable variables
	IllegalFirstChars string   // characters that a global label can not start with
	ReservedWords     []string // names that can not be used as label, compared case insensitive
}

// Localizer converts program labels to dialect legal names. Local labels
// that are referenced from outside of their global label scope are promoted
// to global labels.
type Localizer struct {
	prog     *program.Program
	cfg      Config
	reserved set.Set[string]
	local    set.Set[string]
	promoted set.Set[string]
	names    *symbols.Table[string, string]
}

// New returns a new localizer for the program.
func New(prog *program.Program, cfg Config) *Localizer {
	reserved := set.New[string]()
	for _, word := range cfg.ReservedWords {
		reserved.Add(strings.ToLower(word))
	}
	return &Localizer{
		prog:     prog,
		cfg:      cfg,
		reserved: reserved,
		local:    set.New[string](),
		promoted: set.New[string](),
		names:    symbols.New[string, string](),
	}
}

// Analyze determines the local labels and the dialect names of all labels.
// It has to be called before converting labels.
func (l *Localizer) Analyze() {
	l.local = set.New[string]()
	l.promoted = set.New[string]()
	if l.cfg.LocalPrefix != "" {
		for _, sym := range l.prog.Labels() {
			if sym.Local {
				l.local.Add(sym.Label)
			}
		}
		// promoting a label starts a new scope, which can invalidate other
		// local references, repeat until no further label is promoted
		for promoted := true; promoted; {
			promoted = l.promoteCrossScopeLabels()
		}
	}

	l.names = symbols.New[string, string]()
	used := set.New[string]()
	for _, sym := range l.prog.Symbols.Sorted() {
		name := l.legalName(sym.Label)
		if !l.IsLocal(sym.Label) {
			for base, i := name, 2; used.Contains(strings.ToLower(name)); i++ {
				name = base + "_" + strconv.Itoa(i)
			}
			used.Add(strings.ToLower(name))
		}
		l.names.Set(sym.Label, name)
	}
}

// ConvLabel returns the dialect name of a label.
func (l *Localizer) ConvLabel(name string) string {
	converted, ok := l.names.Get(name)
	if !ok {
		converted = l.legalName(name)
	}
	if l.IsLocal(name) {
		return l.cfg.LocalPrefix + converted
	}
	return converted
}

// IsLocal returns whether the label is output as local label.
func (l *Localizer) IsLocal(name string) bool {
	return l.local.Contains(name) && !l.promoted.Contains(name)
}

// FormatVariableLabel returns the dialect name of a redefinable variable.
func (l *Localizer) FormatVariableLabel(name string) string {
	return l.cfg.VariablePrefix + l.ConvLabel(name)
}

// promoteCrossScopeLabels promotes all local labels to global labels that
// are referenced from a different scope, it returns whether any label was promoted.
func (l *Localizer) promoteCrossScopeLabels() bool {
	scopes := l.scopes()
	promoted := false

	for offset := range l.prog.Offsets {
		target, ok := l.referencedLabel(offset)
		if !ok || !l.IsLocal(target) {
			continue
		}
		sym, ok := l.prog.Symbols.Get(target)
		if !ok || sym.Offset < 0 {
			continue
		}
		if scopes[offset] != scopes[sym.Offset] {
			l.promoted.Add(target)
			promoted = true
		}
	}
	return promoted
}

// referencedLabel returns the label that the operand at the offset refers
// to. Branches and jumps without symbol reference the label of their target.
func (l *Localizer) referencedLabel(offset int) (string, bool) {
	o := &l.prog.Offsets[offset]
	branch := o.IsType(program.CodeOffset) && o.Opcode.IsBranch()
	if !branch && o.Format != nil && o.Format.Symbol != nil {
		return o.Format.Symbol.Label, true
	}

	address, ok := l.prog.TransferTarget(offset)
	if !ok {
		return "", false
	}
	target, ok := l.prog.OffsetForAddress(address, offset)
	if !ok || l.prog.Offsets[target].Label == "" {
		return "", false
	}
	return l.prog.Offsets[target].Label, true
}

// scopes returns the global label scope index for every offset.
func (l *Localizer) scopes() []int {
	scopes := make([]int, len(l.prog.Offsets))
	scope := 0
	for offset, o := range l.prog.Offsets {
		if o.Label != "" && !l.IsLocal(o.Label) {
			scope++
		}
		scopes[offset] = scope
	}
	return scopes
}

// legalName renames labels that are illegal in the dialect.
func (l *Localizer) legalName(name string) string {
	if name == "" {
		return name
	}
	if strings.ContainsRune(l.cfg.IllegalFirstChars, rune(name[0])) {
		name = "L" + name
	}
	if l.reserved.Contains(strings.ToLower(name)) {
		name += "_"
	}
	return name
}
