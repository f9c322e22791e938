package class

import (
	"fmt"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// PropDef is a declared property and its default value. Defaults are
// allocated afresh for every instance.
type PropDef struct {
	Default value.Value
	Name    value.Symbol
}

// Def describes one class, interface or struct.
type Def struct {
	Interfaces   []value.Symbol
	Props        []PropDef // own declarations, in order
	Name         value.Symbol
	Parent       value.Symbol // 0 when the class has no parent
	IsStruct     bool
	IsInterface  bool
	IsAbstract   bool
	AllowDynamic bool
}

// Namer resolves symbols for error messages.
type Namer interface {
	NameString(sym value.Symbol) (string, bool)
}

// Registry holds frozen class definitions. It is never mutated after Build
// and is safe to share between requests.
type Registry struct {
	classes   map[value.Symbol]*Def
	props     map[value.Symbol][]PropDef
	ancestors map[value.Symbol]map[value.Symbol]struct{}
	names     Namer
}

// Class returns the definition of sym.
func (r *Registry) Class(sym value.Symbol) (*Def, bool) {
	d, ok := r.classes[sym]
	return d, ok
}

// Properties returns the declared properties of sym including inherited
// ones: parent declarations first, child redeclarations overriding the
// default in place, new child properties appended.
func (r *Registry) Properties(sym value.Symbol) []PropDef {
	return r.props[sym]
}

// IsSubclassOf reports whether sym is ancestor, extends it, or implements
// it directly or through a parent.
func (r *Registry) IsSubclassOf(sym, ancestor value.Symbol) bool {
	if sym == ancestor {
		_, ok := r.classes[sym]
		return ok
	}
	_, ok := r.ancestors[sym][ancestor]
	return ok
}

// Parents returns the parent chain of sym, nearest first.
func (r *Registry) Parents(sym value.Symbol) []value.Symbol {
	var out []value.Symbol
	d, ok := r.classes[sym]
	for ok && d.Parent != 0 {
		out = append(out, d.Parent)
		d, ok = r.classes[d.Parent]
	}
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int { return len(r.classes) }

// Name returns a printable name for sym.
func (r *Registry) Name(sym value.Symbol) string {
	return symName(r.names, sym)
}

func symName(n Namer, sym value.Symbol) string {
	if n != nil {
		if s, ok := n.NameString(sym); ok {
			return s
		}
	}
	return fmt.Sprintf("#%d", sym)
}

// Builder collects definitions and validates them into a Registry.
type Builder struct {
	defs  map[value.Symbol]*Def
	order []value.Symbol
	names Namer
	err   error
}

// NewBuilder creates a builder. names may be nil.
func NewBuilder(names Namer) *Builder {
	return &Builder{
		defs:  make(map[value.Symbol]*Def),
		names: names,
	}
}

// Add registers def. The builder keeps its own copy.
func (b *Builder) Add(def Def) *Builder {
	if b.err != nil {
		return b
	}
	if def.Name == 0 {
		b.err = errors.New(errors.PhaseRuntime, errors.KindInvalidOperation).
			Detail("class definition without a name").
			Build()
		return b
	}
	if _, dup := b.defs[def.Name]; dup {
		b.err = errors.New(errors.PhaseRuntime, errors.KindInvalidOperation).
			Detail("class %s declared twice", symName(b.names, def.Name)).
			Build()
		return b
	}
	d := def
	d.Interfaces = append([]value.Symbol(nil), def.Interfaces...)
	d.Props = append([]PropDef(nil), def.Props...)
	b.defs[def.Name] = &d
	b.order = append(b.order, def.Name)
	return b
}

// Build validates every definition and returns the frozen registry.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := &Registry{
		classes:   b.defs,
		props:     make(map[value.Symbol][]PropDef, len(b.defs)),
		ancestors: make(map[value.Symbol]map[value.Symbol]struct{}, len(b.defs)),
		names:     b.names,
	}

	for _, sym := range b.order {
		if err := b.validate(b.defs[sym]); err != nil {
			return nil, err
		}
	}
	for _, sym := range b.order {
		if _, err := r.collectAncestors(sym, make(map[value.Symbol]bool)); err != nil {
			return nil, err
		}
	}
	for _, sym := range b.order {
		r.props[sym] = r.flattenProps(sym)
	}

	b.defs = nil
	b.order = nil
	return r, nil
}

func (b *Builder) validate(d *Def) error {
	name := symName(b.names, d.Name)
	if d.Parent != 0 {
		parent, ok := b.defs[d.Parent]
		if !ok {
			return errors.NotFound(errors.PhaseRuntime, "parent class", symName(b.names, d.Parent))
		}
		if parent.IsInterface && !d.IsInterface {
			return errors.New(errors.PhaseRuntime, errors.KindInvalidOperation).
				Detail("class %s cannot extend interface %s", name, symName(b.names, d.Parent)).
				Build()
		}
		if parent.IsStruct != d.IsStruct && !d.IsInterface {
			return errors.New(errors.PhaseRuntime, errors.KindTypeMismatch).
				Detail("%s and its parent %s disagree on struct semantics", name, symName(b.names, d.Parent)).
				Build()
		}
	}
	for _, iface := range d.Interfaces {
		idef, ok := b.defs[iface]
		if !ok {
			return errors.NotFound(errors.PhaseRuntime, "interface", symName(b.names, iface))
		}
		if !idef.IsInterface {
			return errors.New(errors.PhaseRuntime, errors.KindInvalidOperation).
				Detail("%s cannot implement %s: not an interface", name, symName(b.names, iface)).
				Build()
		}
	}
	return nil
}

// collectAncestors fills r.ancestors[sym] with every parent and interface
// reachable from sym, detecting inheritance cycles.
func (r *Registry) collectAncestors(sym value.Symbol, visiting map[value.Symbol]bool) (map[value.Symbol]struct{}, error) {
	if set, done := r.ancestors[sym]; done {
		return set, nil
	}
	if visiting[sym] {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidOperation).
			Detail("inheritance cycle through %s", r.Name(sym)).
			Build()
	}
	visiting[sym] = true

	d := r.classes[sym]
	set := make(map[value.Symbol]struct{})
	direct := make([]value.Symbol, 0, len(d.Interfaces)+1)
	if d.Parent != 0 {
		direct = append(direct, d.Parent)
	}
	direct = append(direct, d.Interfaces...)
	for _, up := range direct {
		set[up] = struct{}{}
		upSet, err := r.collectAncestors(up, visiting)
		if err != nil {
			return nil, err
		}
		for a := range upSet {
			set[a] = struct{}{}
		}
	}

	delete(visiting, sym)
	r.ancestors[sym] = set
	return set, nil
}

func (r *Registry) flattenProps(sym value.Symbol) []PropDef {
	d := r.classes[sym]
	var out []PropDef
	if d.Parent != 0 {
		out = append(out, r.flattenProps(d.Parent)...)
	}
	for _, p := range d.Props {
		replaced := false
		for i := range out {
			if out[i].Name == p.Name {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}
