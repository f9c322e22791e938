package class

import (
	"testing"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/symbol"
	"github.com/wippyai/phpcore/value"
)

func TestRegistry_Properties(t *testing.T) {
	st := symbol.NewTable()
	base := st.InternString("Base")
	child := st.InternString("Child")
	a, b, c := st.InternString("a"), st.InternString("b"), st.InternString("c")

	r, err := NewBuilder(st).
		Add(Def{Name: base, Props: []PropDef{{Name: a, Default: value.Int(1)}, {Name: b, Default: value.Int(2)}}}).
		Add(Def{Name: child, Parent: base, Props: []PropDef{{Name: c, Default: value.Int(3)}, {Name: a, Default: value.Int(10)}}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	props := r.Properties(child)
	want := []struct {
		name value.Symbol
		def  value.Value
	}{{a, value.Int(10)}, {b, value.Int(2)}, {c, value.Int(3)}}
	if len(props) != len(want) {
		t.Fatalf("got %d props, want %d", len(props), len(want))
	}
	for i, w := range want {
		if props[i].Name != w.name || props[i].Default != w.def {
			t.Errorf("prop %d = %v %v, want %v %v", i, props[i].Name, props[i].Default, w.name, w.def)
		}
	}

	if got := r.Properties(base); len(got) != 2 || got[0].Default != value.Int(1) {
		t.Errorf("base props modified by child: %v", got)
	}
}

func TestRegistry_IsSubclassOf(t *testing.T) {
	st := symbol.NewTable()
	countable := st.InternString("Countable")
	shape := st.InternString("Shape")
	square := st.InternString("Square")
	other := st.InternString("Other")

	r, err := NewBuilder(st).
		Add(Def{Name: countable, IsInterface: true}).
		Add(Def{Name: shape, IsAbstract: true, Interfaces: []value.Symbol{countable}}).
		Add(Def{Name: square, Parent: shape}).
		Add(Def{Name: other}).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		sym, anc value.Symbol
		want     bool
	}{
		{square, shape, true},
		{square, countable, true},
		{square, square, true},
		{shape, square, false},
		{other, countable, false},
	}
	for _, tt := range tests {
		if got := r.IsSubclassOf(tt.sym, tt.anc); got != tt.want {
			t.Errorf("IsSubclassOf(%s, %s) = %v", r.Name(tt.sym), r.Name(tt.anc), got)
		}
	}

	parents := r.Parents(square)
	if len(parents) != 1 || parents[0] != shape {
		t.Errorf("Parents = %v", parents)
	}
}

func TestBuilder_Errors(t *testing.T) {
	st := symbol.NewTable()
	a := st.InternString("A")
	b := st.InternString("B")
	i := st.InternString("I")
	missing := st.InternString("Missing")

	tests := []struct {
		name string
		defs []Def
		kind errors.Kind
	}{
		{"missing parent", []Def{{Name: a, Parent: missing}}, errors.KindNotFound},
		{"missing interface", []Def{{Name: a, Interfaces: []value.Symbol{missing}}}, errors.KindNotFound},
		{"duplicate", []Def{{Name: a}, {Name: a}}, errors.KindInvalidOperation},
		{"cycle", []Def{{Name: a, Parent: b}, {Name: b, Parent: a}}, errors.KindInvalidOperation},
		{"implements class", []Def{{Name: b}, {Name: a, Interfaces: []value.Symbol{b}}}, errors.KindInvalidOperation},
		{"extends interface", []Def{{Name: i, IsInterface: true}, {Name: a, Parent: i}}, errors.KindInvalidOperation},
		{"struct extends class", []Def{{Name: b}, {Name: a, Parent: b, IsStruct: true}}, errors.KindTypeMismatch},
		{"unnamed", []Def{{}}, errors.KindInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bld := NewBuilder(st)
			for _, d := range tt.defs {
				bld.Add(d)
			}
			_, err := bld.Build()
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}
