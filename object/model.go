package object

import (
	"strconv"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"

	"go.uber.org/zap"
)

// StdClass is the name of the class ToStdClass produces. Instances of it
// always accept dynamic properties.
const StdClass = "stdClass"

const maxDepth = 256

// Model implements construction and property access for objects, structs
// and object maps stored in one arena.
// A Model is not safe for concurrent use.
type Model struct {
	a       *arena.Arena
	classes phpcore.ClassLookup
	syms    phpcore.Interner
	std     value.Symbol
}

// New creates a model over a.
func New(a *arena.Arena, classes phpcore.ClassLookup, syms phpcore.Interner) *Model {
	return &Model{
		a:       a,
		classes: classes,
		syms:    syms,
		std:     syms.Intern([]byte(StdClass)),
	}
}

// Arena returns the arena the model operates on.
func (m *Model) Arena() *arena.Arena { return m.a }

// Instantiate creates a reference object of class with its declared
// defaults. The object handle points at a separate payload slot.
func (m *Model) Instantiate(class value.Symbol) (value.Handle, error) {
	const fn = "new"
	data, err := m.construct(fn, class, false)
	if err != nil {
		return 0, err
	}
	payload := m.a.Alloc(value.ObjPayload{Data: data})
	return m.a.Alloc(value.Object{Payload: payload}), nil
}

// NewStruct creates a struct value of class with its declared defaults.
func (m *Model) NewStruct(class value.Symbol) (value.Handle, error) {
	const fn = "struct"
	data, err := m.construct(fn, class, true)
	if err != nil {
		return 0, err
	}
	return m.a.Alloc(value.Struct{Data: data}), nil
}

// NewObjectMap creates an empty object map.
func (m *Model) NewObjectMap() value.Handle {
	return m.a.Alloc(value.ObjectMap{Props: value.NewPropertyMap(0)})
}

func (m *Model) construct(fn string, class value.Symbol, wantStruct bool) (*value.ObjectData, error) {
	def, ok := m.classes.Class(class)
	if !ok {
		if class == m.std && !wantStruct {
			return value.NewObjectData(class, 0), nil
		}
		return nil, errors.New(errors.PhaseObject, errors.KindNotFound).
			Func(fn).
			Detail("class %q not found", m.name(class)).
			Build()
	}
	switch {
	case def.IsInterface:
		return nil, m.invalid(fn, "cannot instantiate interface %s", class)
	case def.IsAbstract:
		return nil, m.invalid(fn, "cannot instantiate abstract class %s", class)
	case def.IsStruct != wantStruct:
		want, got := "class", "struct"
		if wantStruct {
			want, got = got, want
		}
		return nil, errors.New(errors.PhaseObject, errors.KindTypeMismatch).
			Func(fn).
			Want(want).
			Got(got).
			Detail("%s is a %s", m.name(class), got).
			Build()
	}

	props := m.classes.Properties(class)
	data := value.NewObjectData(class, len(props))
	for _, p := range props {
		v := p.Default
		if v == nil {
			v = value.Null{}
		}
		data.Props.Set(p.Name, m.a.Alloc(v))
	}
	return data, nil
}

// GetProp returns a copy of property name of the object, struct or object
// map at h.
func (m *Model) GetProp(h value.Handle, name value.Symbol) (value.Handle, error) {
	const fn = "get_property"
	props, err := m.props(fn, h)
	if err != nil {
		return 0, err
	}
	ph, ok := props.Get(name)
	if !ok {
		return 0, errors.New(errors.PhaseObject, errors.KindNotFound).
			Func(fn).
			Detail("undefined property $%s", m.name(name)).
			Build()
	}
	v, err := m.a.Get(ph)
	if err != nil {
		return 0, err
	}
	return m.a.Alloc(v), nil
}

// HasProp reports whether property name is set on h.
func (m *Model) HasProp(h value.Handle, name value.Symbol) (bool, error) {
	props, err := m.props("has_property", h)
	if err != nil {
		return false, err
	}
	return props.Has(name), nil
}

// Props returns the property map of h. The map is shared and must not be
// modified.
func (m *Model) Props(h value.Handle) (*value.PropertyMap, error) {
	return m.props("get_object_vars", h)
}

func (m *Model) props(fn string, h value.Handle) (*value.PropertyMap, error) {
	v, err := m.a.Get(h)
	if err != nil {
		return nil, err
	}
	switch o := v.(type) {
	case value.Object:
		data, err := m.payload(o)
		if err != nil {
			return nil, err
		}
		return data.Props, nil
	case value.Struct:
		if o.Data == nil {
			return value.NewPropertyMap(0), nil
		}
		return o.Data.Props, nil
	case value.ObjectMap:
		if o.Props == nil {
			return value.NewPropertyMap(0), nil
		}
		return o.Props, nil
	}
	return nil, notObject(fn, v)
}

func (m *Model) payload(o value.Object) (*value.ObjectData, error) {
	pv, err := m.a.Get(o.Payload)
	if err != nil {
		return nil, err
	}
	p, ok := pv.(value.ObjPayload)
	if !ok || p.Data == nil {
		return nil, errors.New(errors.PhaseObject, errors.KindInvalidHandle).
			Detail("object payload slot holds %s", value.TypeName(pv)).
			Build()
	}
	return p.Data, nil
}

// SetProp stores a copy of the value at v as property name of h. Objects
// are changed in place through their payload, so every handle to the
// object sees the write. Structs and object maps are cloned and the clone
// replaces the value at h.
func (m *Model) SetProp(h, v value.Handle, name value.Symbol) error {
	const fn = "set_property"
	nv, err := m.a.Get(v)
	if err != nil {
		return err
	}
	cur, err := m.a.Get(h)
	if err != nil {
		return err
	}
	switch o := cur.(type) {
	case value.Object:
		data, err := m.payload(o)
		if err != nil {
			return err
		}
		dynamic, err := m.checkDynamic(fn, data, name)
		if err != nil {
			return err
		}
		if dynamic {
			data.MarkDynamic(name)
		}
		data.Props.Set(name, m.a.Alloc(nv))
		return nil
	case value.Struct:
		data := o.Data
		if data == nil {
			data = value.NewObjectData(0, 0)
		}
		dynamic, err := m.checkDynamic(fn, data, name)
		if err != nil {
			return err
		}
		next := data.Clone()
		if dynamic {
			next.MarkDynamic(name)
		}
		next.Props.Set(name, m.a.Alloc(nv))
		return m.a.Set(h, value.Struct{Data: next})
	case value.ObjectMap:
		next := o.Props.Clone()
		next.Set(name, m.a.Alloc(nv))
		return m.a.Set(h, value.ObjectMap{Props: next})
	}
	return notObject(fn, cur)
}

// checkDynamic reports whether writing name adds a dynamic property, and
// rejects it when the class does not allow dynamic properties.
func (m *Model) checkDynamic(fn string, data *value.ObjectData, name value.Symbol) (bool, error) {
	if data.Props.Has(name) || m.declared(data.Class, name) {
		return false, nil
	}
	if data.Class != m.std {
		def, ok := m.classes.Class(data.Class)
		if !ok || !def.AllowDynamic {
			return false, errors.New(errors.PhaseObject, errors.KindInvalidOperation).
				Func(fn).
				Detail("cannot create dynamic property %s::$%s", m.name(data.Class), m.name(name)).
				Build()
		}
	}
	Logger().Debug("dynamic property",
		zap.String("class", m.name(data.Class)),
		zap.String("property", m.name(name)))
	return true, nil
}

func (m *Model) declared(class, name value.Symbol) bool {
	for _, p := range m.classes.Properties(class) {
		if p.Name == name {
			return true
		}
	}
	return false
}

// UnsetProp removes property name from h. Removing a missing property is
// not an error.
func (m *Model) UnsetProp(h value.Handle, name value.Symbol) error {
	const fn = "unset_property"
	cur, err := m.a.Get(h)
	if err != nil {
		return err
	}
	switch o := cur.(type) {
	case value.Object:
		data, err := m.payload(o)
		if err != nil {
			return err
		}
		data.Props.Delete(name)
		delete(data.Dynamic, name)
		return nil
	case value.Struct:
		if o.Data == nil || !o.Data.Props.Has(name) {
			return nil
		}
		next := o.Data.Clone()
		next.Props.Delete(name)
		delete(next.Dynamic, name)
		return m.a.Set(h, value.Struct{Data: next})
	case value.ObjectMap:
		if !o.Props.Has(name) {
			return nil
		}
		next := o.Props.Clone()
		next.Delete(name)
		return m.a.Set(h, value.ObjectMap{Props: next})
	}
	return notObject(fn, cur)
}

// Clone implements the clone operator. An object gets a new payload with a
// shallow copy of its properties; structs and object maps are copied by
// value.
func (m *Model) Clone(h value.Handle) (value.Handle, error) {
	const fn = "clone"
	cur, err := m.a.Get(h)
	if err != nil {
		return 0, err
	}
	switch o := cur.(type) {
	case value.Object:
		data, err := m.payload(o)
		if err != nil {
			return 0, err
		}
		payload := m.a.Alloc(value.ObjPayload{Data: data.Clone()})
		return m.a.Alloc(value.Object{Payload: payload}), nil
	case value.Struct, value.ObjectMap:
		return m.a.Alloc(cur), nil
	}
	return 0, notObject(fn, cur)
}

// Assign copies the value at h into a fresh slot the way assignment does:
// arrays, structs and object maps share data until written, objects share
// their payload.
func (m *Model) Assign(h value.Handle) (value.Handle, error) {
	return m.a.Dup(h)
}

// ClassOf returns the class of the object or struct at h. Object maps
// report stdClass.
func (m *Model) ClassOf(h value.Handle) (value.Symbol, error) {
	const fn = "get_class"
	cur, err := m.a.Get(h)
	if err != nil {
		return 0, err
	}
	switch o := cur.(type) {
	case value.Object:
		data, err := m.payload(o)
		if err != nil {
			return 0, err
		}
		return data.Class, nil
	case value.Struct:
		if o.Data == nil {
			return 0, nil
		}
		return o.Data.Class, nil
	case value.ObjectMap:
		return m.std, nil
	}
	return 0, notObject(fn, cur)
}

// IsInstanceOf reports whether h is an object or struct of class, of a
// subclass, or of a class implementing it. Non-objects are never instances.
func (m *Model) IsInstanceOf(h value.Handle, class value.Symbol) bool {
	sym, err := m.ClassOf(h)
	if err != nil {
		return false
	}
	if sym == class {
		return true
	}
	return m.classes.IsSubclassOf(sym, class)
}

// ToStdClass converts the object map at h, and every object map nested in
// it or in its array elements, into stdClass objects. Other values are
// copied unchanged.
func (m *Model) ToStdClass(h value.Handle) (value.Handle, error) {
	v, err := m.a.Get(h)
	if err != nil {
		return 0, err
	}
	return m.toStd(v, 0)
}

func (m *Model) toStd(v value.Value, depth int) (value.Handle, error) {
	if depth > maxDepth {
		return 0, errors.InvalidOperation(errors.PhaseObject, "nesting level too deep")
	}
	switch x := v.(type) {
	case value.ObjectMap:
		data := value.NewObjectData(m.std, x.Props.Len())
		var err error
		x.Props.Each(func(name value.Symbol, ph value.Handle) bool {
			var nh value.Handle
			if nh, err = m.toStd(m.a.Deref()(ph), depth+1); err != nil {
				return false
			}
			data.Props.Set(name, nh)
			data.MarkDynamic(name)
			return true
		})
		if err != nil {
			return 0, err
		}
		payload := m.a.Alloc(value.ObjPayload{Data: data})
		return m.a.Alloc(value.Object{Payload: payload}), nil
	case value.Array:
		if x.Data == nil {
			return m.a.Alloc(x), nil
		}
		out := value.NewArrayData(x.Data.Len())
		for _, ent := range x.Data.Entries() {
			nh, err := m.toStd(m.a.Deref()(ent.Value), depth+1)
			if err != nil {
				return 0, err
			}
			out.Set(ent.Key, nh)
		}
		return m.a.AllocArray(out), nil
	case value.ConstArray:
		out := value.NewArrayData(len(x.Entries))
		for _, ent := range x.Entries {
			nh, err := m.toStd(ent.Value, depth+1)
			if err != nil {
				return 0, err
			}
			out.Set(ent.Key, nh)
		}
		return m.a.AllocArray(out), nil
	}
	return m.a.Alloc(v), nil
}

func (m *Model) name(sym value.Symbol) string {
	if b, ok := m.syms.Name(sym); ok {
		return string(b)
	}
	return "#" + strconv.FormatUint(uint64(sym), 10)
}

func (m *Model) invalid(fn, format string, class value.Symbol) error {
	return errors.New(errors.PhaseObject, errors.KindInvalidOperation).
		Func(fn).
		Detail(format, m.name(class)).
		Build()
}

func notObject(fn string, v value.Value) error {
	return errors.TypeMismatch(errors.PhaseObject, fn, 1, "object", value.TypeName(v))
}
