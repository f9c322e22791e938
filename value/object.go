package value

// PropertyMap is an insertion-ordered map from property name to Handle.
type PropertyMap struct {
	m omap[Symbol]
}

// NewPropertyMap returns an empty property map.
func NewPropertyMap(capacity int) *PropertyMap {
	return &PropertyMap{m: newOmap[Symbol](capacity)}
}

func (p *PropertyMap) Len() int {
	if p == nil {
		return 0
	}
	return p.m.len()
}

func (p *PropertyMap) Get(name Symbol) (Handle, bool) {
	if p == nil {
		return 0, false
	}
	return p.m.get(name)
}

func (p *PropertyMap) Has(name Symbol) bool {
	_, ok := p.Get(name)
	return ok
}

// Set stores h under name, keeping the position of an existing property.
func (p *PropertyMap) Set(name Symbol, h Handle) { p.m.set(name, h) }

func (p *PropertyMap) Delete(name Symbol) bool { return p.m.delete(name) }

// At returns the property at position i.
func (p *PropertyMap) At(i int) (Symbol, Handle) { return p.m.keys[i], p.m.vals[i] }

// Names returns the property names in order.
func (p *PropertyMap) Names() []Symbol {
	if p == nil {
		return nil
	}
	out := make([]Symbol, len(p.m.keys))
	copy(out, p.m.keys)
	return out
}

// Each calls fn for every property in order until fn returns false.
func (p *PropertyMap) Each(fn func(Symbol, Handle) bool) {
	if p == nil {
		return
	}
	for i := range p.m.keys {
		if !fn(p.m.keys[i], p.m.vals[i]) {
			return
		}
	}
}

// Clone returns a copy sharing the property handles.
func (p *PropertyMap) Clone() *PropertyMap {
	if p == nil {
		return NewPropertyMap(0)
	}
	return &PropertyMap{m: p.m.clone()}
}

// ObjectData is the body of a struct or an object: class, properties,
// an optional native payload and the names of dynamically added properties.
type ObjectData struct {
	Internal any
	Props    *PropertyMap
	Dynamic  map[Symbol]struct{}
	Class    Symbol
}

// NewObjectData returns an empty body for class.
func NewObjectData(class Symbol, capacity int) *ObjectData {
	return &ObjectData{Class: class, Props: NewPropertyMap(capacity)}
}

// Clone copies the property map and dynamic set. Property handles and the
// internal payload are shared.
func (o *ObjectData) Clone() *ObjectData {
	c := &ObjectData{
		Class:    o.Class,
		Props:    o.Props.Clone(),
		Internal: o.Internal,
	}
	if len(o.Dynamic) > 0 {
		c.Dynamic = make(map[Symbol]struct{}, len(o.Dynamic))
		for k := range o.Dynamic {
			c.Dynamic[k] = struct{}{}
		}
	}
	return c
}

// MarkDynamic records name as a dynamically added property.
func (o *ObjectData) MarkDynamic(name Symbol) {
	if o.Dynamic == nil {
		o.Dynamic = make(map[Symbol]struct{})
	}
	o.Dynamic[name] = struct{}{}
}

// IsDynamic reports whether name was added dynamically.
func (o *ObjectData) IsDynamic(name Symbol) bool {
	_, ok := o.Dynamic[name]
	return ok
}
