package codec

import (
	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
const DefaultMaxDepth = 512

// Options controls decoding.
type Options struct {
	// Assoc decodes objects into arrays instead of object maps.
	Assoc bool
	// MaxDepth limits nesting in both directions. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Codec encodes and decodes values of one arena.
type Codec struct {
	a     *arena.Arena
	names phpcore.Interner
	opts  Options
}

// New creates a codec. names resolves property names of objects and is
// required to decode into object maps.
func New(a *arena.Arena, names phpcore.Interner, opts *Options) *Codec {
	c := &Codec{a: a, names: names}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.MaxDepth <= 0 {
		c.opts.MaxDepth = DefaultMaxDepth
	}
	return c
}

// fields returns the ordered properties of an object-like value, or false
// when v is not one.
func (c *Codec) fields(v value.Value) (*value.PropertyMap, bool) {
	switch o := v.(type) {
	case value.Object:
		pv, err := c.a.Get(o.Payload)
		if err != nil {
			return nil, false
		}
		if p, ok := pv.(value.ObjPayload); ok && p.Data != nil {
			return p.Data.Props, true
		}
		return value.NewPropertyMap(0), true
	case value.Struct:
		if o.Data == nil {
			return value.NewPropertyMap(0), true
		}
		return o.Data.Props, true
	case value.ObjectMap:
		return o.Props, true
	}
	return nil, false
}

func (c *Codec) propName(sym value.Symbol) (string, error) {
	if c.names != nil {
		if b, ok := c.names.Name(sym); ok {
			return string(b), nil
		}
	}
	return "", errors.New(errors.PhaseCodec, errors.KindNotFound).
		Detail("no name for property symbol %d", sym).
		Build()
}

func (c *Codec) intern(name string) (value.Symbol, error) {
	if c.names == nil {
		return 0, errors.New(errors.PhaseCodec, errors.KindInvalidOperation).
			Detail("decoding objects requires an interner").
			Build()
	}
	return c.names.Intern([]byte(name)), nil
}

func (c *Codec) objectMap(keys []string, vals []value.Handle) (value.Handle, error) {
	props := value.NewPropertyMap(len(keys))
	for i, k := range keys {
		sym, err := c.intern(k)
		if err != nil {
			return 0, err
		}
		props.Set(sym, vals[i])
	}
	return c.a.Alloc(value.ObjectMap{Props: props}), nil
}

func tooDeep(fn string) error {
	return errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
		Func(fn).
		Detail("maximum nesting depth exceeded").
		Build()
}

func unsupported(fn string, v value.Value) error {
	return errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
		Func(fn).
		Got(value.TypeName(v)).
		Detail("type is not supported").
		Build()
}
