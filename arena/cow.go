package arena

import (
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// ArrayOf returns the array stored at h for reading. A ConstArray is
// materialized into an Array in place first. The returned data is shared
// and must not be modified.
func (a *Arena) ArrayOf(h value.Handle) (*value.ArrayData, error) {
	v, err := a.Get(h)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case value.Array:
		if x.Data == nil {
			return value.NewArrayData(0), nil
		}
		return x.Data, nil
	case value.ConstArray:
		d := x.Materialize(a.Alloc)
		if err := a.Set(h, value.Array{Data: d}); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, errors.New(errors.PhaseArena, errors.KindTypeMismatch).
		Want("array").
		Got(value.TypeName(v)).
		Value(h).
		Build()
}

// ModifyArray applies fn to a private clone of the array at h and stores
// the clone back at h. Other handles sharing the old data are unaffected.
// If fn fails the slot is left untouched.
func (a *Arena) ModifyArray(h value.Handle, fn func(*value.ArrayData) error) error {
	cur, err := a.ArrayOf(h)
	if err != nil {
		return err
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return a.Set(h, value.Array{Data: next})
}

// ReplaceArray stores d at h as a new Array value.
func (a *Arena) ReplaceArray(h value.Handle, d *value.ArrayData) error {
	return a.Set(h, value.Array{Data: d})
}

// AllocArray stores d in a fresh slot.
func (a *Arena) AllocArray(d *value.ArrayData) value.Handle {
	return a.Alloc(value.Array{Data: d})
}

// AllocList stores a 0-based list of hs in a fresh slot.
func (a *Arena) AllocList(hs ...value.Handle) value.Handle {
	return a.Alloc(value.Array{Data: value.NewList(hs...)})
}

// Dup copies the value at h into a fresh slot, which is how assignment
// works: arrays and structs share their data until one side writes, and
// objects share their payload handle.
func (a *Arena) Dup(h value.Handle) (value.Handle, error) {
	v, err := a.Get(h)
	if err != nil {
		return 0, err
	}
	return a.Alloc(v), nil
}
