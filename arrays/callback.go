package arrays

import (
	"context"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// Filter modes.
const (
	FilterUseBoth = 1
	FilterUseKey  = 2
)

// Map implements array_map(callback, array, ...arrays).
//
// With one array the keys are kept. With several arrays the result is a
// list and shorter arrays are padded with null. A null callback returns the
// array unchanged, or zips several arrays into a list of lists.
func (e *Engine) Map(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_map"
	if err := arity(fn, args, 2, -1); err != nil {
		return 0, err
	}
	ds, err := e.arrayArgs(fn, args, 1, len(args))
	if err != nil {
		return 0, err
	}
	cb := args[0]
	noCallback := e.isNull(cb)

	if len(ds) == 1 {
		d := ds[0]
		if noCallback {
			return e.array(d.Clone()), nil
		}
		out := value.NewArrayData(d.Len())
		for _, ent := range d.Entries() {
			r, err := e.call(ctx, fn, cb, ent.Value)
			if err != nil {
				return 0, err
			}
			out.Set(ent.Key, r)
		}
		return e.array(out), nil
	}

	longest := 0
	for _, d := range ds {
		longest = max(longest, d.Len())
	}
	null := e.null()
	out := value.NewArrayData(longest)
	row := make([]value.Handle, len(ds))
	for i := 0; i < longest; i++ {
		for j, d := range ds {
			row[j] = null
			if i < d.Len() {
				_, row[j] = d.At(i)
			}
		}
		if noCallback {
			out.Append(e.array(value.NewList(row...)))
			continue
		}
		r, err := e.call(ctx, fn, cb, row...)
		if err != nil {
			return 0, err
		}
		out.Append(r)
	}
	return e.array(out), nil
}

// Filter implements array_filter(array, callback = null, mode = 0). Keys
// are kept. Without a callback, falsy values are removed.
func (e *Engine) Filter(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_filter"
	if err := arity(fn, args, 1, 3); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	mode, err := e.optIntArg(fn, args, 2, 0)
	if err != nil {
		return 0, err
	}
	useCallback := len(args) > 1 && !e.isNull(args[1])

	out := value.NewArrayData(d.Len())
	for _, ent := range d.Entries() {
		var keep bool
		switch {
		case !useCallback:
			keep = value.ToBool(e.deref(ent.Value))
		case mode == FilterUseKey:
			keep, err = e.truthy(ctx, fn, args[1], e.keyHandle(ent.Key))
		case mode == FilterUseBoth:
			keep, err = e.truthy(ctx, fn, args[1], ent.Value, e.keyHandle(ent.Key))
		default:
			keep, err = e.truthy(ctx, fn, args[1], ent.Value)
		}
		if err != nil {
			return 0, err
		}
		if keep {
			out.Set(ent.Key, ent.Value)
		}
	}
	return e.array(out), nil
}

// Reduce implements array_reduce(array, callback, initial = null).
func (e *Engine) Reduce(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_reduce"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	var carry value.Handle
	if len(args) == 3 {
		if carry, err = e.dup(fn, args[2]); err != nil {
			return 0, err
		}
	} else {
		carry = e.null()
	}
	for _, h := range d.Values() {
		if carry, err = e.call(ctx, fn, args[1], carry, h); err != nil {
			return 0, err
		}
	}
	return carry, nil
}

// Walk implements array_walk(&array, callback, arg). The callback receives
// each element in a fresh handle it may write to; the written values are
// stored back into the array when the walk completes. If the callback
// fails the array is left untouched.
func (e *Engine) Walk(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_walk"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	if _, err := e.arrayArg(fn, args, 0); err != nil {
		return 0, err
	}
	if err := e.walk(ctx, fn, args[0], args[1], args[2:], false, 0); err != nil {
		return 0, err
	}
	return e.boolean(true), nil
}

// WalkRecursive implements array_walk_recursive(&array, callback, arg).
// Nested arrays are descended into instead of being passed to the
// callback.
func (e *Engine) WalkRecursive(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_walk_recursive"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	if _, err := e.arrayArg(fn, args, 0); err != nil {
		return 0, err
	}
	if err := e.walk(ctx, fn, args[0], args[1], args[2:], true, 0); err != nil {
		return 0, err
	}
	return e.boolean(true), nil
}

func (e *Engine) walk(ctx context.Context, fn string, h, cb value.Handle, extra []value.Handle, recursive bool, depth int) error {
	if depth > maxDepth {
		return tooDeep(fn)
	}
	d, err := e.a.ArrayOf(h)
	if err != nil {
		return errors.WithFunc(err, fn)
	}
	out := d.Clone()
	for _, ent := range d.Entries() {
		elem, err := e.dup(fn, ent.Value)
		if err != nil {
			return err
		}
		if recursive && value.IsArrayLike(e.deref(elem)) {
			if err := e.walk(ctx, fn, elem, cb, extra, true, depth+1); err != nil {
				return err
			}
		} else {
			callArgs := append([]value.Handle{elem, e.keyHandle(ent.Key)}, extra...)
			if _, err := e.call(ctx, fn, cb, callArgs...); err != nil {
				return err
			}
		}
		out.Set(ent.Key, elem)
	}
	return e.a.ReplaceArray(h, out)
}

// find returns the first entry for which cb(value, key) is truthy.
func (e *Engine) find(ctx context.Context, fn string, args []value.Handle) (value.Entry, bool, error) {
	if err := arity(fn, args, 2, 2); err != nil {
		return value.Entry{}, false, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return value.Entry{}, false, err
	}
	for _, ent := range d.Entries() {
		ok, err := e.truthy(ctx, fn, args[1], ent.Value, e.keyHandle(ent.Key))
		if err != nil {
			return value.Entry{}, false, err
		}
		if ok {
			return ent, true, nil
		}
	}
	return value.Entry{}, false, nil
}

// Find implements array_find(array, callback). It returns the first
// matching value or null.
func (e *Engine) Find(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	ent, ok, err := e.find(ctx, "array_find", args)
	if err != nil {
		return 0, err
	}
	if !ok {
		return e.null(), nil
	}
	return e.result(ent.Value), nil
}

// FindKey implements array_find_key(array, callback). It returns the first
// matching key or null.
func (e *Engine) FindKey(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	ent, ok, err := e.find(ctx, "array_find_key", args)
	if err != nil {
		return 0, err
	}
	if !ok {
		return e.null(), nil
	}
	return e.keyHandle(ent.Key), nil
}

// Any implements array_any(array, callback).
func (e *Engine) Any(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	_, ok, err := e.find(ctx, "array_any", args)
	if err != nil {
		return 0, err
	}
	return e.boolean(ok), nil
}

// All implements array_all(array, callback).
func (e *Engine) All(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_all"
	if err := arity(fn, args, 2, 2); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	for _, ent := range d.Entries() {
		ok, err := e.truthy(ctx, fn, args[1], ent.Value, e.keyHandle(ent.Key))
		if err != nil {
			return 0, err
		}
		if !ok {
			return e.boolean(false), nil
		}
	}
	return e.boolean(true), nil
}
