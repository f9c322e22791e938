package arrays

import (
	"context"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// window resolves an offset and optional length against n elements the way
// array_slice and array_splice do. Negative offsets count from the end; a
// negative length stops that many elements before the end.
func window(n int, offset int64, length *int64) (start, end int) {
	switch {
	case offset > int64(n):
		return n, n
	case offset < 0:
		offset += int64(n)
		if offset < 0 {
			offset = 0
		}
	}
	start = int(offset)
	end = n
	if length != nil {
		l := *length
		switch {
		case l < 0:
			end = n + int(max(l, -int64(n)))
		case l < int64(n-start):
			end = start + int(l)
		}
	}
	if end < start {
		end = start
	}
	return start, end
}

func (e *Engine) lengthArg(fn string, args []value.Handle, i int) (*int64, error) {
	if i >= len(args) || e.isNull(args[i]) {
		return nil, nil
	}
	l, err := e.intArg(fn, args, i)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Slice implements array_slice(array, offset, length = null,
// preserve_keys = false). String keys are always preserved.
func (e *Engine) Slice(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_slice"
	if err := arity(fn, args, 2, 4); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	offset, err := e.intArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	length, err := e.lengthArg(fn, args, 2)
	if err != nil {
		return 0, err
	}
	preserve, err := e.optBoolArg(fn, args, 3, false)
	if err != nil {
		return 0, err
	}

	start, end := window(d.Len(), offset, length)
	out := value.NewArrayData(end - start)
	for i := start; i < end; i++ {
		k, h := d.At(i)
		if k.IsStr() || preserve {
			out.Set(k, h)
		} else {
			out.Append(h)
		}
	}
	return e.array(out), nil
}

// Splice implements array_splice(&array, offset, length = null,
// replacement = []). It returns the removed elements. The modified array
// has its integer keys renumbered.
func (e *Engine) Splice(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_splice"
	if err := arity(fn, args, 2, 4); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	offset, err := e.intArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	length, err := e.lengthArg(fn, args, 2)
	if err != nil {
		return 0, err
	}
	var replacement []value.Handle
	if len(args) == 4 {
		if replacement, err = e.replacementValues(fn, args[3]); err != nil {
			return 0, err
		}
	}

	start, end := window(d.Len(), offset, length)
	removed := value.NewArrayData(end - start)
	out := value.NewArrayData(d.Len() - (end - start) + len(replacement))
	keep := func(k value.ArrayKey, h value.Handle) {
		if k.IsStr() {
			out.Set(k, h)
		} else {
			out.Append(h)
		}
	}
	for i := 0; i < start; i++ {
		keep(d.At(i))
	}
	for i := start; i < end; i++ {
		k, h := d.At(i)
		if k.IsStr() {
			removed.Set(k, h)
		} else {
			removed.Append(h)
		}
	}
	for _, h := range replacement {
		out.Append(h)
	}
	for i := end; i < d.Len(); i++ {
		keep(d.At(i))
	}

	if err := e.a.ReplaceArray(args[0], out); err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	e.cursors.Forget(args[0])
	return e.array(removed), nil
}

// replacementValues reads the replacement of array_splice: the values of
// an array, nothing for null, or the value itself.
func (e *Engine) replacementValues(fn string, h value.Handle) ([]value.Handle, error) {
	v, err := e.get(fn, h)
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case value.Array, value.ConstArray:
		d, err := e.a.ArrayOf(h)
		if err != nil {
			return nil, errors.WithFunc(err, fn)
		}
		return d.Values(), nil
	case value.Null:
		return nil, nil
	}
	return []value.Handle{e.alloc(v)}, nil
}

// Reverse implements array_reverse(array, preserve_keys = false). String
// keys are always preserved.
func (e *Engine) Reverse(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_reverse"
	if err := arity(fn, args, 1, 2); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	preserve, err := e.optBoolArg(fn, args, 1, false)
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(d.Len())
	for i := d.Len() - 1; i >= 0; i-- {
		k, h := d.At(i)
		if k.IsStr() || preserve {
			out.Set(k, h)
		} else {
			out.Append(h)
		}
	}
	return e.array(out), nil
}

// Push implements array_push(&array, ...values) and returns the new count.
func (e *Engine) Push(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_push"
	if err := arity(fn, args, 1, -1); err != nil {
		return 0, err
	}
	if _, err := e.arrayArg(fn, args, 0); err != nil {
		return 0, err
	}
	var n int
	err := e.a.ModifyArray(args[0], func(d *value.ArrayData) error {
		for _, h := range args[1:] {
			c, err := e.dup(fn, h)
			if err != nil {
				return err
			}
			if _, ok := d.Append(c); !ok {
				return appendFailed(fn)
			}
		}
		n = d.Len()
		return nil
	})
	if err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	return e.alloc(value.Int(n)), nil
}

// Pop implements array_pop(&array). It returns null for an empty array.
func (e *Engine) Pop(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.takeEdge("array_pop", args, true)
}

// Shift implements array_shift(&array). Integer keys of the remaining
// elements are renumbered.
func (e *Engine) Shift(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.takeEdge("array_shift", args, false)
}

func (e *Engine) takeEdge(fn string, args []value.Handle, last bool) (value.Handle, error) {
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	if d.Len() == 0 {
		return e.null(), nil
	}

	var out *value.ArrayData
	var taken value.Handle
	if last {
		k, h := d.At(d.Len() - 1)
		taken = h
		out = d.Clone()
		out.Delete(k)
		out.RecomputeNextFree()
	} else {
		k, h := d.At(0)
		taken = h
		rest := d.Clone()
		rest.Delete(k)
		out = rest.Renumbered()
	}
	if err := e.a.ReplaceArray(args[0], out); err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	e.cursors.Forget(args[0])
	return e.result(taken), nil
}

// Unshift implements array_unshift(&array, ...values) and returns the new
// count.
func (e *Engine) Unshift(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_unshift"
	if err := arity(fn, args, 1, -1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(d.Len() + len(args) - 1)
	for _, h := range args[1:] {
		c, err := e.dup(fn, h)
		if err != nil {
			return 0, err
		}
		out.Append(c)
	}
	for _, ent := range d.Entries() {
		if ent.Key.IsStr() {
			out.Set(ent.Key, ent.Value)
		} else {
			out.Append(ent.Value)
		}
	}
	if err := e.a.ReplaceArray(args[0], out); err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	e.cursors.Forget(args[0])
	return e.alloc(value.Int(out.Len())), nil
}
