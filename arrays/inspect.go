package arrays

import (
	"context"
	"math"
	"math/bits"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// CountRecursive is the mode argument of count that includes nested arrays.
const CountRecursive = 1

// Count implements count(array, mode = 0).
func (e *Engine) Count(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "count"
	if err := arity(fn, args, 1, 2); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	mode, err := e.optIntArg(fn, args, 1, 0)
	if err != nil {
		return 0, err
	}
	switch mode {
	case 0:
		return e.alloc(value.Int(d.Len())), nil
	case CountRecursive:
		n, err := e.countRecursive(fn, d, 0)
		if err != nil {
			return 0, err
		}
		return e.alloc(value.Int(n)), nil
	}
	return 0, errors.InvalidArgument(fn, 2, "must be either COUNT_NORMAL or COUNT_RECURSIVE")
}

func (e *Engine) countRecursive(fn string, d *value.ArrayData, depth int) (int, error) {
	if depth > maxDepth {
		return 0, tooDeep(fn)
	}
	n := d.Len()
	var err error
	d.Each(func(_ value.ArrayKey, h value.Handle) bool {
		if !value.IsArrayLike(e.deref(h)) {
			return true
		}
		sub, aerr := e.a.ArrayOf(h)
		if aerr != nil {
			err = aerr
			return false
		}
		var c int
		c, err = e.countRecursive(fn, sub, depth+1)
		n += c
		return err == nil
	})
	return n, err
}

// KeyExists implements array_key_exists(key, array).
func (e *Engine) KeyExists(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_key_exists"
	if err := arity(fn, args, 2, 2); err != nil {
		return 0, err
	}
	k, err := e.keyArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	return e.boolean(d.Has(k)), nil
}

// keyArg coerces args[i] to an array key.
func (e *Engine) keyArg(fn string, args []value.Handle, i int) (value.ArrayKey, error) {
	v, err := e.get(fn, args[i])
	if err != nil {
		return value.ArrayKey{}, err
	}
	k, ok := value.ToArrayKey(v)
	if !ok {
		kerr := errors.KeyCoercion(fn, value.TypeName(v))
		kerr.Arg = i + 1
		return value.ArrayKey{}, kerr
	}
	return k, nil
}

// search returns the first key whose value equals needle.
func (e *Engine) search(needle value.Value, d *value.ArrayData, strict bool) (value.ArrayKey, bool) {
	deref := e.a.Deref()
	var (
		found value.ArrayKey
		ok    bool
	)
	d.Each(func(k value.ArrayKey, h value.Handle) bool {
		v := e.deref(h)
		if strict {
			ok = value.StrictEquals(needle, v, deref)
		} else {
			ok = value.LooseEquals(needle, v, deref)
		}
		if ok {
			found = k
		}
		return !ok
	})
	return found, ok
}

// InArray implements in_array(needle, haystack, strict = false).
func (e *Engine) InArray(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "in_array"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	needle, err := e.get(fn, args[0])
	if err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	strict, err := e.optBoolArg(fn, args, 2, false)
	if err != nil {
		return 0, err
	}
	_, ok := e.search(needle, d, strict)
	return e.boolean(ok), nil
}

// Search implements array_search(needle, haystack, strict = false). It
// returns false when nothing matches.
func (e *Engine) Search(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_search"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	needle, err := e.get(fn, args[0])
	if err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	strict, err := e.optBoolArg(fn, args, 2, false)
	if err != nil {
		return 0, err
	}
	k, ok := e.search(needle, d, strict)
	if !ok {
		return e.boolean(false), nil
	}
	return e.keyHandle(k), nil
}

// IsList implements array_is_list(array).
func (e *Engine) IsList(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_is_list"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	return e.boolean(d.IsList()), nil
}

// edge implements the first/last key and value accessors.
func (e *Engine) edge(fn string, args []value.Handle, last, wantKey bool) (value.Handle, error) {
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
	i := 0
	if last {
		i = d.Len() - 1
	}
	k, h := d.At(i)
	if wantKey {
		return e.keyHandle(k), nil
	}
	return e.result(h), nil
}

// KeyFirst implements array_key_first(array).
func (e *Engine) KeyFirst(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.edge("array_key_first", args, false, true)
}

// KeyLast implements array_key_last(array).
func (e *Engine) KeyLast(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.edge("array_key_last", args, true, true)
}

// First implements array_first(array).
func (e *Engine) First(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.edge("array_first", args, false, false)
}

// Last implements array_last(array).
func (e *Engine) Last(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.edge("array_last", args, true, false)
}

// Keys implements array_keys(array, filter_value, strict = false).
func (e *Engine) Keys(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_keys"
	if err := arity(fn, args, 1, 3); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(d.Len())
	if len(args) == 1 {
		d.Each(func(k value.ArrayKey, _ value.Handle) bool {
			out.Append(e.keyHandle(k))
			return true
		})
		return e.array(out), nil
	}

	needle, err := e.get(fn, args[1])
	if err != nil {
		return 0, err
	}
	strict, err := e.optBoolArg(fn, args, 2, false)
	if err != nil {
		return 0, err
	}
	deref := e.a.Deref()
	d.Each(func(k value.ArrayKey, h value.Handle) bool {
		v := e.deref(h)
		match := value.LooseEquals(needle, v, deref)
		if strict {
			match = value.StrictEquals(needle, v, deref)
		}
		if match {
			out.Append(e.keyHandle(k))
		}
		return true
	})
	return e.array(out), nil
}

// Values implements array_values(array).
func (e *Engine) Values(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_values"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	return e.array(value.NewList(d.Values()...)), nil
}

// CountValues implements array_count_values(array). Only int and string
// values can be counted.
func (e *Engine) CountValues(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_count_values"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}

	var order []value.ArrayKey
	tally := make(map[value.ArrayKey]int64, d.Len())
	for _, h := range d.Values() {
		var k value.ArrayKey
		switch v := e.deref(h).(type) {
		case value.Int:
			k = value.IntKey(int64(v))
		case value.String:
			k = value.StrKey(string(v))
		default:
			kerr := errors.KeyCoercion(fn, value.TypeName(v))
			kerr.Detail = "can only count string and integer values"
			return 0, kerr
		}
		if _, seen := tally[k]; !seen {
			order = append(order, k)
		}
		tally[k]++
	}
	out := value.NewArrayData(len(order))
	for _, k := range order {
		out.Set(k, e.alloc(value.Int(tally[k])))
	}
	return e.array(out), nil
}

// Sum implements array_sum(array). Integer overflow promotes to float and
// array elements are skipped.
func (e *Engine) Sum(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_sum"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	var acc value.Value = value.Int(0)
	for _, h := range d.Values() {
		if n, ok := e.operand(h); ok {
			acc = addNumbers(acc, n)
		}
	}
	return e.alloc(acc), nil
}

// Product implements array_product(array). The product of an empty array
// is 1.
func (e *Engine) Product(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_product"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	var acc value.Value = value.Int(1)
	for _, h := range d.Values() {
		if n, ok := e.operand(h); ok {
			acc = mulNumbers(acc, n)
		}
	}
	return e.alloc(acc), nil
}

// operand converts an element for array_sum and array_product. Arrays and
// objects do not take part.
func (e *Engine) operand(h value.Handle) (value.Value, bool) {
	switch v := e.deref(h).(type) {
	case value.Array, value.ConstArray, value.Object, value.ObjPayload, value.Struct, value.ObjectMap:
		return nil, false
	default:
		return value.ToNumber(v), true
	}
}

func addNumbers(a, b value.Value) value.Value {
	x, xok := a.(value.Int)
	y, yok := b.(value.Int)
	if xok && yok {
		s := x + y
		// overflow when both operands share a sign the sum lacks
		if (x >= 0) == (y >= 0) && (s >= 0) != (x >= 0) {
			return value.Float(float64(x) + float64(y))
		}
		return s
	}
	return value.Float(value.ToFloat(a) + value.ToFloat(b))
}

func mulNumbers(a, b value.Value) value.Value {
	x, xok := a.(value.Int)
	y, yok := b.(value.Int)
	if xok && yok {
		if p, ok := mulInt(int64(x), int64(y)); ok {
			return value.Int(p)
		}
		return value.Float(float64(x) * float64(y))
	}
	return value.Float(value.ToFloat(a) * value.ToFloat(b))
}

func mulInt(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	neg := (x < 0) != (y < 0)
	ux, uy := absUint(x), absUint(y)
	hi, lo := bits.Mul64(ux, uy)
	if hi != 0 {
		return 0, false
	}
	if neg {
		if lo > 1<<63 {
			return 0, false
		}
		return int64(-lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func absUint(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}
