package arrays

import (
	"context"
	"strconv"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// setOp describes one member of the diff/intersect family.
//
// Without a callback, values match when their string forms are identical
// and keys match when they are the same key. With a callback, a match is a
// comparator result of 0.
type setOp struct {
	fn        string
	intersect bool // keep entries present in every other array, else in none
	byValue   bool
	byKey     bool
	valueCB   bool
	keyCB     bool
}

func (op setOp) callbacks() int {
	n := 0
	if op.valueCB {
		n++
	}
	if op.keyCB {
		n++
	}
	return n
}

// setMatcher answers whether an entry of the first array matches anything
// in another array.
type setMatcher struct {
	e        *Engine
	op       setOp
	valueCB  value.Handle
	keyCB    value.Handle
	keyCache map[value.ArrayKey]value.Handle
	strCache map[value.Handle]string
	strSets  map[*value.ArrayData]map[string]struct{}
}

func (e *Engine) setOperation(ctx context.Context, op setOp, args []value.Handle) (value.Handle, error) {
	ncb := op.callbacks()
	if err := arity(op.fn, args, 1+ncb, -1); err != nil {
		return 0, err
	}
	narrays := len(args) - ncb
	ds, err := e.arrayArgs(op.fn, args, 0, narrays)
	if err != nil {
		return 0, err
	}
	m := &setMatcher{
		e:        e,
		op:       op,
		keyCache: make(map[value.ArrayKey]value.Handle),
		strCache: make(map[value.Handle]string),
		strSets:  make(map[*value.ArrayData]map[string]struct{}),
	}
	cbs := args[narrays:]
	if op.valueCB {
		m.valueCB, cbs = cbs[0], cbs[1:]
	}
	if op.keyCB {
		m.keyCB = cbs[0]
	}

	first, others := ds[0], ds[1:]
	out := value.NewArrayData(first.Len())
	for _, ent := range first.Entries() {
		keep := true
		for _, o := range others {
			found, err := m.contains(ctx, o, ent)
			if err != nil {
				return 0, err
			}
			if found != op.intersect {
				keep = false
				break
			}
		}
		if keep {
			out.Set(ent.Key, ent.Value)
		}
	}
	return e.array(out), nil
}

func (m *setMatcher) contains(ctx context.Context, o *value.ArrayData, ent value.Entry) (bool, error) {
	if m.op.byKey && !m.op.keyCB {
		h, ok := o.Get(ent.Key)
		if !ok {
			return false, nil
		}
		if !m.op.byValue {
			return true, nil
		}
		return m.valuesEqual(ctx, ent.Value, h)
	}

	if !m.op.byKey && !m.op.valueCB {
		_, ok := m.stringSet(o)[m.str(ent.Value)]
		return ok, nil
	}

	for _, cand := range o.Entries() {
		if m.op.byValue {
			eq, err := m.valuesEqual(ctx, ent.Value, cand.Value)
			if err != nil {
				return false, err
			}
			if !eq {
				continue
			}
		}
		if m.op.byKey {
			eq, err := m.keysEqual(ctx, ent.Key, cand.Key)
			if err != nil {
				return false, err
			}
			if !eq {
				continue
			}
		}
		return true, nil
	}
	return false, nil
}

func (m *setMatcher) valuesEqual(ctx context.Context, a, b value.Handle) (bool, error) {
	if !m.op.valueCB {
		return m.str(a) == m.str(b), nil
	}
	c, err := m.e.compareCall(ctx, m.op.fn, m.valueCB, a, b)
	return c == 0, err
}

func (m *setMatcher) keysEqual(ctx context.Context, a, b value.ArrayKey) (bool, error) {
	if !m.op.keyCB {
		return a == b, nil
	}
	c, err := m.e.compareCall(ctx, m.op.fn, m.keyCB, m.key(a), m.key(b))
	return c == 0, err
}

func (m *setMatcher) key(k value.ArrayKey) value.Handle {
	h, ok := m.keyCache[k]
	if !ok {
		h = m.e.keyHandle(k)
		m.keyCache[k] = h
	}
	return h
}

func (m *setMatcher) str(h value.Handle) string {
	s, ok := m.strCache[h]
	if !ok {
		s = m.e.str(h)
		m.strCache[h] = s
	}
	return s
}

func (m *setMatcher) stringSet(o *value.ArrayData) map[string]struct{} {
	set, ok := m.strSets[o]
	if ok {
		return set
	}
	set = make(map[string]struct{}, o.Len())
	for _, h := range o.Values() {
		set[m.str(h)] = struct{}{}
	}
	m.strSets[o] = set
	return set
}

// Diff implements array_diff(array, ...arrays).
func (e *Engine) Diff(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_diff", byValue: true}, args)
}

// DiffAssoc implements array_diff_assoc(array, ...arrays).
func (e *Engine) DiffAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_diff_assoc", byValue: true, byKey: true}, args)
}

// DiffKey implements array_diff_key(array, ...arrays).
func (e *Engine) DiffKey(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_diff_key", byKey: true}, args)
}

// DiffUAssoc implements array_diff_uassoc(array, ...arrays, key_compare).
func (e *Engine) DiffUAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_diff_uassoc", byValue: true, byKey: true, keyCB: true}, args)
}

// DiffUKey implements array_diff_ukey(array, ...arrays, key_compare).
func (e *Engine) DiffUKey(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_diff_ukey", byKey: true, keyCB: true}, args)
}

// UDiff implements array_udiff(array, ...arrays, value_compare).
func (e *Engine) UDiff(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_udiff", byValue: true, valueCB: true}, args)
}

// UDiffAssoc implements array_udiff_assoc(array, ...arrays, value_compare).
func (e *Engine) UDiffAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_udiff_assoc", byValue: true, byKey: true, valueCB: true}, args)
}

// UDiffUAssoc implements
// array_udiff_uassoc(array, ...arrays, value_compare, key_compare).
func (e *Engine) UDiffUAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_udiff_uassoc", byValue: true, byKey: true, valueCB: true, keyCB: true}, args)
}

// Intersect implements array_intersect(array, ...arrays).
func (e *Engine) Intersect(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_intersect", intersect: true, byValue: true}, args)
}

// IntersectAssoc implements array_intersect_assoc(array, ...arrays).
func (e *Engine) IntersectAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_intersect_assoc", intersect: true, byValue: true, byKey: true}, args)
}

// IntersectKey implements array_intersect_key(array, ...arrays).
func (e *Engine) IntersectKey(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_intersect_key", intersect: true, byKey: true}, args)
}

// IntersectUAssoc implements array_intersect_uassoc(array, ...arrays, key_compare).
func (e *Engine) IntersectUAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_intersect_uassoc", intersect: true, byValue: true, byKey: true, keyCB: true}, args)
}

// IntersectUKey implements array_intersect_ukey(array, ...arrays, key_compare).
func (e *Engine) IntersectUKey(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_intersect_ukey", intersect: true, byKey: true, keyCB: true}, args)
}

// UIntersect implements array_uintersect(array, ...arrays, value_compare).
func (e *Engine) UIntersect(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_uintersect", intersect: true, byValue: true, valueCB: true}, args)
}

// UIntersectAssoc implements array_uintersect_assoc(array, ...arrays, value_compare).
func (e *Engine) UIntersectAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_uintersect_assoc", intersect: true, byValue: true, byKey: true, valueCB: true}, args)
}

// UIntersectUAssoc implements
// array_uintersect_uassoc(array, ...arrays, value_compare, key_compare).
func (e *Engine) UIntersectUAssoc(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.setOperation(ctx, setOp{fn: "array_uintersect_uassoc", intersect: true, byValue: true, byKey: true, valueCB: true, keyCB: true}, args)
}

// Unique implements array_unique(array, flags = SORT_STRING). The first
// occurrence of each value is kept with its key.
func (e *Engine) Unique(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_unique"
	if err := arity(fn, args, 1, 2); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	flags, err := e.optIntArg(fn, args, 1, SortString)
	if err != nil {
		return 0, err
	}

	out := value.NewArrayData(d.Len())
	switch flags &^ SortFlagCase {
	case SortString, SortLocaleString, SortNumeric:
		seen := make(map[string]struct{}, d.Len())
		for _, ent := range d.Entries() {
			s := e.str(ent.Value)
			if flags&^SortFlagCase == SortNumeric {
				s = strconv.FormatFloat(value.ToFloat(e.deref(ent.Value)), 'g', -1, 64)
			}
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out.Set(ent.Key, ent.Value)
		}
	case SortRegular:
		deref := e.a.Deref()
		var kept []value.Value
		for _, ent := range d.Entries() {
			v := e.deref(ent.Value)
			dup := false
			for _, k := range kept {
				if value.LooseEquals(k, v, deref) {
					dup = true
					break
				}
			}
			if !dup {
				kept = append(kept, v)
				out.Set(ent.Key, ent.Value)
			}
		}
	default:
		return 0, errors.InvalidArgument(fn, 2, "must be a valid sort flag")
	}
	return e.array(out), nil
}
