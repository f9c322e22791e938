package arrays

import (
	"bytes"
	"context"
	"slices"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// Sort flags.
const (
	SortRegular      = 0
	SortNumeric      = 1
	SortString       = 2
	SortDesc         = 3
	SortAsc          = 4
	SortLocaleString = 5
	SortNatural      = 6
	SortFlagCase     = 8
)

// entryCompare orders two entries. It may fail when a user comparator does.
type entryCompare func(a, b value.Entry) (int, error)

// flagCompare returns the value ordering selected by flags.
func (e *Engine) flagCompare(flags int64) func(a, b value.Value) int {
	fold := flags&SortFlagCase != 0
	switch flags &^ SortFlagCase {
	case SortNumeric:
		return func(a, b value.Value) int {
			x, y := value.ToFloat(a), value.ToFloat(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case SortString, SortLocaleString:
		return func(a, b value.Value) int {
			x, y := value.ToPHPString(a), value.ToPHPString(b)
			if fold {
				x, y = asciiLower(x), asciiLower(y)
			}
			return bytes.Compare([]byte(x), []byte(y))
		}
	case SortNatural:
		return func(a, b value.Value) int {
			return natCompare(value.ToPHPString(a), value.ToPHPString(b), fold)
		}
	}
	deref := e.a.Deref()
	return func(a, b value.Value) int {
		return value.Compare(a, b, deref)
	}
}

func (e *Engine) byValue(flags int64) entryCompare {
	cmp := e.flagCompare(flags)
	return func(a, b value.Entry) (int, error) {
		return cmp(e.deref(a.Value), e.deref(b.Value)), nil
	}
}

func (e *Engine) byKey(flags int64) entryCompare {
	cmp := e.flagCompare(flags)
	return func(a, b value.Entry) (int, error) {
		return cmp(a.Key.Value(), b.Key.Value()), nil
	}
}

func (e *Engine) byValueCallback(ctx context.Context, fn string, cb value.Handle) entryCompare {
	return func(a, b value.Entry) (int, error) {
		return e.compareCall(ctx, fn, cb, a.Value, b.Value)
	}
}

func (e *Engine) byKeyCallback(ctx context.Context, fn string, cb value.Handle) entryCompare {
	keys := make(map[value.ArrayKey]value.Handle)
	key := func(k value.ArrayKey) value.Handle {
		h, ok := keys[k]
		if !ok {
			h = e.keyHandle(k)
			keys[k] = h
		}
		return h
	}
	return func(a, b value.Entry) (int, error) {
		return e.compareCall(ctx, fn, cb, key(a.Key), key(b.Key))
	}
}

func reversed(cmp entryCompare) entryCompare {
	return func(a, b value.Entry) (int, error) {
		c, err := cmp(a, b)
		return -c, err
	}
}

// sortEntries stable-sorts entries. The first comparator error stops all
// further comparisons and is returned.
func sortEntries(entries []value.Entry, cmp entryCompare) error {
	var failed error
	slices.SortStableFunc(entries, func(a, b value.Entry) int {
		if failed != nil {
			return 0
		}
		c, err := cmp(a, b)
		if err != nil {
			failed = err
			return 0
		}
		return c
	})
	return failed
}

// sortInPlace sorts the array at args[0] and stores the result back. On
// failure the array is left untouched.
func (e *Engine) sortInPlace(fn string, args []value.Handle, cmp entryCompare, keepKeys bool) (value.Handle, error) {
	h := args[0]
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	entries := d.Entries()
	if err := sortEntries(entries, cmp); err != nil {
		return 0, err
	}
	var out *value.ArrayData
	if keepKeys {
		out = value.FromEntries(entries)
	} else {
		out = value.NewArrayData(len(entries))
		for _, ent := range entries {
			out.Append(ent.Value)
		}
	}
	if err := e.a.ReplaceArray(h, out); err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	e.cursors.Forget(h)
	return e.boolean(true), nil
}

func (e *Engine) flagSort(fn string, args []value.Handle, keys, reverse, keepKeys bool) (value.Handle, error) {
	if err := arity(fn, args, 1, 2); err != nil {
		return 0, err
	}
	flags, err := e.optIntArg(fn, args, 1, SortRegular)
	if err != nil {
		return 0, err
	}
	cmp := e.byValue(flags)
	if keys {
		cmp = e.byKey(flags)
	}
	if reverse {
		cmp = reversed(cmp)
	}
	return e.sortInPlace(fn, args, cmp, keepKeys)
}

func (e *Engine) userSort(ctx context.Context, fn string, args []value.Handle, keys, keepKeys bool) (value.Handle, error) {
	if err := arity(fn, args, 2, 2); err != nil {
		return 0, err
	}
	cmp := e.byValueCallback(ctx, fn, args[1])
	if keys {
		cmp = e.byKeyCallback(ctx, fn, args[1])
	}
	return e.sortInPlace(fn, args, cmp, keepKeys)
}

// Sort implements sort(&array, flags = SORT_REGULAR).
func (e *Engine) Sort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.flagSort("sort", args, false, false, false)
}

// Rsort implements rsort(&array, flags = SORT_REGULAR).
func (e *Engine) Rsort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.flagSort("rsort", args, false, true, false)
}

// Usort implements usort(&array, callback).
func (e *Engine) Usort(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.userSort(ctx, "usort", args, false, false)
}

// Asort implements asort(&array, flags = SORT_REGULAR).
func (e *Engine) Asort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.flagSort("asort", args, false, false, true)
}

// Arsort implements arsort(&array, flags = SORT_REGULAR).
func (e *Engine) Arsort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.flagSort("arsort", args, false, true, true)
}

// Uasort implements uasort(&array, callback).
func (e *Engine) Uasort(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.userSort(ctx, "uasort", args, false, true)
}

// Ksort implements ksort(&array, flags = SORT_REGULAR).
func (e *Engine) Ksort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.flagSort("ksort", args, true, false, true)
}

// Krsort implements krsort(&array, flags = SORT_REGULAR).
func (e *Engine) Krsort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.flagSort("krsort", args, true, true, true)
}

// Uksort implements uksort(&array, callback).
func (e *Engine) Uksort(ctx context.Context, args ...value.Handle) (value.Handle, error) {
	return e.userSort(ctx, "uksort", args, true, true)
}

// Natsort implements natsort(&array). Keys are kept.
func (e *Engine) Natsort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "natsort"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	return e.sortInPlace(fn, args, e.byValue(SortNatural), true)
}

// Natcasesort implements natcasesort(&array). Keys are kept.
func (e *Engine) Natcasesort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "natcasesort"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	return e.sortInPlace(fn, args, e.byValue(SortNatural|SortFlagCase), true)
}

// multisortColumn is one array argument of array_multisort with its order
// and flags.
type multisortColumn struct {
	h       value.Handle
	entries []value.Entry
	cmp     func(a, b value.Value) int
	desc    bool
	order   bool // order given explicitly
	flagged bool // flags given explicitly
	flags   int64
}

// Multisort implements array_multisort(&array1, order, flags, ...).
//
// Each array may be followed by an order (SORT_ASC or SORT_DESC) and a
// sort flag, in either order. The arrays must have the same length. Rows
// are ordered by the first array, ties broken by the next. String keys are
// kept; integer keys are renumbered.
func (e *Engine) Multisort(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_multisort"
	if err := arity(fn, args, 1, -1); err != nil {
		return 0, err
	}

	var cols []*multisortColumn
	for i, h := range args {
		v, err := e.get(fn, h)
		if err != nil {
			return 0, err
		}
		if value.IsArrayLike(v) {
			d, err := e.arrayArg(fn, args, i)
			if err != nil {
				return 0, err
			}
			cols = append(cols, &multisortColumn{h: h, entries: d.Entries()})
			continue
		}
		n, isInt := v.(value.Int)
		if !isInt || len(cols) == 0 {
			return 0, errors.TypeMismatch(errors.PhaseArray, fn, i+1, "array or sorting flag", value.TypeName(v))
		}
		col := cols[len(cols)-1]
		switch int64(n) {
		case SortAsc, SortDesc:
			if col.order {
				return 0, errors.InvalidArgument(fn, i+1, "must be an array or a sort flag that has not already been specified")
			}
			col.order, col.desc = true, int64(n) == SortDesc
		case SortRegular, SortNumeric, SortString, SortLocaleString, SortNatural,
			SortString | SortFlagCase, SortNatural | SortFlagCase:
			if col.flagged {
				return 0, errors.InvalidArgument(fn, i+1, "must be an array or a sort flag that has not already been specified")
			}
			col.flagged, col.flags = true, int64(n)
		default:
			return 0, errors.InvalidArgument(fn, i+1, "must be a valid sort flag")
		}
	}

	size := len(cols[0].entries)
	for i, col := range cols {
		if len(col.entries) != size {
			return 0, errors.InvalidArgument(fn, i+1, "array sizes are inconsistent")
		}
		col.cmp = e.flagCompare(col.flags)
	}

	rows := make([]int, size)
	for i := range rows {
		rows[i] = i
	}
	slices.SortStableFunc(rows, func(x, y int) int {
		for _, col := range cols {
			c := col.cmp(e.deref(col.entries[x].Value), e.deref(col.entries[y].Value))
			if col.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	for _, col := range cols {
		out := value.NewArrayData(size)
		for _, r := range rows {
			ent := col.entries[r]
			if ent.Key.IsStr() {
				out.Set(ent.Key, ent.Value)
			} else {
				out.Append(ent.Value)
			}
		}
		if err := e.a.ReplaceArray(col.h, out); err != nil {
			return 0, errors.WithFunc(err, fn)
		}
		e.cursors.Forget(col.h)
	}
	return e.boolean(true), nil
}
