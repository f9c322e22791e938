package arrays

import (
	"context"

	"github.com/wippyai/phpcore/value"
)

// Merge implements array_merge(...arrays). Integer keys are renumbered and
// later string keys overwrite earlier ones.
func (e *Engine) Merge(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_merge"
	ds, err := e.arrayArgs(fn, args, 0, len(args))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, d := range ds {
		total += d.Len()
	}
	out := value.NewArrayData(total)
	for _, d := range ds {
		for _, ent := range d.Entries() {
			if ent.Key.IsStr() {
				out.Set(ent.Key, ent.Value)
			} else if _, ok := out.Append(ent.Value); !ok {
				return 0, appendFailed(fn)
			}
		}
	}
	return e.array(out), nil
}

// MergeRecursive implements array_merge_recursive(...arrays). Values that
// collide on a string key are gathered into an array.
func (e *Engine) MergeRecursive(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_merge_recursive"
	ds, err := e.arrayArgs(fn, args, 0, len(args))
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(0)
	for _, d := range ds {
		if err := e.mergeInto(fn, out, d, 0); err != nil {
			return 0, err
		}
	}
	return e.array(out), nil
}

// mergeInto merges src into dst, which must be private to the caller.
func (e *Engine) mergeInto(fn string, dst, src *value.ArrayData, depth int) error {
	if depth > maxDepth {
		return tooDeep(fn)
	}
	for _, ent := range src.Entries() {
		if ent.Key.IsInt() {
			if _, ok := dst.Append(ent.Value); !ok {
				return appendFailed(fn)
			}
			continue
		}
		existing, ok := dst.Get(ent.Key)
		if !ok {
			dst.Set(ent.Key, ent.Value)
			continue
		}

		// the existing value becomes an array and absorbs the new one
		var merged *value.ArrayData
		switch cur := e.deref(existing).(type) {
		case value.Array, value.ConstArray:
			d, err := e.a.ArrayOf(existing)
			if err != nil {
				return err
			}
			merged = d.Clone()
		default:
			merged = value.NewList(e.alloc(cur))
		}
		if value.IsArrayLike(e.deref(ent.Value)) {
			sub, err := e.a.ArrayOf(ent.Value)
			if err != nil {
				return err
			}
			if err := e.mergeInto(fn, merged, sub, depth+1); err != nil {
				return err
			}
		} else if _, ok := merged.Append(ent.Value); !ok {
			return appendFailed(fn)
		}
		dst.Set(ent.Key, e.array(merged))
	}
	return nil
}

// Replace implements array_replace(array, ...replacements). Keys are never
// renumbered.
func (e *Engine) Replace(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_replace"
	if err := arity(fn, args, 1, -1); err != nil {
		return 0, err
	}
	ds, err := e.arrayArgs(fn, args, 0, len(args))
	if err != nil {
		return 0, err
	}
	out := ds[0].Clone()
	for _, d := range ds[1:] {
		d.Each(func(k value.ArrayKey, h value.Handle) bool {
			out.Set(k, h)
			return true
		})
	}
	return e.array(out), nil
}

// ReplaceRecursive implements array_replace_recursive(array, ...replacements).
func (e *Engine) ReplaceRecursive(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_replace_recursive"
	if err := arity(fn, args, 1, -1); err != nil {
		return 0, err
	}
	ds, err := e.arrayArgs(fn, args, 0, len(args))
	if err != nil {
		return 0, err
	}
	out := ds[0].Clone()
	for _, d := range ds[1:] {
		if err := e.replaceInto(fn, out, d, 0); err != nil {
			return 0, err
		}
	}
	return e.array(out), nil
}

func (e *Engine) replaceInto(fn string, dst, src *value.ArrayData, depth int) error {
	if depth > maxDepth {
		return tooDeep(fn)
	}
	for _, ent := range src.Entries() {
		existing, ok := dst.Get(ent.Key)
		if !ok || !value.IsArrayLike(e.deref(existing)) || !value.IsArrayLike(e.deref(ent.Value)) {
			dst.Set(ent.Key, ent.Value)
			continue
		}
		cur, err := e.a.ArrayOf(existing)
		if err != nil {
			return err
		}
		sub, err := e.a.ArrayOf(ent.Value)
		if err != nil {
			return err
		}
		merged := cur.Clone()
		if err := e.replaceInto(fn, merged, sub, depth+1); err != nil {
			return err
		}
		dst.Set(ent.Key, e.array(merged))
	}
	return nil
}
