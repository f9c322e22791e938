package value

import "math"

// Entry is one key/value pair of an ArrayData.
type Entry struct {
	Key   ArrayKey
	Value Handle
}

// ArrayData is an insertion-ordered map from ArrayKey to Handle.
//
// ArrayData reachable from a Value is shared. Writers must Clone, mutate the
// clone, and store it back under their own handle.
type ArrayData struct {
	m        omap[ArrayKey]
	nextFree int64
}

// NewArrayData returns an empty array with room for capacity entries.
func NewArrayData(capacity int) *ArrayData {
	return &ArrayData{m: newOmap[ArrayKey](capacity)}
}

// NewList returns a 0-based list of the given handles.
func NewList(vals ...Handle) *ArrayData {
	d := NewArrayData(len(vals))
	for _, h := range vals {
		d.Append(h)
	}
	return d
}

// FromEntries builds an array from entries in order. Duplicate keys keep
// their first position and the last value.
func FromEntries(entries []Entry) *ArrayData {
	d := NewArrayData(len(entries))
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// Len returns the number of entries.
func (d *ArrayData) Len() int {
	if d == nil {
		return 0
	}
	return d.m.len()
}

// NextFree returns the key the next Append will use.
func (d *ArrayData) NextFree() int64 { return d.nextFree }

// Get returns the handle stored under k.
func (d *ArrayData) Get(k ArrayKey) (Handle, bool) {
	if d == nil {
		return 0, false
	}
	return d.m.get(k)
}

// Has reports whether k is present.
func (d *ArrayData) Has(k ArrayKey) bool {
	_, ok := d.Get(k)
	return ok
}

// Index returns the position of k in insertion order.
func (d *ArrayData) Index(k ArrayKey) (int, bool) {
	if d == nil {
		return 0, false
	}
	return d.m.pos(k)
}

// At returns the entry at position i. It panics if i is out of range.
func (d *ArrayData) At(i int) (ArrayKey, Handle) {
	return d.m.keys[i], d.m.vals[i]
}

// Set stores h under k. An existing key keeps its position.
// A non-negative integer key at or past NextFree advances it.
func (d *ArrayData) Set(k ArrayKey, h Handle) {
	d.m.set(k, h)
	if k.IsInt() && k.i >= d.nextFree {
		if k.i == math.MaxInt64 {
			d.nextFree = math.MaxInt64
		} else {
			d.nextFree = k.i + 1
		}
	}
}

// Append stores h under NextFree. It fails only when the integer key space
// is exhausted.
func (d *ArrayData) Append(h Handle) (ArrayKey, bool) {
	if d.nextFree == math.MaxInt64 && d.Has(IntKey(math.MaxInt64)) {
		return ArrayKey{}, false
	}
	k := IntKey(d.nextFree)
	d.Set(k, h)
	return k, true
}

// Delete removes k. NextFree is never lowered by a removal.
func (d *ArrayData) Delete(k ArrayKey) bool {
	return d.m.delete(k)
}

// Keys returns the keys in order.
func (d *ArrayData) Keys() []ArrayKey {
	if d == nil {
		return nil
	}
	out := make([]ArrayKey, len(d.m.keys))
	copy(out, d.m.keys)
	return out
}

// Values returns the handles in order.
func (d *ArrayData) Values() []Handle {
	if d == nil {
		return nil
	}
	out := make([]Handle, len(d.m.vals))
	copy(out, d.m.vals)
	return out
}

// Entries returns a snapshot of all entries in order.
func (d *ArrayData) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.m.keys))
	for i := range d.m.keys {
		out[i] = Entry{Key: d.m.keys[i], Value: d.m.vals[i]}
	}
	return out
}

// Each calls fn for every entry in order until fn returns false.
func (d *ArrayData) Each(fn func(ArrayKey, Handle) bool) {
	if d == nil {
		return
	}
	for i := range d.m.keys {
		if !fn(d.m.keys[i], d.m.vals[i]) {
			return
		}
	}
}

// Clone returns a logical copy. Element handles are shared.
func (d *ArrayData) Clone() *ArrayData {
	if d == nil {
		return NewArrayData(0)
	}
	return &ArrayData{m: d.m.clone(), nextFree: d.nextFree}
}

// Renumbered returns a copy whose integer keys are renumbered from 0 in
// order. String keys are kept.
func (d *ArrayData) Renumbered() *ArrayData {
	out := NewArrayData(d.Len())
	d.Each(func(k ArrayKey, h Handle) bool {
		if k.IsInt() {
			out.Append(h)
		} else {
			out.Set(k, h)
		}
		return true
	})
	return out
}

// RecomputeNextFree sets NextFree to one past the largest non-negative
// integer key, or 0 if there is none.
func (d *ArrayData) RecomputeNextFree() {
	var next int64
	for _, k := range d.m.keys {
		if k.IsInt() && k.i >= next {
			if k.i == math.MaxInt64 {
				next = math.MaxInt64
				break
			}
			next = k.i + 1
		}
	}
	d.nextFree = next
}

// IsList reports whether the keys are exactly 0..Len-1 in order.
func (d *ArrayData) IsList() bool {
	if d == nil {
		return true
	}
	for i, k := range d.m.keys {
		if !k.IsInt() || k.i != int64(i) {
			return false
		}
	}
	return true
}
