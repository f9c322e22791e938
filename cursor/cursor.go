// Package cursor implements the internal array pointer behind current,
// next, prev, reset, end, key and each.
//
// Positions live in a side table keyed by Handle instead of inside the
// array, so moving a cursor never forces a copy of shared array data. Two
// handles that share one array therefore have independent cursors.
package cursor

import (
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/value"
)

// Table maps array handles to positions in insertion order. A handle with
// no entry is at position 0. Positions at or beyond the array length are
// out of range.
type Table struct {
	pos map[value.Handle]int
}

// NewTable creates an empty cursor table.
func NewTable() *Table {
	return &Table{pos: make(map[value.Handle]int)}
}

// Pos returns the position of h.
func (t *Table) Pos(h value.Handle) int {
	return t.pos[h]
}

// Set moves h to p.
func (t *Table) Set(h value.Handle, p int) {
	if p == 0 {
		delete(t.pos, h)
		return
	}
	t.pos[h] = p
}

// Forget drops any state for h.
func (t *Table) Forget(h value.Handle) {
	delete(t.pos, h)
}

// Len returns the number of handles with a non-default position.
func (t *Table) Len() int {
	return len(t.pos)
}

// OnArenaEvent drops the cursor of freed handles.
func (t *Table) OnArenaEvent(e arena.Event) {
	if e.Type == arena.EventFreed {
		delete(t.pos, e.Handle)
	}
}

// Current returns the element under the cursor of h.
func (t *Table) Current(h value.Handle, d *value.ArrayData) (value.Handle, bool) {
	p := t.Pos(h)
	if p < 0 || p >= d.Len() {
		return 0, false
	}
	_, v := d.At(p)
	return v, true
}

// Key returns the key under the cursor of h.
func (t *Table) Key(h value.Handle, d *value.ArrayData) (value.ArrayKey, bool) {
	p := t.Pos(h)
	if p < 0 || p >= d.Len() {
		return value.ArrayKey{}, false
	}
	k, _ := d.At(p)
	return k, true
}

// Next advances the cursor and returns the new current element. Moving
// past the last element parks the cursor out of range.
func (t *Table) Next(h value.Handle, d *value.ArrayData) (value.Handle, bool) {
	n := d.Len()
	if n == 0 {
		return 0, false
	}
	p := t.Pos(h)
	if p+1 >= n {
		t.Set(h, n)
		return 0, false
	}
	t.Set(h, p+1)
	_, v := d.At(p + 1)
	return v, true
}

// Prev moves the cursor back and returns the new current element. Moving
// before the first element parks the cursor out of range.
func (t *Table) Prev(h value.Handle, d *value.ArrayData) (value.Handle, bool) {
	n := d.Len()
	if n == 0 {
		return 0, false
	}
	p := t.Pos(h)
	if p <= 0 || p >= n {
		t.Set(h, n)
		return 0, false
	}
	t.Set(h, p-1)
	_, v := d.At(p - 1)
	return v, true
}

// Reset rewinds the cursor and returns the first element.
func (t *Table) Reset(h value.Handle, d *value.ArrayData) (value.Handle, bool) {
	t.Set(h, 0)
	if d.Len() == 0 {
		return 0, false
	}
	_, v := d.At(0)
	return v, true
}

// End moves the cursor to the last element and returns it. It is a no-op
// on an empty array.
func (t *Table) End(h value.Handle, d *value.ArrayData) (value.Handle, bool) {
	n := d.Len()
	if n == 0 {
		return 0, false
	}
	t.Set(h, n-1)
	_, v := d.At(n - 1)
	return v, true
}

// Each returns the entry under the cursor and advances past it.
func (t *Table) Each(h value.Handle, d *value.ArrayData) (value.ArrayKey, value.Handle, bool) {
	p := t.Pos(h)
	if p < 0 || p >= d.Len() {
		return value.ArrayKey{}, 0, false
	}
	k, v := d.At(p)
	t.Set(h, p+1)
	return k, v, true
}
