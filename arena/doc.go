// Package arena provides the slot table that owns every runtime value of a
// request.
//
// # Handles
//
// Alloc stores a value and returns a Handle. Handles are plain integers
// combining an arena tag, a slot generation and a slot index:
//
//	a := arena.New(nil)
//	h := a.Alloc(value.Int(42))
//	v, err := a.Get(h) // value.Int(42)
//
// Freed slots are recycled under a new generation, so a freed handle keeps
// failing with an invalid_handle error rather than aliasing a newer value.
// Handles from a different arena fail the same way: each arena reserves a
// 24-bit tag that no other live arena holds until it is closed or
// collected. An arena holds at most 1<<24-1 slots at once.
//
// # Copy-on-write
//
// Array data is shared between handles. ModifyArray clones the array at a
// handle, lets the caller mutate the clone and stores it back:
//
//	err := a.ModifyArray(h, func(d *value.ArrayData) error {
//		d.Append(a.Alloc(value.String("x")))
//		return nil
//	})
//
// Dup implements assignment: it copies the slot value, sharing array data.
//
// # Observers
//
// Subscribe registers an Observer that sees every allocation, replacement
// and free. The cursor table uses this to drop positions of freed arrays.
//
// # Concurrency
//
// An Arena belongs to one goroutine. Hosts that want parallelism give each
// worker its own Arena; handles never cross arenas.
package arena
