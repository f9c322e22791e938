// Package value defines the runtime value model: handles, the tagged Value
// variants, array keys and the ordered containers behind arrays and objects.
//
// # Handles
//
// A Handle names a slot in an arena. Handles carry no type information and
// do not own what they point to; only the arena that issued a handle can
// resolve it.
//
// # Arrays
//
// ArrayData is an insertion-ordered map from ArrayKey to Handle with a
// NextFree counter for auto-indexed appends. ArrayData stored in a Value is
// shared between every handle that copied it, so mutation follows a strict
// clone-then-replace discipline:
//
//	data := current.Clone()
//	data.Set(value.StrKey("k"), h)
//	arena.Set(target, value.Array{Data: data})
//
// Handles that captured the old data keep seeing it unchanged.
//
// # Keys
//
// ToArrayKey coerces a value to a key. Null becomes the empty string key and
// floats truncate toward zero. Numeric strings stay string keys: "3" and 3
// are different keys.
//
// # Comparison
//
// LooseEquals, StrictEquals and Compare implement ==, === and <=> with
// PHP 8 semantics. They take a Deref so nested array elements and object
// properties can be resolved without this package depending on an arena.
package value
