// Package arrays implements the array builtins: count, sort, array_map,
// array_splice and the rest of the array function family, operating on
// handles in one arena.
//
// # Calling builtins
//
// Every builtin has the Builtin signature and can be reached by name:
//
//	e := arrays.New(a, arrays.WithInvoker(inv))
//	h, err := e.Call(ctx, "array_slice", arr, a.Alloc(value.Int(1)))
//
// or directly as a method (e.Slice). Names are case-insensitive.
//
// # By-reference parameters
//
// Builtins that modify their array argument (sort, shuffle, array_push,
// array_splice, array_walk and the pointer functions) write a new array
// value into the argument's slot. Other handles that shared the old array
// are unaffected. When such a builtin fails, the slot is left as it was.
//
// # Ownership
//
// Handles stored inside an array belong to the array and are never written
// through. Values taken from arguments are copied into fresh slots before
// they are stored, and element values returned to the caller are copied
// out. Every result handle is fresh.
//
// # Callbacks
//
// Callback arguments are resolved by the engine's Invoker. A comparator's
// result is reduced to its sign; a failing callback aborts the builtin with
// a callable_invocation error wrapping the cause.
//
// # Errors
//
// Failures are *errors.Error values from the phpcore errors package: arity
// for a wrong argument count, type_mismatch for a non-array where an array
// is expected, invalid_argument for out-of-range sizes, offsets and flags,
// and key_coercion for values that cannot become keys.
package arrays
