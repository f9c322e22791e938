// Package errors provides structured error types for the phpcore runtime.
//
// Errors are categorized by Phase (which part of the core raised them) and
// Kind (arity, type_mismatch, invalid_argument, key_coercion,
// callable_invocation, invalid_operation). The Error type carries the
// builtin name, the argument position, expected/actual type names and a
// cause chain. Whether a kind aborts a script, warns, or is catchable is
// decided by the caller; nothing in the core recovers locally.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseArray, errors.KindInvalidArgument).
//		Func("array_fill").
//		Arg(2).
//		Detail("must be greater than or equal to 0").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseArray, "array_diff", 2, "array", "int")
//	err := errors.Arity("array_rand", "1 or 2 arguments", 0)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with an empty Phase matches any error of the same Kind:
//
//	errors.Is(err, &errors.Error{Kind: errors.KindArity})
package errors
