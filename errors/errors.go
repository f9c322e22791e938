package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates which part of the core raised the error
type Phase string

const (
	PhaseArray    Phase = "array"    // array builtins
	PhaseObject   Phase = "object"   // object/struct model
	PhaseArena    Phase = "arena"    // handle resolution
	PhaseCursor   Phase = "cursor"   // internal array pointer
	PhaseCallable Phase = "callable" // callback invocation
	PhaseCodec    Phase = "codec"    // JSON bridge
	PhaseRuntime  Phase = "runtime"  // engine and request lifecycle
)

// Kind categorizes the error
type Kind string

const (
	KindArity              Kind = "arity"
	KindTypeMismatch       Kind = "type_mismatch"
	KindInvalidArgument    Kind = "invalid_argument"
	KindKeyCoercion        Kind = "key_coercion"
	KindCallableInvocation Kind = "callable_invocation"
	KindInvalidOperation   Kind = "invalid_operation"
	KindInvalidHandle      Kind = "invalid_handle"
	KindNotFound           Kind = "not_found"
)

// Error is the structured error type returned by every core entry point
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Func   string // builtin or operation name, e.g. "array_fill"
	Want   string // expected kind of the offending argument
	Got    string // actual kind of the offending argument
	Detail string
	Arg    int // 1-based argument position, 0 when not argument related
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Func != "" {
		b.WriteString(" in ")
		b.WriteString(e.Func)
		b.WriteString("()")
	}
	if e.Arg > 0 {
		fmt.Fprintf(&b, " argument #%d", e.Arg)
	}

	if e.Want != "" || e.Got != "" {
		b.WriteString(": ")
		switch {
		case e.Want != "" && e.Got != "":
			b.WriteString("must be of type ")
			b.WriteString(e.Want)
			b.WriteString(", ")
			b.WriteString(e.Got)
			b.WriteString(" given")
		case e.Want != "":
			b.WriteString("must be of type ")
			b.WriteString(e.Want)
		default:
			b.WriteString(e.Got)
			b.WriteString(" given")
		}
	}

	if e.Detail != "" {
		if e.Want != "" || e.Got != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Func sets the builtin or operation name
func (b *Builder) Func(name string) *Builder {
	b.err.Func = name
	return b
}

// Arg sets the 1-based argument position
func (b *Builder) Arg(n int) *Builder {
	b.err.Arg = n
	return b
}

// Want sets the expected type name
func (b *Builder) Want(t string) *Builder {
	b.err.Want = t
	return b
}

// Got sets the actual type name
func (b *Builder) Got(t string) *Builder {
	b.err.Got = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the core error taxonomy

// Arity creates a wrong-argument-count error
func Arity(fn string, want string, got int) *Error {
	return &Error{
		Phase:  PhaseArray,
		Kind:   KindArity,
		Func:   fn,
		Detail: fmt.Sprintf("expects %s, %d given", want, got),
		Value:  got,
	}
}

// TypeMismatch creates an argument type error
func TypeMismatch(phase Phase, fn string, arg int, want, got string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTypeMismatch,
		Func:  fn,
		Arg:   arg,
		Want:  want,
		Got:   got,
	}
}

// InvalidArgument creates an out-of-domain argument error
func InvalidArgument(fn string, arg int, detail string) *Error {
	return &Error{
		Phase:  PhaseArray,
		Kind:   KindInvalidArgument,
		Func:   fn,
		Arg:    arg,
		Detail: detail,
	}
}

// KeyCoercion creates an error for a value that cannot become an array key
func KeyCoercion(fn string, got string) *Error {
	return &Error{
		Phase:  PhaseArray,
		Kind:   KindKeyCoercion,
		Func:   fn,
		Got:    got,
		Detail: "cannot be used as an array key",
	}
}

// CallableFailed wraps an error raised by a user callback
func CallableFailed(fn string, cause error) *Error {
	return &Error{
		Phase:  PhaseCallable,
		Kind:   KindCallableInvocation,
		Func:   fn,
		Detail: "callback failed",
		Cause:  cause,
	}
}

// NotCallable creates an error for a handle that does not reference a callable
func NotCallable(fn string, got string) *Error {
	return &Error{
		Phase:  PhaseCallable,
		Kind:   KindCallableInvocation,
		Func:   fn,
		Got:    got,
		Detail: "not a valid callback",
	}
}

// InvalidOperation creates an error for an operation that is never allowed
func InvalidOperation(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidOperation,
		Detail: detail,
	}
}

// InvalidHandle creates an error for a stale or foreign handle
func InvalidHandle(handle uint64, detail string) *Error {
	return &Error{
		Phase:  PhaseArena,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %#x: %s", handle, detail),
		Value:  handle,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithFunc returns err with Func set when it is an *Error without one.
// Other errors are returned unchanged.
func WithFunc(err error, fn string) error {
	var e *Error
	if errors.As(err, &e) && e.Func == "" {
		c := *e
		c.Func = fn
		return &c
	}
	return err
}
