package arrays

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/phpcore/callable"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// arity checks the argument count. max < 0 means unbounded.
func arity(fn string, args []value.Handle, min, max int) error {
	n := len(args)
	if n >= min && (max < 0 || n <= max) {
		return nil
	}
	var want string
	switch {
	case min == max:
		want = countWord("exactly", min)
	case max < 0:
		want = countWord("at least", min)
	case max == min+1:
		want = fmt.Sprintf("%d or %d arguments", min, max)
	default:
		want = fmt.Sprintf("between %d and %d arguments", min, max)
	}
	return errors.Arity(fn, want, n)
}

func countWord(quantifier string, n int) string {
	if n == 1 {
		return quantifier + " 1 argument"
	}
	return fmt.Sprintf("%s %d arguments", quantifier, n)
}

func (e *Engine) get(fn string, h value.Handle) (value.Value, error) {
	v, err := e.a.Get(h)
	if err != nil {
		return nil, errors.WithFunc(err, fn)
	}
	return v, nil
}

// deref resolves h, mapping invalid handles to Null.
func (e *Engine) deref(h value.Handle) value.Value {
	v, err := e.a.Get(h)
	if err != nil {
		return value.Null{}
	}
	return v
}

func (e *Engine) isNull(h value.Handle) bool {
	switch e.deref(h).(type) {
	case value.Null, value.Uninitialized:
		return true
	}
	return false
}

// arrayArg resolves args[i] as an array. The returned data is shared.
func (e *Engine) arrayArg(fn string, args []value.Handle, i int) (*value.ArrayData, error) {
	d, err := e.a.ArrayOf(args[i])
	if err == nil {
		return d, nil
	}
	if errors.IsKind(err, errors.KindTypeMismatch) {
		return nil, errors.TypeMismatch(errors.PhaseArray, fn, i+1, "array", value.TypeName(e.deref(args[i])))
	}
	return nil, errors.WithFunc(err, fn)
}

// arrayArgs resolves args[from:to] as arrays.
func (e *Engine) arrayArgs(fn string, args []value.Handle, from, to int) ([]*value.ArrayData, error) {
	out := make([]*value.ArrayData, 0, to-from)
	for i := from; i < to; i++ {
		d, err := e.arrayArg(fn, args, i)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// intArg reads args[i] as an integer. Numeric strings, bools, floats and
// null are accepted; anything else is a type mismatch.
func (e *Engine) intArg(fn string, args []value.Handle, i int) (int64, error) {
	v, err := e.get(fn, args[i])
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case value.Int:
		return int64(x), nil
	case value.Bool, value.Float, value.Null, value.Uninitialized:
		return value.ToInt(x), nil
	case value.String:
		if n, ok := value.ParseNumeric(string(x)); ok {
			return value.ToInt(n), nil
		}
	}
	return 0, errors.TypeMismatch(errors.PhaseArray, fn, i+1, "int", value.TypeName(v))
}

// optIntArg is intArg with a default for a missing or null argument.
func (e *Engine) optIntArg(fn string, args []value.Handle, i int, def int64) (int64, error) {
	if i >= len(args) || e.isNull(args[i]) {
		return def, nil
	}
	return e.intArg(fn, args, i)
}

// optBoolArg reads a scalar argument as a bool, with a default when absent.
func (e *Engine) optBoolArg(fn string, args []value.Handle, i int, def bool) (bool, error) {
	if i >= len(args) {
		return def, nil
	}
	v, err := e.get(fn, args[i])
	if err != nil {
		return false, err
	}
	switch v.(type) {
	case value.Array, value.ConstArray, value.Object, value.Struct, value.ObjectMap:
		return false, errors.TypeMismatch(errors.PhaseArray, fn, i+1, "bool", value.TypeName(v))
	}
	return value.ToBool(v), nil
}

func (e *Engine) alloc(v value.Value) value.Handle { return e.a.Alloc(v) }

func (e *Engine) boolean(b bool) value.Handle { return e.a.Alloc(value.Bool(b)) }

func (e *Engine) null() value.Handle { return e.a.Alloc(value.Null{}) }

func (e *Engine) array(d *value.ArrayData) value.Handle { return e.a.AllocArray(d) }

func (e *Engine) keyHandle(k value.ArrayKey) value.Handle { return e.a.Alloc(k.Value()) }

// str is the string form used by the default comparisons of the set
// operations and array_unique.
func (e *Engine) str(h value.Handle) string {
	return value.ToPHPString(e.deref(h))
}

// call invokes a user callback and returns the result handle.
func (e *Engine) call(ctx context.Context, fn string, cb value.Handle, args ...value.Handle) (value.Handle, error) {
	if e.inv == nil {
		return 0, errors.NotCallable(fn, value.TypeName(e.deref(cb)))
	}
	h, err := e.inv.Invoke(ctx, cb, args)
	if err != nil {
		if callable.IsUnrecognized(err) {
			return 0, errors.New(errors.PhaseCallable, errors.KindCallableInvocation).
				Func(fn).
				Got(value.TypeName(e.deref(cb))).
				Detail("not a valid callback").
				Cause(err).
				Build()
		}
		Logger().Debug("callback failed", zap.String("func", fn), zap.Error(err))
		return 0, errors.CallableFailed(fn, err)
	}
	return h, nil
}

// truthy invokes cb and reports whether the result is truthy.
func (e *Engine) truthy(ctx context.Context, fn string, cb value.Handle, args ...value.Handle) (bool, error) {
	h, err := e.call(ctx, fn, cb, args...)
	if err != nil {
		return false, err
	}
	return value.ToBool(e.deref(h)), nil
}

// compareCall invokes a comparator and reduces its result to its sign.
func (e *Engine) compareCall(ctx context.Context, fn string, cb, a, b value.Handle) (int, error) {
	h, err := e.call(ctx, fn, cb, a, b)
	if err != nil {
		return 0, err
	}
	n := value.ToInt(e.deref(h))
	switch {
	case n < 0:
		return -1, nil
	case n > 0:
		return 1, nil
	}
	return 0, nil
}

// dup copies an argument into a fresh handle before it is stored inside an
// array. Handles stored inside arrays belong to the array.
func (e *Engine) dup(fn string, h value.Handle) (value.Handle, error) {
	d, err := e.a.Dup(h)
	if err != nil {
		return 0, errors.WithFunc(err, fn)
	}
	return d, nil
}

// result returns a fresh copy of an element so the caller never holds a
// handle that an array also references.
func (e *Engine) result(h value.Handle) value.Handle {
	return e.a.Alloc(e.deref(h))
}

// maxDepth bounds the recursive builtins. Arrays only nest through handles,
// so a self-referencing element would otherwise recurse forever.
const maxDepth = 256

func tooDeep(fn string) error {
	return errors.New(errors.PhaseArray, errors.KindInvalidOperation).
		Func(fn).
		Detail("nesting level too deep, recursive dependency?").
		Build()
}
