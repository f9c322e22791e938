package arrays

import (
	"context"

	"github.com/wippyai/phpcore/cursor"
	"github.com/wippyai/phpcore/value"
)

type cursorMove func(t *cursor.Table, h value.Handle, d *value.ArrayData) (value.Handle, bool)

// moveCursor runs a pointer builtin. It returns the element now under the
// cursor, or false when the cursor is out of range.
func (e *Engine) moveCursor(fn string, args []value.Handle, move cursorMove) (value.Handle, error) {
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	h, ok := move(e.cursors, args[0], d)
	if !ok {
		return e.boolean(false), nil
	}
	return e.result(h), nil
}

// Current implements current(array) and pos(array).
func (e *Engine) Current(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.moveCursor("current", args, (*cursor.Table).Current)
}

// Next implements next(&array).
func (e *Engine) Next(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.moveCursor("next", args, (*cursor.Table).Next)
}

// Prev implements prev(&array).
func (e *Engine) Prev(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.moveCursor("prev", args, (*cursor.Table).Prev)
}

// Reset implements reset(&array).
func (e *Engine) Reset(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.moveCursor("reset", args, (*cursor.Table).Reset)
}

// End implements end(&array).
func (e *Engine) End(_ context.Context, args ...value.Handle) (value.Handle, error) {
	return e.moveCursor("end", args, (*cursor.Table).End)
}

// Key implements key(array). It returns null when the cursor is out of
// range.
func (e *Engine) Key(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "key"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	k, ok := e.cursors.Key(args[0], d)
	if !ok {
		return e.null(), nil
	}
	return e.keyHandle(k), nil
}

// Each implements each(&array): it returns [1 => value, "value" => value,
// 0 => key, "key" => key] for the current entry and advances, or false at
// the end.
func (e *Engine) Each(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "each"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	k, h, ok := e.cursors.Each(args[0], d)
	if !ok {
		return e.boolean(false), nil
	}
	out := value.NewArrayData(4)
	out.Set(value.IntKey(1), e.result(h))
	out.Set(value.StrKey("value"), e.result(h))
	out.Set(value.IntKey(0), e.keyHandle(k))
	out.Set(value.StrKey("key"), e.keyHandle(k))
	return e.array(out), nil
}
