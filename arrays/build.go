package arrays

import (
	"context"
	"math"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// MaxRangeElements caps the size of a range() result.
const MaxRangeElements = 1 << 24

// Case modes of array_change_key_case.
const (
	CaseLower = 0
	CaseUpper = 1
)

// Range implements range(start, end, step = 1).
//
// Two single-byte non-numeric strings produce a byte range. A float
// endpoint or a fractional step produces floats. Everything else produces
// integers.
func (e *Engine) Range(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "range"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	start, err := e.get(fn, args[0])
	if err != nil {
		return 0, err
	}
	end, err := e.get(fn, args[1])
	if err != nil {
		return 0, err
	}
	var step value.Value = value.Int(1)
	if len(args) == 3 {
		if step, err = e.get(fn, args[2]); err != nil {
			return 0, err
		}
		switch st := step.(type) {
		case value.Int, value.Float, value.Bool, value.Null:
		case value.String:
			if !value.IsNumericString(string(st)) {
				return 0, errors.TypeMismatch(errors.PhaseArray, fn, 3, "int|float", "string")
			}
		default:
			return 0, errors.TypeMismatch(errors.PhaseArray, fn, 3, "int|float", value.TypeName(step))
		}
		step = value.ToNumber(step)
	}

	for i, v := range []value.Value{start, end} {
		switch v.(type) {
		case value.Int, value.Float, value.String, value.Bool, value.Null:
		default:
			return 0, errors.TypeMismatch(errors.PhaseArray, fn, i+1, "string|int|float", value.TypeName(v))
		}
	}

	stepF := math.Abs(value.ToFloat(step))
	if stepF == 0 || math.IsNaN(stepF) || math.IsInf(stepF, 0) {
		return 0, errors.InvalidArgument(fn, 3, "cannot be 0")
	}

	if lo, hi, ok := byteEndpoints(start, end); ok && isIntegral(step) {
		return e.byteRange(fn, lo, hi, int64(stepF))
	}

	s, t := rangeEndpoint(start), rangeEndpoint(end)
	_, sf := s.(value.Float)
	_, tf := t.(value.Float)
	if sf || tf || !isIntegral(step) {
		return e.floatRange(fn, value.ToFloat(s), value.ToFloat(t), stepF)
	}
	return e.intRange(fn, int64(s.(value.Int)), int64(t.(value.Int)), stepF)
}

func isIntegral(v value.Value) bool {
	f, ok := v.(value.Float)
	return !ok || float64(f) == math.Trunc(float64(f))
}

// byteEndpoints reports whether both endpoints are single non-digit bytes.
func byteEndpoints(a, b value.Value) (byte, byte, bool) {
	x, xok := a.(value.String)
	y, yok := b.(value.String)
	if !xok || !yok || len(x) != 1 || len(y) != 1 {
		return 0, 0, false
	}
	if isDigitByte(x[0]) || isDigitByte(y[0]) {
		return 0, 0, false
	}
	return x[0], y[0], true
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

// rangeEndpoint converts an endpoint to Int or Float. Non-numeric strings
// count as 0.
func rangeEndpoint(v value.Value) value.Value {
	if s, ok := v.(value.String); ok {
		if n, ok := value.ParseNumeric(string(s)); ok {
			return n
		}
		return value.Int(0)
	}
	return value.ToNumber(v)
}

func rangeSize(fn string, span, step float64) (int, error) {
	n := math.Floor(span/step) + 1
	if n > MaxRangeElements {
		return 0, errors.InvalidArgument(fn, 3, "the resulting array is too large")
	}
	return int(n), nil
}

func (e *Engine) byteRange(fn string, lo, hi byte, step int64) (value.Handle, error) {
	if step > 255 {
		step = 255
	}
	span := int64(hi) - int64(lo)
	dir := int64(1)
	if span < 0 {
		span, dir = -span, -1
	}
	if span != 0 && step > span {
		return 0, errors.InvalidArgument(fn, 3, "must not exceed the specified range")
	}
	out := value.NewArrayData(int(span/step) + 1)
	for c := int64(lo); (dir > 0 && c <= int64(hi)) || (dir < 0 && c >= int64(hi)); c += dir * step {
		out.Append(e.alloc(value.String([]byte{byte(c)})))
	}
	return e.array(out), nil
}

func (e *Engine) intRange(fn string, lo, hi int64, stepF float64) (value.Handle, error) {
	if lo == hi {
		return e.array(value.NewList(e.alloc(value.Int(lo)))), nil
	}
	span := math.Abs(float64(hi) - float64(lo))
	if stepF > span {
		return 0, errors.InvalidArgument(fn, 3, "must not exceed the specified range")
	}
	n, err := rangeSize(fn, span, stepF)
	if err != nil {
		return 0, err
	}
	step := int64(stepF)
	if lo > hi {
		step = -step
	}
	out := value.NewArrayData(n)
	v := lo
	for i := 0; i < n; i++ {
		out.Append(e.alloc(value.Int(v)))
		v += step
	}
	return e.array(out), nil
}

func (e *Engine) floatRange(fn string, lo, hi, step float64) (value.Handle, error) {
	if lo == hi {
		return e.array(value.NewList(e.alloc(value.Float(lo)))), nil
	}
	span := math.Abs(hi - lo)
	if step > span {
		return 0, errors.InvalidArgument(fn, 3, "must not exceed the specified range")
	}
	n, err := rangeSize(fn, span, step)
	if err != nil {
		return 0, err
	}
	if lo > hi {
		step = -step
	}
	out := value.NewArrayData(n)
	for i := 0; i < n; i++ {
		out.Append(e.alloc(value.Float(lo + float64(i)*step)))
	}
	return e.array(out), nil
}

// Fill implements array_fill(start_index, count, value).
func (e *Engine) Fill(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_fill"
	if err := arity(fn, args, 3, 3); err != nil {
		return 0, err
	}
	start, err := e.intArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	count, err := e.intArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, errors.InvalidArgument(fn, 2, "must be greater than or equal to 0")
	}
	if count > MaxRangeElements || (count > 0 && start > math.MaxInt64-count+1) {
		return 0, errors.InvalidArgument(fn, 2, "is too large")
	}
	v, err := e.get(fn, args[2])
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(int(count))
	for i := int64(0); i < count; i++ {
		out.Set(value.IntKey(start+i), e.alloc(v))
	}
	return e.array(out), nil
}

// FillKeys implements array_fill_keys(keys, value).
func (e *Engine) FillKeys(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_fill_keys"
	if err := arity(fn, args, 2, 2); err != nil {
		return 0, err
	}
	keys, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	v, err := e.get(fn, args[1])
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(keys.Len())
	for _, kh := range keys.Values() {
		k, err := e.elementKey(fn, kh)
		if err != nil {
			return 0, err
		}
		out.Set(k, e.alloc(v))
	}
	return e.array(out), nil
}

// elementKey coerces an array element to a key.
func (e *Engine) elementKey(fn string, h value.Handle) (value.ArrayKey, error) {
	v := e.deref(h)
	k, ok := value.ToArrayKey(v)
	if !ok {
		return value.ArrayKey{}, errors.KeyCoercion(fn, value.TypeName(v))
	}
	return k, nil
}

// Combine implements array_combine(keys, values).
func (e *Engine) Combine(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_combine"
	if err := arity(fn, args, 2, 2); err != nil {
		return 0, err
	}
	keys, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	vals, err := e.arrayArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	if keys.Len() != vals.Len() {
		return 0, errors.InvalidArgument(fn, 1, "and argument #2 ($values) must have the same number of elements")
	}
	out := value.NewArrayData(keys.Len())
	for i := 0; i < keys.Len(); i++ {
		_, kh := keys.At(i)
		_, vh := vals.At(i)
		k, err := e.elementKey(fn, kh)
		if err != nil {
			return 0, err
		}
		out.Set(k, vh)
	}
	return e.array(out), nil
}

// Flip implements array_flip(array). Only int and string values can
// become keys.
func (e *Engine) Flip(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_flip"
	if err := arity(fn, args, 1, 1); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	out := value.NewArrayData(d.Len())
	for _, ent := range d.Entries() {
		var k value.ArrayKey
		switch v := e.deref(ent.Value).(type) {
		case value.Int:
			k = value.IntKey(int64(v))
		case value.String:
			k = value.StrKey(string(v))
		default:
			kerr := errors.KeyCoercion(fn, value.TypeName(v))
			kerr.Detail = "can only flip string and integer values"
			return 0, kerr
		}
		out.Set(k, e.keyHandle(ent.Key))
	}
	return e.array(out), nil
}

// Pad implements array_pad(array, length, value). A negative length pads
// at the front. Integer keys are renumbered.
func (e *Engine) Pad(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_pad"
	if err := arity(fn, args, 3, 3); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	size, err := e.intArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	v, err := e.get(fn, args[2])
	if err != nil {
		return 0, err
	}

	want := size
	if want < 0 {
		want = -want
	}
	if want <= int64(d.Len()) {
		return e.array(d.Clone()), nil
	}
	if want > MaxRangeElements {
		return 0, errors.InvalidArgument(fn, 2, "must be less than or equal to 16777216")
	}

	pad := int(want) - d.Len()
	out := value.NewArrayData(int(want))
	if size < 0 {
		for i := 0; i < pad; i++ {
			out.Append(e.alloc(v))
		}
	}
	for _, ent := range d.Entries() {
		if ent.Key.IsInt() {
			out.Append(ent.Value)
		} else {
			out.Set(ent.Key, ent.Value)
		}
	}
	if size > 0 {
		for i := 0; i < pad; i++ {
			out.Append(e.alloc(v))
		}
	}
	return e.array(out), nil
}

// Chunk implements array_chunk(array, length, preserve_keys = false).
func (e *Engine) Chunk(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_chunk"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	size, err := e.intArg(fn, args, 1)
	if err != nil {
		return 0, err
	}
	if size < 1 {
		return 0, errors.InvalidArgument(fn, 2, "must be greater than 0")
	}
	preserve, err := e.optBoolArg(fn, args, 2, false)
	if err != nil {
		return 0, err
	}

	out := value.NewArrayData(0)
	var cur *value.ArrayData
	for _, ent := range d.Entries() {
		if cur == nil {
			cur = value.NewArrayData(int(min(size, int64(d.Len()))))
		}
		if preserve {
			cur.Set(ent.Key, ent.Value)
		} else {
			cur.Append(ent.Value)
		}
		if int64(cur.Len()) == size {
			out.Append(e.array(cur))
			cur = nil
		}
	}
	if cur != nil {
		out.Append(e.array(cur))
	}
	return e.array(out), nil
}

// Column implements array_column(array, column_key, index_key = null).
// Rows may be arrays or objects; object properties are looked up by name
// through the engine's interner.
func (e *Engine) Column(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_column"
	if err := arity(fn, args, 2, 3); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	wholeRow := e.isNull(args[1])
	var col value.ArrayKey
	if !wholeRow {
		if col, err = e.keyArg(fn, args, 1); err != nil {
			return 0, err
		}
	}
	hasIndex := len(args) == 3 && !e.isNull(args[2])
	var idx value.ArrayKey
	if hasIndex {
		if idx, err = e.keyArg(fn, args, 2); err != nil {
			return 0, err
		}
	}

	out := value.NewArrayData(d.Len())
	for _, rh := range d.Values() {
		row := e.deref(rh)
		vh := rh
		if !wholeRow {
			var ok bool
			if vh, ok = e.field(row, col); !ok {
				continue
			}
		}
		if hasIndex {
			if ih, ok := e.field(row, idx); ok {
				if k, ok := value.ToArrayKey(e.deref(ih)); ok {
					out.Set(k, vh)
					continue
				}
			}
		}
		if _, ok := out.Append(vh); !ok {
			return 0, appendFailed(fn)
		}
	}
	return e.array(out), nil
}

// field reads k from an array row or a property from an object row.
func (e *Engine) field(row value.Value, k value.ArrayKey) (value.Handle, bool) {
	switch r := row.(type) {
	case value.Array:
		return r.Data.Get(k)
	case value.ConstArray:
		for i := len(r.Entries) - 1; i >= 0; i-- {
			if r.Entries[i].Key == k {
				return e.alloc(r.Entries[i].Value), true
			}
		}
		return 0, false
	}
	props := e.propsOf(row)
	if props == nil || e.names == nil {
		return 0, false
	}
	sym := e.names.Intern([]byte(k.Str()))
	return props.Get(sym)
}

func (e *Engine) propsOf(v value.Value) *value.PropertyMap {
	switch o := v.(type) {
	case value.Object:
		return e.propsOf(e.deref(o.Payload))
	case value.ObjPayload:
		if o.Data != nil {
			return o.Data.Props
		}
	case value.Struct:
		if o.Data != nil {
			return o.Data.Props
		}
	case value.ObjectMap:
		return o.Props
	}
	return nil
}

// ChangeKeyCase implements array_change_key_case(array, case = CASE_LOWER).
// When two keys fold to the same string the later value wins at the
// earlier position.
func (e *Engine) ChangeKeyCase(_ context.Context, args ...value.Handle) (value.Handle, error) {
	const fn = "array_change_key_case"
	if err := arity(fn, args, 1, 2); err != nil {
		return 0, err
	}
	d, err := e.arrayArg(fn, args, 0)
	if err != nil {
		return 0, err
	}
	mode, err := e.optIntArg(fn, args, 1, CaseLower)
	if err != nil {
		return 0, err
	}
	fold := asciiLower
	if mode == CaseUpper {
		fold = asciiUpper
	}
	out := value.NewArrayData(d.Len())
	for _, ent := range d.Entries() {
		k := ent.Key
		if k.IsStr() {
			k = value.StrKey(fold(k.Str()))
		}
		out.Set(k, ent.Value)
	}
	return e.array(out), nil
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

func appendFailed(fn string) error {
	return errors.New(errors.PhaseArray, errors.KindInvalidOperation).
		Func(fn).
		Detail("cannot add element to the array as the next element is already occupied").
		Build()
}
