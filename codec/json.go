package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// EncodeJSON renders the value at h as JSON.
func (c *Codec) EncodeJSON(h value.Handle) ([]byte, error) {
	v, err := c.a.Get(h)
	if err != nil {
		return nil, err
	}
	enc := &jsonEncoder{c: c}
	if err := enc.value(v, 0); err != nil {
		return nil, err
	}
	return enc.buf.Bytes(), nil
}

type jsonEncoder struct {
	c   *Codec
	buf bytes.Buffer
	tmp []byte
}

const encodeFn = "json_encode"

func (e *jsonEncoder) value(v value.Value, depth int) error {
	if depth > e.c.opts.MaxDepth {
		return tooDeep(encodeFn)
	}
	switch x := v.(type) {
	case nil, value.Null, value.Uninitialized:
		e.buf.WriteString("null")
	case value.Bool:
		e.buf.WriteString(strconv.FormatBool(bool(x)))
	case value.Int:
		e.tmp = strconv.AppendInt(e.tmp[:0], int64(x), 10)
		e.buf.Write(e.tmp)
	case value.Float:
		return e.float(float64(x))
	case value.String:
		return e.string(string(x))
	case value.Array, value.ConstArray:
		return e.array(v, depth)
	default:
		props, ok := e.c.fields(v)
		if !ok {
			return unsupported(encodeFn, v)
		}
		return e.object(props, depth)
	}
	return nil
}

func (e *jsonEncoder) float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
			Func(encodeFn).
			Detail("Inf and NaN cannot be JSON encoded").
			Build()
	}
	e.tmp = strconv.AppendFloat(e.tmp[:0], f, 'g', -1, 64)
	if f == math.Trunc(f) && bytes.IndexAny(e.tmp, ".e") < 0 {
		e.tmp = append(e.tmp, ".0"...)
	}
	e.buf.Write(e.tmp)
	return nil
}

func (e *jsonEncoder) string(s string) error {
	if !utf8.ValidString(s) {
		return errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
			Func(encodeFn).
			Detail("malformed UTF-8 characters").
			Build()
	}
	enc := json.NewEncoder(&e.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.PhaseCodec, errors.KindInvalidArgument, err, "encode string")
	}
	// Encode terminates each value with a newline
	e.buf.Truncate(e.buf.Len() - 1)
	return nil
}

func (e *jsonEncoder) array(v value.Value, depth int) error {
	var d *value.ArrayData
	switch x := v.(type) {
	case value.Array:
		d = x.Data
	case value.ConstArray:
		d = x.Materialize(e.c.a.Alloc)
	}
	if d.IsList() {
		e.buf.WriteByte('[')
		for i := 0; i < d.Len(); i++ {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			_, h := d.At(i)
			if err := e.value(e.c.a.Deref()(h), depth+1); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
		return nil
	}
	e.buf.WriteByte('{')
	for i := 0; i < d.Len(); i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		k, h := d.At(i)
		if err := e.string(k.Str()); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if err := e.value(e.c.a.Deref()(h), depth+1); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *jsonEncoder) object(props *value.PropertyMap, depth int) error {
	e.buf.WriteByte('{')
	for i := 0; i < props.Len(); i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		sym, h := props.At(i)
		name, err := e.c.propName(sym)
		if err != nil {
			return err
		}
		if err := e.string(name); err != nil {
			return err
		}
		e.buf.WriteByte(':')
		if err := e.value(e.c.a.Deref()(h), depth+1); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

const decodeFn = "json_decode"

// DecodeJSON parses data into a fresh value.
func (c *Codec) DecodeJSON(data []byte) (value.Handle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	d := &jsonDecoder{c: c, dec: dec}
	h, err := d.value(0)
	if err != nil {
		return 0, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return 0, syntaxError(errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
			Detail("unexpected data after top-level value").
			Build())
	}
	return h, nil
}

type jsonDecoder struct {
	c   *Codec
	dec *json.Decoder
}

func (d *jsonDecoder) value(depth int) (value.Handle, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return 0, syntaxError(err)
	}
	a := d.c.a
	switch t := tok.(type) {
	case nil:
		return a.Alloc(value.Null{}), nil
	case bool:
		return a.Alloc(value.Bool(t)), nil
	case string:
		return a.Alloc(value.String(t)), nil
	case json.Number:
		return a.Alloc(number(t)), nil
	case json.Delim:
		if depth >= d.c.opts.MaxDepth {
			return 0, tooDeep(decodeFn)
		}
		if t == '[' {
			return d.list(depth)
		}
		return d.object(depth)
	}
	return 0, syntaxError(errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
		Detail("unexpected token %v", tok).
		Build())
}

func (d *jsonDecoder) list(depth int) (value.Handle, error) {
	out := value.NewArrayData(0)
	for d.dec.More() {
		h, err := d.value(depth + 1)
		if err != nil {
			return 0, err
		}
		out.Append(h)
	}
	if _, err := d.dec.Token(); err != nil {
		return 0, syntaxError(err)
	}
	return d.c.a.AllocArray(out), nil
}

func (d *jsonDecoder) object(depth int) (value.Handle, error) {
	var (
		keys []string
		vals []value.Handle
	)
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return 0, syntaxError(err)
		}
		key, _ := tok.(string)
		h, err := d.value(depth + 1)
		if err != nil {
			return 0, err
		}
		keys = append(keys, key)
		vals = append(vals, h)
	}
	if _, err := d.dec.Token(); err != nil {
		return 0, syntaxError(err)
	}
	if d.c.opts.Assoc {
		out := value.NewArrayData(len(keys))
		for i, k := range keys {
			out.Set(value.StrKey(k), vals[i])
		}
		return d.c.a.AllocArray(out), nil
	}
	return d.c.objectMap(keys, vals)
}

func number(n json.Number) value.Value {
	if i, err := n.Int64(); err == nil {
		return value.Int(i)
	}
	f, err := n.Float64()
	if err != nil {
		// out of float range
		if len(n) > 0 && n[0] == '-' {
			return value.Float(math.Inf(-1))
		}
		return value.Float(math.Inf(1))
	}
	return value.Float(f)
}

func syntaxError(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
		Func(decodeFn).
		Detail("syntax error").
		Cause(err).
		Build()
}
