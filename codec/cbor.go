package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

const (
	majorArray = 4
	majorMap   = 5

	infoIndefinite = 31
	cborBreak      = 0xff
)

const (
	cborEncodeFn = "cbor_encode"
	cborDecodeFn = "cbor_decode"
)

// EncodeCBOR renders the value at h as CBOR. Arrays and objects are written
// as definite-length maps in insertion order; lists as arrays. Strings that
// are valid UTF-8 become text strings, others byte strings.
func (c *Codec) EncodeCBOR(h value.Handle) ([]byte, error) {
	v, err := c.a.Get(h)
	if err != nil {
		return nil, err
	}
	return c.cborValue(nil, v, 0)
}

func (c *Codec) cborValue(out []byte, v value.Value, depth int) ([]byte, error) {
	if depth > c.opts.MaxDepth {
		return nil, tooDeep(cborEncodeFn)
	}
	var scalar any
	switch x := v.(type) {
	case nil, value.Null, value.Uninitialized:
		scalar = nil
	case value.Bool:
		scalar = bool(x)
	case value.Int:
		scalar = int64(x)
	case value.Float:
		scalar = float64(x)
	case value.String:
		if utf8.ValidString(string(x)) {
			scalar = string(x)
		} else {
			scalar = []byte(x)
		}
	case value.Array, value.ConstArray:
		return c.cborArray(out, v, depth)
	default:
		props, ok := c.fields(v)
		if !ok {
			return nil, unsupported(cborEncodeFn, v)
		}
		out = appendHead(out, majorMap, uint64(props.Len()))
		for i := 0; i < props.Len(); i++ {
			sym, h := props.At(i)
			name, err := c.propName(sym)
			if err != nil {
				return nil, err
			}
			if out, err = c.cborScalar(out, name); err != nil {
				return nil, err
			}
			if out, err = c.cborValue(out, c.a.Deref()(h), depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return c.cborScalar(out, scalar)
}

func (c *Codec) cborArray(out []byte, v value.Value, depth int) ([]byte, error) {
	var d *value.ArrayData
	switch x := v.(type) {
	case value.Array:
		d = x.Data
	case value.ConstArray:
		d = x.Materialize(c.a.Alloc)
	}
	list := d.IsList()
	if list {
		out = appendHead(out, majorArray, uint64(d.Len()))
	} else {
		out = appendHead(out, majorMap, uint64(d.Len()))
	}
	var err error
	for i := 0; i < d.Len(); i++ {
		k, h := d.At(i)
		if !list {
			var key any = k.Int()
			if k.IsStr() {
				key = k.Str()
			}
			if out, err = c.cborScalar(out, key); err != nil {
				return nil, err
			}
		}
		if out, err = c.cborValue(out, c.a.Deref()(h), depth+1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Codec) cborScalar(out []byte, v any) ([]byte, error) {
	b, err := cborEncMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCodec, errors.KindInvalidArgument, err, "encode cbor scalar")
	}
	return append(out, b...), nil
}

func appendHead(out []byte, major byte, n uint64) []byte {
	m := major << 5
	switch {
	case n < 24:
		return append(out, m|byte(n))
	case n <= math.MaxUint8:
		return append(out, m|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(out, m|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(out, m|26), uint32(n))
	}
	return binary.BigEndian.AppendUint64(append(out, m|27), n)
}

// DecodeCBOR parses one CBOR item. Maps keep their wire order.
func (c *Codec) DecodeCBOR(data []byte) (value.Handle, error) {
	d := &cborDecoder{c: c, data: data}
	h, err := d.value(0)
	if err != nil {
		return 0, err
	}
	if d.pos != len(d.data) {
		return 0, cborError("unexpected data after top-level item", nil)
	}
	return h, nil
}

type cborDecoder struct {
	c    *Codec
	data []byte
	pos  int
}

func (d *cborDecoder) value(depth int) (value.Handle, error) {
	if d.pos >= len(d.data) {
		return 0, cborError("unexpected end of data", nil)
	}
	major := d.data[d.pos] >> 5
	if major != majorArray && major != majorMap {
		return d.scalar()
	}
	if depth >= d.c.opts.MaxDepth {
		return 0, tooDeep(cborDecodeFn)
	}
	n, indefinite, err := d.head()
	if err != nil {
		return 0, err
	}
	if major == majorArray {
		return d.list(n, indefinite, depth)
	}
	return d.dict(n, indefinite, depth)
}

// head consumes an array or map head and returns its item count.
func (d *cborDecoder) head() (uint64, bool, error) {
	info := d.data[d.pos] & 0x1f
	d.pos++
	if info < 24 {
		return uint64(info), false, nil
	}
	if info == infoIndefinite {
		return 0, true, nil
	}
	size := 0
	switch info {
	case 24:
		size = 1
	case 25:
		size = 2
	case 26:
		size = 4
	case 27:
		size = 8
	default:
		return 0, false, cborError("invalid length encoding", nil)
	}
	if d.pos+size > len(d.data) {
		return 0, false, cborError("unexpected end of data", nil)
	}
	var n uint64
	for _, b := range d.data[d.pos : d.pos+size] {
		n = n<<8 | uint64(b)
	}
	d.pos += size
	if n > uint64(len(d.data)-d.pos) {
		return 0, false, cborError("length exceeds input", nil)
	}
	return n, false, nil
}

// more reports whether another item follows in a container of n items
// after i have been read, consuming the break byte of an indefinite one.
func (d *cborDecoder) more(i, n uint64, indefinite bool) (bool, error) {
	if !indefinite {
		return i < n, nil
	}
	if d.pos >= len(d.data) {
		return false, cborError("unexpected end of data", nil)
	}
	if d.data[d.pos] == cborBreak {
		d.pos++
		return false, nil
	}
	return true, nil
}

func (d *cborDecoder) list(n uint64, indefinite bool, depth int) (value.Handle, error) {
	out := value.NewArrayData(int(n))
	for i := uint64(0); ; i++ {
		ok, err := d.more(i, n, indefinite)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		h, err := d.value(depth + 1)
		if err != nil {
			return 0, err
		}
		out.Append(h)
	}
	return d.c.a.AllocArray(out), nil
}

func (d *cborDecoder) dict(n uint64, indefinite bool, depth int) (value.Handle, error) {
	var (
		keys []value.ArrayKey
		vals []value.Handle
	)
	for i := uint64(0); ; i++ {
		ok, err := d.more(i, n, indefinite)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		k, err := d.key()
		if err != nil {
			return 0, err
		}
		h, err := d.value(depth + 1)
		if err != nil {
			return 0, err
		}
		keys = append(keys, k)
		vals = append(vals, h)
	}

	if d.c.opts.Assoc {
		out := value.NewArrayData(len(keys))
		for i, k := range keys {
			out.Set(k, vals[i])
		}
		return d.c.a.AllocArray(out), nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.Str()
	}
	return d.c.objectMap(names, vals)
}

func (d *cborDecoder) key() (value.ArrayKey, error) {
	var raw any
	rest, err := cbor.UnmarshalFirst(d.data[d.pos:], &raw)
	if err != nil {
		return value.ArrayKey{}, cborError("malformed map key", err)
	}
	d.pos = len(d.data) - len(rest)
	switch k := raw.(type) {
	case uint64:
		if k <= math.MaxInt64 {
			return value.IntKey(int64(k)), nil
		}
	case int64:
		return value.IntKey(k), nil
	case string:
		return value.StrKey(k), nil
	case []byte:
		return value.StrKey(string(k)), nil
	}
	return value.ArrayKey{}, errors.New(errors.PhaseCodec, errors.KindKeyCoercion).
		Func(cborDecodeFn).
		Got(fmt.Sprintf("%T", raw)).
		Detail("cannot be used as an array key").
		Build()
}

func (d *cborDecoder) scalar() (value.Handle, error) {
	var raw any
	rest, err := cbor.UnmarshalFirst(d.data[d.pos:], &raw)
	if err != nil {
		return 0, cborError("malformed item", err)
	}
	d.pos = len(d.data) - len(rest)

	var v value.Value
	switch x := raw.(type) {
	case nil:
		v = value.Null{}
	case bool:
		v = value.Bool(x)
	case uint64:
		if x <= math.MaxInt64 {
			v = value.Int(int64(x))
		} else {
			v = value.Float(float64(x))
		}
	case int64:
		v = value.Int(x)
	case float64:
		v = value.Float(x)
	case float32:
		v = value.Float(float64(x))
	case string:
		v = value.String(x)
	case []byte:
		v = value.String(x)
	default:
		return 0, errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
			Func(cborDecodeFn).
			Got(fmt.Sprintf("%T", raw)).
			Detail("%s", "unsupported CBOR item at offset "+strconv.Itoa(d.pos)).
			Build()
	}
	return d.c.a.Alloc(v), nil
}

func cborError(detail string, cause error) error {
	return errors.New(errors.PhaseCodec, errors.KindInvalidArgument).
		Func(cborDecodeFn).
		Detail("%s", detail).
		Cause(cause).
		Build()
}
