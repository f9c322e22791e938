package codec

import (
	"math"
	"testing"

	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/symbol"
	"github.com/wippyai/phpcore/value"
)

func newCodec(opts *Options) (*Codec, *arena.Arena, *symbol.Table) {
	a := arena.New(nil)
	st := symbol.NewTable()
	return New(a, st, opts), a, st
}

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"list", `[1,2,3]`, `[1,2,3]`},
		{"ordered object", `{"b":1,"a":[true,null],"c":"x"}`, `{"b":1,"a":[true,null],"c":"x"}`},
		{"float", `[1.5,2.0,-0.25]`, `[1.5,2.0,-0.25]`},
		{"big int becomes float", `[18446744073709551616]`, `[1.8446744073709552e+19]`},
		{"unicode", `["éé/<>"]`, `["éé/<>"]`},
		{"empty", `[]`, `[]`},
		{"nested", `{"a":{"b":{"c":[]}}}`, `{"a":{"b":{"c":[]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newCodec(&Options{Assoc: true})
			h, err := c.DecodeJSON([]byte(tt.in))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, err := c.EncodeJSON(h)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(got) != tt.out {
				t.Fatalf("got %s, want %s", got, tt.out)
			}
		})
	}
}

func TestJSONDecodeObjectMap(t *testing.T) {
	c, a, st := newCodec(nil)
	h, err := c.DecodeJSON([]byte(`{"z":1,"y":{"x":2}}`))
	if err != nil {
		t.Fatal(err)
	}
	v, _ := a.Get(h)
	om, ok := v.(value.ObjectMap)
	if !ok {
		t.Fatalf("decoded %T, want ObjectMap", v)
	}
	names := om.Props.Names()
	if len(names) != 2 {
		t.Fatalf("names = %v", names)
	}
	if n, _ := st.NameString(names[0]); n != "z" {
		t.Fatalf("first property = %q", n)
	}
	out, err := c.EncodeJSON(h)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"z":1,"y":{"x":2}}` {
		t.Fatalf("re-encoded %s", out)
	}
}

func TestJSONEncodeSparseArray(t *testing.T) {
	c, a, _ := newCodec(nil)
	d := value.NewArrayData(2)
	d.Set(value.IntKey(1), a.Alloc(value.String("a")))
	d.Set(value.IntKey(0), a.Alloc(value.String("b")))
	out, err := c.EncodeJSON(a.AllocArray(d))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"1":"a","0":"b"}` {
		t.Fatalf("got %s", out)
	}
}

func TestJSONErrors(t *testing.T) {
	c, a, _ := newCodec(&Options{MaxDepth: 3})

	bad := []string{`[1,`, `{"a" 1}`, `[1] x`, `[[[[1]]]]`, ``}
	for _, in := range bad {
		if _, err := c.DecodeJSON([]byte(in)); !errors.IsKind(err, errors.KindInvalidArgument) {
			t.Errorf("decode %q: expected invalid_argument, got %v", in, err)
		}
	}

	unencodable := []value.Value{
		value.String("\xff"),
		value.Float(math.Inf(1)),
		value.Float(math.NaN()),
		value.Resource{Type: "stream", ID: 1},
	}
	for _, v := range unencodable {
		if _, err := c.EncodeJSON(a.Alloc(v)); !errors.IsKind(err, errors.KindInvalidArgument) {
			t.Errorf("encode %v: expected invalid_argument, got %v", v, err)
		}
	}

	deep := a.AllocList(a.AllocList(a.AllocList(a.AllocList(a.AllocList()))))
	if _, err := c.EncodeJSON(deep); !errors.IsKind(err, errors.KindInvalidArgument) {
		t.Errorf("deep encode: %v", err)
	}
}

func TestJSONObjectsAndStructs(t *testing.T) {
	c, a, st := newCodec(nil)
	data := value.NewObjectData(st.InternString("Point"), 2)
	data.Props.Set(st.InternString("x"), a.Alloc(value.Int(1)))
	data.Props.Set(st.InternString("y"), a.Alloc(value.Float(0.5)))

	obj := a.Alloc(value.Object{Payload: a.Alloc(value.ObjPayload{Data: data})})
	st1 := a.Alloc(value.Struct{Data: data})
	for _, h := range []value.Handle{obj, st1} {
		out, err := c.EncodeJSON(h)
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != `{"x":1,"y":0.5}` {
			t.Fatalf("got %s", out)
		}
	}
}

func TestCBORRoundTrip(t *testing.T) {
	c, a, _ := newCodec(&Options{Assoc: true})
	src, err := c.DecodeJSON([]byte(`{"b":[1,-2,3.5],"a":{"k":null,"t":true},"s":"text"}`))
	if err != nil {
		t.Fatal(err)
	}
	// an integer key must survive as an integer
	if err := a.ModifyArray(src, func(d *value.ArrayData) error {
		d.Set(value.IntKey(7), a.Alloc(value.String("seven")))
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	bin, err := c.EncodeCBOR(src)
	if err != nil {
		t.Fatal(err)
	}
	back, err := c.DecodeCBOR(bin)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := a.ArrayOf(back)
	if d.Len() != 4 {
		t.Fatalf("decoded %d entries", d.Len())
	}
	if k, _ := d.At(0); k != value.StrKey("b") {
		t.Fatalf("first key = %v", k)
	}
	if k, _ := d.At(3); k != value.IntKey(7) {
		t.Fatalf("last key = %v", k)
	}

	want, _ := c.EncodeJSON(src)
	got, _ := c.EncodeJSON(back)
	if string(got) != string(want) {
		t.Fatalf("cbor round trip changed value:\n%s\n%s", got, want)
	}
}

func TestCBORIndefiniteAndErrors(t *testing.T) {
	c, a, _ := newCodec(&Options{Assoc: true})

	// [_ 1, 2]
	h, err := c.DecodeCBOR([]byte{0x9f, 0x01, 0x02, 0xff})
	if err != nil {
		t.Fatal(err)
	}
	if d, _ := a.ArrayOf(h); d.Len() != 2 {
		t.Fatalf("len = %d", d.Len())
	}

	bad := [][]byte{
		{},
		{0x82, 0x01},       // array of 2 with one item
		{0x9f, 0x01},       // unterminated
		{0x01, 0x02},       // trailing data
		{0xa1, 0x80, 0x01}, // array used as key
	}
	for _, in := range bad {
		_, err := c.DecodeCBOR(in)
		if err == nil {
			t.Errorf("decode % x: expected error", in)
			continue
		}
		if k := errors.KindOf(err); k != errors.KindInvalidArgument && k != errors.KindKeyCoercion {
			t.Errorf("decode % x: kind %s", in, k)
		}
	}
}

func TestBinaryStringsUseByteStrings(t *testing.T) {
	c, a, _ := newCodec(nil)
	bin, err := c.EncodeCBOR(a.Alloc(value.String("\xff\x00")))
	if err != nil {
		t.Fatal(err)
	}
	if len(bin) == 0 || bin[0]>>5 != 2 {
		t.Fatalf("expected byte string, got % x", bin)
	}
	h, err := c.DecodeCBOR(bin)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := a.Get(h); v != value.String("\xff\x00") {
		t.Fatalf("decoded %q", v)
	}
}
