package value

import (
	"math"
	"strings"
)

// Deref resolves a handle to its value. Implementations return Null for
// handles they cannot resolve.
type Deref func(Handle) Value

// LooseEquals implements ==.
func LooseEquals(a, b Value, d Deref) bool {
	a, b = normalize(a), normalize(b)

	switch x := a.(type) {
	case Null:
		switch y := b.(type) {
		case Null:
			return true
		case String:
			return y == ""
		}
		return !ToBool(b)
	case Bool:
		return bool(x) == ToBool(b)
	}
	switch b.(type) {
	case Null, Bool:
		return LooseEquals(b, a, d)
	}

	if isNumber(a) || isNumber(b) {
		if c, ok := compareNumeric(a, b); ok {
			return c == 0
		}
	}

	switch x := a.(type) {
	case String:
		if y, ok := b.(String); ok {
			if nx, ok := ParseNumeric(string(x)); ok {
				if ny, ok := ParseNumeric(string(y)); ok {
					return numCmp(nx, ny) == 0
				}
			}
			return x == y
		}
		if isNumber(b) {
			return string(x) == ToPHPString(b)
		}
		return false
	case Int, Float:
		if y, ok := b.(String); ok {
			return ToPHPString(x) == string(y)
		}
		return false
	}

	if va, ok := viewOf(a, d); ok {
		vb, ok := viewOf(b, d)
		if !ok || va.len() != vb.len() {
			return false
		}
		equal := true
		va.each(func(k ArrayKey, v Value) bool {
			w, ok := vb.get(k)
			if !ok || !LooseEquals(v, w, d) {
				equal = false
			}
			return equal
		})
		return equal
	}

	if oa, ok := a.(Object); ok {
		if ob, ok := b.(Object); ok && oa.Payload == ob.Payload {
			return true
		}
	}
	pa, ca, okA := propsOf(a, d)
	pb, cb, okB := propsOf(b, d)
	if okA && okB {
		if ca != cb || pa.Len() != pb.Len() {
			return false
		}
		equal := true
		pa.Each(func(name Symbol, h Handle) bool {
			o, ok := pb.Get(name)
			if !ok || !LooseEquals(d(h), d(o), d) {
				equal = false
			}
			return equal
		})
		return equal
	}

	if ra, ok := a.(Resource); ok {
		if rb, ok := b.(Resource); ok {
			return ra.ID == rb.ID
		}
	}
	return false
}

// StrictEquals implements ===.
func StrictEquals(a, b Value, d Deref) bool {
	a, b = normalize(a), normalize(b)

	switch x := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		y, ok := b.(Int)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Object:
		y, ok := b.(Object)
		return ok && x.Payload == y.Payload
	case Resource:
		y, ok := b.(Resource)
		return ok && x.ID == y.ID
	}

	if va, ok := viewOf(a, d); ok {
		vb, ok := viewOf(b, d)
		if !ok || va.len() != vb.len() {
			return false
		}
		for i := 0; i < va.len(); i++ {
			ka, xa := va.at(i)
			kb, xb := vb.at(i)
			if ka != kb || !StrictEquals(xa, xb, d) {
				return false
			}
		}
		return true
	}

	pa, ca, okA := propsOf(a, d)
	pb, cb, okB := propsOf(b, d)
	if okA && okB && a.Kind() == b.Kind() {
		if ca != cb || pa.Len() != pb.Len() {
			return false
		}
		for i := 0; i < pa.Len(); i++ {
			na, ha := pa.At(i)
			nb, hb := pb.At(i)
			if na != nb || !StrictEquals(d(ha), d(hb), d) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare implements <=> and returns -1, 0 or 1.
// Uncomparable operands order as 1.
func Compare(a, b Value, d Deref) int {
	a, b = normalize(a), normalize(b)

	_, aNull := a.(Null)
	_, bNull := b.(Null)
	if aNull && bNull {
		return 0
	}
	if s, ok := b.(String); ok && aNull {
		return strCmp("", string(s))
	}
	if s, ok := a.(String); ok && bNull {
		return strCmp(string(s), "")
	}
	_, aBool := a.(Bool)
	_, bBool := b.(Bool)
	if aNull || bNull || aBool || bBool {
		return boolCmp(ToBool(a), ToBool(b))
	}

	if isNumber(a) || isNumber(b) {
		if c, ok := compareNumeric(a, b); ok {
			return c
		}
	}

	sa, aStr := a.(String)
	sb, bStr := b.(String)
	switch {
	case aStr && bStr:
		if na, ok := ParseNumeric(string(sa)); ok {
			if nb, ok := ParseNumeric(string(sb)); ok {
				return numCmp(na, nb)
			}
		}
		return strCmp(string(sa), string(sb))
	case aStr && isNumber(b):
		return strCmp(string(sa), ToPHPString(b))
	case bStr && isNumber(a):
		return strCmp(ToPHPString(a), string(sb))
	}

	va, aArr := viewOf(a, d)
	vb, bArr := viewOf(b, d)
	switch {
	case aArr && bArr:
		if va.len() != vb.len() {
			return intCmp(int64(va.len()), int64(vb.len()))
		}
		result := 0
		va.each(func(k ArrayKey, v Value) bool {
			w, ok := vb.get(k)
			if !ok {
				result = 1
				return false
			}
			result = Compare(v, w, d)
			return result == 0
		})
		return result
	case aArr:
		return 1
	case bArr:
		return -1
	}

	pa, ca, okA := propsOf(a, d)
	pb, cb, okB := propsOf(b, d)
	switch {
	case okA && okB:
		if oa, ok := a.(Object); ok {
			if ob, ok := b.(Object); ok && oa.Payload == ob.Payload {
				return 0
			}
		}
		if ca != cb {
			return 1
		}
		if pa.Len() != pb.Len() {
			return intCmp(int64(pa.Len()), int64(pb.Len()))
		}
		result := 0
		pa.Each(func(name Symbol, h Handle) bool {
			o, ok := pb.Get(name)
			if !ok {
				result = 1
				return false
			}
			result = Compare(d(h), d(o), d)
			return result == 0
		})
		return result
	case okA:
		return 1
	case okB:
		return -1
	}

	if ra, ok := a.(Resource); ok {
		if rb, ok := b.(Resource); ok {
			return intCmp(ra.ID, rb.ID)
		}
	}
	return 1
}

// normalize folds sentinel kinds onto Null.
func normalize(v Value) Value {
	switch v.(type) {
	case nil, Uninitialized, AppendPlaceholder:
		return Null{}
	}
	return v
}

func isNumber(v Value) bool {
	switch v.(type) {
	case Int, Float:
		return true
	}
	return false
}

// compareNumeric compares two operands numerically when both are numbers
// or one is a number and the other a numeric string.
func compareNumeric(a, b Value) (int, bool) {
	na, ok := asNumber(a)
	if !ok {
		return 0, false
	}
	nb, ok := asNumber(b)
	if !ok {
		return 0, false
	}
	return numCmp(na, nb), true
}

func asNumber(v Value) (Value, bool) {
	switch x := v.(type) {
	case Int, Float:
		return x, true
	case String:
		return ParseNumeric(string(x))
	}
	return nil, false
}

func numCmp(a, b Value) int {
	ia, aInt := a.(Int)
	ib, bInt := b.(Int)
	if aInt && bInt {
		return intCmp(int64(ia), int64(ib))
	}
	fa, fb := ToFloat(a), ToFloat(b)
	switch {
	case math.IsNaN(fa) || math.IsNaN(fb):
		return 1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	}
	return 0
}

func intCmp(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

func strCmp(a, b string) int {
	return strings.Compare(a, b)
}

// propsOf returns the property map and class of object-like values.
// Object is resolved through its payload handle.
func propsOf(v Value, d Deref) (*PropertyMap, Symbol, bool) {
	switch x := v.(type) {
	case Object:
		if p, ok := d(x.Payload).(ObjPayload); ok && p.Data != nil {
			return p.Data.Props, p.Data.Class, true
		}
		return NewPropertyMap(0), 0, true
	case ObjPayload:
		return x.Data.Props, x.Data.Class, true
	case Struct:
		return x.Data.Props, x.Data.Class, true
	case ObjectMap:
		return x.Props, 0, true
	}
	return nil, 0, false
}

// arrView gives Array and ConstArray a common read interface.
type arrView struct {
	data    *ArrayData
	entries []ConstEntry
	d       Deref
}

func viewOf(v Value, d Deref) (arrView, bool) {
	switch x := v.(type) {
	case Array:
		return arrView{data: x.Data, d: d}, true
	case ConstArray:
		return arrView{entries: x.Entries, d: d}, true
	}
	return arrView{}, false
}

func (v arrView) len() int {
	if v.data != nil {
		return v.data.Len()
	}
	return len(v.entries)
}

func (v arrView) at(i int) (ArrayKey, Value) {
	if v.data != nil {
		k, h := v.data.At(i)
		return k, v.d(h)
	}
	e := v.entries[i]
	return e.Key, e.Value
}

func (v arrView) get(k ArrayKey) (Value, bool) {
	if v.data != nil {
		h, ok := v.data.Get(k)
		if !ok {
			return nil, false
		}
		return v.d(h), true
	}
	for i := len(v.entries) - 1; i >= 0; i-- {
		if v.entries[i].Key == k {
			return v.entries[i].Value, true
		}
	}
	return nil, false
}

func (v arrView) each(fn func(ArrayKey, Value) bool) {
	for i := 0; i < v.len(); i++ {
		k, x := v.at(i)
		if !fn(k, x) {
			return
		}
	}
}
