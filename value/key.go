package value

import (
	"math"
	"strconv"
)

// ArrayKey is an array key: either an integer or a byte string.
// ArrayKey is comparable and can be used as a map key.
type ArrayKey struct {
	s     string
	i     int64
	isStr bool
}

// IntKey returns an integer key.
func IntKey(i int64) ArrayKey { return ArrayKey{i: i} }

// StrKey returns a string key. Numeric strings are not promoted.
func StrKey(s string) ArrayKey { return ArrayKey{s: s, isStr: true} }

func (k ArrayKey) IsInt() bool { return !k.isStr }
func (k ArrayKey) IsStr() bool { return k.isStr }

// Int returns the integer form of an Int key, 0 for string keys.
func (k ArrayKey) Int() int64 { return k.i }

// Str returns the string form of a key. Integer keys are formatted in base 10.
func (k ArrayKey) Str() string {
	if k.isStr {
		return k.s
	}
	return strconv.FormatInt(k.i, 10)
}

func (k ArrayKey) String() string {
	if k.isStr {
		return strconv.Quote(k.s)
	}
	return strconv.FormatInt(k.i, 10)
}

// Value returns the key as a runtime value.
func (k ArrayKey) Value() Value {
	if k.isStr {
		return String(k.s)
	}
	return Int(k.i)
}

// ToArrayKey coerces v to an array key.
//
//	Int    -> Int
//	Bool   -> Int(0|1)
//	Float  -> Int, truncated toward zero (non-finite or out of range -> 0)
//	Null   -> Str("")
//	String -> Str, never promoted to Int
//
// Any other kind fails.
func ToArrayKey(v Value) (ArrayKey, bool) {
	switch x := v.(type) {
	case Int:
		return IntKey(int64(x)), true
	case Bool:
		if x {
			return IntKey(1), true
		}
		return IntKey(0), true
	case Float:
		return IntKey(floatToInt(float64(x))), true
	case Null:
		return StrKey(""), true
	case String:
		return StrKey(string(x)), true
	}
	return ArrayKey{}, false
}

func floatToInt(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	t := math.Trunc(f)
	if t >= 9.223372036854775807e18 || t < -9.223372036854775808e18 {
		return 0
	}
	return int64(t)
}
