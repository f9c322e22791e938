package value

import "testing"

// sliceDeref resolves handles as 1-based indexes into vals.
func sliceDeref(vals ...Value) Deref {
	return func(h Handle) Value {
		if h == 0 || int(h) > len(vals) {
			return Null{}
		}
		return vals[h-1]
	}
}

func TestLooseEquals(t *testing.T) {
	d := sliceDeref()
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), String("1"), true},
		{Int(1), String("01"), true},
		{String("1e3"), String("1000"), true},
		{String("abc"), String("ABC"), false},
		{Int(0), String("a"), false},
		{Null{}, String(""), true},
		{Null{}, Int(0), true},
		{Null{}, String("0"), false},
		{Bool(true), String("x"), true},
		{Float(1.0), Int(1), true},
		{String("10"), String("1e1"), true},
		{Int(5), Array{Data: NewArrayData(0)}, false},
	}

	for _, tt := range tests {
		if got := LooseEquals(tt.a, tt.b, d); got != tt.want {
			t.Errorf("%#v == %#v: got %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := LooseEquals(tt.b, tt.a, d); got != tt.want {
			t.Errorf("%#v == %#v (swapped): got %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestLooseEquals_Arrays(t *testing.T) {
	d := sliceDeref(Int(1), String("1"), Int(2))
	a := NewArrayData(0)
	a.Set(StrKey("x"), 1)
	a.Set(StrKey("y"), 3)
	b := NewArrayData(0)
	b.Set(StrKey("y"), 3)
	b.Set(StrKey("x"), 2)

	if !LooseEquals(Array{Data: a}, Array{Data: b}, d) {
		t.Error("arrays with same pairs in different order should be ==")
	}
	if StrictEquals(Array{Data: a}, Array{Data: b}, d) {
		t.Error("arrays in different order should not be ===")
	}
}

func TestStrictEquals(t *testing.T) {
	d := sliceDeref()
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Float(1), false},
		{Int(1), String("1"), false},
		{Null{}, Uninitialized{}, true},
		{Object{Payload: 3}, Object{Payload: 3}, true},
		{Object{Payload: 3}, Object{Payload: 4}, false},
	}

	for _, tt := range tests {
		if got := StrictEquals(tt.a, tt.b, d); got != tt.want {
			t.Errorf("%#v === %#v: got %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	d := sliceDeref()
	tests := []struct {
		a, b Value
		want int
	}{
		{Int(1), Int(2), -1},
		{Int(2), Float(1.5), 1},
		{String("10"), String("9"), 1},
		{String("img10"), String("img2"), -1},
		{String("abc"), String("abd"), -1},
		{Int(10), String("9a"), -1},
		{Null{}, String("a"), -1},
		{Null{}, Bool(false), 0},
		{Bool(true), Int(0), 1},
		{Array{Data: NewList(1)}, Int(100), 1},
		{Array{Data: NewList(1)}, Array{Data: NewList(1, 2)}, -1},
	}

	for _, tt := range tests {
		if got := Compare(tt.a, tt.b, d); got != tt.want {
			t.Errorf("%#v <=> %#v = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
