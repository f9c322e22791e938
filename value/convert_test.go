package value

import (
	"math"
	"testing"
)

func TestToPHPString(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Null{}, ""},
		{Bool(true), "1"},
		{Bool(false), ""},
		{Int(-12), "-12"},
		{Float(1.5), "1.5"},
		{Float(3), "3"},
		{Float(0.1 + 0.2), "0.3"},
		{Float(1e15), "1.0E+15"},
		{Float(1.5e-7), "1.5E-7"},
		{Float(math.Inf(-1)), "-INF"},
		{Float(math.NaN()), "NAN"},
		{String("abc"), "abc"},
		{Array{Data: NewArrayData(0)}, "Array"},
	}

	for _, tt := range tests {
		if got := ToPHPString(tt.in); got != tt.want {
			t.Errorf("ToPHPString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   Value
		want int64
	}{
		{Null{}, 0},
		{Bool(true), 1},
		{Float(-2.7), -2},
		{String("42"), 42},
		{String("  12abc"), 12},
		{String("1e3"), 1000},
		{String("abc"), 0},
		{String(""), 0},
		{Array{Data: NewList(1)}, 1},
	}

	for _, tt := range tests {
		if got := ToInt(tt.in); got != tt.want {
			t.Errorf("ToInt(%#v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestToBool(t *testing.T) {
	falsy := []Value{Null{}, Bool(false), Int(0), Float(0), String(""), String("0"), Array{Data: NewArrayData(0)}}
	for _, v := range falsy {
		if ToBool(v) {
			t.Errorf("ToBool(%#v) = true", v)
		}
	}
	truthy := []Value{Bool(true), Int(-1), Float(0.1), String("0.0"), String(" "), Array{Data: NewList(1)}, Object{Payload: 1}}
	for _, v := range truthy {
		if !ToBool(v) {
			t.Errorf("ToBool(%#v) = false", v)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want Value
		ok   bool
	}{
		{"42", Int(42), true},
		{" 42 ", Int(42), true},
		{"-7", Int(-7), true},
		{"1.5", Float(1.5), true},
		{".5", Float(0.5), true},
		{"1e2", Float(100), true},
		{"9223372036854775808", Float(9223372036854775808), true},
		{"12abc", nil, false},
		{"abc", nil, false},
		{"", nil, false},
		{".", nil, false},
		{"0x1A", nil, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumeric(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseNumeric(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseNumeric(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
