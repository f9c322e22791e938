package value

import (
	"math"
	"testing"
)

func TestToArrayKey(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want ArrayKey
		ok   bool
	}{
		{"int", Int(42), IntKey(42), true},
		{"negative int", Int(-7), IntKey(-7), true},
		{"true", Bool(true), IntKey(1), true},
		{"false", Bool(false), IntKey(0), true},
		{"float truncates", Float(3.9), IntKey(3), true},
		{"negative float truncates toward zero", Float(-3.9), IntKey(-3), true},
		{"nan", Float(math.NaN()), IntKey(0), true},
		{"inf", Float(math.Inf(1)), IntKey(0), true},
		{"null", Null{}, StrKey(""), true},
		{"string", String("abc"), StrKey("abc"), true},
		{"numeric string stays string", String("3"), StrKey("3"), true},
		{"array", Array{Data: NewArrayData(0)}, ArrayKey{}, false},
		{"object", Object{Payload: 1}, ArrayKey{}, false},
		{"resource", Resource{ID: 1}, ArrayKey{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToArrayKey(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ToArrayKey(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestArrayKey_Distinct(t *testing.T) {
	if IntKey(3) == StrKey("3") {
		t.Fatal("int and numeric-string keys must differ")
	}
	m := map[ArrayKey]int{IntKey(3): 1, StrKey("3"): 2}
	if len(m) != 2 {
		t.Fatalf("expected 2 map entries, got %d", len(m))
	}
}

func TestArrayKey_Value(t *testing.T) {
	if v := IntKey(5).Value(); v != Int(5) {
		t.Errorf("IntKey value = %v", v)
	}
	if v := StrKey("x").Value(); v != String("x") {
		t.Errorf("StrKey value = %v", v)
	}
	if s := IntKey(-2).Str(); s != "-2" {
		t.Errorf("Str = %q", s)
	}
}
