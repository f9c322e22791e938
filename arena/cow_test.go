package arena

import (
	"fmt"
	"testing"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

func TestModifyArray_Isolation(t *testing.T) {
	a := New(nil)
	h1 := a.AllocList(a.Alloc(value.Int(1)), a.Alloc(value.Int(2)))
	h2, err := a.Dup(h1)
	if err != nil {
		t.Fatal(err)
	}

	err = a.ModifyArray(h1, func(d *value.ArrayData) error {
		d.Append(a.Alloc(value.Int(3)))
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	d1, _ := a.ArrayOf(h1)
	d2, _ := a.ArrayOf(h2)
	if d1.Len() != 3 {
		t.Fatalf("h1 len = %d, want 3", d1.Len())
	}
	if d2.Len() != 2 {
		t.Fatalf("h2 len = %d, want 2 (copy-on-write broken)", d2.Len())
	}
}

func TestModifyArray_FailureLeavesSlot(t *testing.T) {
	a := New(nil)
	h := a.AllocList(a.Alloc(value.Int(1)))
	before, _ := a.ArrayOf(h)

	err := a.ModifyArray(h, func(d *value.ArrayData) error {
		d.Append(a.Alloc(value.Int(2)))
		return fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	after, _ := a.ArrayOf(h)
	if after != before || after.Len() != 1 {
		t.Fatal("slot changed by failed modification")
	}
}

func TestArrayOf_MaterializesConstArray(t *testing.T) {
	a := New(nil)
	h := a.Alloc(value.ConstArray{Entries: []value.ConstEntry{
		{Key: value.StrKey("a"), Value: value.Int(1)},
		{Key: value.IntKey(0), Value: value.String("x")},
	}})

	d, err := a.ArrayOf(h)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 {
		t.Fatalf("len = %d", d.Len())
	}
	v, _ := a.Get(h)
	if _, ok := v.(value.Array); !ok {
		t.Fatalf("slot not materialized: %T", v)
	}
	eh, _ := d.Get(value.StrKey("a"))
	if ev, _ := a.Get(eh); ev != value.Int(1) {
		t.Fatalf("element = %v", ev)
	}
}

func TestArrayOf_TypeMismatch(t *testing.T) {
	a := New(nil)
	h := a.Alloc(value.Int(1))
	_, err := a.ArrayOf(h)
	if !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Fatalf("expected type_mismatch, got %v", err)
	}
}
