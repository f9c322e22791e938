package cursor

import (
	"testing"

	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/value"
)

func TestTable_Walk(t *testing.T) {
	tbl := NewTable()
	d := value.NewList(10, 20, 30)
	const h = value.Handle(1)

	if v, ok := tbl.Current(h, d); !ok || v != 10 {
		t.Fatalf("Current = %v, %v", v, ok)
	}
	if v, ok := tbl.Next(h, d); !ok || v != 20 {
		t.Fatalf("Next = %v, %v", v, ok)
	}
	if k, ok := tbl.Key(h, d); !ok || k != value.IntKey(1) {
		t.Fatalf("Key = %v, %v", k, ok)
	}
	if v, ok := tbl.End(h, d); !ok || v != 30 {
		t.Fatalf("End = %v, %v", v, ok)
	}
	if v, ok := tbl.Prev(h, d); !ok || v != 20 {
		t.Fatalf("Prev = %v, %v", v, ok)
	}
	if v, ok := tbl.Reset(h, d); !ok || v != 10 {
		t.Fatalf("Reset = %v, %v", v, ok)
	}
}

func TestTable_PastEnd(t *testing.T) {
	tbl := NewTable()
	d := value.NewList(1, 2)
	const h = value.Handle(1)

	tbl.Next(h, d)
	if _, ok := tbl.Next(h, d); ok {
		t.Fatal("Next past end succeeded")
	}
	if _, ok := tbl.Current(h, d); ok {
		t.Fatal("Current out of range succeeded")
	}
	if _, ok := tbl.Key(h, d); ok {
		t.Fatal("Key out of range succeeded")
	}
	if _, ok := tbl.Prev(h, d); ok {
		t.Fatal("Prev from parked cursor succeeded")
	}
	if v, ok := tbl.Reset(h, d); !ok || v != 1 {
		t.Fatal("Reset did not recover")
	}
}

func TestTable_BeforeStart(t *testing.T) {
	tbl := NewTable()
	d := value.NewList(1, 2)
	const h = value.Handle(1)

	if _, ok := tbl.Prev(h, d); ok {
		t.Fatal("Prev at start succeeded")
	}
	if _, ok := tbl.Current(h, d); ok {
		t.Fatal("cursor still in range after Prev at start")
	}
}

func TestTable_Empty(t *testing.T) {
	tbl := NewTable()
	d := value.NewArrayData(0)
	const h = value.Handle(1)

	if _, ok := tbl.End(h, d); ok {
		t.Fatal("End on empty array succeeded")
	}
	if tbl.Pos(h) != 0 {
		t.Fatal("End on empty array moved the cursor")
	}
	if _, ok := tbl.Reset(h, d); ok {
		t.Fatal("Reset on empty array succeeded")
	}
	if _, _, ok := tbl.Each(h, d); ok {
		t.Fatal("Each on empty array succeeded")
	}
}

func TestTable_Each(t *testing.T) {
	tbl := NewTable()
	d := value.NewArrayData(0)
	d.Set(value.StrKey("a"), 1)
	d.Set(value.StrKey("b"), 2)
	const h = value.Handle(1)

	var keys []value.ArrayKey
	for {
		k, _, ok := tbl.Each(h, d)
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	if len(keys) != 2 || keys[0] != value.StrKey("a") || keys[1] != value.StrKey("b") {
		t.Fatalf("keys = %v", keys)
	}
}

func TestTable_IndependentHandles(t *testing.T) {
	tbl := NewTable()
	d := value.NewList(1, 2, 3)

	tbl.Next(1, d)
	tbl.Next(1, d)
	if tbl.Pos(1) != 2 || tbl.Pos(2) != 0 {
		t.Fatalf("positions = %d, %d", tbl.Pos(1), tbl.Pos(2))
	}
}

func TestTable_ForgetsFreedHandles(t *testing.T) {
	a := arena.New(nil)
	tbl := NewTable()
	a.Subscribe(tbl)

	h := a.AllocList(a.Alloc(value.Int(1)), a.Alloc(value.Int(2)))
	d, _ := a.ArrayOf(h)
	tbl.Next(h, d)
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	if err := a.Free(h); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 {
		t.Fatal("cursor kept for freed handle")
	}
}
