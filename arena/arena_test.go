package arena

import (
	"testing"

	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnArenaEvent(e Event) {
	o.events = append(o.events, e)
}

func TestArena_Basic(t *testing.T) {
	a := New(nil)

	h := a.Alloc(value.String("test"))
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	v, err := a.Get(h)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != value.String("test") {
		t.Fatalf("Expected 'test', got %v", v)
	}

	if err := a.Free(h); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if _, err := a.Get(h); !errors.IsKind(err, errors.KindInvalidHandle) {
		t.Fatalf("Expected invalid_handle after Free, got %v", err)
	}
	if a.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", a.Len())
	}
}

func TestArena_NoReuseOfLiveHandle(t *testing.T) {
	a := New(nil)
	seen := make(map[value.Handle]bool)
	var live []value.Handle

	for i := 0; i < 1000; i++ {
		h := a.Alloc(value.Int(int64(i)))
		if seen[h] {
			t.Fatalf("handle %v issued twice", h)
		}
		seen[h] = true
		live = append(live, h)
		if i%3 == 0 {
			if err := a.Free(live[0]); err != nil {
				t.Fatal(err)
			}
			live = live[1:]
		}
	}
}

func TestArena_StaleHandleAfterReuse(t *testing.T) {
	a := New(nil)
	h1 := a.Alloc(value.Int(1))
	if err := a.Free(h1); err != nil {
		t.Fatal(err)
	}
	h2 := a.Alloc(value.Int(2))
	if h1 == h2 {
		t.Fatal("recycled slot reused the old handle")
	}
	if _, err := a.Get(h1); err == nil {
		t.Fatal("stale handle resolved")
	}
	if v, _ := a.Get(h2); v != value.Int(2) {
		t.Fatalf("h2 = %v", v)
	}
}

func TestArena_ForeignHandle(t *testing.T) {
	a := New(nil)
	b := New(nil)
	h := a.Alloc(value.Int(1))
	b.Alloc(value.Int(2))

	if _, err := b.Get(h); !errors.IsKind(err, errors.KindInvalidHandle) {
		t.Fatalf("foreign handle accepted: %v", err)
	}
	if _, err := a.Get(0); err == nil {
		t.Fatal("zero handle accepted")
	}
}

func TestArena_GetMutStableAcrossGrowth(t *testing.T) {
	a := New(nil)
	h := a.Alloc(value.Int(1))
	p, err := a.GetMut(h)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3*pageSize; i++ {
		a.Alloc(value.Null{})
	}
	*p = value.Int(99)
	if v, _ := a.Get(h); v != value.Int(99) {
		t.Fatalf("write through GetMut lost, got %v", v)
	}
}

func TestArena_Observer(t *testing.T) {
	a := New(nil)
	obs := &testObserver{}
	cancel := a.Subscribe(obs)

	h := a.Alloc(value.Int(1))
	if err := a.Set(h, value.Int(2)); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(h); err != nil {
		t.Fatal(err)
	}

	want := []EventType{EventAllocated, EventReplaced, EventFreed}
	if len(obs.events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(obs.events))
	}
	for i, e := range obs.events {
		if e.Type != want[i] || e.Handle != h {
			t.Errorf("event %d = %v %v", i, e.Type, e.Handle)
		}
	}

	cancel()
	a.Alloc(value.Int(3))
	if len(obs.events) != len(want) {
		t.Fatal("observer notified after cancel")
	}
}

func TestArena_ObserverFunc(t *testing.T) {
	a := New(nil)
	var n int
	a.Subscribe(ObserverFunc(func(Event) { n++ }))
	a.Alloc(value.Null{})
	if n != 1 {
		t.Fatalf("Expected 1 event, got %d", n)
	}
}

func TestArena_Close(t *testing.T) {
	a := New(&Config{Capacity: 8})
	h := a.Alloc(value.Int(1))
	a.Alloc(value.Int(2))

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 0 {
		t.Fatalf("Len = %d after Close", a.Len())
	}
	if _, err := a.Get(h); err == nil {
		t.Fatal("handle from before Close resolved")
	}

	h2 := a.Alloc(value.Int(3))
	if v, _ := a.Get(h2); v != value.Int(3) {
		t.Fatal("arena unusable after Close")
	}
}

func TestArena_Each(t *testing.T) {
	a := New(nil)
	a.Alloc(value.Int(1))
	h := a.Alloc(value.Int(2))
	a.Alloc(value.Int(3))
	if err := a.Free(h); err != nil {
		t.Fatal(err)
	}

	var sum int64
	a.Each(func(_ value.Handle, v value.Value) bool {
		sum += int64(v.(value.Int))
		return true
	})
	if sum != 4 {
		t.Fatalf("sum = %d, want 4", sum)
	}
}

func TestArena_TagWraparound(t *testing.T) {
	a := New(nil)
	h := a.Alloc(value.String("mine"))

	// move the counter so the next pick would be a's tag again
	tags.mu.Lock()
	tags.next = (a.tag - 1) & maxTag
	tags.mu.Unlock()

	b := New(nil)
	if b.tag == a.tag {
		t.Fatalf("live tag %d handed out twice", a.tag)
	}
	b.Alloc(value.String("other"))
	if _, err := b.Get(h); !errors.IsKind(err, errors.KindInvalidHandle) {
		t.Fatalf("foreign handle accepted after wraparound: %v", err)
	}

	tags.mu.Lock()
	tags.next = maxTag - 1
	tags.mu.Unlock()
	c := New(nil)
	d := New(nil)
	if c.tag != maxTag || d.tag == 0 || d.tag == c.tag {
		t.Fatalf("tags around wrap: %d, %d", c.tag, d.tag)
	}
	if v, err := a.Get(h); err != nil || v != value.String("mine") {
		t.Fatalf("owner lost its value: %v, %v", v, err)
	}
}

func TestArena_CloseReleasesTag(t *testing.T) {
	a := New(nil)
	old := a.tag
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	tags.mu.Lock()
	_, held := tags.live[old]
	_, current := tags.live[a.tag]
	tags.mu.Unlock()
	if held || !current {
		t.Fatalf("old tag held = %v, current tag held = %v", held, current)
	}
}
