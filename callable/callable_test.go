package callable

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

func double(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
	v, err := a.Get(args[0])
	if err != nil {
		return 0, err
	}
	return a.Alloc(value.Int(value.ToInt(v) * 2)), nil
}

func TestFuncs_ByName(t *testing.T) {
	ctx := context.Background()
	a := arena.New(nil)
	f := NewFuncs()
	f.Register("Double", double)

	inv := f.Bind(a)
	h, err := inv.Invoke(ctx, a.Alloc(value.String("double")), []value.Handle{a.Alloc(value.Int(21))})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if v, _ := a.Get(h); v != value.Int(42) {
		t.Fatalf("result = %v, want 42", v)
	}
}

func TestFuncs_ClosureObject(t *testing.T) {
	ctx := context.Background()
	a := arena.New(nil)
	inv := NewFuncs().Bind(a)

	data := value.NewObjectData(1, 0)
	data.Internal = Func(double)
	obj := a.Alloc(value.Object{Payload: a.Alloc(value.ObjPayload{Data: data})})

	h, err := inv.Invoke(ctx, obj, []value.Handle{a.Alloc(value.Int(5))})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := a.Get(h); v != value.Int(10) {
		t.Fatalf("result = %v", v)
	}
}

func TestFuncs_Unrecognized(t *testing.T) {
	a := arena.New(nil)
	inv := NewFuncs().Bind(a)

	_, err := inv.Invoke(context.Background(), a.Alloc(value.String("missing")), nil)
	if !IsUnrecognized(err) {
		t.Fatalf("expected unrecognized, got %v", err)
	}
	if !errors.IsKind(err, errors.KindCallableInvocation) {
		t.Fatalf("expected callable_invocation kind, got %v", err)
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	a := arena.New(nil)
	first := NewFuncs()
	second := NewFuncs()
	second.Register("double", double)

	boom := stderrors.New("boom")
	failing := phpcore.InvokerFunc(func(context.Context, value.Handle, []value.Handle) (value.Handle, error) {
		return 0, boom
	})

	inv := Chain(first.Bind(a), second.Bind(a))
	h, err := inv.Invoke(ctx, a.Alloc(value.String("double")), []value.Handle{a.Alloc(value.Int(2))})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := a.Get(h); v != value.Int(4) {
		t.Fatalf("result = %v", v)
	}

	_, err = Chain(failing, second.Bind(a)).Invoke(ctx, a.Alloc(value.String("double")), nil)
	if !stderrors.Is(err, boom) {
		t.Fatalf("failure should stop the chain, got %v", err)
	}

	_, err = Chain().Invoke(ctx, a.Alloc(value.Null{}), nil)
	if !IsUnrecognized(err) {
		t.Fatalf("empty chain: %v", err)
	}
}

func TestFuncs_Names(t *testing.T) {
	f := NewFuncs()
	f.Register("b", double)
	f.Register("A", double)
	names := f.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("Names = %v", names)
	}
}
