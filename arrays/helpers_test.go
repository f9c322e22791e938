package arrays

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/callable"
	"github.com/wippyai/phpcore/mtrand"
	"github.com/wippyai/phpcore/value"
)

// kv is an ordered list of alternating keys and values.
type kv []any

type fixture struct {
	t   *testing.T
	a   *arena.Arena
	e   *Engine
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	a := arena.New(nil)
	e := New(a, WithInvoker(testFuncs().Bind(a)), WithRand(mtrand.NewSeeded(42)))
	return &fixture{t: t, a: a, e: e, ctx: context.Background()}
}

func testFuncs() *callable.Funcs {
	f := callable.NewFuncs()
	get := func(a phpcore.Allocator, h value.Handle) value.Value {
		v, err := a.Get(h)
		if err != nil {
			return value.Null{}
		}
		return v
	}
	f.Register("cmp", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		return a.Alloc(value.Int(value.Compare(get(a, args[0]), get(a, args[1]), nil))), nil
	})
	f.Register("strcasecmp", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		x := strings.ToLower(value.ToPHPString(get(a, args[0])))
		y := strings.ToLower(value.ToPHPString(get(a, args[1])))
		return a.Alloc(value.Int(strings.Compare(x, y))), nil
	})
	f.Register("double", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		return a.Alloc(value.Int(value.ToInt(get(a, args[0])) * 2)), nil
	})
	f.Register("add", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		return a.Alloc(value.Int(value.ToInt(get(a, args[0])) + value.ToInt(get(a, args[1])))), nil
	})
	f.Register("is_even", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		return a.Alloc(value.Bool(value.ToInt(get(a, args[0]))%2 == 0)), nil
	})
	f.Register("is_string", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		_, ok := get(a, args[0]).(value.String)
		return a.Alloc(value.Bool(ok)), nil
	})
	f.Register("upper", func(_ context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error) {
		p, err := a.GetMut(args[0])
		if err != nil {
			return 0, err
		}
		*p = value.String(strings.ToUpper(value.ToPHPString(*p)))
		return a.Alloc(value.Null{}), nil
	})
	f.Register("fail", func(context.Context, phpcore.Allocator, []value.Handle) (value.Handle, error) {
		return 0, fmt.Errorf("boom")
	})
	return f
}

// val allocates a Go value: int, float64, string, bool, nil, []any for a
// list, kv for an ordered map, or an existing handle.
func (f *fixture) val(v any) value.Handle {
	f.t.Helper()
	switch x := v.(type) {
	case value.Handle:
		return x
	case nil:
		return f.a.Alloc(value.Null{})
	case int:
		return f.a.Alloc(value.Int(x))
	case int64:
		return f.a.Alloc(value.Int(x))
	case float64:
		return f.a.Alloc(value.Float(x))
	case string:
		return f.a.Alloc(value.String(x))
	case bool:
		return f.a.Alloc(value.Bool(x))
	case []any:
		d := value.NewArrayData(len(x))
		for _, el := range x {
			d.Append(f.val(el))
		}
		return f.a.AllocArray(d)
	case kv:
		d := value.NewArrayData(len(x) / 2)
		for i := 0; i+1 < len(x); i += 2 {
			var k value.ArrayKey
			switch key := x[i].(type) {
			case int:
				k = value.IntKey(int64(key))
			case string:
				k = value.StrKey(key)
			default:
				f.t.Fatalf("bad key %v", key)
			}
			d.Set(k, f.val(x[i+1]))
		}
		return f.a.AllocArray(d)
	}
	f.t.Fatalf("unsupported test value %T", v)
	return 0
}

func (f *fixture) vals(vs ...any) []value.Handle {
	f.t.Helper()
	out := make([]value.Handle, len(vs))
	for i, v := range vs {
		out[i] = f.val(v)
	}
	return out
}

func (f *fixture) call(name string, args ...any) value.Handle {
	f.t.Helper()
	h, err := f.e.Call(f.ctx, name, f.vals(args...)...)
	if err != nil {
		f.t.Fatalf("%s: %v", name, err)
	}
	return h
}

func (f *fixture) callErr(name string, args ...any) error {
	f.t.Helper()
	_, err := f.e.Call(f.ctx, name, f.vals(args...)...)
	return err
}

func (f *fixture) render(h value.Handle) string {
	return render(f.a, h)
}

// render prints a value compactly: [0=>1, "k"=>"v"] for arrays,
// float(1.5) for floats.
func render(a *arena.Arena, h value.Handle) string {
	v, err := a.Get(h)
	if err != nil {
		return "<invalid>"
	}
	switch x := v.(type) {
	case value.Array, value.ConstArray:
		d, _ := a.ArrayOf(h)
		var b strings.Builder
		b.WriteByte('[')
		for i := 0; i < d.Len(); i++ {
			k, eh := d.At(i)
			if i > 0 {
				b.WriteString(", ")
			}
			if k.IsStr() {
				b.WriteString(strconv.Quote(k.Str()))
			} else {
				b.WriteString(strconv.FormatInt(k.Int(), 10))
			}
			b.WriteString("=>")
			b.WriteString(render(a, eh))
		}
		b.WriteByte(']')
		return b.String()
	case value.String:
		return strconv.Quote(string(x))
	case value.Int:
		return strconv.FormatInt(int64(x), 10)
	case value.Float:
		return "float(" + value.FormatFloat(float64(x)) + ")"
	case value.Bool:
		return strconv.FormatBool(bool(x))
	case value.Null:
		return "null"
	}
	return value.TypeName(v)
}
