package arrays

import (
	"context"
	"math"
	"testing"

	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/symbol"
	"github.com/wippyai/phpcore/value"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []any
		want string
	}{
		// inspection
		{"count", "count", []any{[]any{1, 2, 3}}, "3"},
		{"count recursive", "count", []any{[]any{1, []any{2, 3}}, CountRecursive}, "4"},
		{"sizeof alias", "SIZEOF", []any{[]any{1}}, "1"},
		{"key exists", "array_key_exists", []any{"a", kv{"a", nil}}, "true"},
		{"numeric string key is distinct", "array_key_exists", []any{"1", kv{1, "x"}}, "false"},
		{"in_array loose", "in_array", []any{"1", []any{1, 2}}, "true"},
		{"in_array strict", "in_array", []any{"1", []any{1, 2}, true}, "false"},
		{"search found", "array_search", []any{2, kv{"x", 1, "y", 2}}, `"y"`},
		{"search missing", "array_search", []any{9, []any{1}}, "false"},
		{"is list", "array_is_list", []any{kv{0, "a", 1, "b"}}, "true"},
		{"is not list", "array_is_list", []any{kv{1, "a"}}, "false"},
		{"key first", "array_key_first", []any{kv{"x", 1, "y", 2}}, `"x"`},
		{"key last", "array_key_last", []any{kv{"x", 1, "y", 2}}, `"y"`},
		{"key first empty", "array_key_first", []any{[]any{}}, "null"},
		{"first", "array_first", []any{kv{"x", 1, "y", 2}}, "1"},
		{"last", "array_last", []any{kv{"x", 1, "y", 2}}, "2"},
		{"keys", "array_keys", []any{kv{"a", 1, 7, 2}}, `[0=>"a", 1=>7]`},
		{"keys filtered", "array_keys", []any{kv{"a", 1, "b", 2, "c", 1}, 1}, `[0=>"a", 1=>"c"]`},
		{"values", "array_values", []any{kv{"a", 1, "b", 2}}, "[0=>1, 1=>2]"},
		{"count values", "array_count_values", []any{[]any{"a", "b", "a", 1}}, `["a"=>2, "b"=>1, 1=>1]`},
		{"sum", "array_sum", []any{[]any{1, 2, 3.5}}, "float(6.5)"},
		{"sum skips arrays", "array_sum", []any{[]any{1, []any{5}, "2"}}, "3"},
		{"product", "array_product", []any{[]any{2, "3"}}, "6"},
		{"empty product", "array_product", []any{[]any{}}, "1"},

		// construction
		{"range", "range", []any{1, 5, 2}, "[0=>1, 1=>3, 2=>5]"},
		{"range descending", "range", []any{5, 1, 2}, "[0=>5, 1=>3, 2=>1]"},
		{"range negative step", "range", []any{1, 3, -1}, "[0=>1, 1=>2, 2=>3]"},
		{"range letters", "range", []any{"a", "e", 2}, `[0=>"a", 1=>"c", 2=>"e"]`},
		{"range floats", "range", []any{0, 1, 0.25}, "[0=>float(0), 1=>float(0.25), 2=>float(0.5), 3=>float(0.75), 4=>float(1)]"},
		{"range single", "range", []any{3, 3}, "[0=>3]"},
		{"fill", "array_fill", []any{5, 3, "x"}, `[5=>"x", 6=>"x", 7=>"x"]`},
		{"fill negative start", "array_fill", []any{-3, 2, 0}, "[-3=>0, -2=>0]"},
		{"fill keys", "array_fill_keys", []any{[]any{"a", 5}, 0}, `["a"=>0, 5=>0]`},
		{"combine", "array_combine", []any{[]any{"a", "b"}, []any{1, 2}}, `["a"=>1, "b"=>2]`},
		{"flip", "array_flip", []any{[]any{"a", "b"}}, `["a"=>0, "b"=>1]`},
		{"pad right", "array_pad", []any{[]any{1, 2}, 4, 0}, "[0=>1, 1=>2, 2=>0, 3=>0]"},
		{"pad left", "array_pad", []any{[]any{1, 2}, -4, 0}, "[0=>0, 1=>0, 2=>1, 3=>2]"},
		{"pad no-op", "array_pad", []any{kv{5, 1}, 1, 0}, "[5=>1]"},
		{"chunk", "array_chunk", []any{[]any{1, 2, 3}, 2}, "[0=>[0=>1, 1=>2], 1=>[0=>3]]"},
		{"chunk preserve", "array_chunk", []any{[]any{1, 2, 3}, 2, true}, "[0=>[0=>1, 1=>2], 1=>[2=>3]]"},
		{
			"column indexed", "array_column",
			[]any{[]any{kv{"id", 1, "n", "a"}, kv{"id", 2, "n", "b"}, kv{"x", 1}}, "n", "id"},
			`[1=>"a", 2=>"b"]`,
		},
		{"column rows", "array_column", []any{[]any{kv{"id", 7}}, nil, "id"}, `[7=>["id"=>7]]`},
		{"change key case", "array_change_key_case", []any{kv{"Ab", 1, "aB", 2, 3, 3}, CaseUpper}, `["AB"=>2, 3=>3]`},

		// merging
		{"merge", "array_merge", []any{kv{"a", 1, 5, 2}, kv{"a", 3, 9, 4}}, `["a"=>3, 0=>2, 1=>4]`},
		{"merge none", "array_merge", nil, "[]"},
		{"merge recursive", "array_merge_recursive", []any{kv{"a", 1}, kv{"a", 2}}, `["a"=>[0=>1, 1=>2]]`},
		{
			"merge recursive nested", "array_merge_recursive",
			[]any{kv{"a", kv{"x", 1}}, kv{"a", kv{"x", 2}}},
			`["a"=>["x"=>[0=>1, 1=>2]]]`,
		},
		{"replace", "array_replace", []any{[]any{1, 2, 3}, kv{1, "b"}, kv{3, "d"}}, `[0=>1, 1=>"b", 2=>3, 3=>"d"]`},
		{
			"replace recursive", "array_replace_recursive",
			[]any{kv{"a", kv{"x", 1, "y", 2}}, kv{"a", kv{"y", 3}}},
			`["a"=>["x"=>1, "y"=>3]]`,
		},

		// set operations
		{"diff", "array_diff", []any{[]any{1, "2", 3, 4}, []any{"2"}, []any{4}}, "[0=>1, 2=>3]"},
		{"diff single", "array_diff", []any{kv{"a", 1}}, `["a"=>1]`},
		{"intersect", "array_intersect", []any{[]any{1, 2, 3, 4}, []any{2, 4, 5}, []any{4, 2}}, "[1=>2, 3=>4]"},
		{"intersect needs all", "array_intersect", []any{[]any{1, 2}, []any{1}, []any{2}}, "[]"},
		{"diff key", "array_diff_key", []any{kv{"a", 1, "b", 2, 0, 3}, kv{"a", 9}}, `["b"=>2, 0=>3]`},
		{"diff assoc", "array_diff_assoc", []any{kv{"a", "g", "b", "b"}, kv{"a", "g", "b", "y"}}, `["b"=>"b"]`},
		{
			"intersect assoc", "array_intersect_assoc",
			[]any{kv{"a", "g", "b", "b", "c", "b"}, kv{"a", "g", "b", "y"}},
			`["a"=>"g"]`,
		},
		{"intersect key", "array_intersect_key", []any{kv{"a", 1, "b", 2}, kv{"b", 0}}, `["b"=>2]`},
		{"udiff", "array_udiff", []any{[]any{1, 5, 3}, []any{3}, "cmp"}, "[0=>1, 1=>5]"},
		{"uintersect", "array_uintersect", []any{[]any{1, 5, 3}, []any{3, 1}, "cmp"}, "[0=>1, 2=>3]"},
		{"diff ukey", "array_diff_ukey", []any{kv{"a", 1, "b", 2}, kv{"A", 1}, "strcasecmp"}, `["b"=>2]`},
		{"intersect ukey", "array_intersect_ukey", []any{kv{"a", 1, "b", 2}, kv{"A", 9}, "strcasecmp"}, `["a"=>1]`},
		{"diff uassoc", "array_diff_uassoc", []any{kv{"a", 1, "b", 2}, kv{"A", 1, "B", 3}, "strcasecmp"}, `["b"=>2]`},
		{"intersect uassoc", "array_intersect_uassoc", []any{kv{"a", 1, "b", 2}, kv{"A", 1, "B", 3}, "strcasecmp"}, `["a"=>1]`},
		{"udiff assoc", "array_udiff_assoc", []any{kv{"a", 1, "b", 2}, kv{"a", 1, "c", 2}, "cmp"}, `["b"=>2]`},
		{"uintersect assoc", "array_uintersect_assoc", []any{kv{"a", 1, "b", 2}, kv{"a", 1, "c", 2}, "cmp"}, `["a"=>1]`},
		{
			"udiff uassoc", "array_udiff_uassoc",
			[]any{kv{"a", 1, "b", 2}, kv{"A", 1, "c", 2}, "cmp", "strcasecmp"},
			`["b"=>2]`,
		},
		{
			"uintersect uassoc", "array_uintersect_uassoc",
			[]any{kv{"a", 1, "b", 2}, kv{"A", 1, "c", 2}, "cmp", "strcasecmp"},
			`["a"=>1]`,
		},
		{"unique", "array_unique", []any{[]any{1, "1", 2, 2.0, "a", "a"}}, `[0=>1, 2=>2, 4=>"a"]`},
		{"unique regular", "array_unique", []any{[]any{"1", 1, "01", "x"}, SortRegular}, `[0=>"1", 3=>"x"]`},

		// slicing
		{"slice", "array_slice", []any{[]any{"a", "b", "c", "d", "e"}, 2}, `[0=>"c", 1=>"d", 2=>"e"]`},
		{"slice negative", "array_slice", []any{[]any{"a", "b", "c", "d", "e"}, -2, 1}, `[0=>"d"]`},
		{"slice negative length", "array_slice", []any{[]any{"a", "b", "c", "d", "e"}, 2, -1, true}, `[2=>"c", 3=>"d"]`},
		{"slice past end", "array_slice", []any{[]any{"a"}, 5}, "[]"},
		{"slice string keys", "array_slice", []any{kv{"a", 1, 5, 2, 6, 3}, 1}, "[0=>2, 1=>3]"},
		{"slice keeps string keys", "array_slice", []any{kv{"a", 1, 5, 2}, 0}, `["a"=>1, 0=>2]`},
		{"reverse", "array_reverse", []any{kv{0, 1, 1, 2, "x", 3}}, `["x"=>3, 0=>2, 1=>1]`},
		{"reverse preserve", "array_reverse", []any{kv{0, 1, 1, 2, "x", 3}, true}, `["x"=>3, 1=>2, 0=>1]`},

		// callbacks
		{"map", "array_map", []any{"double", []any{1, 2}}, "[0=>2, 1=>4]"},
		{"map keeps keys", "array_map", []any{"double", kv{"a", 1}}, `["a"=>2]`},
		{"map zip", "array_map", []any{nil, []any{1, 2}, []any{"a"}}, `[0=>[0=>1, 1=>"a"], 1=>[0=>2, 1=>null]]`},
		{"map many", "array_map", []any{"add", []any{1, 2}, []any{10, 20, 30}}, "[0=>11, 1=>22, 2=>30]"},
		{"map null single", "array_map", []any{nil, kv{"k", 1}}, `["k"=>1]`},
		{"filter truthy", "array_filter", []any{[]any{0, 1, 2, "", nil, "a"}}, `[1=>1, 2=>2, 5=>"a"]`},
		{"filter callback", "array_filter", []any{[]any{1, 2, 3, 4}, "is_even"}, "[1=>2, 3=>4]"},
		{"filter by key", "array_filter", []any{kv{"a", 1, 0, 2}, "is_string", FilterUseKey}, `["a"=>1]`},
		{"filter both", "array_filter", []any{kv{"a", 1, "b", 2}, "is_even", FilterUseBoth}, `["b"=>2]`},
		{"reduce", "array_reduce", []any{[]any{1, 2, 3}, "add", 10}, "16"},
		{"reduce no initial", "array_reduce", []any{[]any{1, 2, 3}, "add"}, "6"},
		{"reduce empty", "array_reduce", []any{[]any{}, "add"}, "null"},
		{"find", "array_find", []any{[]any{1, 2, 3, 4}, "is_even"}, "2"},
		{"find none", "array_find", []any{[]any{1, 3}, "is_even"}, "null"},
		{"find key", "array_find_key", []any{kv{"a", 1, "b", 2}, "is_even"}, `"b"`},
		{"any", "array_any", []any{[]any{1, 2}, "is_even"}, "true"},
		{"all", "array_all", []any{[]any{2, 3}, "is_even"}, "false"},
		{"all empty", "array_all", []any{[]any{}, "is_even"}, "true"},

		// random
		{"getrandmax", "mt_getrandmax", nil, "2147483647"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			got := f.render(f.call(tt.fn, tt.args...))
			if got != tt.want {
				t.Errorf("%s = %s, want %s", tt.fn, got, tt.want)
			}
		})
	}
}

func TestSumOverflowPromotesToFloat(t *testing.T) {
	f := newFixture(t)
	got := f.render(f.call("array_sum", []any{int64(math.MaxInt64), 1}))
	if got != "float(9.2233720368548E+18)" {
		t.Fatalf("array_sum = %s", got)
	}
	got = f.render(f.call("array_product", []any{int64(math.MaxInt64), 2}))
	if got != "float(1.844674407371E+19)" {
		t.Fatalf("array_product = %s", got)
	}
}

func TestColumnObjectRows(t *testing.T) {
	a := arena.New(nil)
	syms := symbol.NewTable()
	e := New(a, WithInterner(syms))
	name, id := syms.InternString("name"), syms.InternString("id")

	props := func(n string, i int64) *value.PropertyMap {
		p := value.NewPropertyMap(2)
		p.Set(id, a.Alloc(value.Int(i)))
		p.Set(name, a.Alloc(value.String(n)))
		return p
	}
	payload := a.Alloc(value.ObjPayload{Data: &value.ObjectData{Props: props("cy", 3)}})
	rows := a.AllocList(
		a.Alloc(value.ObjectMap{Props: props("ann", 1)}),
		a.Alloc(value.Struct{Data: &value.ObjectData{Props: props("bo", 2)}}),
		a.Alloc(value.Object{Payload: payload}),
	)

	tests := []struct {
		name string
		args []value.Handle
		want string
	}{
		{"values", []value.Handle{rows, a.Alloc(value.String("name"))}, `[0=>"ann", 1=>"bo", 2=>"cy"]`},
		{"indexed", []value.Handle{rows, a.Alloc(value.String("name")), a.Alloc(value.String("id"))}, `[1=>"ann", 2=>"bo", 3=>"cy"]`},
		{"missing", []value.Handle{rows, a.Alloc(value.String("nope"))}, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := e.Call(context.Background(), "array_column", tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := render(a, h); got != tt.want {
				t.Fatalf("array_column = %s, want %s", got, tt.want)
			}
		})
	}
}
