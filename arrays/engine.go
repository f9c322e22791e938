package arrays

import (
	"context"
	"sort"
	"strings"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/cursor"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/mtrand"
	"github.com/wippyai/phpcore/value"
)

// Builtin is the calling convention of every array function. Arguments are
// handles into the engine's arena. By-reference parameters (the array of
// sort, shuffle, array_push and friends) are modified in place at the given
// handle using clone-then-replace.
type Builtin func(ctx context.Context, args ...value.Handle) (value.Handle, error)

// Engine implements the array builtins over one arena.
// An Engine is not safe for concurrent use.
type Engine struct {
	a        *arena.Arena
	inv      phpcore.Invoker
	names    phpcore.Interner
	cursors  *cursor.Table
	rng      *mtrand.Rand
	builtins map[string]Builtin
}

// Option configures an Engine.
type Option func(*Engine)

// WithInvoker sets the invoker used for callbacks.
func WithInvoker(inv phpcore.Invoker) Option {
	return func(e *Engine) { e.inv = inv }
}

// WithCursors sets the cursor table. The caller is responsible for
// subscribing it to the arena.
func WithCursors(t *cursor.Table) Option {
	return func(e *Engine) { e.cursors = t }
}

// WithRand sets the random source for shuffle, array_rand and mt_rand.
func WithRand(r *mtrand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithInterner sets the interner used to read object properties by name,
// as array_column does for object rows.
func WithInterner(in phpcore.Interner) Option {
	return func(e *Engine) { e.names = in }
}

// New creates an engine over a.
func New(a *arena.Arena, opts ...Option) *Engine {
	e := &Engine{a: a}
	for _, opt := range opts {
		opt(e)
	}
	if e.cursors == nil {
		e.cursors = cursor.NewTable()
		a.Subscribe(e.cursors)
	}
	if e.rng == nil {
		e.rng = mtrand.New()
	}
	e.builtins = e.table()
	return e
}

// Arena returns the arena the engine operates on.
func (e *Engine) Arena() *arena.Arena { return e.a }

// Cursors returns the engine's cursor table.
func (e *Engine) Cursors() *cursor.Table { return e.cursors }

// RNG returns the engine's random source.
func (e *Engine) RNG() *mtrand.Rand { return e.rng }

// Lookup returns the builtin registered under name. Names are
// case-insensitive.
func (e *Engine) Lookup(name string) (Builtin, bool) {
	b, ok := e.builtins[strings.ToLower(name)]
	return b, ok
}

// Call invokes the builtin registered under name.
func (e *Engine) Call(ctx context.Context, name string, args ...value.Handle) (value.Handle, error) {
	b, ok := e.Lookup(name)
	if !ok {
		return 0, errors.NotFound(errors.PhaseArray, "function", name)
	}
	h, err := b(ctx, args...)
	if err != nil {
		debugf("%s failed: %v", name, err)
	}
	return h, err
}

// Names returns every builtin name in sorted order.
func (e *Engine) Names() []string {
	out := make([]string, 0, len(e.builtins))
	for name := range e.builtins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) table() map[string]Builtin {
	return map[string]Builtin{
		// inspection
		"count":              e.Count,
		"sizeof":             e.Count,
		"array_key_exists":   e.KeyExists,
		"key_exists":         e.KeyExists,
		"in_array":           e.InArray,
		"array_search":       e.Search,
		"array_is_list":      e.IsList,
		"array_key_first":    e.KeyFirst,
		"array_key_last":     e.KeyLast,
		"array_first":        e.First,
		"array_last":         e.Last,
		"array_keys":         e.Keys,
		"array_values":       e.Values,
		"array_count_values": e.CountValues,
		"array_sum":          e.Sum,
		"array_product":      e.Product,

		// construction
		"range":                 e.Range,
		"array_fill":            e.Fill,
		"array_fill_keys":       e.FillKeys,
		"array_combine":         e.Combine,
		"array_flip":            e.Flip,
		"array_pad":             e.Pad,
		"array_chunk":           e.Chunk,
		"array_column":          e.Column,
		"array_change_key_case": e.ChangeKeyCase,

		// merging
		"array_merge":             e.Merge,
		"array_merge_recursive":   e.MergeRecursive,
		"array_replace":           e.Replace,
		"array_replace_recursive": e.ReplaceRecursive,

		// set operations
		"array_diff":              e.Diff,
		"array_diff_assoc":        e.DiffAssoc,
		"array_diff_key":          e.DiffKey,
		"array_diff_uassoc":       e.DiffUAssoc,
		"array_diff_ukey":         e.DiffUKey,
		"array_udiff":             e.UDiff,
		"array_udiff_assoc":       e.UDiffAssoc,
		"array_udiff_uassoc":      e.UDiffUAssoc,
		"array_intersect":         e.Intersect,
		"array_intersect_assoc":   e.IntersectAssoc,
		"array_intersect_key":     e.IntersectKey,
		"array_intersect_uassoc":  e.IntersectUAssoc,
		"array_intersect_ukey":    e.IntersectUKey,
		"array_uintersect":        e.UIntersect,
		"array_uintersect_assoc":  e.UIntersectAssoc,
		"array_uintersect_uassoc": e.UIntersectUAssoc,
		"array_unique":            e.Unique,

		// sorting
		"sort":            e.Sort,
		"rsort":           e.Rsort,
		"usort":           e.Usort,
		"asort":           e.Asort,
		"arsort":          e.Arsort,
		"uasort":          e.Uasort,
		"ksort":           e.Ksort,
		"krsort":          e.Krsort,
		"uksort":          e.Uksort,
		"natsort":         e.Natsort,
		"natcasesort":     e.Natcasesort,
		"array_multisort": e.Multisort,

		// slicing and stack operations
		"array_slice":   e.Slice,
		"array_splice":  e.Splice,
		"array_reverse": e.Reverse,
		"array_push":    e.Push,
		"array_pop":     e.Pop,
		"array_shift":   e.Shift,
		"array_unshift": e.Unshift,

		// callbacks
		"array_map":            e.Map,
		"array_filter":         e.Filter,
		"array_reduce":         e.Reduce,
		"array_walk":           e.Walk,
		"array_walk_recursive": e.WalkRecursive,
		"array_find":           e.Find,
		"array_find_key":       e.FindKey,
		"array_any":            e.Any,
		"array_all":            e.All,

		// random
		"shuffle":       e.Shuffle,
		"array_rand":    e.Rand,
		"mt_srand":      e.Srand,
		"srand":         e.Srand,
		"mt_rand":       e.MtRand,
		"rand":          e.RandInt,
		"mt_getrandmax": e.GetRandMax,
		"getrandmax":    e.GetRandMax,

		// internal pointer
		"current": e.Current,
		"pos":     e.Current,
		"key":     e.Key,
		"next":    e.Next,
		"prev":    e.Prev,
		"reset":   e.Reset,
		"end":     e.End,
		"each":    e.Each,
	}
}
