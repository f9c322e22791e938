// Package callable provides Go-backed implementations of the callable
// invocation capability.
//
// A Funcs registry maps function names to Go functions and is shared by an
// engine. Bind attaches it to one request's arena, producing an Invoker
// that accepts two callable shapes:
//
//   - a String naming a registered function
//   - an Object whose payload carries a Func as its internal native value
//
// Chain combines invokers; the first one that recognizes a callable wins.
package callable

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"sync"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// ErrUnrecognized is the cause of errors returned by an Invoker for
// callables it does not handle. Chain uses it to try the next invoker.
var ErrUnrecognized = stderrors.New("callable not recognized")

// Func is a Go implementation of a callable.
type Func func(ctx context.Context, a phpcore.Allocator, args []value.Handle) (value.Handle, error)

// Funcs is a registry of named Go functions. Names are case-insensitive.
// Registration is expected during engine setup; lookups are safe for
// concurrent use.
type Funcs struct {
	funcs map[string]Func
	mu    sync.RWMutex
}

// NewFuncs creates an empty registry.
func NewFuncs() *Funcs {
	return &Funcs{funcs: make(map[string]Func)}
}

// Register adds or replaces fn under name.
func (f *Funcs) Register(name string, fn Func) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.funcs[strings.ToLower(name)] = fn
}

// Lookup returns the function registered under name.
func (f *Funcs) Lookup(name string) (Func, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.funcs[strings.ToLower(name)]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (f *Funcs) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, 0, len(f.funcs))
	for name := range f.funcs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bind returns an Invoker resolving callables through a.
func (f *Funcs) Bind(a phpcore.Allocator) phpcore.Invoker {
	return &boundFuncs{funcs: f, alloc: a}
}

type boundFuncs struct {
	funcs *Funcs
	alloc phpcore.Allocator
}

func (b *boundFuncs) Invoke(ctx context.Context, callable value.Handle, args []value.Handle) (value.Handle, error) {
	v, err := b.alloc.Get(callable)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case value.String:
		if fn, ok := b.funcs.Lookup(string(x)); ok {
			return fn(ctx, b.alloc, args)
		}
	case value.Object:
		p, err := b.alloc.Get(x.Payload)
		if err != nil {
			return 0, err
		}
		if payload, ok := p.(value.ObjPayload); ok && payload.Data != nil {
			if fn, ok := payload.Data.Internal.(Func); ok {
				return fn(ctx, b.alloc, args)
			}
		}
	}
	return 0, Unrecognized(v)
}

// Unrecognized returns the error an Invoker reports for a callable it does
// not handle.
func Unrecognized(v value.Value) error {
	return errors.New(errors.PhaseCallable, errors.KindCallableInvocation).
		Got(value.TypeName(v)).
		Detail("not a valid callback").
		Cause(ErrUnrecognized).
		Build()
}

// IsUnrecognized reports whether err means the invoker did not handle the
// callable, as opposed to the callable failing.
func IsUnrecognized(err error) bool {
	return stderrors.Is(err, ErrUnrecognized)
}

// Chain tries each invoker in order and returns the first result from an
// invoker that recognizes the callable.
func Chain(invokers ...phpcore.Invoker) phpcore.Invoker {
	return chain(invokers)
}

type chain []phpcore.Invoker

func (c chain) Invoke(ctx context.Context, callable value.Handle, args []value.Handle) (value.Handle, error) {
	var last error
	for _, inv := range c {
		if inv == nil {
			continue
		}
		h, err := inv.Invoke(ctx, callable, args)
		if err != nil && IsUnrecognized(err) {
			last = err
			continue
		}
		return h, err
	}
	if last == nil {
		last = Unrecognized(value.Null{})
	}
	return 0, last
}
