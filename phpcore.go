package phpcore

import (
	"context"

	"github.com/wippyai/phpcore/class"
	"github.com/wippyai/phpcore/value"
)

// Allocator is the allocation capability the compiler and VM consume.
// *arena.Arena implements it.
type Allocator interface {
	Alloc(v value.Value) value.Handle
	Get(h value.Handle) (value.Value, error)
	GetMut(h value.Handle) (*value.Value, error)
}

// Invoker calls a callable value. The core never looks at how callables are
// represented; it hands the handle and arguments to the Invoker and takes
// back a result handle or an error.
type Invoker interface {
	Invoke(ctx context.Context, callable value.Handle, args []value.Handle) (value.Handle, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(ctx context.Context, callable value.Handle, args []value.Handle) (value.Handle, error)

func (f InvokerFunc) Invoke(ctx context.Context, callable value.Handle, args []value.Handle) (value.Handle, error) {
	return f(ctx, callable, args)
}

// Interner maps names to symbols and back.
type Interner interface {
	Intern(name []byte) value.Symbol
	Name(sym value.Symbol) ([]byte, bool)
}

// ClassLookup resolves class definitions. The core only reads from it.
type ClassLookup interface {
	Class(sym value.Symbol) (*class.Def, bool)
	IsSubclassOf(sym, ancestor value.Symbol) bool
	// Properties returns declared properties including inherited ones,
	// parent declarations first.
	Properties(sym value.Symbol) []class.PropDef
}
