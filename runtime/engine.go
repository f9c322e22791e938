package runtime

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/phpcore/callable"
	"github.com/wippyai/phpcore/class"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/object"
	"github.com/wippyai/phpcore/symbol"
	"github.com/wippyai/phpcore/wasmcall"
)

// Engine holds what requests share: the symbol table, the frozen class
// registry, the Go function table and the wasm invoker. It is read-only
// after NewEngine and safe for concurrent use.
type Engine struct {
	cfg     Config
	syms    *symbol.Table
	classes *class.Registry
	funcs   *callable.Funcs
	wasm    *wasmcall.Invoker
	log     *zap.Logger
}

// NewEngine builds an engine from cfg. cfg may be nil.
func NewEngine(ctx context.Context, cfg *Config) (*Engine, error) {
	e := &Engine{
		syms:  symbol.NewTable(),
		funcs: callable.NewFuncs(),
	}
	if cfg != nil {
		e.cfg = *cfg
	}
	e.log = e.cfg.Logger
	if e.log == nil {
		e.log = Logger()
	}

	b := class.NewBuilder(e.syms).
		Add(class.Def{Name: e.syms.InternString(object.StdClass), AllowDynamic: true})
	if e.cfg.Classes != nil {
		if err := e.cfg.Classes(b, e.syms); err != nil {
			return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidOperation, err, "register classes")
		}
	}
	reg, err := b.Build()
	if err != nil {
		return nil, err
	}
	e.classes = reg

	if e.cfg.Funcs != nil {
		e.cfg.Funcs(e.funcs)
	}

	if e.cfg.Wasm != nil || len(e.cfg.WasmModules) > 0 {
		e.wasm = wasmcall.New(ctx, e.cfg.Wasm)
		for name, bin := range e.cfg.WasmModules {
			if err := e.wasm.Load(ctx, name, bin); err != nil {
				return nil, multierr.Append(err, e.wasm.Close(ctx))
			}
		}
	}

	e.log.Debug("engine ready",
		zap.Int("classes", e.classes.Len()),
		zap.Int("funcs", len(e.funcs.Names())),
		zap.Bool("wasm", e.wasm != nil))
	return e, nil
}

// Symbols returns the engine's symbol table.
func (e *Engine) Symbols() *symbol.Table { return e.syms }

// Classes returns the class registry.
func (e *Engine) Classes() *class.Registry { return e.classes }

// Funcs returns the Go function table.
func (e *Engine) Funcs() *callable.Funcs { return e.funcs }

// Wasm returns the wasm invoker, or nil when wasm is not configured.
func (e *Engine) Wasm() *wasmcall.Invoker { return e.wasm }

// Close releases the wasm runtime. Requests must be closed first.
func (e *Engine) Close(ctx context.Context) error {
	var err error
	if e.wasm != nil {
		err = multierr.Append(err, e.wasm.Close(ctx))
		e.wasm = nil
	}
	return err
}
