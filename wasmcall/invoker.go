package wasmcall

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/phpcore"
	"github.com/wippyai/phpcore/callable"
	"github.com/wippyai/phpcore/errors"
	"github.com/wippyai/phpcore/value"
)

// Separator splits a callable string into module and export name.
const Separator = "::"

// Config holds runtime settings for the wasm invoker.
type Config struct {
	// MemoryLimitPages caps linear memory per module (64 KiB pages).
	// Zero keeps the wazero default.
	MemoryLimitPages uint32
}

// Invoker owns a wazero runtime and the modules loaded into it. Loading is
// expected during engine setup; calls are safe for concurrent use.
type Invoker struct {
	runtime wazero.Runtime
	modules map[string]*module
	mu      sync.RWMutex
}

type module struct {
	instance api.Module
	mu       sync.Mutex // serializes calls into the instance
}

// New creates an invoker with its own wazero runtime. Calls are aborted
// when their context is done.
func New(ctx context.Context, cfg *Config) *Invoker {
	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	return &Invoker{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		modules: make(map[string]*module),
	}
}

// Load compiles and instantiates a core module under name.
func (inv *Invoker) Load(ctx context.Context, name string, wasm []byte) error {
	if name == "" || strings.Contains(name, Separator) {
		return errors.New(errors.PhaseCallable, errors.KindInvalidArgument).
			Func("wasm_load").
			Detail("invalid module name %q", name).
			Build()
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if _, exists := inv.modules[name]; exists {
		return errors.New(errors.PhaseCallable, errors.KindInvalidOperation).
			Func("wasm_load").
			Detail("module %q already loaded", name).
			Build()
	}

	compiled, err := inv.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Wrap(errors.PhaseCallable, errors.KindInvalidArgument, err, "compile module "+name)
	}
	instance, err := inv.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		return errors.Wrap(errors.PhaseCallable, errors.KindInvalidOperation, err, "instantiate module "+name)
	}

	inv.modules[name] = &module{instance: instance}
	Logger().Debug("wasm module loaded",
		zap.String("module", name),
		zap.Int("exports", len(compiled.ExportedFunctions())))
	return nil
}

// Modules returns the loaded module names in sorted order.
func (inv *Invoker) Modules() []string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]string, 0, len(inv.modules))
	for name := range inv.modules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Exports returns the exported function names of a loaded module.
func (inv *Invoker) Exports(name string) []string {
	inv.mu.RLock()
	m, ok := inv.modules[name]
	inv.mu.RUnlock()
	if !ok {
		return nil
	}
	defs := m.instance.ExportedFunctionDefinitions()
	out := make([]string, 0, len(defs))
	for export := range defs {
		out = append(out, export)
	}
	sort.Strings(out)
	return out
}

// Close releases the runtime and every module loaded into it.
func (inv *Invoker) Close(ctx context.Context) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.modules = make(map[string]*module)
	return inv.runtime.Close(ctx)
}

// Bind returns a phpcore.Invoker that reads arguments from and allocates
// results in a.
func (inv *Invoker) Bind(a phpcore.Allocator) phpcore.Invoker {
	return &bound{inv: inv, alloc: a}
}

type bound struct {
	inv   *Invoker
	alloc phpcore.Allocator
}

func (b *bound) Invoke(ctx context.Context, h value.Handle, args []value.Handle) (value.Handle, error) {
	v, err := b.alloc.Get(h)
	if err != nil {
		return 0, err
	}
	s, ok := v.(value.String)
	if !ok {
		return 0, callable.Unrecognized(v)
	}
	modName, export, ok := strings.Cut(string(s), Separator)
	if !ok {
		return 0, callable.Unrecognized(v)
	}

	b.inv.mu.RLock()
	m, ok := b.inv.modules[modName]
	b.inv.mu.RUnlock()
	if !ok {
		return 0, callable.Unrecognized(v)
	}
	return b.call(ctx, m, string(s), export, args)
}

func (b *bound) call(ctx context.Context, m *module, name, export string, args []value.Handle) (value.Handle, error) {
	fn := m.instance.ExportedFunction(export)
	if fn == nil {
		return 0, errors.New(errors.PhaseCallable, errors.KindCallableInvocation).
			Func(name).
			Detail("module has no exported function %q", export).
			Build()
	}
	def := fn.Definition()
	params := def.ParamTypes()
	if len(params) != len(args) {
		return 0, errors.New(errors.PhaseCallable, errors.KindCallableInvocation).
			Func(name).
			Detail("expects %d arguments, %d given", len(params), len(args)).
			Build()
	}

	stack := make([]uint64, len(params))
	for i, vt := range params {
		v, err := b.alloc.Get(args[i])
		if err != nil {
			return 0, err
		}
		stack[i] = encode(vt, v)
	}

	m.mu.Lock()
	results, err := fn.Call(ctx, stack...)
	m.mu.Unlock()
	if err != nil {
		Logger().Debug("wasm call failed", zap.String("callable", name), zap.Error(err))
		return 0, errors.New(errors.PhaseCallable, errors.KindCallableInvocation).
			Func(name).
			Detail("wasm call failed").
			Cause(err).
			Build()
	}

	types := def.ResultTypes()
	switch len(results) {
	case 0:
		return b.alloc.Alloc(value.Null{}), nil
	case 1:
		return b.alloc.Alloc(decode(types[0], results[0])), nil
	}
	hs := make([]value.Handle, len(results))
	for i, r := range results {
		hs[i] = b.alloc.Alloc(decode(types[i], r))
	}
	return b.alloc.Alloc(value.Array{Data: value.NewList(hs...)}), nil
}

func encode(vt api.ValueType, v value.Value) uint64 {
	switch vt {
	case api.ValueTypeI32:
		return api.EncodeI32(int32(value.ToInt(v)))
	case api.ValueTypeF32:
		return api.EncodeF32(float32(value.ToFloat(v)))
	case api.ValueTypeF64:
		return api.EncodeF64(value.ToFloat(v))
	}
	return uint64(value.ToInt(v))
}

func decode(vt api.ValueType, r uint64) value.Value {
	switch vt {
	case api.ValueTypeI32:
		return value.Int(api.DecodeI32(r))
	case api.ValueTypeF32:
		return value.Float(api.DecodeF32(r))
	case api.ValueTypeF64:
		return value.Float(api.DecodeF64(r))
	}
	return value.Int(int64(r))
}
