// Package runtime ties the core together.
//
// An Engine is built once and shared: it owns the symbol table, the class
// registry (stdClass plus whatever Config.Classes registers), the Go
// function table and an optional wasm invoker. Each unit of work gets its
// own Request with a fresh arena, cursor table and random source:
//
//	eng, err := runtime.NewEngine(ctx, &runtime.Config{
//		Funcs: func(f *callable.Funcs) { f.Register("cmp", cmp) },
//	})
//	if err != nil {
//		return err
//	}
//	defer eng.Close(ctx)
//
//	req := eng.NewRequest()
//	defer req.Close()
//	res, _, err := req.CallJSON(ctx, "usort", []byte(`[3,1,2]`), []byte(`"cmp"`))
//
// Configuration can also come from a YAML file, see LoadConfig.
package runtime
