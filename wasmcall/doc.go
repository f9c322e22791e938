// Package wasmcall lets array callbacks run inside WebAssembly modules.
//
// Core modules are compiled and instantiated with wazero under a name:
//
//	inv := wasmcall.New(ctx, nil)
//	defer inv.Close(ctx)
//	if err := inv.Load(ctx, "sorting", wasmBytes); err != nil {
//		return err
//	}
//	e := arrays.New(a, arrays.WithInvoker(inv.Bind(a)))
//
// A callable is then the string "module::export", for example
// usort($a, "sorting::cmp"). Arguments are converted to the export's
// parameter types: i32 and i64 take the integer value, f32 and f64 the
// float value. A single result comes back as an int or float, several
// results as a list, none as null.
//
// Strings that do not name a loaded module are reported as unrecognized,
// so the invoker can sit in a callable.Chain next to Go functions.
package wasmcall
