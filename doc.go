// Package phpcore is the value and array core of a PHP-compatible runtime.
//
// It stores every runtime value in a per-request arena and refers to values
// through generation-checked handles. On top of that it implements PHP
// arrays (ordered maps with integer and string keys and copy-on-write
// sharing), the array function family, the internal array pointer, objects
// and structs, and the error taxonomy all of these report through.
//
// # Architecture Overview
//
//	phpcore/             Root package with the Allocator, Invoker and lookup interfaces
//	├── value/           Value variants, ArrayKey, ArrayData, comparison and conversion
//	├── arena/           Handle-addressed value storage with copy-on-write helpers
//	├── arrays/          The array builtins: count, sort, array_map, array_splice, ...
//	├── cursor/          Internal array pointer (current, next, reset, each)
//	├── object/          Objects, structs, object maps and property access
//	├── class/           Class registry shared by requests
//	├── symbol/          Interned names
//	├── callable/        Go functions as callbacks, invoker chaining
//	├── wasmcall/        WebAssembly exports as callbacks (wazero)
//	├── mtrand/          MT19937 random source behind shuffle and mt_rand
//	├── codec/           JSON and CBOR conversion of arena values
//	├── runtime/         Engine and per-request wiring, YAML config
//	└── errors/          Structured error types
//
// # Quick Start
//
//	eng, err := runtime.NewEngine(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	req := eng.NewRequest()
//	defer req.Close()
//
//	res, _, err := req.CallJSON(ctx, "array_diff", []byte(`[1,2,3]`), []byte(`[2]`))
//	out, _ := req.Codec().EncodeJSON(res) // {"0":1,"2":3}
//
// # Thread Safety
//
// Engine is safe for concurrent use. An arena and everything bound to it
// (cursor table, random source, array engine, object model) belongs to one
// request and must be used by a single goroutine.
package phpcore
