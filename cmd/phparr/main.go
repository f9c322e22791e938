package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/arrays"
	"github.com/wippyai/phpcore/codec"
	"github.com/wippyai/phpcore/object"
	"github.com/wippyai/phpcore/runtime"
	"github.com/wippyai/phpcore/value"
	"github.com/wippyai/phpcore/wasmcall"
)

func main() {
	var (
		fn          = flag.String("fn", "", "Array builtin to call, e.g. array_diff")
		argsJSON    = flag.String("args", "[]", "Arguments as a JSON array")
		seed        = flag.Int64("seed", -1, "Seed for shuffle, array_rand and mt_rand (negative: random)")
		configFile  = flag.String("config", "", "YAML config file")
		wasmMods    = flag.String("wasm", "", "Wasm modules for callbacks (name=path,name2=path2)")
		objects     = flag.Bool("objects", false, "Decode JSON objects as object maps instead of arrays")
		list        = flag.Bool("list", false, "List builtin names and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Debug logging to stderr")
	)
	flag.Parse()

	if *fn == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: phparr -fn <name> [-args '[...]'] [-seed N] [-wasm name=file.wasm]")
		fmt.Fprintln(os.Stderr, "       phparr -list")
		fmt.Fprintln(os.Stderr, "       phparr -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		if err := enableLogging(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	cfg, err := buildConfig(*configFile, *wasmMods, *seed, *objects)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	eng, err := runtime.NewEngine(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close(ctx)

	switch {
	case *list:
		req := eng.NewRequest()
		defer req.Close()
		for _, name := range req.Arrays().Names() {
			fmt.Println(name)
		}
	case *interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(eng); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		if err := run(ctx, eng, *fn, *argsJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func enableLogging() error {
	l, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	arena.SetLogger(l)
	arrays.SetLogger(l)
	object.SetLogger(l)
	runtime.SetLogger(l)
	wasmcall.SetLogger(l)
	return nil
}

func buildConfig(path, wasmMods string, seed int64, objects bool) (*runtime.Config, error) {
	cfg := &runtime.Config{}
	if path != "" {
		loaded, err := runtime.LoadConfig(path, os.Getenv)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if seed >= 0 {
		s := uint32(seed)
		cfg.Seed = &s
	}
	if cfg.Codec == nil {
		cfg.Codec = &codec.Options{}
	}
	cfg.Codec.Assoc = !objects

	if wasmMods != "" {
		if cfg.WasmModules == nil {
			cfg.WasmModules = make(map[string][]byte)
		}
		for _, mapping := range strings.Split(wasmMods, ",") {
			name, file, ok := strings.Cut(mapping, "=")
			if !ok {
				return nil, fmt.Errorf("bad -wasm entry %q, want name=path", mapping)
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("read file: %w", err)
			}
			cfg.WasmModules[name] = data
		}
	}
	return cfg, nil
}

// splitArgs splits a JSON array into its raw elements.
func splitArgs(argsJSON string) ([][]byte, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(argsJSON), &raw); err != nil {
		return nil, fmt.Errorf("parse -args: %w", err)
	}
	out := make([][]byte, len(raw))
	for i, r := range raw {
		out[i] = r
	}
	return out, nil
}

// callResult is the rendered outcome of one builtin call.
type callResult struct {
	result string
	// byRef holds the first argument after the call when the builtin
	// changed it.
	byRef string
}

func call(ctx context.Context, eng *runtime.Engine, fn, argsJSON string) (callResult, error) {
	args, err := splitArgs(argsJSON)
	if err != nil {
		return callResult{}, err
	}
	req := eng.NewRequest()
	defer req.Close()

	hs := make([]value.Handle, len(args))
	for i, arg := range args {
		if hs[i], err = req.Codec().DecodeJSON(arg); err != nil {
			return callResult{}, fmt.Errorf("argument %d: %w", i+1, err)
		}
	}
	var before []byte
	if len(hs) > 0 {
		before, _ = req.Codec().EncodeJSON(hs[0])
	}

	res, err := req.Call(ctx, fn, hs...)
	if err != nil {
		return callResult{}, err
	}
	out, err := req.Codec().EncodeJSON(res)
	if err != nil {
		return callResult{}, fmt.Errorf("encode result: %w", err)
	}
	cr := callResult{result: string(out)}
	if len(hs) > 0 {
		if after, err := req.Codec().EncodeJSON(hs[0]); err == nil && string(after) != string(before) {
			cr.byRef = string(after)
		}
	}
	return cr, nil
}

func run(ctx context.Context, eng *runtime.Engine, fn, argsJSON string) error {
	cr, err := call(ctx, eng, fn, argsJSON)
	if err != nil {
		return err
	}
	fmt.Println(cr.result)
	if cr.byRef != "" {
		fmt.Printf("&arg1 = %s\n", cr.byRef)
	}
	return nil
}
