package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/phpcore/arena"
	"github.com/wippyai/phpcore/callable"
	"github.com/wippyai/phpcore/class"
	"github.com/wippyai/phpcore/codec"
	"github.com/wippyai/phpcore/symbol"
	"github.com/wippyai/phpcore/wasmcall"
)

// Config configures an Engine. The zero value is usable.
type Config struct {
	// Seed makes every request's random source deterministic when set.
	Seed *uint32

	// Classes registers class definitions on top of stdClass.
	Classes func(b *class.Builder, syms *symbol.Table) error

	// Funcs registers Go functions callable by name from array callbacks.
	Funcs func(f *callable.Funcs)

	// Wasm enables the wasm invoker. Modules are loaded by name.
	Wasm        *wasmcall.Config
	WasmModules map[string][]byte

	Arena *arena.Config
	Codec *codec.Options

	Logger *zap.Logger
}

// FileConfig is the on-disk form of a Config.
//
//	seed: 42
//	arena:
//	  capacity: 4096
//	codec:
//	  assoc: true
//	  max_depth: 128
//	wasm:
//	  memory_limit_pages: 16
//	  modules:
//	    sorting: ./sorting.wasm
type FileConfig struct {
	Seed  *uint32 `yaml:"seed"`
	Arena struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"arena"`
	Codec struct {
		Assoc    bool `yaml:"assoc"`
		MaxDepth int  `yaml:"max_depth"`
	} `yaml:"codec"`
	Wasm struct {
		MemoryLimitPages uint32            `yaml:"memory_limit_pages"`
		Modules          map[string]string `yaml:"modules"`
	} `yaml:"wasm"`
}

// LoadConfig reads a YAML config file. ${VAR} references are replaced using
// getenv before parsing, and relative module paths resolve against the
// file's directory.
func LoadConfig(path string, getenv func(string) string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	fc, err := ParseConfig(data, getenv)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	return fc.Config(filepath.Dir(abs))
}

// ParseConfig parses YAML config data.
func ParseConfig(data []byte, getenv func(string) string) (*FileConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	data = interpolateEnv(data, getenv)
	fc := &FileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return fc, nil
}

// Config converts fc, reading wasm modules relative to baseDir.
func (fc *FileConfig) Config(baseDir string) (*Config, error) {
	cfg := &Config{Seed: fc.Seed}
	if fc.Arena.Capacity > 0 {
		cfg.Arena = &arena.Config{Capacity: fc.Arena.Capacity}
	}
	cfg.Codec = &codec.Options{Assoc: fc.Codec.Assoc, MaxDepth: fc.Codec.MaxDepth}

	if len(fc.Wasm.Modules) > 0 || fc.Wasm.MemoryLimitPages > 0 {
		cfg.Wasm = &wasmcall.Config{MemoryLimitPages: fc.Wasm.MemoryLimitPages}
	}
	for name, p := range fc.Wasm.Modules {
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		wasm, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read wasm module %s: %w", name, err)
		}
		if cfg.WasmModules == nil {
			cfg.WasmModules = make(map[string][]byte)
		}
		cfg.WasmModules[name] = wasm
	}
	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(getenv(string(envPattern.FindSubmatch(m)[1])))
	})
}
