package script

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"
)

// Store is the key/value state shared by every handler of one Manager, so
// that a create call can be observed by a later get. Values are kept as
// JSON so no two VMs ever share a Go value.
type Store struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{data: make(map[string]json.RawMessage)}
}

// Get returns a stored value
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// Set stores a value
func (s *Store) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return nil
}

// Delete removes a value
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Keys returns every key starting with prefix, sorted
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Runtime wraps a goja VM with the handler bindings
type Runtime struct {
	vm     *goja.Runtime
	logger zerolog.Logger
}

// NewRuntime creates a Runtime bound to store
func NewRuntime(store *Store, logger zerolog.Logger) *Runtime {
	vm := goja.New()
	r := &Runtime{
		vm:     vm,
		logger: logger,
	}
	r.setupConsole()
	r.setupUtils()
	r.setupStore(store)
	return r
}

// VM returns the underlying goja runtime
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()

	logAt := func(ev func() *zerolog.Event) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]interface{}, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = arg.Export()
			}
			ev().Msgf("[script] %v", args)
			return goja.Undefined()
		}
	}

	console.Set("log", logAt(r.logger.Info))
	console.Set("error", logAt(r.logger.Error))
	console.Set("warn", logAt(r.logger.Warn))
	console.Set("debug", logAt(r.logger.Debug))

	r.vm.Set("console", console)
}

func (r *Runtime) setupUtils() {
	utils := r.vm.NewObject()

	// keccak256 hashes a string (or 0x-prefixed hex) and returns 0x hex
	utils.Set("keccak256", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(r.vm.ToValue("keccak256 requires 1 argument"))
		}
		var data []byte
		switch v := call.Arguments[0].Export().(type) {
		case string:
			if strings.HasPrefix(v, "0x") {
				var err error
				data, err = hex.DecodeString(strings.TrimPrefix(v, "0x"))
				if err != nil {
					panic(r.vm.ToValue(fmt.Sprintf("invalid hex string: %v", err)))
				}
			} else {
				data = []byte(v)
			}
		case []byte:
			data = v
		default:
			panic(r.vm.ToValue("keccak256 requires a string"))
		}

		hash := sha3.NewLegacyKeccak256()
		hash.Write(data)
		return r.vm.ToValue("0x" + hex.EncodeToString(hash.Sum(nil)))
	})

	utils.Set("parseJSON", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(r.vm.ToValue("parseJSON requires string"))
		}
		var result interface{}
		if err := json.Unmarshal([]byte(call.Arguments[0].String()), &result); err != nil {
			panic(r.vm.ToValue(fmt.Sprintf("invalid JSON: %v", err)))
		}
		return r.vm.ToValue(result)
	})

	utils.Set("stringifyJSON", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(r.vm.ToValue("stringifyJSON requires value"))
		}
		data, err := json.Marshal(call.Arguments[0].Export())
		if err != nil {
			panic(r.vm.ToValue(fmt.Sprintf("JSON stringify error: %v", err)))
		}
		return r.vm.ToValue(string(data))
	})

	r.vm.Set("utils", utils)
}

func (r *Runtime) setupStore(store *Store) {
	obj := r.vm.NewObject()

	obj.Set("get", func(call goja.FunctionCall) goja.Value {
		v, ok := store.Get(call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return r.vm.ToValue(v)
	})
	obj.Set("set", func(call goja.FunctionCall) goja.Value {
		if err := store.Set(call.Argument(0).String(), call.Argument(1).Export()); err != nil {
			panic(r.vm.ToValue(fmt.Sprintf("store.set: %v", err)))
		}
		return goja.Undefined()
	})
	obj.Set("delete", func(call goja.FunctionCall) goja.Value {
		store.Delete(call.Argument(0).String())
		return goja.Undefined()
	})
	obj.Set("keys", func(call goja.FunctionCall) goja.Value {
		prefix := ""
		if len(call.Arguments) > 0 {
			prefix = call.Arguments[0].String()
		}
		keys := store.Keys(prefix)
		out := make([]interface{}, len(keys))
		for i, k := range keys {
			out[i] = k
		}
		return r.vm.ToValue(out)
	})

	r.vm.Set("store", obj)
}

// RunScript executes JavaScript code and returns the result
func (r *Runtime) RunScript(script string) (goja.Value, error) {
	return r.vm.RunString(script)
}

// CallFunction calls a JavaScript function by name
func (r *Runtime) CallFunction(name string, args ...interface{}) (goja.Value, error) {
	fn, ok := goja.AssertFunction(r.vm.Get(name))
	if !ok {
		return nil, fmt.Errorf("function %s not found", name)
	}

	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = r.vm.ToValue(arg)
	}

	return fn(goja.Undefined(), jsArgs...)
}
