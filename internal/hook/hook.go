// Package hook runs a user Lua script over each rewrite before it is
// played into the document.
//
// The script must define a global function:
//
//	function filter(original, cleaned)
//	    return cleaned
//	end
//
// Returning nil keeps the model output unchanged. Scripts run in a sandbox
// with only the base, table, string and math libraries.
package hook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single filter call.
const DefaultTimeout = 2 * time.Second

// FilterFunc is the global the script must define.
const FilterFunc = "filter"

// Errors returned by filters.
var (
	// ErrNoFilter indicates the script does not define filter().
	ErrNoFilter = errors.New("script does not define a filter function")

	// ErrBadReturn indicates filter() returned something other than a string or nil.
	ErrBadReturn = errors.New("filter must return a string or nil")
)

// Filter is a loaded script. gopher-lua states are not goroutine-safe, so
// calls are serialized.
type Filter struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	name    string
	timeout time.Duration
}

// Option configures a Filter.
type Option func(*Filter)

// WithTimeout bounds each Apply call.
func WithTimeout(d time.Duration) Option {
	return func(f *Filter) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// Load reads and compiles the script at path.
func Load(path string, opts ...Option) (*Filter, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hook script: %w", err)
	}
	return New(path, string(src), opts...)
}

// New compiles a script from source. name is used in error messages.
func New(name, source string, opts ...Option) (*Filter, error) {
	f := &Filter{name: name, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(f)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	fn, ok := L.GetGlobal(FilterFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoFilter)
	}

	f.L = L
	f.fn = fn
	return f, nil
}

// openSafeLibraries opens only the libraries that cannot reach the host.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Apply runs filter(original, cleaned) and returns its result.
func (f *Filter) Apply(ctx context.Context, original, cleaned string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	f.L.SetContext(ctx)
	defer f.L.RemoveContext()

	err := f.L.CallByParam(lua.P{
		Fn:      f.fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(original), lua.LString(cleaned))
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.name, err)
	}

	ret := f.L.Get(-1)
	f.L.Pop(1)
	switch v := ret.(type) {
	case lua.LString:
		return string(v), nil
	case *lua.LNilType:
		return cleaned, nil
	default:
		return "", fmt.Errorf("%s: %w, got %s", f.name, ErrBadReturn, ret.Type())
	}
}

// Close releases the Lua state.
func (f *Filter) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.L != nil {
		f.L.Close()
		f.L = nil
	}
}
