package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/muxkeys/internal/config"
	"github.com/dshills/muxkeys/internal/dispatcher/execctx"
)

// DefaultLuaTimeout bounds a single Lua command or script load.
const DefaultLuaTimeout = 5 * time.Second

// LuaExecutor runs commands defined by Lua scripts.
//
// gopher-lua states are single threaded; every entry point holds mu for
// the whole call, so commands run one at a time.
type LuaExecutor struct {
	mu       sync.Mutex
	L        *lua.LState
	timeout  time.Duration
	commands map[string]*lua.LFunction
	bindings []config.BindingConfig
	closed   bool
}

// LuaOption configures a LuaExecutor.
type LuaOption func(*LuaExecutor)

// WithLuaTimeout sets the execution timeout. Non-positive values are
// ignored.
func WithLuaTimeout(d time.Duration) LuaOption {
	return func(e *LuaExecutor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewLuaExecutor creates a sandboxed Lua state with the muxkeys module
// installed.
func NewLuaExecutor(opts ...LuaOption) *LuaExecutor {
	e := &LuaExecutor{
		L:        lua.NewState(lua.Options{SkipOpenLibs: true}),
		timeout:  DefaultLuaTimeout,
		commands: make(map[string]*lua.LFunction),
	}
	for _, opt := range opts {
		opt(e)
	}

	openSafeLibraries(e.L)
	e.L.SetGlobal("muxkeys", e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"command": e.luaCommand,
		"bind":    e.luaBind,
	}))
	return e
}

// openSafeLibraries opens the base, table, string and math libraries and
// removes the loaders that reach the file system.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// LoadFile runs a script file.
func (e *LuaExecutor) LoadFile(path string) error {
	return e.load(func() error { return e.L.DoFile(path) })
}

// LoadString runs a script.
func (e *LuaExecutor) LoadString(source string) error {
	return e.load(func() error { return e.L.DoString(source) })
}

func (e *LuaExecutor) load(run func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.withTimeout(run)
}

// withTimeout runs fn with a cancellable context installed on the state.
// Callers hold mu.
func (e *LuaExecutor) withTimeout(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Commands returns the names defined by loaded scripts.
func (e *LuaExecutor) Commands() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.commands))
	for name := range e.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings returns the bindings declared with muxkeys.bind, in order.
func (e *LuaExecutor) Bindings() []config.BindingConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]config.BindingConfig, len(e.bindings))
	copy(out, e.bindings)
	return out
}

// Execute implements execctx.CommandExecutor.
func (e *LuaExecutor) Execute(ctx *execctx.Context, name string, args []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	fn, ok := e.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	err := e.withTimeout(func() error {
		return e.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			e.contextTable(ctx), stringsTable(e.L, args))
	})
	if err != nil {
		return fmt.Errorf("lua command %s: %w", name, err)
	}
	return nil
}

// Close releases the Lua state.
func (e *LuaExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.L.Close()
	return nil
}

// muxkeys.command(name, fn)
func (e *LuaExecutor) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	if strings.TrimSpace(name) == "" {
		L.ArgError(1, "command name must not be empty")
	}
	e.commands[name] = fn
	return 0
}

// muxkeys.bind(key, command [, args [, no_prefix]])
func (e *LuaExecutor) luaBind(L *lua.LState) int {
	b := config.BindingConfig{
		Key:      L.CheckString(1),
		Command:  L.CheckString(2),
		NoPrefix: L.OptBool(4, false),
	}
	if tbl := L.OptTable(3, nil); tbl != nil {
		b.Args = tableStrings(tbl)
	}
	e.bindings = append(e.bindings, b)
	return 0
}

// contextTable exposes the handler context to a Lua command.
func (e *LuaExecutor) contextTable(ctx *execctx.Context) *lua.LTable {
	L := e.L
	t := L.NewTable()
	L.SetField(t, "count", lua.LNumber(ctx.Arg()))
	if ctx.Keys != nil {
		L.SetField(t, "keys", lua.LString(ctx.Keys.String()))
	}

	raise := func(L *lua.LState, err error) int {
		if err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
	L.SetFuncs(t, map[string]lua.LGFunction{
		"send_keys": func(L *lua.LState) int {
			return raise(L, SendKeys(ctx, false, varargStrings(L)...))
		},
		"write": func(L *lua.LState) int {
			return raise(L, SendKeys(ctx, true, L.CheckString(1)))
		},
		"run": func(L *lua.LState) int {
			if ctx.Host == nil {
				return raise(L, execctx.ErrMissingHost)
			}
			return raise(L, ctx.Host.HandleCommand(L.CheckString(1)))
		},
		"copy": func(L *lua.LState) int {
			if ctx.Clipboard == nil {
				return raise(L, execctx.ErrMissingClipboard)
			}
			return raise(L, ctx.Clipboard.SetText(L.CheckString(1)))
		},
		"log": func(L *lua.LState) int {
			if ctx.Logger != nil {
				ctx.Logger.Info("lua: %s", L.CheckString(1))
			}
			return 0
		},
	})
	return t
}

func stringsTable(L *lua.LState, ss []string) *lua.LTable {
	t := L.CreateTable(len(ss), 0)
	for _, s := range ss {
		t.Append(lua.LString(s))
	}
	return t
}

func tableStrings(t *lua.LTable) []string {
	var out []string
	t.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); ok {
			out = append(out, v.String())
		}
	})
	return out
}

func varargStrings(L *lua.LState) []string {
	out := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		out = append(out, L.CheckString(i))
	}
	return out
}
