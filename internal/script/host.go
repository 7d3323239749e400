// Package script embeds a Lua interpreter that drives an animation engine.
//
// Each Host installs a global table named fx (alias effects) bound to one
// anim.Engine:
//
//	fx.fadeOut("box2")
//	fx.moveRight{target = "customStage", duration = 250, easing = "linear"}
//	fx.animate("box1", {opacity = 0.4, x = 40})
//	fx.delay(300)
//	fx.config.set{duration = 600}
//	print(fx.state().status)
//
// Only the base, table, string and math libraries are opened.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/effectlab/internal/anim"
)

// DefaultTimeout bounds a single chunk's execution.
const DefaultTimeout = 5 * time.Second

// Host runs Lua code against an engine.
//
// gopher-lua's LState is not goroutine-safe; the mutex serialises every
// entry point.
type Host struct {
	L *lua.LState

	mu      sync.Mutex
	engine  *anim.Engine
	timeout time.Duration
	out     io.Writer
	closed  bool
}

// Option configures a Host.
type Option func(*Host)

// WithTimeout sets the per-chunk execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Host) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(h *Host) {
		if w != nil {
			h.out = w
		}
	}
}

// NewHost creates a host with fx bound to engine.
func NewHost(engine *anim.Engine, opts ...Option) *Host {
	h := &Host{
		engine:  engine,
		timeout: DefaultTimeout,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.L.SetGlobal("print", h.L.NewFunction(h.print))
	h.install()
	return h
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// dofile and loadfile reach the file system.
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
}

// DoString runs a chunk.
func (h *Host) DoString(ctx context.Context, code string) error {
	_, err := h.run(ctx, func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadString(code)
	})
	return err
}

// DoFile runs a script file.
func (h *Host) DoFile(ctx context.Context, path string) error {
	_, err := h.run(ctx, func(L *lua.LState) (*lua.LFunction, error) {
		return L.LoadFile(path)
	})
	return err
}

// Eval runs one console line and returns its values converted to Go.
// Expressions are tried first, so "fx.state().status" yields a value.
func (h *Host) Eval(ctx context.Context, line string) ([]any, error) {
	return h.run(ctx, func(L *lua.LState) (*lua.LFunction, error) {
		if fn, err := L.LoadString("return " + line); err == nil {
			return fn, nil
		}
		return L.LoadString(line)
	})
}

func (h *Host) run(ctx context.Context, load func(*lua.LState) (*lua.LFunction, error)) (results []any, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHostClosed
	}

	fn, err := load(h.L)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := h.L.GetTop()
	h.L.Push(fn)
	if err := h.L.PCall(0, lua.MultRet, nil); err != nil {
		h.L.SetTop(top)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		return nil, err
	}

	n := h.L.GetTop() - top
	results = make([]any, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, toGo(h.L.Get(top+i)))
	}
	h.L.SetTop(top)
	return results, nil
}

// Close releases the interpreter. It is safe to call more than once.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.L.Close()
	h.closed = true
}

func (h *Host) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(h.out, strings.Join(parts, "\t"))
	return 0
}
