package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/effectlab/internal/anim"
)

type taskFunc func(anim.Options) (int64, error)

func (h *Host) install() {
	L := h.L
	e := h.engine
	fx := L.NewTable()

	tasks := map[string]taskFunc{
		"fadeIn":        e.FadeIn,
		"fadeOut":       e.FadeOut,
		"fadeToggle":    e.FadeToggle,
		"slideUp":       e.SlideUp,
		"slideDown":     e.SlideDown,
		"slideToggle":   e.SlideToggle,
		"moveRight":     e.MoveRight,
		"moveLeft":      e.MoveLeft,
		"animateRight":  e.MoveRight,
		"animateLeft":   e.MoveLeft,
		"toggleMarker":  e.ToggleMarker,
		"stop":          e.Stop,
		"batchFadeOut":  e.BatchFadeOut,
		"batchFadeIn":   e.BatchFadeIn,
		"batchMoveTemp": e.BatchMoveTemp,
	}
	for name, fn := range tasks {
		L.SetField(fx, name, L.NewFunction(h.task(fn)))
	}

	L.SetFuncs(fx, map[string]lua.LGFunction{
		"animate":      h.animate,
		"delay":        h.delay,
		"enqueue":      h.enqueue,
		"chain":        h.chain(e.Chain),
		"chainGrouped": h.chain(e.ChainGrouped),
		"stopAll":      h.stopAll,
		"restore":      h.restore,
		"restoreAll":   h.restoreAll,
		"state":        h.state,
	})
	L.SetField(fx, "defaultTarget", lua.LString(e.DefaultTarget()))
	L.SetField(fx, "config", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"get": h.configGet,
		"set": h.configSet,
	}))

	easings := make([]string, 0, len(anim.Easings()))
	for _, name := range anim.Easings() {
		easings = append(easings, string(name))
	}
	L.SetField(fx, "easings", toLua(L, easings))

	L.SetGlobal("fx", fx)
	L.SetGlobal("effects", fx)
}

// options reads a target string, an options table, or a target followed by
// an options table starting at argument n.
func options(L *lua.LState, n int) anim.Options {
	var o anim.Options
	switch v := L.Get(n).(type) {
	case lua.LString:
		o.Target = string(v)
		if tbl, ok := L.Get(n + 1).(*lua.LTable); ok {
			readOptions(L, n+1, tbl, &o)
		}
	case *lua.LTable:
		readOptions(L, n, v, &o)
	case *lua.LNilType:
	default:
		L.ArgError(n, "expected target string or options table")
	}
	return o
}

func readOptions(L *lua.LState, n int, tbl *lua.LTable, o *anim.Options) {
	if v, ok := tbl.RawGetString("target").(lua.LString); ok {
		o.Target = string(v)
	}
	switch v := tbl.RawGetString("duration").(type) {
	case lua.LNumber:
		o.Duration = millis(v)
	case *lua.LNilType:
	default:
		L.ArgError(n, "duration must be a number of milliseconds")
	}
	switch v := tbl.RawGetString("easing").(type) {
	case lua.LString:
		e, err := anim.ParseEasing(string(v))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		o.Easing = e
	case *lua.LNilType:
	default:
		L.ArgError(n, "easing must be a string")
	}
}

func millis(n lua.LNumber) time.Duration {
	return time.Duration(float64(n) * float64(time.Millisecond))
}

func pushResult(L *lua.LState, v any, err error) int {
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(toLua(L, v))
	return 1
}

func (h *Host) task(fn taskFunc) lua.LGFunction {
	return func(L *lua.LState) int {
		id, err := fn(options(L, 1))
		return pushResult(L, id, err)
	}
}

// fx.enqueue(op, target|opts)
func (h *Host) enqueue(L *lua.LState) int {
	op, err := anim.ParseOperation(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	o := options(L, 2)
	target := o.Target
	if target == "" && !op.Targetless() {
		target = h.engine.DefaultTarget()
	}
	var p *anim.Params
	if o.Duration > 0 || o.Easing != "" {
		p = &anim.Params{Duration: o.Duration, Easing: o.Easing}
	}
	id, err := h.engine.Enqueue(target, op, p)
	return pushResult(L, id, err)
}

// fx.animate(target, [opts], props) or fx.animate{target=..., opacity=...}
func (h *Host) animate(L *lua.LState) int {
	o := options(L, 1)
	var props *lua.LTable
	if tbl, ok := L.Get(3).(*lua.LTable); ok {
		props = tbl
	} else if tbl, ok := L.Get(2).(*lua.LTable); ok {
		props = tbl
	} else if tbl, ok := L.Get(1).(*lua.LTable); ok {
		props = tbl
	}
	if props == nil {
		L.ArgError(2, "expected property table")
		return 0
	}
	id, err := h.engine.Animate(o, readProps(props))
	return pushResult(L, id, err)
}

func readProps(tbl *lua.LTable) anim.Props {
	get := func(keys ...string) *float64 {
		for _, k := range keys {
			if n, ok := tbl.RawGetString(k).(lua.LNumber); ok {
				return anim.Float(float64(n))
			}
		}
		return nil
	}
	return anim.Props{
		Opacity:    get("opacity"),
		TranslateX: get("translateX", "x"),
		Left:       get("left"),
		Top:        get("top"),
		Height:     get("height"),
	}
}

// fx.delay(ms) or fx.delay{duration=ms}
func (h *Host) delay(L *lua.LState) int {
	var o anim.Options
	switch v := L.Get(1).(type) {
	case lua.LNumber:
		o.Duration = millis(v)
	case *lua.LTable:
		readOptions(L, 1, v, &o)
	}
	id, err := h.engine.Delay(o)
	return pushResult(L, id, err)
}

func (h *Host) chain(fn func(anim.Options) ([]int64, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		ids, err := fn(options(L, 1))
		return pushResult(L, ids, err)
	}
}

func (h *Host) stopAll(L *lua.LState) int {
	h.engine.StopAll()
	return 0
}

// fx.restore(target?) restores one target, defaulting to the default target.
func (h *Host) restore(L *lua.LState) int {
	h.engine.Restore(L.OptString(1, h.engine.DefaultTarget()))
	return 0
}

func (h *Host) restoreAll(L *lua.LState) int {
	h.engine.RestoreAll()
	return 0
}

func (h *Host) state(L *lua.LState) int {
	s := h.engine.State()
	queue := make([]any, 0, len(s.Queue))
	for _, t := range s.Queue {
		queue = append(queue, map[string]any{
			"id":     t.ID,
			"target": t.Target,
			"op":     t.Op.String(),
		})
	}
	st := map[string]any{
		"running":      s.Running,
		"runningCount": s.RunningCount,
		"queueLength":  s.QueueLen(),
		"status":       s.Status,
		"queue":        queue,
	}
	if s.Running {
		st["activeTarget"] = s.ActiveTarget
		st["activeOp"] = s.ActiveOp.String()
	}
	L.Push(toLua(L, st))
	return 1
}

func snapshotTable(L *lua.LState, s anim.Snapshot) lua.LValue {
	return toLua(L, map[string]any{
		"duration": s.Duration.Milliseconds(),
		"easing":   string(s.Easing),
	})
}

func (h *Host) configGet(L *lua.LState) int {
	L.Push(snapshotTable(L, h.engine.Config().Get()))
	return 1
}

// fx.config.set{duration=ms, easing=name}. Durations are clamped and
// unknown easings are ignored.
func (h *Host) configSet(L *lua.LState) int {
	tbl := L.CheckTable(1)
	cfg := h.engine.Config()
	snap := cfg.Get()
	if n, ok := tbl.RawGetString("duration").(lua.LNumber); ok {
		snap = cfg.SetDuration(millis(n))
	}
	if s, ok := tbl.RawGetString("easing").(lua.LString); ok {
		snap = cfg.SetEasing(anim.Easing(s))
	}
	L.Push(snapshotTable(L, snap))
	return 1
}
