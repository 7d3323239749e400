package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/effectlab/internal/surface/term"
)

// frameTime paces redraws while something is animating.
const frameTime = time.Second / 60

// runTerminal draws the scene and handles keys until quit.
func (app *Application) runTerminal(ctx context.Context) error {
	t := app.opts.Terminal
	if t == nil {
		nt, err := term.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: errors.Join(ErrNoTerminal, err)}
		}
		if err := nt.Init(); err != nil {
			return &InitError{Component: "terminal", Err: errors.Join(ErrNoTerminal, err)}
		}
		defer nt.Shutdown()
		t = nt
	}
	app.term = t
	app.renderer = term.NewRenderer(t, app.scene, app.ring, app.engine)
	t.OnResize(func(int, int) { app.dirty.Store(true) })

	events := make(chan term.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go app.pollEvents(t, events, stop)

	return app.eventLoop(ctx, events)
}

// pollEvents forwards terminal events until the screen closes or stop is
// closed.
func (app *Application) pollEvents(t *term.Terminal, events chan<- term.Event, stop <-chan struct{}) {
	defer close(events)
	for {
		ev, ok := t.PollEvent()
		if !ok {
			return
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// eventLoop is the main terminal loop.
func (app *Application) eventLoop(ctx context.Context, events <-chan term.Event) error {
	frameTicker := time.NewTicker(frameTime)
	defer frameTicker.Stop()

	app.renderer.Render()

	for {
		select {
		case <-ctx.Done():
			app.term.Interrupt()
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				app.term.Interrupt()
				return err
			}

		case <-frameTicker.C:
			if app.dirty.Swap(false) || app.scene.Animating() || app.engine.State().Running {
				app.renderer.Render()
			}
		}
	}
}

// handleEvent routes one terminal event. Returns ErrQuit if the application
// should exit.
func (app *Application) handleEvent(ev term.Event) error {
	switch ev.Type {
	case term.EventKey:
		return app.handleKey(ev)
	case term.EventResize:
		app.dirty.Store(true)
		return nil
	default:
		return nil
	}
}
