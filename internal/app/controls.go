package app

import (
	"time"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/surface/term"
)

// DurationStep is the change applied by the +/- keys.
const DurationStep = 50 * time.Millisecond

// Default control targets.
const (
	panelTarget = "panelBox"
	stageTarget = "customStage"
	chainTarget = "box3"
)

// control is one keyboard binding.
type control struct {
	name string
	run  func(e *anim.Engine) error
}

func enqueueOn(fn func(anim.Options) (int64, error), target string) func(*anim.Engine) error {
	return func(*anim.Engine) error {
		_, err := fn(anim.Options{Target: target})
		return err
	}
}

// controls maps keys to engine operations.
func controls(e *anim.Engine) map[rune]control {
	return map[rune]control{
		'1': {"fadeToggle box1", enqueueOn(e.FadeToggle, "box1")},
		'2': {"fadeToggle box2", enqueueOn(e.FadeToggle, "box2")},
		'3': {"fadeToggle box3", enqueueOn(e.FadeToggle, "box3")},
		'i': {"fadeIn", enqueueOn(e.FadeIn, "box1")},
		'o': {"fadeOut", enqueueOn(e.FadeOut, "box1")},
		'u': {"slideUp", enqueueOn(e.SlideUp, panelTarget)},
		'd': {"slideDown", enqueueOn(e.SlideDown, panelTarget)},
		't': {"slideToggle", enqueueOn(e.SlideToggle, panelTarget)},
		'h': {"moveLeft", enqueueOn(e.MoveLeft, stageTarget)},
		'l': {"moveRight", enqueueOn(e.MoveRight, stageTarget)},
		'm': {"toggleMarker", enqueueOn(e.ToggleMarker, "")},
		'c': {"chain", func(e *anim.Engine) error {
			_, err := e.Chain(anim.Options{Target: chainTarget})
			return err
		}},
		'g': {"chainGrouped", func(e *anim.Engine) error {
			_, err := e.ChainGrouped(anim.Options{})
			return err
		}},
		'+': {"duration+", func(e *anim.Engine) error {
			e.Config().SetDuration(e.Config().Get().Duration + DurationStep)
			return nil
		}},
		'-': {"duration-", func(e *anim.Engine) error {
			e.Config().SetDuration(e.Config().Get().Duration - DurationStep)
			return nil
		}},
		'e': {"nextEasing", func(e *anim.Engine) error {
			e.Config().SetEasing(e.Config().Get().Easing.Next())
			return nil
		}},
		's': {"stopAll", func(e *anim.Engine) error {
			e.StopAll()
			return nil
		}},
		'r': {"restoreAll", func(e *anim.Engine) error {
			e.RestoreAll()
			return nil
		}},
	}
}

// handleKey runs the binding for a key event. Returns ErrQuit for q, Escape
// and Ctrl-C.
func (app *Application) handleKey(ev term.Event) error {
	switch ev.Key {
	case term.KeyEscape, term.KeyCtrlC:
		return ErrQuit
	case term.KeyLeft:
		return app.runControl('h')
	case term.KeyRight:
		return app.runControl('l')
	case term.KeyUp:
		return app.runControl('u')
	case term.KeyDown:
		return app.runControl('d')
	case term.KeyRune:
		if ev.Rune == 'q' {
			return ErrQuit
		}
		return app.runControl(ev.Rune)
	default:
		return nil
	}
}

func (app *Application) runControl(r rune) error {
	if r == '=' {
		r = '+'
	}
	c, ok := app.keys[r]
	if !ok {
		return nil
	}
	app.dirty.Store(true)
	if err := c.run(app.engine); err != nil {
		app.logger.WithComponent("controls").Warn("%s: %v", c.name, err)
	}
	return nil
}
