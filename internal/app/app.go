package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/config"
	"github.com/dshills/effectlab/internal/config/loader"
	"github.com/dshills/effectlab/internal/config/watcher"
	"github.com/dshills/effectlab/internal/notify"
	"github.com/dshills/effectlab/internal/script"
	"github.com/dshills/effectlab/internal/surface"
	"github.com/dshills/effectlab/internal/surface/term"
)

// Application owns every component of a running effectlab.
type Application struct {
	mu sync.RWMutex

	opts    Options
	cfg     *config.Config
	logger  *Logger
	logFile *os.File

	bus    *notify.Bus
	ring   *notify.Ring
	scene  *surface.Scene
	engine *anim.Engine
	host   *script.Host

	watcher *watcher.Watcher

	term     *term.Terminal
	renderer *term.Renderer
	keys     map[rune]control
	sink     *JSONLines
	dirty    atomic.Bool

	running      atomic.Bool
	done         chan struct{}
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses defaults and the
	// environment only.
	ConfigPath string

	// ScriptPath is a Lua file run after the configured autorun script.
	ScriptPath string

	// LogLevel and LogFile override the configuration when set.
	LogLevel string
	LogFile  string

	// Headless reads Lua from Stdin and writes JSON lines to Stdout
	// instead of drawing the terminal UI.
	Headless bool

	// DisableWatch turns off config live reload.
	DisableWatch bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clock drives every animation. Nil uses the system clock.
	Clock anim.Clock

	// Terminal is used instead of the process tty. It must be initialized.
	Terminal *term.Terminal

	// ConfigFS reads the configuration file. Nil uses the OS.
	ConfigFS loader.FileSystem

	// EnvPrefix selects configuration environment variables; "-" disables them.
	EnvPrefix string
}

func (o *Options) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Clock == nil {
		o.Clock = anim.SystemClock()
	}
}

// New creates an Application with the given options.
func New(opts Options) (*Application, error) {
	opts.setDefaults()
	app := &Application{
		opts: opts,
		done: make(chan struct{}),
	}

	if err := app.bootstrap(); err != nil {
		app.closeComponents()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	cfg, err := config.Load(app.configOptions())
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logging
	if err := app.setupLogging(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	log := app.logger

	// 3. Notifications and the activity log
	app.bus = notify.New()
	app.ring = notify.NewRing(cfg.Activity.MaxEntries)
	app.bus.Subscribe(app.ring.Observe)
	app.bus.Subscribe(func(n notify.Notification) {
		app.dirty.Store(true)
		log.WithComponent("notify").Debug("%s: %s", n.Severity, n.Text)
	})
	if app.opts.Headless {
		app.sink = NewJSONLines(app.opts.Stdout)
		app.bus.Subscribe(app.sink.Notification)
	}

	// 4. Scene and engine
	scene, err := buildScene(app.opts.Clock, sceneSpecs(cfg))
	if err != nil {
		return &InitError{Component: "scene", Err: err}
	}
	app.scene = scene

	animCfg := anim.NewConfig()
	animCfg.Set(cfg.Duration(), cfg.Easing())
	animCfg.OnChange(func(_, current anim.Snapshot) {
		app.dirty.Store(true)
		log.WithComponent("config").Debug("animation config now %s %s", current.Duration, current.Easing)
	})

	app.engine = anim.New(app.scene,
		anim.WithClock(app.opts.Clock),
		anim.WithConfig(animCfg),
		anim.WithNotifier(app.bus),
		anim.WithLogger(log.WithComponent("engine")),
		anim.WithDefaultTarget(cfg.Animation.DefaultTarget),
		anim.WithBatchTargets(cfg.Animation.BatchTargets...),
		anim.WithTrackedTargets(cfg.TargetIDs()...),
	)

	app.keys = controls(app.engine)

	// 5. Script host
	app.host = script.NewHost(app.engine, script.WithOutput(app.printWriter()))

	// 6. Live reload (non-fatal)
	if app.opts.ConfigPath != "" && !app.opts.DisableWatch {
		if err := app.startWatcher(); err != nil {
			log.Warn("config live reload disabled: %v", err)
		}
	}

	log.Info("started with %d targets, %s %s", len(cfg.Scene.Targets), cfg.Duration(), cfg.Easing())
	return nil
}

func (app *Application) configOptions() config.Options {
	return config.Options{
		Path:      app.opts.ConfigPath,
		Required:  app.opts.ConfigPath != "",
		FS:        app.opts.ConfigFS,
		EnvPrefix: app.opts.EnvPrefix,
	}
}

// setupLogging opens the log destination. The terminal UI owns stderr, so
// without a log file it logs nowhere.
func (app *Application) setupLogging() error {
	level := app.cfg.Log.Level
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	path := app.cfg.Log.File
	if app.opts.LogFile != "" {
		path = app.opts.LogFile
	}

	var out io.Writer
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	case app.opts.Headless:
		out = app.opts.Stderr
	default:
		out = io.Discard
	}

	cfg := DefaultLoggerConfig()
	cfg.Level = ParseLogLevel(level)
	cfg.Output = out
	app.logger = NewLogger(cfg)
	return nil
}

func (app *Application) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		app.logger.WithComponent("watcher").Warn("%v", err)
	}))
	if err != nil {
		return err
	}
	if err := w.Watch(app.opts.ConfigPath); err != nil {
		_ = w.Close()
		return err
	}
	w.OnChange(app.handleConfigChange)
	app.watcher = w
	return nil
}

func (app *Application) handleConfigChange(ev watcher.Event) {
	if ev.Op == watcher.OpRemove {
		app.logger.Warn("config file %s removed, keeping current settings", ev.Path)
		return
	}
	_ = app.Reload()
}

// Reload re-reads the configuration and applies the animation section to
// the running engine. Scene layout changes need a restart.
func (app *Application) Reload() error {
	cfg, err := config.Load(app.configOptions())
	if err != nil {
		app.logger.Warn("config reload failed: %v", err)
		app.bus.Warning("config", fmt.Sprintf("config reload failed: %v", err), 0)
		return err
	}

	app.mu.Lock()
	app.cfg = cfg
	app.mu.Unlock()

	snap := app.engine.Config().Set(cfg.Duration(), cfg.Easing())
	if app.opts.LogLevel == "" {
		app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	}
	app.bus.Info("config", fmt.Sprintf("config reloaded: %dms %s", snap.Duration.Milliseconds(), snap.Easing), 0)
	return nil
}

// buildScene adds every element, failing on the first rejected one.
func buildScene(clock anim.Clock, specs []surface.ElementSpec) (*surface.Scene, error) {
	scene := surface.NewScene(clock)
	for _, spec := range specs {
		if err := scene.Add(spec); err != nil {
			return nil, err
		}
	}
	return scene, nil
}

func sceneSpecs(cfg *config.Config) []surface.ElementSpec {
	specs := make([]surface.ElementSpec, 0, len(cfg.Scene.Targets))
	for _, t := range cfg.Scene.Targets {
		specs = append(specs, surface.ElementSpec{
			ID:            t.ID,
			Label:         t.Label,
			Color:         t.Color,
			X:             t.X,
			Y:             t.Y,
			Width:         t.Width,
			Height:        t.Height,
			NaturalHeight: t.NaturalHeight,
			Opacity:       t.Opacity,
			Visible:       t.Visible,
		})
	}
	return specs
}

// Run executes the startup scripts, then the terminal UI or the headless
// console. It blocks until the user quits, stdin ends, ctx is cancelled or
// Shutdown is called. A user quit returns ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-app.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for _, path := range app.startupScripts() {
		app.logger.Info("running script %s", path)
		if err := app.host.DoFile(ctx, path); err != nil {
			return WrapError(err, "script %s", path)
		}
	}

	if app.opts.Headless {
		return app.runHeadless(ctx)
	}
	return app.runTerminal(ctx)
}

func (app *Application) startupScripts() []string {
	var paths []string
	if p := app.Config().Script.Autorun; p != "" {
		paths = append(paths, p)
	}
	if app.opts.ScriptPath != "" {
		paths = append(paths, app.opts.ScriptPath)
	}
	return paths
}

// Shutdown stops every component. It is safe to call more than once and
// from any goroutine.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		close(app.done)
		app.closeComponents()
	})
}

// closeComponents releases components in reverse initialization order.
func (app *Application) closeComponents() {
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	if app.host != nil {
		app.host.Close()
	}
	if app.engine != nil {
		app.engine.Close()
	}
	if app.bus != nil {
		app.bus.Close()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.cfg
}

// Engine returns the animation engine.
func (app *Application) Engine() *anim.Engine {
	return app.engine
}

// Scene returns the animated scene.
func (app *Application) Scene() *surface.Scene {
	return app.scene
}

// Activity returns the activity log.
func (app *Application) Activity() *notify.Ring {
	return app.ring
}

// Notifications returns the notification bus.
func (app *Application) Notifications() *notify.Bus {
	return app.bus
}

// Script returns the Lua host.
func (app *Application) Script() *script.Host {
	return app.host
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// printWriter routes Lua print output: JSON lines when headless, the log
// otherwise.
func (app *Application) printWriter() io.Writer {
	if app.sink != nil {
		return lineWriter(app.sink.Print)
	}
	log := app.logger.WithComponent("script")
	return lineWriter(func(s string) { log.Info("%s", s) })
}

// lineWriter calls itself once per written line.
type lineWriter func(line string)

func (w lineWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		w(string(line))
	}
	return len(p), nil
}
