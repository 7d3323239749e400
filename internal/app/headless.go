package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/sjson"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/notify"
)

// idlePoll is how often the console checks for an idle engine before exit.
const idlePoll = 10 * time.Millisecond

// JSONLines writes one JSON object per line. It is safe for concurrent use.
type JSONLines struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewJSONLines creates a sink writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

// Err returns the first write or encoding error.
func (s *JSONLines) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// emit builds an object of the given type from key/value pairs.
func (s *JSONLines) emit(kind string, kv ...any) {
	line, err := sjson.Set("", "type", kind)
	for i := 0; err == nil && i+1 < len(kv); i += 2 {
		line, err = sjson.Set(line, kv[i].(string), kv[i+1])
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		_, err = io.WriteString(s.w, line+"\n")
	}
	if err != nil && s.err == nil {
		s.err = err
	}
}

// Notification writes a notification. It is a notify.Observer.
func (s *JSONLines) Notification(n notify.Notification) {
	s.emit("notification",
		"id", n.ID,
		"severity", n.Severity.String(),
		"text", n.Text,
		"task", n.TaskID,
		"source", n.Source,
		"time", n.Time.Format(time.RFC3339Nano),
	)
}

// Print writes one line of script output.
func (s *JSONLines) Print(text string) {
	s.emit("print", "text", text)
}

// Result writes the values of an evaluated console line.
func (s *JSONLines) Result(line int, values []any) {
	if values == nil {
		values = []any{}
	}
	s.emit("result", "line", line, "values", values)
}

// Error writes a failed console line.
func (s *JSONLines) Error(line int, err error) {
	s.emit("error", "line", line, "error", err.Error())
}

// State writes an engine state summary.
func (s *JSONLines) State(st anim.RunState, cfg anim.Snapshot) {
	s.emit("state",
		"status", st.Status,
		"running", st.Running,
		"queue", st.QueueLen(),
		"duration", cfg.Duration.Milliseconds(),
		"easing", string(cfg.Easing),
	)
}

// runHeadless evaluates stdin line by line, then waits for the queue to drain.
func (app *Application) runHeadless(ctx context.Context) error {
	console := &Console{
		host: app.host,
		sink: app.sink,
		log:  app.logger.WithComponent("console"),
	}
	if err := console.Run(ctx, app.opts.Stdin); err != nil {
		return err
	}
	if err := app.waitIdle(ctx); err != nil {
		return nil
	}
	app.sink.State(app.engine.State(), app.engine.Config().Get())
	return app.sink.Err()
}

// Evaluator runs one line of Lua.
type Evaluator interface {
	Eval(ctx context.Context, line string) ([]any, error)
}

// Console feeds lines from a reader to an Evaluator.
type Console struct {
	host Evaluator
	sink *JSONLines
	log  *Logger
}

// Run reads until EOF or ctx is cancelled. Blank lines and "--" comments are
// skipped; a failing line is reported and the console carries on.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("read console: %w", err)
					}
				default:
				}
				return nil
			}
			n++
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "--") {
				continue
			}
			values, err := c.host.Eval(ctx, line)
			if err != nil {
				c.log.Debug("line %d: %v", n, err)
				c.sink.Error(n, err)
				continue
			}
			c.sink.Result(n, values)
		}
	}
}

// waitIdle blocks until no task is queued or running and the scene is at
// rest.
func (app *Application) waitIdle(ctx context.Context) error {
	ticker := time.NewTicker(idlePoll)
	defer ticker.Stop()
	for {
		st := app.engine.State()
		if !st.Running && st.QueueLen() == 0 && !app.scene.Animating() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
