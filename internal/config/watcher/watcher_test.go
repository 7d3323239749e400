package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct {
		existing, next, want Operation
	}{
		{OpCreate, OpWrite, OpCreate},
		{OpWrite, OpWrite, OpWrite},
		{OpWrite, OpRemove, OpRemove},
		{OpCreate, OpRemove, OpRemove},
		{OpRemove, OpCreate, OpWrite},
		{OpRename, OpWrite, OpWrite},
		{OpWrite, OpRename, OpRename},
	}

	for _, tt := range tests {
		if got := coalesce(tt.existing, tt.next); got != tt.want {
			t.Errorf("coalesce(%s, %s) = %s, want %s", tt.existing, tt.next, got, tt.want)
		}
	}
}

func TestWatcher_WatchAndUnwatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "effectlab.toml")

	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// Missing files can be watched for creation
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("second Watch() error: %v", err)
	}
	if files := w.WatchedFiles(); len(files) != 1 {
		t.Errorf("WatchedFiles() = %v", files)
	}

	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch() error: %v", err)
	}
	if files := w.WatchedFiles(); len(files) != 0 {
		t.Errorf("WatchedFiles() after Unwatch = %v", files)
	}
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "effectlab.toml")
	if err := os.WriteFile(path, []byte("[animation]\nduration_ms = 400\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(100 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	events := make(chan Event, 10)
	w.OnChange(func(e Event) { events <- e })

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// Unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A burst of writes arrives as one event
	for i := range 3 {
		data := fmt.Appendf(nil, "[animation]\nduration_ms = %d\n", 500+i*100)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case e := <-events:
		abs, _ := filepath.Abs(path)
		if e.Path != abs {
			t.Errorf("event path = %q, want %q", e.Path, abs)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change event")
	}

	select {
	case e := <-events:
		t.Errorf("unexpected second event %+v", e)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_HandlerPanicIsolated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "effectlab.yaml")

	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	got := make(chan Event, 10)
	w.OnChange(func(Event) { panic("boom") })
	w.OnChange(func(e Event) { got <- e })

	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler not called after a panic")
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x.toml")); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close = %v, want ErrWatcherClosed", err)
	}
}
