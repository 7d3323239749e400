package anim

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestSerial_ReentrantPostIsQueued(t *testing.T) {
	var s serial
	var order []string

	s.post(func() {
		order = append(order, "outer-start")
		s.post(func() { order = append(order, "inner") })
		order = append(order, "outer-end")
	})

	want := []string{"outer-start", "outer-end", "inner"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSerial_AfterRunsOncePerDrain(t *testing.T) {
	var s serial
	afters := 0
	s.after = func() { afters++ }

	s.post(func() {
		s.post(func() {})
		s.post(func() {})
	})

	if afters != 1 {
		t.Errorf("after ran %d times, want 1", afters)
	}
}

func TestSerial_PostSeqIncreases(t *testing.T) {
	var s serial
	var got []int64

	for range 3 {
		s.postSeq(func(seq int64) { got = append(got, seq) })
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("seqs = %v", got)
	}
}

func TestSerial_PanicRecovered(t *testing.T) {
	var s serial
	var recovered any
	s.onPanic = func(r any) { recovered = r }

	ran := false
	s.post(func() {
		s.post(func() { ran = true })
		panic("boom")
	})

	if recovered != "boom" {
		t.Errorf("recovered = %v", recovered)
	}
	if !ran {
		t.Error("closure queued before the panic did not run")
	}

	// Context is usable afterwards
	again := false
	s.post(func() { again = true })
	if !again {
		t.Error("serial stuck after panic")
	}
}

func TestSerial_ConcurrentPosts(t *testing.T) {
	var s serial
	count := 0

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s.post(func() { count++ })
			}
		}()
	}
	wg.Wait()

	if count != 1600 {
		t.Errorf("count = %d, want 1600", count)
	}
}

func TestPanicError(t *testing.T) {
	base := errors.New("bad")
	if err := panicError(base); !errors.Is(err, base) {
		t.Errorf("panicError(error) = %v, want wrapped", err)
	}
	if err := panicError(42); err.Error() != "panic: 42" {
		t.Errorf("panicError(42) = %v", err)
	}
}
