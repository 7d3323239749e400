package anim_test

import (
	"testing"
	"time"

	"github.com/dshills/effectlab/internal/anim"
	"github.com/dshills/effectlab/internal/notify"
)

func TestFacade_DefaultTarget(t *testing.T) {
	h := newHarness(t, anim.WithDefaultTarget("box2"))

	if _, err := h.engine.FadeOut(anim.Options{}); err != nil {
		t.Fatal(err)
	}
	if st := h.engine.State(); st.ActiveTarget != "box2" {
		t.Errorf("ActiveTarget = %q, want box2", st.ActiveTarget)
	}
}

func TestFacade_NamedOperations(t *testing.T) {
	h := newHarness(t)

	calls := []struct {
		name string
		fn   func(anim.Options) (int64, error)
		op   anim.Operation
	}{
		{"FadeIn", h.engine.FadeIn, anim.OpFadeIn},
		{"FadeOut", h.engine.FadeOut, anim.OpFadeOut},
		{"FadeToggle", h.engine.FadeToggle, anim.OpFadeToggle},
		{"SlideUp", h.engine.SlideUp, anim.OpSlideUp},
		{"SlideDown", h.engine.SlideDown, anim.OpSlideDown},
		{"SlideToggle", h.engine.SlideToggle, anim.OpSlideToggle},
		{"MoveRight", h.engine.MoveRight, anim.OpMoveRight},
		{"MoveLeft", h.engine.MoveLeft, anim.OpMoveLeft},
		{"ToggleMarker", h.engine.ToggleMarker, anim.OpToggleMarker},
		{"Stop", h.engine.Stop, anim.OpStop},
		{"Delay", h.engine.Delay, anim.OpDelay},
		{"BatchFadeOut", h.engine.BatchFadeOut, anim.OpBatchFadeOut},
		{"BatchFadeIn", h.engine.BatchFadeIn, anim.OpBatchFadeIn},
		{"BatchMoveTemp", h.engine.BatchMoveTemp, anim.OpBatchMoveTemp},
	}

	// Hold the queue with a long delay so every call stays pending
	h.engine.Delay(anim.Options{Duration: anim.MaxDuration})

	for _, c := range calls {
		if _, err := c.fn(anim.Options{Target: "box3"}); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
	}

	queue := h.engine.State().Queue
	if len(queue) != len(calls) {
		t.Fatalf("queue length = %d, want %d", len(queue), len(calls))
	}
	for i, c := range calls {
		if queue[i].Op != c.op {
			t.Errorf("%s queued %s, want %s", c.name, queue[i].Op, c.op)
		}
		want := "box3"
		if c.op.Targetless() {
			want = ""
		}
		if queue[i].Target != want {
			t.Errorf("%s target = %q, want %q", c.name, queue[i].Target, want)
		}
	}
}

func TestFacade_Chain(t *testing.T) {
	h := newHarness(t)
	h.linear(100 * time.Millisecond)

	ids, err := h.engine.Chain(anim.Options{Target: "box3"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 5 {
		t.Fatalf("len(ids) = %d, want 5", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ids not increasing: %v", ids)
		}
	}

	// fadeOut, delay, fadeIn, delay, then a move whose phases last at
	// least 60ms each, plus its margin
	h.advance(4*100*time.Millisecond + 129*time.Millisecond)
	if n := h.count(notify.SeveritySuccess); n != 4 {
		t.Fatalf("successes = %d, want 4 before the move margin", n)
	}
	h.advance(time.Millisecond)

	want := []string{
		"fadeOut finished -> box3 (hidden)",
		"delay finished -> (none) (delay)",
		"fadeIn finished -> box3 (shown)",
		"delay finished -> (none) (delay)",
		"moveRight finished -> box3 (moved-right)",
	}
	got := h.texts(notify.SeveritySuccess)
	if len(got) != len(want) {
		t.Fatalf("successes = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("success[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	h.requireIdle()
}

func TestFacade_ChainGrouped(t *testing.T) {
	h := newHarness(t)

	ids, err := h.engine.ChainGrouped(anim.Options{Duration: 100 * time.Millisecond})
	if err != nil || len(ids) != 5 {
		t.Fatalf("ChainGrouped() = %v, %v", ids, err)
	}

	h.advance(4*100*time.Millisecond + 2*60*time.Millisecond + 20*time.Millisecond)
	if n := h.count(notify.SeveritySuccess); n != 5 {
		t.Errorf("successes = %d, want 5", n)
	}
	h.requireIdle()
}

func TestFacade_ChainStopsOnClosedEngine(t *testing.T) {
	h := newHarness(t)
	h.engine.Close()

	ids, err := h.engine.Chain(anim.Options{})
	if err == nil || len(ids) != 0 {
		t.Errorf("Chain() on closed engine = %v, %v", ids, err)
	}
}
