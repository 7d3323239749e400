package anim

import (
	"errors"
	"math"
	"testing"
)

func TestParseEasing(t *testing.T) {
	for _, e := range Easings() {
		got, err := ParseEasing(string(e))
		if err != nil || got != e {
			t.Errorf("ParseEasing(%q) = %q, %v", e, got, err)
		}
	}

	if _, err := ParseEasing("bounce"); !errors.Is(err, ErrUnknownEasing) {
		t.Errorf("ParseEasing(bounce) error = %v, want ErrUnknownEasing", err)
	}
}

func TestEasing_Next(t *testing.T) {
	all := Easings()
	e := all[0]
	for i := 1; i <= len(all); i++ {
		e = e.Next()
		if want := all[i%len(all)]; e != want {
			t.Fatalf("step %d: Next() = %q, want %q", i, e, want)
		}
	}

	if got := Easing("bogus").Next(); got != all[0] {
		t.Errorf("bogus.Next() = %q, want %q", got, all[0])
	}
}

func TestEasing_Apply(t *testing.T) {
	for _, e := range Easings() {
		if got := e.Apply(0); got != 0 {
			t.Errorf("%s.Apply(0) = %v", e, got)
		}
		if got := e.Apply(1); got != 1 {
			t.Errorf("%s.Apply(1) = %v", e, got)
		}
		if got := e.Apply(-1); got != 0 {
			t.Errorf("%s.Apply(-1) = %v, want clamp to 0", e, got)
		}
		if got := e.Apply(2); got != 1 {
			t.Errorf("%s.Apply(2) = %v, want clamp to 1", e, got)
		}

		prev := 0.0
		for i := 1; i <= 20; i++ {
			v := e.Apply(float64(i) / 20)
			if v < prev-1e-9 {
				t.Errorf("%s not monotonic at %d: %v < %v", e, i, v, prev)
			}
			prev = v
		}
	}
}

func TestEasing_Shapes(t *testing.T) {
	if got := EaseLinear.Apply(0.3); math.Abs(got-0.3) > 1e-9 {
		t.Errorf("linear(0.3) = %v", got)
	}
	if got := EaseSwing.Apply(0.5); math.Abs(got-0.5) > 1e-4 {
		t.Errorf("swing(0.5) = %v, want symmetric 0.5", got)
	}
	if EaseIn.Apply(0.25) >= 0.25 {
		t.Error("ease-in should start slow")
	}
	if EaseOut.Apply(0.25) <= 0.25 {
		t.Error("ease-out should start fast")
	}
	if got := Easing("unknown").Apply(0.4); got != 0.4 {
		t.Errorf("unknown easing = %v, want linear", got)
	}
}
