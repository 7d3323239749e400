package anim

import (
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	c := NewConfig()
	got := c.Get()
	if got.Duration != DefaultDuration || got.Easing != DefaultEasing {
		t.Errorf("Get() = %+v", got)
	}
}

func TestClampDuration(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, MinDuration},
		{-time.Second, MinDuration},
		{49 * time.Millisecond, MinDuration},
		{MinDuration, MinDuration},
		{700 * time.Millisecond, 700 * time.Millisecond},
		{MaxDuration, MaxDuration},
		{time.Minute, MaxDuration},
	}
	for _, tt := range tests {
		if got := ClampDuration(tt.in); got != tt.want {
			t.Errorf("ClampDuration(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_SetIgnoresUnknownEasing(t *testing.T) {
	c := NewConfig()

	got := c.Set(5*time.Second, "wobble")
	if got.Duration != MaxDuration {
		t.Errorf("Duration = %v, want clamp to %v", got.Duration, MaxDuration)
	}
	if got.Easing != DefaultEasing {
		t.Errorf("Easing = %q, want unchanged %q", got.Easing, DefaultEasing)
	}

	got = c.SetEasing(EaseOut)
	if got.Easing != EaseOut || c.Get().Easing != EaseOut {
		t.Errorf("SetEasing = %+v", got)
	}
}

func TestConfig_OnChange(t *testing.T) {
	c := NewConfig()

	var calls []Snapshot
	cancel := c.OnChange(func(old, current Snapshot) {
		calls = append(calls, current)
	})

	c.SetDuration(200 * time.Millisecond)
	c.SetDuration(200 * time.Millisecond) // unchanged, no call
	c.SetEasing("nope")                   // ignored, no call

	if len(calls) != 1 || calls[0].Duration != 200*time.Millisecond {
		t.Fatalf("calls = %+v, want one change", calls)
	}

	cancel()
	c.SetDuration(300 * time.Millisecond)
	if len(calls) != 1 {
		t.Errorf("observer called after cancel")
	}
}

func TestSnapshot_Resolve(t *testing.T) {
	base := Snapshot{Duration: 400 * time.Millisecond, Easing: EaseSwing}

	if got := base.resolve(nil); got != base {
		t.Errorf("resolve(nil) = %+v", got)
	}

	got := base.resolve(&Params{Duration: 10 * time.Millisecond, Easing: EaseIn})
	if got.Duration != MinDuration || got.Easing != EaseIn {
		t.Errorf("resolve(override) = %+v", got)
	}

	got = base.resolve(&Params{Easing: "nope"})
	if got != base {
		t.Errorf("resolve(invalid easing) = %+v, want base", got)
	}
}
