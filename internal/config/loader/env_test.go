package loader

import (
	"testing"
)

func TestEnvLoader_Load(t *testing.T) {
	t.Setenv("EFFECTLAB_DURATION_MS", "250")
	t.Setenv("EFFECTLAB_EASING", "ease-in")
	t.Setenv("EFFECTLAB_BATCH_TARGETS", "box1, box3,,")
	t.Setenv("EFFECTLAB_LOG_LEVEL", "debug")

	config, err := NewEnvLoader(DefaultEnvPrefix).Load()
	if err != nil {
		t.Fatal(err)
	}

	anim, ok := config["animation"].(map[string]any)
	if !ok {
		t.Fatalf("animation = %T", config["animation"])
	}
	if anim["duration_ms"] != int64(250) {
		t.Errorf("duration_ms = %#v, want int64(250)", anim["duration_ms"])
	}
	if anim["easing"] != "ease-in" {
		t.Errorf("easing = %#v", anim["easing"])
	}
	batch, ok := anim["batch_targets"].([]any)
	if !ok || len(batch) != 2 || batch[0] != "box1" || batch[1] != "box3" {
		t.Errorf("batch_targets = %#v", anim["batch_targets"])
	}

	log := config["log"].(map[string]any)
	if log["level"] != "debug" {
		t.Errorf("log.level = %#v", log["level"])
	}
}

func TestEnvLoader_EmptyIsSet(t *testing.T) {
	t.Setenv("EFFECTLAB_LOG_FILE", "")

	config, _ := NewEnvLoader(DefaultEnvPrefix).Load()
	log, ok := config["log"].(map[string]any)
	if !ok {
		t.Fatal("log section missing")
	}
	if v, ok := log["file"]; !ok || v != "" {
		t.Errorf("log.file = %#v, %v; want empty string", v, ok)
	}
}

func TestEnvLoader_CustomMapping(t *testing.T) {
	t.Setenv("FX_SPEED", "1.5")

	l := NewEnvLoader("FX_")
	l.AddMapping("FX_SPEED", "animation.speed")
	config, _ := l.Load()

	if got := config["animation"].(map[string]any)["speed"]; got != 1.5 {
		t.Errorf("speed = %#v, want 1.5", got)
	}
}

func TestEnvLoader_Unmapped(t *testing.T) {
	t.Setenv("EFFECTLAB_DURATON_MS", "300")
	t.Setenv("EFFECTLAB_EASING", "linear")

	unmapped := NewEnvLoader(DefaultEnvPrefix).Unmapped()
	found := false
	for _, name := range unmapped {
		if name == "EFFECTLAB_EASING" {
			t.Error("mapped variable reported as unmapped")
		}
		if name == "EFFECTLAB_DURATON_MS" {
			found = true
		}
	}
	if !found {
		t.Errorf("Unmapped() = %v, want EFFECTLAB_DURATON_MS", unmapped)
	}
}
