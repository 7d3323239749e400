package config

import (
	"fmt"
	"strings"
)

// decoder applies a nested configuration map onto a Config.
// Absent keys keep the value already in the Config.
type decoder struct {
	errs []error
}

func (d *decoder) fail(path, expected string, v any) {
	d.errs = append(d.errs, &TypeError{Path: path, Expected: expected, Actual: fmt.Sprintf("%T", v)})
}

// decode overlays m onto c.
func decode(m map[string]any, c *Config) error {
	d := &decoder{}

	if a, ok := d.section(m, "animation"); ok {
		d.integer(a, "animation.duration_ms", &c.Animation.DurationMS)
		d.str(a, "animation.easing", &c.Animation.Easing)
		d.str(a, "animation.default_target", &c.Animation.DefaultTarget)
		d.stringList(a, "animation.batch_targets", &c.Animation.BatchTargets)
	}

	if s, ok := d.section(m, "scene"); ok {
		if raw, ok := s["targets"]; ok {
			c.Scene.Targets = d.targets(raw)
		}
	}

	if l, ok := d.section(m, "log"); ok {
		d.str(l, "log.level", &c.Log.Level)
		d.str(l, "log.file", &c.Log.File)
	}

	if s, ok := d.section(m, "script"); ok {
		d.str(s, "script.autorun", &c.Script.Autorun)
	}

	if a, ok := d.section(m, "activity"); ok {
		d.integer(a, "activity.max_entries", &c.Activity.MaxEntries)
	}

	return joinErrors(d.errs)
}

func (d *decoder) section(m map[string]any, key string) (map[string]any, bool) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, false
	}
	s, ok := raw.(map[string]any)
	if !ok {
		d.fail(key, "table", raw)
		return nil, false
	}
	return s, true
}

func (d *decoder) targets(raw any) []TargetConfig {
	list, ok := raw.([]any)
	if !ok {
		d.fail("scene.targets", "array", raw)
		return nil
	}

	out := make([]TargetConfig, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("scene.targets[%d]", i)
		m, ok := item.(map[string]any)
		if !ok {
			d.fail(path, "table", item)
			continue
		}

		// Elements are opaque and shown unless the file says otherwise
		t := TargetConfig{Opacity: 1, Visible: true}
		d.str(m, path+".id", &t.ID)
		d.str(m, path+".label", &t.Label)
		d.str(m, path+".color", &t.Color)
		d.number(m, path+".x", &t.X)
		d.number(m, path+".y", &t.Y)
		d.number(m, path+".width", &t.Width)
		d.number(m, path+".height", &t.Height)
		d.number(m, path+".natural_height", &t.NaturalHeight)
		d.number(m, path+".opacity", &t.Opacity)
		d.boolean(m, path+".visible", &t.Visible)
		out = append(out, t)
	}
	return out
}

// key returns the last segment of a dotted path.
func key(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (d *decoder) str(m map[string]any, path string, dst *string) {
	raw, ok := m[key(path)]
	if !ok {
		return
	}
	s, ok := raw.(string)
	if !ok {
		d.fail(path, "string", raw)
		return
	}
	*dst = s
}

func (d *decoder) integer(m map[string]any, path string, dst *int) {
	raw, ok := m[key(path)]
	if !ok {
		return
	}
	switch v := raw.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case uint64:
		*dst = int(v)
	case float64:
		*dst = int(v)
	default:
		d.fail(path, "integer", raw)
	}
}

func (d *decoder) number(m map[string]any, path string, dst *float64) {
	raw, ok := m[key(path)]
	if !ok {
		return
	}
	switch v := raw.(type) {
	case float64:
		*dst = v
	case int:
		*dst = float64(v)
	case int64:
		*dst = float64(v)
	case uint64:
		*dst = float64(v)
	default:
		d.fail(path, "number", raw)
	}
}

func (d *decoder) boolean(m map[string]any, path string, dst *bool) {
	raw, ok := m[key(path)]
	if !ok {
		return
	}
	b, ok := raw.(bool)
	if !ok {
		d.fail(path, "boolean", raw)
		return
	}
	*dst = b
}

func (d *decoder) stringList(m map[string]any, path string, dst *[]string) {
	raw, ok := m[key(path)]
	if !ok {
		return
	}
	list, ok := raw.([]any)
	if !ok {
		d.fail(path, "array of strings", raw)
		return
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			d.fail(path, "array of strings", item)
			return
		}
		out = append(out, s)
	}
	*dst = out
}

func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return fmt.Errorf("%w: %s", ErrTypeMismatch, strings.Join(msgs, "; "))
	}
}
