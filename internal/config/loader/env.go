package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of effectlab environment variables.
const DefaultEnvPrefix = "EFFECTLAB_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "EFFECTLAB_")
	mapping map[string]string // Env var -> config path
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "EFFECTLAB_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "DURATION_MS":    "animation.duration_ms",
		prefix + "EASING":         "animation.easing",
		prefix + "DEFAULT_TARGET": "animation.default_target",
		prefix + "BATCH_TARGETS":  "animation.batch_targets",
		prefix + "LOG_LEVEL":      "log.level",
		prefix + "LOG_FILE":       "log.file",
		prefix + "AUTORUN":        "script.autorun",
		prefix + "MAX_ENTRIES":    "activity.max_entries",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Only mapped variables are read; other prefixed variables are ignored.
// Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for env, path := range l.mapping {
		val, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		setByPath(config, path, l.parseValue(path, val))
	}

	return config, nil
}

// Unmapped returns prefixed variables that have no mapping, so callers can
// warn about typos.
func (l *EnvLoader) Unmapped() []string {
	var out []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; !mapped {
			out = append(out, name)
		}
	}
	return out
}

// parseValue converts the string value into the type its path expects.
func (l *EnvLoader) parseValue(path, s string) any {
	if strings.HasSuffix(path, "_targets") {
		var out []any
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	// Navigate/create intermediate maps
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
