package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/effectlab/internal/config/loader"
)

// Options controls how Load assembles the configuration.
type Options struct {
	// Path is the configuration file. Empty means defaults and environment only.
	Path string

	// Required makes a missing Path an error.
	Required bool

	// FS reads the file. Nil uses the OS file system.
	FS loader.FileSystem

	// EnvPrefix selects environment variables. Empty uses EFFECTLAB_;
	// "-" disables environment loading.
	EnvPrefix string
}

// Load builds a Config from defaults, the optional file and the environment.
func Load(opts Options) (*Config, error) {
	merged := make(map[string]any)

	if opts.Path != "" {
		l, err := loader.ForPath(opts.FS, opts.Path)
		if err != nil {
			return nil, err
		}
		fileMap, err := l.Load()
		if err != nil {
			return nil, err
		}
		if fileMap == nil && opts.Required {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, opts.Path)
		}
		merged = loader.DeepMerge(merged, fileMap)
	}

	if opts.EnvPrefix != "-" {
		prefix := opts.EnvPrefix
		if prefix == "" {
			prefix = loader.DefaultEnvPrefix
		}
		envMap, err := loader.NewEnvLoader(prefix).Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, envMap)
	}

	cfg := Default()
	if err := decode(merged, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes the configuration in the named format ("toml" or "yaml").
func Encode(w io.Writer, c *Config, format string) error {
	switch strings.ToLower(format) {
	case "toml", "":
		return toml.NewEncoder(w).Encode(c)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %s", loader.ErrUnsupportedFormat, format)
	}
}
