// Package config loads the optional agt settings file.
//
// The file is YAML:
//
//	paths:
//	  - amiga: "Help:"
//	    local: /usr/share/amiga/help
//	  - amiga: "Work:"
//	maxMacroDepth: 64
//	logLevel: warn
//
// A path entry without local folder marks the device as known but
// undefined; links into it resolve inside the temporary directory.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/eykd/amigaguide-go/internal/guide"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = ".agt.yml"

// ErrInvalidMapping is returned for path mappings with an empty prefix, a
// prefix without trailing colon, or a prefix given twice.
var ErrInvalidMapping = errors.New("invalid path mapping")

// Config holds the settings of one agt run.
type Config struct {
	Paths         []guide.PathMapping `yaml:"paths"`
	MaxMacroDepth int                 `yaml:"maxMacroDepth"`
	LogLevel      string              `yaml:"logLevel"`
}

// Load reads the settings file at path. A missing file yields an empty
// Config unless required is set.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML settings. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the path table, the macro depth and the log level.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, m := range c.Paths {
		switch {
		case m.Prefix == "":
			return fmt.Errorf("%w: entry %d has an empty prefix", ErrInvalidMapping, i+1)
		case !strings.HasSuffix(m.Prefix, ":"):
			return fmt.Errorf("%w: prefix %q must end with a colon", ErrInvalidMapping, m.Prefix)
		}
		key := strings.ToLower(m.Prefix)
		if seen[key] {
			return fmt.Errorf("%w: prefix %q is mapped twice", ErrInvalidMapping, m.Prefix)
		}
		seen[key] = true
	}
	if c.MaxMacroDepth < 0 {
		return fmt.Errorf("maxMacroDepth must not be negative but is %d", c.MaxMacroDepth)
	}
	if _, err := c.Level(zapcore.WarnLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level, or fallback if none is set.
func (c *Config) Level(fallback zapcore.Level) (zapcore.Level, error) {
	if c.LogLevel == "" {
		return fallback, nil
	}
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return fallback, fmt.Errorf("logLevel: %w", err)
	}
	return lvl, nil
}

// AddPathFlags appends mappings given as PREFIX=FOLDER after the ones from
// the file and validates the result.
func (c *Config) AddPathFlags(values []string) error {
	for _, v := range values {
		m, err := ParsePathFlag(v)
		if err != nil {
			return err
		}
		c.Paths = append(c.Paths, m)
	}
	return c.Validate()
}

// ParsePathFlag parses PREFIX=FOLDER. An empty FOLDER marks the prefix as
// undefined.
func ParsePathFlag(value string) (guide.PathMapping, error) {
	prefix, folder, ok := strings.Cut(value, "=")
	if !ok {
		return guide.PathMapping{}, fmt.Errorf("%w: %q must have the form PREFIX=FOLDER", ErrInvalidMapping, value)
	}
	return guide.PathMapping{Prefix: strings.TrimSpace(prefix), Folder: strings.TrimSpace(folder)}, nil
}

// AmigaPaths returns the resolver for the path table.
func (c *Config) AmigaPaths() *guide.AmigaPaths {
	return guide.NewAmigaPaths(c.Paths)
}
