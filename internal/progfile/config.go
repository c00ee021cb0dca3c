package progfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mgomes/loxobj/lox"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "lox.yaml"

// ColorMode selects when the CLI styles its output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the contents of a lox.yaml file.
type Config struct {
	StepQuota      int       `yaml:"step_quota"`
	RecursionLimit int       `yaml:"recursion_limit"`
	Color          ColorMode `yaml:"color"`
}

// LoadConfig reads and parses a lox.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses lox.yaml content. The path argument is used only
// for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches dir and its parents for lox.yaml. It returns an
// empty path and nil error when none exists.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if c.StepQuota < 0 {
		return fmt.Errorf("%s: step_quota must not be negative (got %d)", path, c.StepQuota)
	}
	if c.RecursionLimit < 0 {
		return fmt.Errorf("%s: recursion_limit must not be negative (got %d)", path, c.RecursionLimit)
	}
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: color must be auto, always, or never (got %q)", path, c.Color)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// EngineConfig converts c into evaluator settings. Zero limits are left
// for lox.NewEngine to default.
func (c *Config) EngineConfig(stdout io.Writer) lox.Config {
	return lox.Config{
		Stdout:         stdout,
		StepQuota:      c.StepQuota,
		RecursionLimit: c.RecursionLimit,
	}
}
