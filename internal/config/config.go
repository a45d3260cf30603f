// Package config loads the optional session configuration file.
//
// The file is YAML, decoded with unknown-field rejection, and then checked
// against the embedded CUE definition #Config before defaults are applied.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Defaults for omitted fields.
const (
	DefaultBackend  = "memory"
	DefaultLogLevel = "info"
)

// Config holds session settings. Capacity 0 means "ask the operator".
type Config struct {
	Capacity    int    `yaml:"capacity"`
	Backend     string `yaml:"backend"`
	UniqueRolls bool   `yaml:"unique_rolls"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads, validates and defaults the config file at path.
// An empty file yields the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML config document.
func Parse(data []byte) (*Config, error) {
	var c Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.applyDefaults()
	return &c, nil
}

// Validate checks the config against the #Config schema.
func (c *Config) Validate() error {
	cctx := cuecontext.New()

	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(cctx.Encode(c.document()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}

	return nil
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// document returns the fields the operator actually set, keyed by their YAML names.
// Capacity 0 and empty strings are treated as omitted.
func (c *Config) document() map[string]any {
	doc := map[string]any{"unique_rolls": c.UniqueRolls}
	if c.Capacity != 0 {
		doc["capacity"] = c.Capacity
	}
	if c.Backend != "" {
		doc["backend"] = c.Backend
	}
	if c.LogLevel != "" {
		doc["log_level"] = c.LogLevel
	}
	return doc
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}
