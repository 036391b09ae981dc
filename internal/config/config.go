// Package config loads .checklist.yaml and fills in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = ".checklist.yaml"

const (
	DefaultTitle      = "My Checklist"
	DefaultTheme      = "classic"
	DefaultTimeFormat = "2006-01-02 15:04"
	DefaultMaxLength  = 200
	DefaultLogLevel   = "info"
	DefaultExportDir  = "."
)

var themes = []string{"classic", "neon", "mono"}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty discards log output
}

type ExportConfig struct {
	Dir      string `mapstructure:"dir"`
	FontFile string `mapstructure:"font_file"` // UTF-8 TTF for PDF reports
}

// Config is the merged result of defaults, the config file and flags.
type Config struct {
	Title      string       `mapstructure:"title"`
	Theme      string       `mapstructure:"theme"`
	TimeFormat string       `mapstructure:"time_format"`
	MaxLength  int          `mapstructure:"max_length"`
	Log        LogConfig    `mapstructure:"log"`
	Export     ExportConfig `mapstructure:"export"`
}

// New returns a Config with every default populated.
func New() *Config {
	return &Config{
		Title:      DefaultTitle,
		Theme:      DefaultTheme,
		TimeFormat: DefaultTimeFormat,
		MaxLength:  DefaultMaxLength,
		Log:        LogConfig{Level: DefaultLogLevel},
		Export:     ExportConfig{Dir: DefaultExportDir},
	}
}

// Load reads path, or when path is empty walks up from startDir looking for
// .checklist.yaml. A missing file yields the defaults.
func Load(path, startDir string) (*Config, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
	} else {
		data, err = findConfigFile(startDir)
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", FileName, err)
		}
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Scalars are weakly typed, so
// `max_length: "120"` is accepted.
func Parse(data []byte) (*Config, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	cfg := New()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("config decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the program cannot use.
func (c *Config) Validate() error {
	c.Theme = strings.ToLower(strings.TrimSpace(c.Theme))
	if !validTheme(c.Theme) {
		return fmt.Errorf("invalid theme %q (want one of %s)", c.Theme, strings.Join(themes, ", "))
	}
	if c.MaxLength < 0 {
		return fmt.Errorf("invalid max_length %d: must not be negative", c.MaxLength)
	}
	if strings.TrimSpace(c.TimeFormat) == "" {
		c.TimeFormat = DefaultTimeFormat
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Export.Dir == "" {
		c.Export.Dir = DefaultExportDir
	}
	return nil
}

func validTheme(name string) bool {
	for _, t := range themes {
		if t == name {
			return true
		}
	}
	return false
}

// findConfigFile walks up from dir (max 10 levels). Returns os.ErrNotExist
// when nothing is found; other read errors are passed through.
func findConfigFile(dir string) ([]byte, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = abs

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}
