package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds defaults for EXPLAIN execution, tree rendering and logging.
type Config struct {
	Explain ExplainConfig `json:"explain" yaml:"explain"`
	Render  RenderConfig  `json:"render" yaml:"render"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// ExplainConfig selects the EXPLAIN options used when none are given on the command line.
type ExplainConfig struct {
	Analyze  bool     `json:"analyze" yaml:"analyze"`
	Buffers  bool     `json:"buffers" yaml:"buffers"`
	Verbose  bool     `json:"verbose" yaml:"verbose"`
	Settings bool     `json:"settings" yaml:"settings"`
	Timeout  Duration `json:"timeout" yaml:"timeout"`
}

// RenderConfig defines how plan trees are printed.
type RenderConfig struct {
	Color    bool `json:"color" yaml:"color"`
	MaxDepth int  `json:"max_depth" yaml:"max_depth"`
}

// LogConfig defines the log level and format.
type LogConfig struct {
	Level   string `json:"level" yaml:"level"`
	Console bool   `json:"console" yaml:"console"`
}

// Duration is a time.Duration written as "45s" in config files.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("duration: expected string or integer nanoseconds, got %s", string(data))
		}
		*d = Duration(n)
		return nil
	}
	return d.set(s)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration(parsed)
	return nil
}

var (
	mu     sync.RWMutex
	active = Default()
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Explain: ExplainConfig{
			Analyze: false,
			Buffers: false,
			Verbose: false,
		},
		Render: RenderConfig{
			Color:    true,
			MaxDepth: 0,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Active returns the currently applied configuration.
func Active() Config {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Use replaces the active configuration.
func Use(cfg Config) {
	mu.Lock()
	active = cfg
	mu.Unlock()
}

// Apply loads configuration from the provided path. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON. Empty path resets to default.
func Apply(path string) error {
	if path == "" {
		Use(Default())
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	Use(cfg)
	return nil
}
