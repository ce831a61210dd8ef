package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ambient context modes
const (
	AmbientNone   = "none"
	AmbientSerial = "serial"
)

// BenchConfig holds the benchmark parameters
type BenchConfig struct {
	Iterations    int `json:"iterations" yaml:"iterations"`
	ParallelTasks int `json:"parallel_tasks" yaml:"parallel_tasks"`

	// AmbientContext is "none" (no captured context, like a console process)
	// or "serial" (one shared dispatcher that captured continuations hop onto)
	AmbientContext string `json:"ambient_context" yaml:"ambient_context"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Theme   string `json:"theme" yaml:"theme"`
	NoColor bool   `json:"no_color" yaml:"no_color"`
}

// Config holds all configuration for awaitbench
type Config struct {
	Bench  BenchConfig  `json:"bench" yaml:"bench"`
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging
	LogLevel string `json:"log_level" yaml:"log_level"`
	LogFile  string `json:"log_file" yaml:"log_file"`
}

// DefaultConfig returns a Config with the fixed benchmark parameters
func DefaultConfig() *Config {
	return &Config{
		Bench:    DefaultBenchConfig(),
		Output:   DefaultOutputConfig(),
		LogLevel: "info",
		LogFile:  "",
	}
}

// DefaultBenchConfig returns default benchmark configuration
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Iterations:     1000,
		ParallelTasks:  10,
		AmbientContext: AmbientNone,
	}
}

// DefaultOutputConfig returns default output configuration
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Theme:   "",
		NoColor: false,
	}
}

// LoadConfig loads configuration from a JSON or YAML file on top of the
// defaults. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", configPath, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the benchmark cannot run with
func (c *Config) Validate() error {
	if c.Bench.ParallelTasks <= 0 {
		return fmt.Errorf("parallel_tasks must be positive, got %d", c.Bench.ParallelTasks)
	}
	if c.Bench.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Bench.Iterations)
	}
	switch c.Bench.AmbientContext {
	case "", AmbientNone, AmbientSerial:
	default:
		return fmt.Errorf("unknown ambient_context %q (want %q or %q)", c.Bench.AmbientContext, AmbientNone, AmbientSerial)
	}
	return nil
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "awaitbench", "config.json")
}

// DefaultThemesDir returns the default themes directory path
func DefaultThemesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "awaitbench", "themes")
}

// DefaultLogDir returns the default log directory path
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "awaitbench")
}

// SaveConfig saves the configuration to a file, as YAML when the path says so
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LogFilePath returns the file logs are written to, or "" for stderr. A bare
// file name is placed in DefaultLogDir.
func (c *Config) LogFilePath() string {
	if c.LogFile == "" {
		return ""
	}
	if filepath.Base(c.LogFile) == c.LogFile {
		return filepath.Join(DefaultLogDir(), c.LogFile)
	}
	return c.LogFile
}
