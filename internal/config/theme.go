package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultThemeName is the theme written by CreateDefaultTheme
const DefaultThemeName = "default.yaml"

// themeFile is the on-disk layout of a theme
type themeFile struct {
	AwaitBench *ColorsConfig `yaml:"awaitbench"`
}

// ThemeLoader handles loading and saving report themes
type ThemeLoader struct {
	themesDir string
}

// NewThemeLoader creates a new theme loader
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{
		themesDir: themesDir,
	}
}

// LoadThemeFromFile loads a theme from a YAML file, looking in the themes
// directory first and then treating filename as a path
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ColorsConfig, error) {
	path := filepath.Join(tl.themesDir, filename)
	if !fileExists(path) {
		path = filename
		if !fileExists(path) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme themeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	if theme.AwaitBench == nil {
		return nil, fmt.Errorf("invalid theme file: missing awaitbench section")
	}
	if err := tl.ValidateTheme(theme.AwaitBench); err != nil {
		return nil, err
	}
	return theme.AwaitBench, nil
}

// ListAvailableThemes returns the YAML files in the themes directory
func (tl *ThemeLoader) ListAvailableThemes() ([]string, error) {
	var themes []string

	entries, err := os.ReadDir(tl.themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext == ".yaml" || ext == ".yml" {
			themes = append(themes, entry.Name())
		}
	}
	return themes, nil
}

// SaveThemeToFile saves a theme configuration to a YAML file
func (tl *ThemeLoader) SaveThemeToFile(theme *ColorsConfig, filename string) error {
	if err := os.MkdirAll(tl.themesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	data, err := yaml.Marshal(themeFile{AwaitBench: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(filepath.Join(tl.themesDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}
	return nil
}

// ValidateTheme checks every color in the theme can be rendered
func (tl *ThemeLoader) ValidateTheme(theme *ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("theme is nil")
	}

	colors := []struct {
		name  string
		value Color
	}{
		{"report.progressColor", theme.Report.ProgressColor},
		{"report.timingColor", theme.Report.TimingColor},
		{"report.highlightColor", theme.Report.HighlightColor},
		{"report.errorColor", theme.Report.ErrorColor},
	}
	for _, c := range colors {
		if !c.value.IsValid() {
			return fmt.Errorf("invalid color for %s: %q", c.name, string(c.value))
		}
	}
	return nil
}

// CreateDefaultTheme writes the default theme if it does not exist yet
func (tl *ThemeLoader) CreateDefaultTheme() error {
	if fileExists(filepath.Join(tl.themesDir, DefaultThemeName)) {
		return nil
	}
	return tl.SaveThemeToFile(DefaultColors(), DefaultThemeName)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
