package config

import (
	"strconv"
	"strings"
)

// Color represents a terminal color: a hex value (#rrggbb), an ANSI code
// ("0"-"255") or one of the basic color names
type Color string

const (
	// DefaultColor leaves the terminal foreground untouched
	DefaultColor Color = "default"
)

var namedColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"cyan":    "6",
	"white":   "7",
	"gray":    "8",
	"grey":    "8",
}

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns the color as a hex value or ANSI code, or "" for the
// terminal default
func (c Color) String() string {
	s := strings.ToLower(strings.TrimSpace(string(c)))
	if s == "" || Color(s) == DefaultColor || s == "-" {
		return ""
	}
	if c.isHex() {
		return s
	}
	if code, ok := namedColors[s]; ok {
		return code
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 255 {
		return s
	}
	return ""
}

// IsValid reports whether c can be rendered
func (c Color) IsValid() bool {
	return c == "" || c == DefaultColor || c.String() != ""
}

func (c Color) isHex() bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(string(c[1:]), 16, 32)
	return err == nil
}

// ReportColors defines colors for console report lines
type ReportColors struct {
	ProgressColor  Color `yaml:"progressColor" json:"progress_color"`
	TimingColor    Color `yaml:"timingColor" json:"timing_color"`
	HighlightColor Color `yaml:"highlightColor" json:"highlight_color"`
	ErrorColor     Color `yaml:"errorColor" json:"error_color"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Report ReportColors `yaml:"report" json:"report"`
}

// DefaultColors returns the default color configuration. Comparison blocks
// are highlighted in green.
func DefaultColors() *ColorsConfig {
	return &ColorsConfig{
		Report: ReportColors{
			ProgressColor:  DefaultColor,
			TimingColor:    DefaultColor,
			HighlightColor: NewColor("green"),
			ErrorColor:     NewColor("red"),
		},
	}
}
