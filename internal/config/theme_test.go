package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor_String(t *testing.T) {
	cases := map[Color]string{
		"":         "",
		"default":  "",
		"-":        "",
		"green":    "2",
		"GREEN":    "2",
		"#10B981":  "#10b981",
		"214":      "214",
		"256":      "",
		"#zzzzzz":  "",
		"not-real": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, in.String(), "color %q", string(in))
	}
}

func TestColor_IsValid(t *testing.T) {
	assert.True(t, Color("").IsValid())
	assert.True(t, DefaultColor.IsValid())
	assert.True(t, Color("red").IsValid())
	assert.False(t, Color("chartreuse").IsValid())
}

func TestThemeLoader_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	tl := NewThemeLoader(dir)

	theme := DefaultColors()
	theme.Report.HighlightColor = "#7C3AED"
	require.NoError(t, tl.SaveThemeToFile(theme, "purple.yaml"))

	loaded, err := tl.LoadThemeFromFile("purple.yaml")
	require.NoError(t, err)
	assert.Equal(t, theme, loaded)

	// absolute path fallback
	loaded, err = NewThemeLoader(t.TempDir()).LoadThemeFromFile(filepath.Join(dir, "purple.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Color("#7C3AED"), loaded.Report.HighlightColor)
}

func TestThemeLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	tl := NewThemeLoader(dir)

	_, err := tl.LoadThemeFromFile("missing.yaml")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "nosection.yaml"), []byte("other: {}\n"), 0o600))
	_, err = tl.LoadThemeFromFile("nosection.yaml")
	assert.ErrorContains(t, err, "missing awaitbench section")

	bad := "awaitbench:\n  report:\n    highlightColor: chartreuse\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o600))
	_, err = tl.LoadThemeFromFile("bad.yaml")
	assert.ErrorContains(t, err, "report.highlightColor")

	assert.Error(t, tl.ValidateTheme(nil))
}

func TestThemeLoader_ListAndCreateDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "themes")
	tl := NewThemeLoader(dir)

	_, err := tl.ListAvailableThemes()
	assert.Error(t, err, "directory does not exist yet")

	require.NoError(t, tl.CreateDefaultTheme())
	require.NoError(t, tl.CreateDefaultTheme())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	themes, err := tl.ListAvailableThemes()
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultThemeName}, themes)

	loaded, err := tl.LoadThemeFromFile(DefaultThemeName)
	require.NoError(t, err)
	assert.Equal(t, DefaultColors(), loaded)
}
