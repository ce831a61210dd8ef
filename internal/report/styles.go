package report

import (
	"github.com/ajramos/awaitbench/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used for each kind of report line
type Styles struct {
	Progress  lipgloss.Style
	Timing    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles builds styles for r from the theme colors. A nil theme uses
// DefaultColors. With noColor set every style is plain.
func NewStyles(r *lipgloss.Renderer, colors *config.ColorsConfig, noColor bool) Styles {
	if colors == nil {
		colors = config.DefaultColors()
	}
	style := func(c config.Color) lipgloss.Style {
		s := r.NewStyle()
		if code := c.String(); code != "" && !noColor {
			s = s.Foreground(lipgloss.Color(code))
		}
		return s
	}

	return Styles{
		Progress:  style(colors.Report.ProgressColor),
		Timing:    style(colors.Report.TimingColor),
		Highlight: style(colors.Report.HighlightColor),
		Error:     style(colors.Report.ErrorColor).Bold(!noColor),
	}
}
