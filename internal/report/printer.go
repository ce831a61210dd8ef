package report

import (
	"fmt"
	"io"

	"github.com/ajramos/awaitbench/internal/config"
	"github.com/ajramos/awaitbench/internal/services"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	introLine      = "It may take about 10 minutes for all tests"
	differenceHead = "Performance difference:"
	capturedLabel  = "Resuming on the captured context in parallel:"
	releasedLabel  = "Releasing the captured context in parallel:"
)

// Printer writes human-readable benchmark progress and results
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer writing to w. Color support is detected from w.
func NewPrinter(w io.Writer, colors *config.ColorsConfig, noColor bool) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		styles: NewStyles(r, colors, noColor),
	}
}

// Intro prints the opening notice
func (p *Printer) Intro() {
	p.println(p.styles.Progress, introLine)
	fmt.Fprintln(p.w)
}

// Measuring announces a run
func (p *Printer) Measuring(label string) {
	p.println(p.styles.Progress, label+":")
}

// Timing prints the outcome of a run
func (p *Printer) Timing(label string, ms int64) {
	p.println(p.styles.Timing, fmt.Sprintf("%s: %d ms", label, ms))
}

// Comparison prints the highlighted block comparing both variants
func (p *Printer) Comparison(c services.Comparison) {
	width := runewidth.StringWidth(capturedLabel)
	if w := runewidth.StringWidth(releasedLabel); w > width {
		width = w
	}

	p.println(p.styles.Highlight, differenceHead)
	p.println(p.styles.Highlight, fmt.Sprintf("%s %d ms", runewidth.FillRight(capturedLabel, width), c.Captured))
	p.println(p.styles.Highlight, fmt.Sprintf("%s %d ms", runewidth.FillRight(releasedLabel, width), c.Released))
}

// Error prints a failure that aborted the run
func (p *Printer) Error(err error) {
	p.println(p.styles.Error, "Benchmark aborted: "+err.Error())
}

func (p *Printer) println(s lipgloss.Style, line string) {
	fmt.Fprintln(p.w, s.Render(line))
}

var _ services.Reporter = (*Printer)(nil)
