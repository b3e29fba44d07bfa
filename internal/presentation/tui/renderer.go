package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/laplace/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
	)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// ReportMarkdown formats a run report as a markdown document.
func ReportMarkdown(r *domain.Report) string {
	var b strings.Builder
	b.WriteString("# Laplace run\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Outcome | **%s** |\n", r.Outcome)
	fmt.Fprintf(&b, "| Grid | %d x %d |\n", r.Rows, r.Cols)
	fmt.Fprintf(&b, "| Workers | %d |\n", r.Workers)
	fmt.Fprintf(&b, "| Iterations | %d |\n", r.Iterations)
	fmt.Fprintf(&b, "| Max error | %f |\n", r.GlobalDelta)
	fmt.Fprintf(&b, "| Total time | %f s |\n", r.Elapsed.Seconds())
	return b.String()
}

// RenderReport renders the report for a terminal. On a rendering error the
// plain markdown is returned along with the error.
func RenderReport(r *domain.Report) (string, error) {
	return NewRenderer()(ReportMarkdown(r))
}
