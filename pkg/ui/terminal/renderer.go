// Package terminal provides styled terminal output
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/pipeline"
	"github.com/arthur-debert/hatch/pkg/ui/format"
	"github.com/arthur-debert/hatch/pkg/ui/styles"
)

// Renderer writes lipgloss-styled output
type Renderer struct {
	output io.Writer
	styles *styles.Registry
}

// New creates a terminal renderer with the embedded styles
func New(output io.Writer) *Renderer {
	return &Renderer{output: output, styles: styles.Default()}
}

// RenderReport renders the report with a colored status column
func (r *Renderer) RenderReport(report *pipeline.Report) error {
	var b strings.Builder
	b.WriteString(r.styles.Get("Header").Render(format.Title(report)) + "\n")

	width := format.NameWidth(report)
	for _, step := range report.Steps {
		status := r.styles.Get(string(step.Status))
		marker := status.Render(format.StatusSymbol(step.Status))
		name := r.styles.Get("Step").Render(fmt.Sprintf("%-*s", width, step.Name))
		fmt.Fprintf(&b, "%s %s  %s\n", marker, name, step.Detail)

		for _, path := range step.Paths {
			b.WriteString(r.styles.Get("Path").Render(path) + "\n")
		}
		for _, warning := range step.Warnings {
			b.WriteString(r.styles.Get("Warning").Render("! "+warning) + "\n")
		}
		if step.Error != "" {
			b.WriteString(r.styles.Get("Error").PaddingLeft(4).Render(step.Error) + "\n")
		}
	}
	b.WriteString("\n" + r.styles.Get("Muted").Render(format.Summary(report)) + "\n")

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderVariants renders the variant table
func (r *Renderer) RenderVariants(variants []pipeline.VariantSummary) error {
	var b strings.Builder
	for _, v := range variants {
		title := r.styles.Get("Step").Render(v.Name)
		if v.AliasOf != "" {
			title += " " + r.styles.Get("Muted").Render("alias of "+v.AliasOf)
		}
		b.WriteString(title + "\n")
		b.WriteString(r.styles.Get("Path").Render("merge   "+strings.Join(v.Merge, ", ")) + "\n")
		b.WriteString(r.styles.Get("Path").Render("discard "+strings.Join(v.Discard, ", ")) + "\n")
		if len(v.ExcludeVCS) > 0 {
			b.WriteString(r.styles.Get("Path").Render("no-vcs  "+strings.Join(v.ExcludeVCS, ", ")) + "\n")
		}
		if v.Submodules {
			b.WriteString(r.styles.Get("Path").Render("flags   submodules") + "\n")
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with its code highlighted
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	b.WriteString(r.styles.Get("Error").Render("Error") + " " + err.Error() + "\n")
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		for _, line := range format.ErrorDetails(err) {
			b.WriteString(r.styles.Get("Path").Render(line) + "\n")
		}
	}
	_, werr := io.WriteString(r.output, b.String())
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
