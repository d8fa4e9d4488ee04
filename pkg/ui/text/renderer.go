// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/pipeline"
	"github.com/arthur-debert/hatch/pkg/ui/format"
)

// Renderer writes plain text
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderReport renders one line per step with its paths and warnings below
func (r *Renderer) RenderReport(report *pipeline.Report) error {
	var b strings.Builder
	b.WriteString(format.Title(report) + "\n")

	width := format.NameWidth(report)
	for _, step := range report.Steps {
		fmt.Fprintf(&b, "  %s %-7s %-*s  %s\n",
			format.StatusSymbol(step.Status), step.Status, width, step.Name, step.Detail)
		for _, path := range step.Paths {
			fmt.Fprintf(&b, "      %s\n", path)
		}
		for _, warning := range step.Warnings {
			fmt.Fprintf(&b, "      warning: %s\n", warning)
		}
		if step.Error != "" {
			fmt.Fprintf(&b, "      error: %s\n", step.Error)
		}
	}
	b.WriteString(format.Summary(report) + "\n")

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderVariants renders one block per variant
func (r *Renderer) RenderVariants(variants []pipeline.VariantSummary) error {
	var b strings.Builder
	for _, v := range variants {
		if v.AliasOf != "" {
			fmt.Fprintf(&b, "%s (alias of %s)\n", v.Name, v.AliasOf)
		} else {
			fmt.Fprintf(&b, "%s\n", v.Name)
		}
		fmt.Fprintf(&b, "  merge:   %s\n", strings.Join(v.Merge, ", "))
		fmt.Fprintf(&b, "  discard: %s\n", strings.Join(v.Discard, ", "))
		if len(v.ExcludeVCS) > 0 {
			fmt.Fprintf(&b, "  no-vcs:  %s\n", strings.Join(v.ExcludeVCS, ", "))
		}
		if v.Submodules {
			b.WriteString("  flags:   submodules\n")
		}
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", err)
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		for _, line := range format.ErrorDetails(err) {
			fmt.Fprintf(&b, "  %s\n", line)
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
