// Package ui renders stage reports and messages as styled terminal
// output, plain text or JSON.
package ui

import (
	"io"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/pipeline"
	"github.com/arthur-debert/hatch/pkg/ui/json"
	"github.com/arthur-debert/hatch/pkg/ui/terminal"
	"github.com/arthur-debert/hatch/pkg/ui/text"
)

// Renderer is implemented by every output format
type Renderer interface {
	// RenderReport renders the outcome of validate or compose
	RenderReport(report *pipeline.Report) error

	// RenderVariants renders the configured variants
	RenderVariants(variants []pipeline.VariantSummary) error

	// RenderError renders an error with its code and details
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto is resolved with
// DetectFormat.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
