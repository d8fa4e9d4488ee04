// Package json provides machine-readable JSON output
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/pipeline"
)

// Renderer provides JSON output for machine consumption
type Renderer struct {
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) *Renderer {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &Renderer{encoder: encoder}
}

// RenderReport renders the report as one JSON document
func (r *Renderer) RenderReport(report *pipeline.Report) error {
	return r.encoder.Encode(report)
}

// RenderVariants renders the variants as a JSON array
func (r *Renderer) RenderVariants(variants []pipeline.VariantSummary) error {
	if variants == nil {
		variants = []pipeline.VariantSummary{}
	}
	return r.encoder.Encode(variants)
}

type errorDoc struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RenderError renders an error with its code and details
func (r *Renderer) RenderError(err error) error {
	doc := errorDoc{Error: err.Error(), Details: errors.GetErrorDetails(err)}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		doc.Code = string(code)
	}
	return r.encoder.Encode(doc)
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
