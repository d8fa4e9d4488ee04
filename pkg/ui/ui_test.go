package ui_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/pipeline"
	"github.com/arthur-debert/hatch/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *pipeline.Report {
	return &pipeline.Report{
		Stage:   "compose",
		Root:    "/work/my_ext",
		Variant: "react",
		Steps: []pipeline.StepResult{
			{Name: "resolve", Status: pipeline.StatusOK, Detail: "react", Paths: []string{"common", "react-extension-template"}},
			{Name: "rewrite", Status: pipeline.StatusWarn, Detail: "4 changed", Warnings: []string{"rewrite target ui/vite.config.ts not found"}},
			{Name: "vcs", Status: pipeline.StatusFailed, Detail: "stopped at remote", Error: "[BOOTSTRAP_FAILED] repository bootstrap failed at remote"},
		},
		Warnings: []string{"rewrite target ui/vite.config.ts not found"},
		Duration: 1500 * time.Millisecond,
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatAuto, "auto"},
		{ui.FormatTerminal, "term"},
		{ui.FormatText, "text"},
		{ui.FormatJSON, "json"},
		{ui.Format(999), "unknown"},
		{ui.Format(-1), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.format.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{"auto", ui.FormatAuto, false},
		{"", ui.FormatAuto, false},
		{"term", ui.FormatTerminal, false},
		{"Terminal", ui.FormatTerminal, false},
		{"text", ui.FormatText, false},
		{"plain", ui.FormatText, false},
		{"JSON", ui.FormatJSON, false},
		{" json ", ui.FormatJSON, false},
		{"yaml", ui.FormatAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				assert.Contains(t, err.Error(), "auto, term, text, json")
				assert.Equal(t, tt.input, errors.GetErrorDetails(err)["format"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatNamesRoundTrip(t *testing.T) {
	names := ui.FormatNames()
	assert.Equal(t, []string{"auto", "term", "text", "json"}, names)
	for _, name := range names {
		f, err := ui.ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, name, f.String())
	}
	names[0] = "changed"
	assert.Equal(t, "auto", ui.FormatNames()[0])
}

func TestDetectFormatNonFile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, ui.FormatText, ui.DetectFormat(&bytes.Buffer{}))
}

func TestDetectFormatNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, ui.FormatText, ui.DetectFormat(os.Stdout))
}

func TestDetectFormatPipe(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close(); _ = w.Close() }()
	assert.Equal(t, ui.FormatText, ui.DetectFormat(w))
}

func TestNewRendererAutoOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatAuto, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderMessage("hello"))
	assert.Equal(t, "hello\n", buf.String())
}

func TestNewRendererUnknown(t *testing.T) {
	_, err := ui.NewRenderer(ui.Format(42), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestTextRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatText, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "compose /work/my_ext (variant react)")
	assert.Contains(t, out, "✓ ok      resolve  react")
	assert.Contains(t, out, "      react-extension-template")
	assert.Contains(t, out, "warning: rewrite target ui/vite.config.ts not found")
	assert.Contains(t, out, "error: [BOOTSTRAP_FAILED]")
	assert.Contains(t, out, "1 ok, 1 warn, 1 failed in 1.5s")
}

func TestTerminalRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatTerminal, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "resolve")
	assert.Contains(t, out, "react-extension-template")
	assert.Contains(t, out, "ui/vite.config.ts")
}

func TestJSONRenderReport(t *testing.T) {
	var buf bytes.Buffer
	r, err := ui.NewRenderer(ui.FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, r.RenderReport(sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "compose", decoded["stage"])
	steps := decoded["steps"].([]interface{})
	require.Len(t, steps, 3)
	assert.Equal(t, "failed", steps[2].(map[string]interface{})["status"])
	assert.Contains(t, steps[2].(map[string]interface{})["error"], "BOOTSTRAP_FAILED")
}

func TestRenderErrorIncludesCodeAndDetails(t *testing.T) {
	err := errors.New(errors.ErrCopy, "failed to copy").WithDetail("path", "common/a.txt")

	var text bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &text)
	require.NoError(t, r.RenderError(err))
	assert.Contains(t, text.String(), "Error: [COPY_FAILED] failed to copy")
	assert.Contains(t, text.String(), "path: common/a.txt")

	var js bytes.Buffer
	r, _ = ui.NewRenderer(ui.FormatJSON, &js)
	require.NoError(t, r.RenderError(err))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "COPY_FAILED", decoded["code"])
	assert.Equal(t, "common/a.txt", decoded["details"].(map[string]interface{})["path"])
}

func TestRenderVariants(t *testing.T) {
	list := []pipeline.VariantSummary{
		{Name: "js", AliasOf: "no", Merge: []string{"common", "custom-nodes-template"}},
		{Name: "react", Merge: []string{"common", "react-extension-template"}, ExcludeVCS: []string{"react-extension-template"}, Submodules: true},
	}

	var text bytes.Buffer
	r, _ := ui.NewRenderer(ui.FormatText, &text)
	require.NoError(t, r.RenderVariants(list))
	assert.Contains(t, text.String(), "js (alias of no)")
	assert.Contains(t, text.String(), "no-vcs:  react-extension-template")
	assert.Contains(t, text.String(), "flags:   submodules")

	var js bytes.Buffer
	r, _ = ui.NewRenderer(ui.FormatJSON, &js)
	require.NoError(t, r.RenderVariants(list))
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "no", decoded[0]["alias_of"])
}
