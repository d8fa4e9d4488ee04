// Package format holds presentation helpers shared by the renderers.
package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/pipeline"
)

// StatusSymbol returns the marker printed in front of a step
func StatusSymbol(status pipeline.Status) string {
	switch status {
	case pipeline.StatusOK:
		return "✓"
	case pipeline.StatusWarn:
		return "!"
	case pipeline.StatusFailed:
		return "✗"
	case pipeline.StatusSkipped:
		return "-"
	case pipeline.StatusPlanned:
		return "~"
	default:
		return "?"
	}
}

// Title is the heading line of a report
func Title(report *pipeline.Report) string {
	var b strings.Builder
	b.WriteString(report.Stage)
	if report.Root != "" {
		b.WriteString(" " + report.Root)
	}
	if report.Variant != "" {
		b.WriteString(fmt.Sprintf(" (variant %s)", report.Variant))
	}
	if report.DryRun {
		b.WriteString(" [dry run]")
	}
	return b.String()
}

// NameWidth is the widest step name in report, for column alignment
func NameWidth(report *pipeline.Report) int {
	width := 0
	for _, step := range report.Steps {
		if len(step.Name) > width {
			width = len(step.Name)
		}
	}
	return width
}

// Summary is the closing line of a report
func Summary(report *pipeline.Report) string {
	counts := make(map[pipeline.Status]int)
	for _, step := range report.Steps {
		counts[step.Status]++
	}
	var parts []string
	for _, status := range []pipeline.Status{
		pipeline.StatusOK, pipeline.StatusWarn, pipeline.StatusFailed,
		pipeline.StatusSkipped, pipeline.StatusPlanned,
	} {
		if counts[status] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[status], status))
		}
	}
	return fmt.Sprintf("%s in %s", strings.Join(parts, ", "), report.Duration.Round(time.Millisecond))
}

// ErrorDetails flattens the details of a coded error into sorted
// "key: value" lines
func ErrorDetails(err error) []string {
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, details[k]))
	}
	return lines
}
