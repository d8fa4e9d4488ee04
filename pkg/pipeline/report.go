package pipeline

import (
	"time"
)

// Status of a pipeline step
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarn    Status = "warn"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusPlanned Status = "planned"
)

// StepResult is what one step did, or would do in a dry run
type StepResult struct {
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	Detail   string   `json:"detail,omitempty"`
	Paths    []string `json:"paths,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	// Error mirrors Err for serialization
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

// Report collects the step results of a stage
type Report struct {
	Stage    string        `json:"stage"`
	Root     string        `json:"root,omitempty"`
	Variant  string        `json:"variant,omitempty"`
	DryRun   bool          `json:"dry_run,omitempty"`
	Steps    []StepResult  `json:"steps"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether any step failed
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Step returns the first result named name
func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

func (r *Report) add(step StepResult) {
	if step.Err != nil {
		step.Error = step.Err.Error()
	}
	r.Warnings = append(r.Warnings, step.Warnings...)
	r.Steps = append(r.Steps, step)
}
