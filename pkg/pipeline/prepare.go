package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/arthur-debert/hatch/pkg/paths"
	"github.com/arthur-debert/hatch/pkg/validate"
	"github.com/arthur-debert/hatch/pkg/variants"
	"github.com/arthur-debert/hatch/pkg/vcs"
)

// ErrSubmodules matches, through errors.Is, any SUBMODULE_FAILED error
// returned by Prepare.
var ErrSubmodules = errors.New(errors.ErrSubmodule, "submodule preparation failed")

// PrepareOptions configures the pre-generation stage
type PrepareOptions struct {
	Settings *config.Settings
	Context  config.Context
	// Backend overrides the backend built from Settings.VCS
	Backend vcs.Backend
	// CacheRoot holds template checkouts; empty falls back to
	// template.cache_dir and then the default
	CacheRoot string
	DryRun    bool
}

// Prepare validates the project identifier and, for remote templates whose
// variant embeds sub-templates, updates the checkout's submodules. An
// invalid identifier or variant is returned before submodules are touched.
// A submodule failure is recorded as a warning and returned as a
// SUBMODULE_FAILED error.
func Prepare(ctx context.Context, opts PrepareOptions) (*Report, error) {
	logger := logging.GetLogger("pipeline")
	start := time.Now()
	s := opts.Settings

	report := &Report{Stage: "validate", DryRun: opts.DryRun}
	defer func() { report.Duration = time.Since(start) }()

	result := validate.Identifier(opts.Context.String(s.Keys.Identifier))
	if err := result.Err(); err != nil {
		report.add(StepResult{Name: StepIdentifier, Status: StatusFailed, Detail: result.Message, Err: err})
		logger.Error().Str("value", result.Value).Msg(result.Message)
		return report, err
	}
	report.add(StepResult{Name: StepIdentifier, Status: StatusOK, Detail: result.Message})

	variant := opts.Context.String(s.Keys.Variant)
	report.Variant = variant
	res, err := variants.NewResolver(s).Resolve(variant)
	if err != nil {
		report.add(StepResult{Name: StepResolve, Status: StatusFailed, Err: err})
		return report, err
	}
	report.add(StepResult{Name: StepResolve, Status: StatusOK, Detail: resolveDetail(res), Paths: res.Merge})

	source := opts.Context.String(s.Keys.TemplateSource)
	switch {
	case !s.Template.IsRemote(source):
		report.add(StepResult{Name: StepSubmodules, Status: StatusSkipped, Detail: "template is not from a remote source"})
		return report, nil
	case !res.Submodules:
		report.add(StepResult{Name: StepSubmodules, Status: StatusSkipped,
			Detail: fmt.Sprintf("variant %s has no sub-templates", res.Variant)})
		return report, nil
	}

	cacheRoot := opts.CacheRoot
	if cacheRoot == "" {
		cacheRoot = s.Template.CacheDir
	}
	checkout := paths.TemplateCheckout(paths.TemplateCacheRoot(cacheRoot), s.Template.Name)
	if opts.DryRun {
		report.add(StepResult{Name: StepSubmodules, Status: StatusPlanned,
			Detail: "would init and update submodules", Paths: []string{checkout}})
		return report, nil
	}

	backend := opts.Backend
	if backend == nil {
		backend, err = vcs.New(s.VCS)
		if err != nil {
			report.add(StepResult{Name: StepSubmodules, Status: StatusFailed, Err: err})
			return report, err
		}
	}

	if err := vcs.Submodules(ctx, backend, checkout); err != nil {
		logger.Warn().Err(err).Str("checkout", checkout).Msg("Submodule update failed")
		report.add(StepResult{
			Name:     StepSubmodules,
			Status:   StatusWarn,
			Detail:   "submodule update failed",
			Paths:    []string{checkout},
			Warnings: []string{err.Error()},
			Err:      err,
		})
		return report, err
	}

	report.add(StepResult{Name: StepSubmodules, Status: StatusOK, Detail: "submodules up to date", Paths: []string{checkout}})
	return report, nil
}
