// Package pipeline runs the two hatch stages: Prepare before the template
// is rendered and Compose on the rendered project tree.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/arthur-debert/hatch/pkg/cleanup"
	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/filesystem"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/arthur-debert/hatch/pkg/merge"
	"github.com/arthur-debert/hatch/pkg/rewrite"
	"github.com/arthur-debert/hatch/pkg/variants"
	"github.com/arthur-debert/hatch/pkg/vcs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/spf13/afero"
)

// Step names
const (
	StepResolve    = "resolve"
	StepMerge      = "merge"
	StepRewrite    = "rewrite"
	StepCleanup    = "cleanup"
	StepVCS        = "vcs"
	StepIdentifier = "identifier"
	StepSubmodules = "submodules"
)

// ComposeOptions configures a compose run
type ComposeOptions struct {
	Project  filesystem.Project
	Settings *config.Settings
	Context  config.Context
	// Backend overrides the backend built from Settings.VCS
	Backend vcs.Backend
	DryRun  bool
	SkipVCS bool
}

// Compose turns a rendered template into the final project: resolve the
// variant, merge its staging dirs, rewrite placeholders, clean up, then
// bootstrap a repository. The first fatal error stops the run; the tree is
// left as it is at that point.
func Compose(ctx context.Context, opts ComposeOptions) (*Report, error) {
	logger := logging.GetLogger("pipeline")
	start := time.Now()
	s := opts.Settings
	p := opts.Project

	report := &Report{Stage: "compose", Root: p.Root, DryRun: opts.DryRun}
	defer func() { report.Duration = time.Since(start) }()

	variant := opts.Context.String(s.Keys.Variant)
	report.Variant = variant

	res, err := variants.NewResolver(s).Resolve(variant)
	if err != nil {
		report.add(StepResult{Name: StepResolve, Status: StatusFailed, Err: err})
		return report, stepError(StepResolve, err)
	}
	// answers that decide cleanup are checked before anything is touched
	targets, err := cleanup.Targets(res, s, opts.Context)
	if err != nil {
		report.add(StepResult{Name: StepResolve, Status: StatusFailed, Err: err})
		return report, stepError(StepResolve, err)
	}
	report.add(StepResult{
		Name:   StepResolve,
		Status: StatusOK,
		Detail: resolveDetail(res),
		Paths:  res.Merge,
	})

	logger.Info().
		Str("root", p.Root).
		Str("variant", res.Variant).
		Bool("dry_run", opts.DryRun).
		Msg("Composing project")

	// merge
	merger := merge.NewMerger()
	for _, dir := range res.Merge {
		name := StepMerge + " " + dir
		mergeOpts := merge.Options{ExcludeVCS: res.ExcludesVCS(dir), VCSPatterns: s.Merge.VCSPatterns}
		if opts.DryRun {
			step, err := planMerge(p, name, dir, mergeOpts)
			report.add(step)
			if err != nil {
				return report, stepError(name, err)
			}
			continue
		}
		done := logging.LogOperationStart(logger, name)
		stats, err := merger.Merge(p, dir, mergeOpts)
		done()
		if err != nil {
			report.add(StepResult{Name: name, Status: StatusFailed, Paths: []string{dir}, Err: err})
			return report, stepError(name, err)
		}
		report.add(mergeResult(name, dir, stats))
	}

	// rewrite
	passes := rewritePasses(s, res, opts.Context)
	if opts.DryRun {
		report.add(planRewrite(passes))
	} else {
		step := runRewrite(p, passes)
		report.add(step)
		if step.Err != nil {
			return report, stepError(StepRewrite, step.Err)
		}
	}

	// cleanup runs strictly after everything that reads staging content
	if opts.DryRun {
		report.add(StepResult{
			Name:   StepCleanup,
			Status: StatusPlanned,
			Detail: fmt.Sprintf("would remove %d path(s)", len(targets)),
			Paths:  cleanup.Paths(targets),
		})
	} else {
		removed, err := cleanup.NewCleaner().Remove(p, cleanup.Paths(targets))
		if err != nil {
			report.add(StepResult{Name: StepCleanup, Status: StatusFailed, Paths: removed.Removed, Err: err})
			return report, stepError(StepCleanup, err)
		}
		report.add(StepResult{
			Name:   StepCleanup,
			Status: StatusOK,
			Detail: fmt.Sprintf("removed %d, already absent %d", len(removed.Removed), len(removed.Absent)),
			Paths:  removed.Removed,
		})
	}

	// vcs
	step, err := runVCS(ctx, opts)
	report.add(step)
	if err != nil {
		return report, stepError(StepVCS, err)
	}

	logger.Info().
		Str("root", p.Root).
		Int("warnings", len(report.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("Compose finished")

	return report, nil
}

func resolveDetail(res variants.Resolution) string {
	if res.Canonical != res.Variant {
		return fmt.Sprintf("%s (alias of %s)", res.Variant, res.Canonical)
	}
	return res.Variant
}

func mergeResult(name, dir string, stats merge.Stats) StepResult {
	detail := fmt.Sprintf("%d file(s), %d dir(s), %d symlink(s)", stats.Files, stats.Dirs, stats.Symlinks)
	if stats.Skipped > 0 {
		detail += fmt.Sprintf(", %d skipped", stats.Skipped)
	}
	return StepResult{Name: name, Status: StatusOK, Detail: detail, Paths: []string{dir}}
}

// planMerge lists what merging dir would copy. A missing staging directory
// fails the plan the same way it fails a real run.
func planMerge(p filesystem.Project, name, dir string, opts merge.Options) (StepResult, error) {
	step := StepResult{Name: name, Status: StatusPlanned, Paths: []string{dir}}
	entries, err := afero.ReadDir(p.FS, filesystem.Clean(dir))
	if err != nil {
		err = errors.Wrapf(err, errors.ErrCopy, "staging directory %s not found", dir).
			WithDetail("path", dir)
		step.Status = StatusFailed
		step.Err = err
		return step, err
	}
	step.Paths = nil
	var matcher gitignore.Matcher
	if opts.ExcludeVCS {
		matcher = merge.NewVCSMatcher(opts.VCSPatterns)
	}
	for _, e := range entries {
		if matcher != nil && matcher.Match([]string{e.Name()}, e.IsDir()) {
			continue
		}
		step.Paths = append(step.Paths, e.Name())
	}
	step.Detail = fmt.Sprintf("would copy %d entr(ies) from %s", len(step.Paths), dir)
	return step, nil
}

type rewritePass struct {
	files    []string
	rules    []rewrite.Rule
	warnings []string
}

// rewritePasses builds the global pass followed by the variant pass
func rewritePasses(s *config.Settings, res variants.Resolution, ctx config.Context) []rewritePass {
	build := func(files []string, rules []config.RewriteRule) rewritePass {
		pass := rewritePass{files: files, rules: rewrite.Rules(rules, ctx)}
		for _, r := range rules {
			for _, key := range ctx.MissingKeys(r.Replace) {
				pass.warnings = append(pass.warnings,
					fmt.Sprintf("replacement for %q uses unset key %s", r.Search, key))
			}
		}
		return pass
	}

	var passes []rewritePass
	if len(s.Rewrite.Files) > 0 && len(s.Rewrite.Rules) > 0 {
		passes = append(passes, build(s.Rewrite.Files, s.Rewrite.Rules))
	}
	if len(res.RewriteFiles) > 0 && len(res.Rewrite) > 0 {
		passes = append(passes, build(res.RewriteFiles, res.Rewrite))
	}
	return passes
}

func planRewrite(passes []rewritePass) StepResult {
	step := StepResult{Name: StepRewrite, Status: StatusPlanned}
	rules := 0
	for _, pass := range passes {
		step.Paths = append(step.Paths, pass.files...)
		step.Warnings = append(step.Warnings, pass.warnings...)
		rules += len(pass.rules)
	}
	step.Detail = fmt.Sprintf("would apply %d rule(s) to %d file(s)", rules, len(step.Paths))
	return step
}

func runRewrite(p filesystem.Project, passes []rewritePass) StepResult {
	step := StepResult{Name: StepRewrite, Status: StatusOK}
	if len(passes) == 0 {
		step.Status = StatusSkipped
		step.Detail = "no rewrite rules for this variant"
		return step
	}

	rewriter := rewrite.NewRewriter()
	var combined rewrite.Report
	for _, pass := range passes {
		r := rewriter.Apply(p, pass.files, pass.rules)
		combined.Changed = append(combined.Changed, r.Changed...)
		combined.Unchanged = append(combined.Unchanged, r.Unchanged...)
		combined.Missing = append(combined.Missing, r.Missing...)
		combined.Failed = append(combined.Failed, r.Failed...)
		step.Warnings = append(step.Warnings, pass.warnings...)
	}

	step.Paths = combined.Changed
	step.Detail = fmt.Sprintf("%d changed, %d unchanged, %d missing",
		len(combined.Changed), len(combined.Unchanged), len(combined.Missing))
	for _, missing := range combined.Missing {
		step.Warnings = append(step.Warnings, fmt.Sprintf("rewrite target %s not found", missing))
	}
	if len(step.Warnings) > 0 {
		step.Status = StatusWarn
	}
	if err := combined.Err(); err != nil {
		step.Status = StatusFailed
		step.Err = err
	}
	return step
}

func runVCS(ctx context.Context, opts ComposeOptions) (StepResult, error) {
	s := opts.Settings
	step := StepResult{Name: StepVCS}

	if !s.VCS.Enabled || opts.SkipVCS {
		step.Status = StatusSkipped
		step.Detail = "repository bootstrap disabled"
		return step, nil
	}

	bootstrap := vcs.BootstrapOptions{Branch: s.VCS.DefaultBranch, RemoteName: s.VCS.RemoteName}
	url, err := vcs.RemoteURL(s, opts.Context)
	if err != nil {
		step.Warnings = append(step.Warnings, fmt.Sprintf("remote not registered: %v", err))
	} else {
		bootstrap.RemoteURL = url
	}

	if opts.DryRun {
		step.Status = StatusPlanned
		step.Detail = fmt.Sprintf("would init %s on branch %s", filepath.Base(opts.Project.Root), bootstrap.Branch)
		if url != "" {
			step.Paths = []string{url}
		}
		return step, nil
	}

	backend := opts.Backend
	if backend == nil {
		backend, err = vcs.New(s.VCS)
		if err != nil {
			step.Status = StatusFailed
			step.Err = err
			return step, err
		}
	}

	result := vcs.Bootstrap(ctx, backend, opts.Project.Root, bootstrap)
	step.Paths = result.Completed
	if result.Err != nil {
		step.Status = StatusFailed
		step.Detail = fmt.Sprintf("stopped at %s", result.Failed)
		step.Err = result.Err
		return step, result.Err
	}

	step.Status = StatusOK
	step.Detail = fmt.Sprintf("%s backend, branch %s", backend.Name(), bootstrap.Branch)
	if url != "" {
		step.Detail += ", remote " + url
	}
	if len(step.Warnings) > 0 {
		step.Status = StatusWarn
	}
	return step, nil
}

// stepError prefixes err with the step that failed, keeping its code
func stepError(step string, err error) error {
	return errors.Wrap(err, errors.GetErrorCode(err), step).WithDetail("step", step)
}
