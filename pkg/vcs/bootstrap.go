package vcs

import (
	"context"
	"strings"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
)

// Bootstrap steps, in execution order
const (
	StepInit   = "init"
	StepBranch = "branch"
	StepRemote = "remote"
)

// BootstrapOptions configures a repository bootstrap. Empty Branch or
// RemoteURL skips the matching step.
type BootstrapOptions struct {
	Branch     string
	RemoteName string
	RemoteURL  string
}

// BootstrapReport records how far a bootstrap got
type BootstrapReport struct {
	Completed []string `json:"completed,omitempty"`
	Skipped   []string `json:"skipped,omitempty"`
	// Failed names the step that stopped the sequence
	Failed string `json:"failed,omitempty"`
	Err    error  `json:"-"`
}

// OK reports whether every step ran or was skipped
func (r BootstrapReport) OK() bool {
	return r.Err == nil
}

// Bootstrap initializes a repository in dir, renames its default branch and
// registers the remote. It stops at the first failing step. Steps that
// already succeeded are left in place.
func Bootstrap(ctx context.Context, backend Backend, dir string, opts BootstrapOptions) BootstrapReport {
	logger := logging.GetLogger("vcs")
	var report BootstrapReport

	remoteName := opts.RemoteName
	if remoteName == "" {
		remoteName = "origin"
	}

	steps := []struct {
		name string
		skip bool
		run  func() error
	}{
		{StepInit, false, func() error { return backend.Init(ctx, dir) }},
		{StepBranch, opts.Branch == "", func() error { return backend.RenameBranch(ctx, dir, opts.Branch) }},
		{StepRemote, opts.RemoteURL == "", func() error { return backend.AddRemote(ctx, dir, remoteName, opts.RemoteURL) }},
	}

	for _, step := range steps {
		if step.skip {
			report.Skipped = append(report.Skipped, step.name)
			continue
		}
		if err := step.run(); err != nil {
			logger.Error().Err(err).Str("step", step.name).Str("dir", dir).Msg("Repository bootstrap failed")
			report.Failed = step.name
			report.Err = errors.Wrapf(err, errors.ErrBootstrap, "repository bootstrap failed at %s", step.name).
				WithDetail("step", step.name).
				WithDetail("path", dir)
			return report
		}
		report.Completed = append(report.Completed, step.name)
	}

	logger.Info().
		Str("backend", backend.Name()).
		Strs("completed", report.Completed).
		Msg("Repository bootstrapped")
	return report
}

// RemoteURL expands the configured remote URL template. Every placeholder
// must resolve to a non-empty context value.
func RemoteURL(s *config.Settings, ctx config.Context) (string, error) {
	tmpl := s.VCS.RemoteURL
	if tmpl == "" {
		return "", nil
	}
	if missing := ctx.MissingKeys(tmpl); len(missing) > 0 {
		return "", errors.Newf(errors.ErrInvalidInput,
			"cannot build remote URL, missing %s", strings.Join(missing, ", ")).
			WithDetail("keys", missing)
	}
	return ctx.Expand(tmpl), nil
}
