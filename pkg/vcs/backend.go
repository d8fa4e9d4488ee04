// Package vcs talks to version control for two jobs: bootstrapping a
// repository in a freshly composed project, and initializing submodules in
// a template checkout.
//
// Two backends exist. CLI shells out to the git binary and is the default.
// Native uses go-git and needs no binary at all.
package vcs

import (
	"context"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
)

// Backend runs repository operations in a directory
type Backend interface {
	// Name identifies the backend in logs and reports
	Name() string
	Init(ctx context.Context, dir string) error
	RenameBranch(ctx context.Context, dir, branch string) error
	AddRemote(ctx context.Context, dir, name, url string) error
	SubmoduleInit(ctx context.Context, dir string) error
	SubmoduleUpdate(ctx context.Context, dir string, recursive bool) error
}

// New returns the backend configured in settings
func New(cfg config.VCS) (Backend, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid vcs.timeout %q", cfg.Timeout)
	}

	switch cfg.Backend {
	case config.BackendGit:
		return NewCLI(cfg.Binary, timeout), nil
	case config.BackendNative:
		return NewNative(timeout), nil
	default:
		return nil, errors.Newf(errors.ErrConfigValid, "unknown vcs backend %q", cfg.Backend)
	}
}
