package vcs

import (
	"context"
	"os"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
)

// Submodules initializes and recursively updates the submodules of the
// checkout at dir. Failures come back as SUBMODULE_FAILED; callers treat
// them as warnings. Nothing is retried.
func Submodules(ctx context.Context, backend Backend, dir string) error {
	logger := logging.GetLogger("vcs")
	done := logging.LogOperationStart(logger, "submodules")
	defer done()

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrSubmodule, "template checkout %s not found", dir).
			WithDetail("path", dir)
	}

	if err := backend.SubmoduleInit(ctx, dir); err != nil {
		return submoduleError(err, "init", dir)
	}
	if err := backend.SubmoduleUpdate(ctx, dir, true); err != nil {
		return submoduleError(err, "update", dir)
	}
	return nil
}

func submoduleError(err error, step, dir string) error {
	return errors.Wrapf(err, errors.ErrSubmodule, "submodule %s failed in %s", step, dir).
		WithDetail("step", step).
		WithDetail("path", dir)
}
