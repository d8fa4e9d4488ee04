// Package cleanup removes staging directories and optional artifacts from
// a composed project. Removals are idempotent.
package cleanup

import (
	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/filesystem"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/arthur-debert/hatch/pkg/variants"
	"github.com/rs/zerolog"
)

// Reason says why a path is removed
type Reason string

const (
	ReasonStaging   Reason = "staging"
	ReasonDiscarded Reason = "discarded"
	ReasonLicense   Reason = "license"
	ReasonWeb       Reason = "web"
	ReasonExtra     Reason = "extra"
)

// Target is a path scheduled for removal
type Target struct {
	Path   string `json:"path"`
	Reason Reason `json:"reason"`
}

// Targets lists what cleanup removes for a resolution, in order: merged
// staging dirs, discarded ones, the license file when the project is not
// open source, the web directory when web assets are excluded, then extras.
// A web flag that is not a boolean is an INVALID_INPUT error.
func Targets(res variants.Resolution, s *config.Settings, ctx config.Context) ([]Target, error) {
	includeWeb, err := ctx.Bool(s.Keys.Web)
	if err != nil {
		return nil, err
	}

	var targets []Target
	seen := make(map[string]bool)
	add := func(path string, reason Reason) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		targets = append(targets, Target{Path: path, Reason: reason})
	}

	for _, dir := range res.Merge {
		add(dir, ReasonStaging)
	}
	for _, dir := range res.Discard {
		add(dir, ReasonDiscarded)
	}
	// staging dirs outside the resolution still never survive
	for _, dir := range s.Staging.Dirs {
		add(dir, ReasonStaging)
	}

	if ctx.String(s.Keys.License) == s.Cleanup.ClosedLicense {
		add(s.Cleanup.LicenseFile, ReasonLicense)
	}
	if !includeWeb {
		add(ctx.Expand(s.Cleanup.WebDir), ReasonWeb)
	}
	for _, extra := range s.Cleanup.Extra {
		add(ctx.Expand(extra), ReasonExtra)
	}
	return targets, nil
}

// Paths returns the target paths
func Paths(targets []Target) []string {
	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Path
	}
	return paths
}

// Report lists what a removal pass did
type Report struct {
	Removed []string `json:"removed,omitempty"`
	// Absent paths did not exist; that is not an error
	Absent []string `json:"absent,omitempty"`
}

// Cleaner deletes paths from a project
type Cleaner struct {
	logger zerolog.Logger
}

// NewCleaner creates a cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{logger: logging.GetLogger("cleanup")}
}

// Remove deletes every path recursively. It stops at the first failure and
// returns a REMOVE_FAILED error naming the path.
func (c *Cleaner) Remove(p filesystem.Project, paths []string) (Report, error) {
	var report Report
	for _, path := range paths {
		if err := filesystem.Within(path); err != nil {
			return report, err
		}
		if filesystem.Clean(path) == filesystem.Clean(".") {
			return report, errors.New(errors.ErrInvalidInput, "refusing to remove the project root").
				WithDetail("path", path)
		}

		exists, err := p.Exists(path)
		if err != nil {
			return report, errors.Wrapf(err, errors.ErrRemove, "failed to stat %s", path).
				WithDetail("path", path)
		}
		if !exists {
			c.logger.Debug().Str("path", path).Msg("Already absent")
			report.Absent = append(report.Absent, path)
			continue
		}

		if err := p.FS.RemoveAll(filesystem.Clean(path)); err != nil {
			return report, errors.Wrapf(err, errors.ErrRemove, "failed to remove %s", path).
				WithDetail("path", path)
		}
		c.logger.Debug().Str("path", path).Msg("Removed")
		report.Removed = append(report.Removed, path)
	}

	c.logger.Info().
		Int("removed", len(report.Removed)).
		Int("absent", len(report.Absent)).
		Msg("Cleanup finished")
	return report, nil
}
