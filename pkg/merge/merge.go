// Package merge copies staging directories into the project root.
//
// Top-level entries of a staging directory land at the same relative path
// under the root. Files overwrite, directories are replaced wholesale, and
// version control metadata can be filtered out with gitignore patterns.
package merge

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/filesystem"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options controls a single merge
type Options struct {
	// ExcludeVCS skips entries matching VCSPatterns at any depth
	ExcludeVCS bool
	// VCSPatterns use gitignore syntax relative to the staging directory
	VCSPatterns []string
}

// Stats counts what a merge did
type Stats struct {
	Files    int `json:"files"`
	Dirs     int `json:"dirs"`
	Symlinks int `json:"symlinks"`
	Skipped  int `json:"skipped"`
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Files += other.Files
	s.Dirs += other.Dirs
	s.Symlinks += other.Symlinks
	s.Skipped += other.Skipped
}

// Merger copies staging trees into a project
type Merger struct {
	logger zerolog.Logger
}

// NewMerger creates a merger
func NewMerger() *Merger {
	return &Merger{logger: logging.GetLogger("merge")}
}

type copier struct {
	project filesystem.Project
	matcher gitignore.Matcher
	stats   Stats
	logger  zerolog.Logger
}

// Merge copies every top-level entry of staging into the project root. A
// staging directory the variant names must exist.
func (m *Merger) Merge(p filesystem.Project, staging string, opts Options) (Stats, error) {
	if err := filesystem.Within(staging); err != nil {
		return Stats{}, err
	}

	info, err := p.Lstat(staging)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, errors.Newf(errors.ErrCopy, "staging directory %s not found", staging).
				WithDetail("path", staging)
		}
		return Stats{}, copyError(err, staging, "failed to stat staging directory %s", staging)
	}
	if !info.IsDir() {
		return Stats{}, errors.Newf(errors.ErrCopy, "staging path %s is not a directory", staging).
			WithDetail("path", staging)
	}

	c := &copier{project: p, logger: m.logger}
	if opts.ExcludeVCS {
		c.matcher = NewVCSMatcher(opts.VCSPatterns)
	}

	entries, err := afero.ReadDir(p.FS, filesystem.Clean(staging))
	if err != nil {
		return Stats{}, copyError(err, staging, "failed to list %s", staging)
	}

	for _, entry := range entries {
		src := filepath.Join(staging, entry.Name())
		if err := c.copyEntry(src, entry.Name(), entry, []string{entry.Name()}, true); err != nil {
			return c.stats, err
		}
	}

	m.logger.Info().
		Str("staging", staging).
		Int("files", c.stats.Files).
		Int("dirs", c.stats.Dirs).
		Int("symlinks", c.stats.Symlinks).
		Int("skipped", c.stats.Skipped).
		Msg("Merged staging directory")

	return c.stats, nil
}

// NewVCSMatcher builds a gitignore matcher from patterns
func NewVCSMatcher(patterns []string) gitignore.Matcher {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		parsed = append(parsed, gitignore.ParsePattern(pattern, nil))
	}
	return gitignore.NewMatcher(parsed)
}

// copyEntry copies src to dst. rel is the entry path relative to the staging
// root, used for pattern matching; top marks direct children of staging.
func (c *copier) copyEntry(src, dst string, info os.FileInfo, rel []string, top bool) error {
	isDir := info.IsDir()
	if c.matcher != nil && c.matcher.Match(rel, isDir) {
		c.logger.Debug().Str("path", src).Msg("Skipping version control metadata")
		c.stats.Skipped++
		return nil
	}

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return c.copySymlink(src, dst, info)
	case isDir:
		if top {
			if err := c.replaceDir(dst); err != nil {
				return err
			}
		}
		return c.copyDir(src, dst, info, rel)
	case info.Mode().IsRegular():
		return c.copyFile(src, dst, info)
	default:
		c.logger.Warn().Str("path", src).Str("mode", info.Mode().String()).Msg("Skipping special file")
		c.stats.Skipped++
		return nil
	}
}

// replaceDir clears whatever sits at dst so a directory is never deep-merged
func (c *copier) replaceDir(dst string) error {
	exists, err := c.project.Exists(dst)
	if err != nil {
		return copyError(err, dst, "failed to stat %s", dst)
	}
	if !exists {
		return nil
	}
	c.logger.Debug().Str("path", dst).Msg("Replacing existing destination")
	if err := c.project.FS.RemoveAll(filesystem.Clean(dst)); err != nil {
		return copyError(err, dst, "failed to replace %s", dst)
	}
	return nil
}

func (c *copier) copyDir(src, dst string, info os.FileInfo, rel []string) error {
	fs := c.project.FS
	// owner write is needed while children are copied in; preserve restores the mode
	if err := fs.MkdirAll(filesystem.Clean(dst), 0o755|info.Mode().Perm()); err != nil {
		return copyError(err, dst, "failed to create directory %s", dst)
	}

	entries, err := afero.ReadDir(fs, filesystem.Clean(src))
	if err != nil {
		return copyError(err, src, "failed to list %s", src)
	}
	for _, entry := range entries {
		childRel := append(append([]string(nil), rel...), entry.Name())
		if err := c.copyEntry(
			filepath.Join(src, entry.Name()),
			filepath.Join(dst, entry.Name()),
			entry, childRel, false,
		); err != nil {
			return err
		}
	}

	// children are written first, they bump the directory mtime
	if err := c.preserve(dst, info); err != nil {
		return err
	}
	c.stats.Dirs++
	return nil
}

func (c *copier) copyFile(src, dst string, info os.FileInfo) error {
	fs := c.project.FS

	if existing, err := c.project.Lstat(dst); err == nil && (existing.IsDir() || existing.Mode()&os.ModeSymlink != 0) {
		if err := fs.RemoveAll(filesystem.Clean(dst)); err != nil {
			return copyError(err, dst, "failed to replace %s", dst)
		}
	}

	in, err := fs.Open(filesystem.Clean(src))
	if err != nil {
		return copyError(err, src, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(filesystem.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return copyError(err, dst, "failed to create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return copyError(err, dst, "failed to copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return copyError(err, dst, "failed to write %s", dst)
	}

	if err := c.preserve(dst, info); err != nil {
		return err
	}
	c.stats.Files++
	return nil
}

func (c *copier) copySymlink(src, dst string, info os.FileInfo) error {
	target, err := c.project.Readlink(src)
	if err != nil {
		return copyError(err, src, "failed to read link %s", src)
	}

	exists, err := c.project.Exists(dst)
	if err != nil {
		return copyError(err, dst, "failed to stat %s", dst)
	}
	if exists {
		if err := c.project.FS.RemoveAll(filesystem.Clean(dst)); err != nil {
			return copyError(err, dst, "failed to replace %s", dst)
		}
	}

	if err := c.project.Symlink(target, dst); err != nil {
		return copyError(err, dst, "failed to link %s -> %s", dst, target)
	}
	c.stats.Symlinks++
	return nil
}

// preserve carries permissions and modification time over to dst
func (c *copier) preserve(dst string, info os.FileInfo) error {
	fs := c.project.FS
	if err := fs.Chmod(filesystem.Clean(dst), info.Mode().Perm()); err != nil {
		return copyError(err, dst, "failed to set permissions on %s", dst)
	}
	if err := fs.Chtimes(filesystem.Clean(dst), info.ModTime(), info.ModTime()); err != nil {
		return copyError(err, dst, "failed to set times on %s", dst)
	}
	return nil
}

func copyError(err error, path, format string, args ...interface{}) error {
	return errors.Wrapf(err, errors.ErrCopy, format, args...).WithDetail("path", path)
}
