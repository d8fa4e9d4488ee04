// Package rewrite applies literal find/replace rules to project files.
package rewrite

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/filesystem"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Rule is a literal search/replace pair
type Rule struct {
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

// Rules expands the replace side of configured rules against ctx
func Rules(rules []config.RewriteRule, ctx config.Context) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, Rule{Search: r.Search, Replace: ctx.Expand(r.Replace)})
	}
	return out
}

// Failure records a file that could not be rewritten
type Failure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Report describes a rewrite pass
type Report struct {
	// Changed files were written back
	Changed []string `json:"changed,omitempty"`
	// Unchanged files matched no rule
	Unchanged []string `json:"unchanged,omitempty"`
	// Missing files do not exist for this variant
	Missing []string  `json:"missing,omitempty"`
	Failed  []Failure `json:"failed,omitempty"`
}

// Err joins every per-file failure, or returns nil
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	paths := make([]string, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f.Err)
		paths = append(paths, f.Path)
	}
	return errors.Wrapf(errors.Join(errs...), errors.ErrRewrite,
		"failed to rewrite %d file(s): %s", len(r.Failed), strings.Join(paths, ", ")).
		WithDetail("paths", paths)
}

// Rewriter rewrites files in place
type Rewriter struct {
	logger zerolog.Logger
}

// NewRewriter creates a rewriter
func NewRewriter() *Rewriter {
	return &Rewriter{logger: logging.GetLogger("rewrite")}
}

// Apply runs every rule, in order, over every file. A failure on one file
// does not stop the others; see Report.Err.
func (r *Rewriter) Apply(p filesystem.Project, files []string, rules []Rule) Report {
	var report Report
	for _, file := range files {
		changed, err := r.applyFile(p, file, rules)
		switch {
		case err == nil && changed:
			report.Changed = append(report.Changed, file)
		case err == nil:
			report.Unchanged = append(report.Unchanged, file)
		case errors.IsErrorCode(err, errors.ErrFileNotFound):
			r.logger.Warn().Str("path", file).Msg("Rewrite target not found, skipping")
			report.Missing = append(report.Missing, file)
		default:
			r.logger.Error().Err(err).Str("path", file).Msg("Rewrite failed")
			report.Failed = append(report.Failed, Failure{Path: file, Err: err})
		}
	}

	r.logger.Info().
		Int("changed", len(report.Changed)).
		Int("unchanged", len(report.Unchanged)).
		Int("missing", len(report.Missing)).
		Int("failed", len(report.Failed)).
		Msg("Rewrite finished")

	return report
}

func (r *Rewriter) applyFile(p filesystem.Project, file string, rules []Rule) (bool, error) {
	if err := filesystem.Within(file); err != nil {
		return false, err
	}
	path := filesystem.Clean(file)

	info, err := p.FS.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, errors.Newf(errors.ErrFileNotFound, "%s not found", file).WithDetail("path", file)
		}
		return false, errors.Wrapf(err, errors.ErrRewrite, "failed to stat %s", file).WithDetail("path", file)
	}
	if info.IsDir() {
		return false, errors.Newf(errors.ErrRewrite, "%s is a directory", file).WithDetail("path", file)
	}

	data, err := afero.ReadFile(p.FS, path)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrRewrite, "failed to read %s", file).WithDetail("path", file)
	}
	if !utf8.Valid(data) {
		return false, errors.Newf(errors.ErrRewrite, "%s is not valid UTF-8 text", file).WithDetail("path", file)
	}

	original := string(data)
	content := original
	for _, rule := range rules {
		if rule.Search == "" {
			continue
		}
		if n := strings.Count(content, rule.Search); n > 0 {
			r.logger.Debug().
				Str("path", file).
				Str("search", rule.Search).
				Int("count", n).
				Msg("Replacing")
			content = strings.ReplaceAll(content, rule.Search, rule.Replace)
		}
	}

	if content == original {
		return false, nil
	}
	if err := afero.WriteFile(p.FS, path, []byte(content), info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, errors.ErrRewrite, "failed to write %s", file).WithDetail("path", file)
	}
	// WriteFile only applies the mode on creation
	if err := p.FS.Chmod(path, info.Mode().Perm()); err != nil {
		return false, errors.Wrapf(err, errors.ErrRewrite, "failed to restore permissions on %s", file).
			WithDetail("path", file)
	}
	return true, nil
}
