// Package variants maps a frontend variant choice to the staging
// directories that get merged into the project and the ones that get
// discarded unmerged.
package variants

import (
	"strings"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/rs/zerolog"
)

// Resolution is the outcome of resolving a variant
type Resolution struct {
	// Variant is the requested name, Canonical the one aliases led to
	Variant   string
	Canonical string
	// Merge lists staging dirs to merge, in order
	Merge []string
	// Discard lists staging dirs deleted without being merged
	Discard []string
	// ExcludeVCS lists the merged dirs whose version control metadata is
	// left behind
	ExcludeVCS   []string
	Submodules   bool
	RewriteFiles []string
	Rewrite      []config.RewriteRule
}

// Resolver resolves variants against the configured variant table
type Resolver struct {
	logger   zerolog.Logger
	settings *config.Settings
}

// NewResolver creates a resolver over settings
func NewResolver(settings *config.Settings) *Resolver {
	return &Resolver{
		logger:   logging.GetLogger("variants"),
		settings: settings,
	}
}

// Variants returns the supported variant names, sorted
func (r *Resolver) Variants() []string {
	return r.settings.VariantNames()
}

// Canonical follows aliases from name to the variant that defines a stage
func (r *Resolver) Canonical(name string) (string, error) {
	seen := make(map[string]bool)
	current := name
	for {
		v, ok := r.settings.Variants[current]
		if !ok {
			return "", r.unknown(name)
		}
		if v.Alias == "" {
			return current, nil
		}
		if seen[current] {
			return "", errors.Newf(errors.ErrConfigValid, "variant %q has a cyclic alias", name).
				WithDetail("variant", name)
		}
		seen[current] = true
		current = v.Alias
	}
}

// Resolve returns the staging plan for a variant. Unknown variants are an
// error; nothing is ever skipped silently.
func (r *Resolver) Resolve(name string) (Resolution, error) {
	canonical, err := r.Canonical(name)
	if err != nil {
		return Resolution{}, err
	}
	v := r.settings.Variants[canonical]

	selected := make(map[string]bool, len(v.Stage))
	merge := make([]string, 0, len(v.Stage))
	for _, dir := range v.Stage {
		if selected[dir] {
			continue
		}
		selected[dir] = true
		merge = append(merge, dir)
	}

	discard := make([]string, 0, len(r.settings.Staging.Dirs))
	for _, dir := range r.settings.Staging.Dirs {
		if !selected[dir] {
			discard = append(discard, dir)
		}
	}

	res := Resolution{
		Variant:      name,
		Canonical:    canonical,
		Merge:        merge,
		Discard:      discard,
		ExcludeVCS:   append([]string(nil), v.ExcludeVCS...),
		Submodules:   v.Submodules,
		RewriteFiles: append([]string(nil), v.RewriteFiles...),
		Rewrite:      append([]config.RewriteRule(nil), v.Rewrite...),
	}

	r.logger.Debug().
		Str("variant", name).
		Str("canonical", canonical).
		Strs("merge", res.Merge).
		Strs("discard", res.Discard).
		Msg("Variant resolved")

	return res, nil
}

// ExcludesVCS reports whether version control metadata is filtered out
// when merging dir
func (res Resolution) ExcludesVCS(dir string) bool {
	for _, d := range res.ExcludeVCS {
		if d == dir {
			return true
		}
	}
	return false
}

func (r *Resolver) unknown(name string) error {
	return errors.Newf(errors.ErrVariantUnknown,
		"unsupported variant %q (supported: %s)", name, strings.Join(r.Variants(), ", ")).
		WithDetail("variant", name)
}
