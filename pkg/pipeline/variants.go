package pipeline

import (
	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/variants"
)

// VariantSummary describes a configured variant for listing
type VariantSummary struct {
	Name       string   `json:"name"`
	AliasOf    string   `json:"alias_of,omitempty"`
	Merge      []string `json:"merge"`
	Discard    []string `json:"discard"`
	ExcludeVCS []string `json:"exclude_vcs,omitempty"`
	Submodules bool     `json:"submodules,omitempty"`
	Rewrites   int      `json:"rewrites"`
}

// Variants resolves every configured variant, sorted by name
func Variants(s *config.Settings) ([]VariantSummary, error) {
	resolver := variants.NewResolver(s)
	var out []VariantSummary
	for _, name := range resolver.Variants() {
		res, err := resolver.Resolve(name)
		if err != nil {
			return nil, err
		}
		summary := VariantSummary{
			Name:       name,
			Merge:      res.Merge,
			Discard:    res.Discard,
			ExcludeVCS: res.ExcludeVCS,
			Submodules: res.Submodules,
			Rewrites:   len(res.RewriteFiles),
		}
		if res.Canonical != name {
			summary.AliasOf = res.Canonical
		}
		out = append(out, summary)
	}
	return out, nil
}
