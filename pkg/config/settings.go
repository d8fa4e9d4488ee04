package config

import (
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/hatch/pkg/errors"
)

// Supported VCS backends
const (
	BackendGit    = "git"
	BackendNative = "native"
)

// Settings is the complete pipeline configuration
type Settings struct {
	Keys     Keys               `koanf:"keys" toml:"keys"`
	Context  map[string]string  `koanf:"context" toml:"context"`
	Staging  Staging            `koanf:"staging" toml:"staging"`
	Merge    Merge              `koanf:"merge" toml:"merge"`
	Rewrite  Rewrite            `koanf:"rewrite" toml:"rewrite"`
	Variants map[string]Variant `koanf:"variants" toml:"variants"`
	Cleanup  Cleanup            `koanf:"cleanup" toml:"cleanup"`
	VCS      VCS                `koanf:"vcs" toml:"vcs"`
	Template Template           `koanf:"template" toml:"template"`
}

// Keys names the context entries the pipeline reads
type Keys struct {
	Identifier     string `koanf:"identifier" toml:"identifier"`
	Variant        string `koanf:"variant" toml:"variant"`
	License        string `koanf:"license" toml:"license"`
	Web            string `koanf:"web" toml:"web"`
	TemplateSource string `koanf:"template_source" toml:"template_source"`
	Owner          string `koanf:"owner" toml:"owner"`
	Host           string `koanf:"host" toml:"host"`
}

// Staging lists every staging directory a template may carry
type Staging struct {
	Dirs []string `koanf:"dirs" toml:"dirs"`
}

// Merge holds tree merger options
type Merge struct {
	// VCSPatterns are gitignore-style patterns naming version control metadata
	VCSPatterns []string `koanf:"vcs_patterns" toml:"vcs_patterns"`
}

// Rewrite holds rewrite targets applied under every variant
type Rewrite struct {
	Files []string      `koanf:"files" toml:"files"`
	Rules []RewriteRule `koanf:"rules" toml:"rules"`
}

// RewriteRule is a literal find/replace pair. Replace may reference
// context values as ${key}.
type RewriteRule struct {
	Search  string `koanf:"search" toml:"search"`
	Replace string `koanf:"replace" toml:"replace"`
}

// Variant describes one frontend choice
type Variant struct {
	Stage []string `koanf:"stage" toml:"stage,omitempty"`
	Alias string   `koanf:"alias" toml:"alias,omitempty"`
	// ExcludeVCS names the staged dirs whose version control metadata
	// belongs to a foreign checkout and must not be merged
	ExcludeVCS   []string      `koanf:"exclude_vcs" toml:"exclude_vcs,omitempty"`
	Submodules   bool          `koanf:"submodules" toml:"submodules,omitempty"`
	RewriteFiles []string      `koanf:"rewrite_files" toml:"rewrite_files,omitempty"`
	Rewrite      []RewriteRule `koanf:"rewrite" toml:"rewrite,omitempty"`
}

// Cleanup names the optional artifacts removed after composition
type Cleanup struct {
	LicenseFile   string   `koanf:"license_file" toml:"license_file"`
	ClosedLicense string   `koanf:"closed_license" toml:"closed_license"`
	WebDir        string   `koanf:"web_dir" toml:"web_dir"`
	Extra         []string `koanf:"extra" toml:"extra"`
}

// VCS configures repository bootstrap
type VCS struct {
	Enabled       bool   `koanf:"enabled" toml:"enabled"`
	Backend       string `koanf:"backend" toml:"backend"`
	Binary        string `koanf:"binary" toml:"binary"`
	DefaultBranch string `koanf:"default_branch" toml:"default_branch"`
	RemoteName    string `koanf:"remote_name" toml:"remote_name"`
	RemoteURL     string `koanf:"remote_url" toml:"remote_url"`
	Timeout       string `koanf:"timeout" toml:"timeout"`
}

// TimeoutDuration parses Timeout. Zero means commands never time out.
func (v VCS) TimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(v.Timeout) == "" {
		return 0, nil
	}
	return time.ParseDuration(v.Timeout)
}

// Template locates the template's local checkout
type Template struct {
	Name           string   `koanf:"name" toml:"name"`
	CacheDir       string   `koanf:"cache_dir" toml:"cache_dir"`
	RemotePrefixes []string `koanf:"remote_prefixes" toml:"remote_prefixes"`
}

// IsRemote reports whether a template source identifier points at a remote
// repository rather than a local directory.
func (t Template) IsRemote(source string) bool {
	for _, prefix := range t.RemotePrefixes {
		if prefix != "" && strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return false
}

// VariantNames returns the configured variant names, sorted
func (s *Settings) VariantNames() []string {
	names := make([]string, 0, len(s.Variants))
	for name := range s.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsStagingDir reports whether name is a known staging directory
func (s *Settings) IsStagingDir(name string) bool {
	for _, dir := range s.Staging.Dirs {
		if dir == name {
			return true
		}
	}
	return false
}

// Validate checks the settings for internal consistency
func (s *Settings) Validate() error {
	if len(s.Staging.Dirs) == 0 {
		return errors.New(errors.ErrConfigValid, "staging.dirs must list at least one directory")
	}
	if len(s.Variants) == 0 {
		return errors.New(errors.ErrConfigValid, "at least one variant must be configured")
	}
	if s.Keys.Identifier == "" || s.Keys.Variant == "" {
		return errors.New(errors.ErrConfigValid, "keys.identifier and keys.variant are required")
	}

	for _, name := range s.VariantNames() {
		v := s.Variants[name]
		if v.Alias != "" {
			if len(v.Stage) > 0 {
				return errors.Newf(errors.ErrConfigValid,
					"variant %q sets both alias and stage", name).WithDetail("variant", name)
			}
			if _, ok := s.Variants[v.Alias]; !ok {
				return errors.Newf(errors.ErrConfigValid,
					"variant %q is an alias of unknown variant %q", name, v.Alias).WithDetail("variant", name)
			}
			if err := s.checkAliasChain(name); err != nil {
				return err
			}
			continue
		}
		if len(v.Stage) == 0 {
			return errors.Newf(errors.ErrConfigValid,
				"variant %q has no staging directories", name).WithDetail("variant", name)
		}
		for _, dir := range v.Stage {
			if !s.IsStagingDir(dir) {
				return errors.Newf(errors.ErrConfigValid,
					"variant %q stages unknown directory %q", name, dir).
					WithDetail("variant", name).
					WithDetail("path", dir)
			}
		}
		for _, dir := range v.ExcludeVCS {
			if !contains(v.Stage, dir) {
				return errors.Newf(errors.ErrConfigValid,
					"variant %q excludes version control metadata of %q, which it does not stage", name, dir).
					WithDetail("variant", name).
					WithDetail("path", dir)
			}
		}
		if err := checkRules(v.Rewrite, "variants."+name+".rewrite"); err != nil {
			return err
		}
	}

	if err := checkRules(s.Rewrite.Rules, "rewrite.rules"); err != nil {
		return err
	}

	switch s.VCS.Backend {
	case BackendGit, BackendNative:
	default:
		return errors.Newf(errors.ErrConfigValid,
			"vcs.backend must be %q or %q, got %q", BackendGit, BackendNative, s.VCS.Backend)
	}
	if s.VCS.Backend == BackendGit && s.VCS.Binary == "" {
		return errors.New(errors.ErrConfigValid, "vcs.binary is required for the git backend")
	}
	if _, err := s.VCS.TimeoutDuration(); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid vcs.timeout %q", s.VCS.Timeout)
	}

	return nil
}

func (s *Settings) checkAliasChain(start string) error {
	seen := map[string]bool{start: true}
	current := s.Variants[start].Alias
	for current != "" {
		if seen[current] {
			return errors.Newf(errors.ErrConfigValid,
				"variant %q has a cyclic alias", start).WithDetail("variant", start)
		}
		seen[current] = true
		current = s.Variants[current].Alias
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func checkRules(rules []RewriteRule, where string) error {
	for i, rule := range rules {
		if rule.Search == "" {
			return errors.Newf(errors.ErrConfigValid,
				"%s[%d] has an empty search string", where, i)
		}
	}
	return nil
}
