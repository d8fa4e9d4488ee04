package config

import (
	"testing"
	"time"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	return &Settings{
		Keys:    Keys{Identifier: "project_slug", Variant: "frontend_type"},
		Staging: Staging{Dirs: []string{"common", "react"}},
		Variants: map[string]Variant{
			"no":    {Stage: []string{"common"}},
			"js":    {Alias: "no"},
			"react": {Stage: []string{"common", "react"}},
		},
		VCS: VCS{Backend: BackendGit, Binary: "git"},
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{name: "valid", mutate: func(s *Settings) {}},
		{
			name:    "no staging dirs",
			mutate:  func(s *Settings) { s.Staging.Dirs = nil },
			wantErr: "staging.dirs",
		},
		{
			name:    "alias to unknown variant",
			mutate:  func(s *Settings) { s.Variants["js"] = Variant{Alias: "angular"} },
			wantErr: "unknown variant",
		},
		{
			name: "alias cycle",
			mutate: func(s *Settings) {
				s.Variants["a"] = Variant{Alias: "b"}
				s.Variants["b"] = Variant{Alias: "a"}
			},
			wantErr: "cyclic alias",
		},
		{
			name:    "alias with stage",
			mutate:  func(s *Settings) { s.Variants["js"] = Variant{Alias: "no", Stage: []string{"common"}} },
			wantErr: "both alias and stage",
		},
		{
			name:    "unknown staging dir",
			mutate:  func(s *Settings) { s.Variants["vue"] = Variant{Stage: []string{"vue"}} },
			wantErr: "unknown directory",
		},
		{
			name: "exclude vcs of unstaged dir",
			mutate: func(s *Settings) {
				s.Variants["react"] = Variant{Stage: []string{"common", "react"}, ExcludeVCS: []string{"vue"}}
			},
			wantErr: "does not stage",
		},
		{
			name:    "empty stage",
			mutate:  func(s *Settings) { s.Variants["empty"] = Variant{} },
			wantErr: "no staging directories",
		},
		{
			name:    "empty search string",
			mutate:  func(s *Settings) { s.Rewrite.Rules = []RewriteRule{{Search: "", Replace: "x"}} },
			wantErr: "empty search string",
		},
		{
			name:    "unknown backend",
			mutate:  func(s *Settings) { s.VCS.Backend = "hg" },
			wantErr: "vcs.backend",
		},
		{
			name:    "bad timeout",
			mutate:  func(s *Settings) { s.VCS.Timeout = "soon" },
			wantErr: "vcs.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTimeoutDuration(t *testing.T) {
	d, err := VCS{}.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = VCS{Timeout: "90s"}.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
}

func TestTemplateIsRemote(t *testing.T) {
	tmpl := Template{RemotePrefixes: []string{"gh:", "https://", ""}}

	assert.True(t, tmpl.IsRemote("gh:org/cookiecutter-comfy-extension"))
	assert.True(t, tmpl.IsRemote("https://github.com/org/repo"))
	assert.False(t, tmpl.IsRemote("/home/me/templates/comfy"))
	assert.False(t, tmpl.IsRemote(""))
}
