package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"common", "custom-nodes-template", "react-extension-template", "vue-extension-template"}, s.Staging.Dirs)
	assert.Equal(t, []string{"js", "no", "react", "vue"}, s.VariantNames())
	assert.Equal(t, "no", s.Variants["js"].Alias)
	assert.Equal(t, []string{"common", "react-extension-template"}, s.Variants["react"].Stage)
	assert.Equal(t, []string{"react-extension-template"}, s.Variants["react"].ExcludeVCS)
	assert.True(t, s.Variants["react"].Submodules)
	require.NotEmpty(t, s.Variants["react"].Rewrite)
	assert.Equal(t, "comfyui-react-example", s.Variants["react"].Rewrite[0].Search)

	assert.Equal(t, "LICENSE", s.Cleanup.LicenseFile)
	assert.Equal(t, "Not open source", s.Cleanup.ClosedLicense)
	assert.Equal(t, "src/${project_slug}/web", s.Cleanup.WebDir)

	assert.True(t, s.VCS.Enabled)
	assert.Equal(t, BackendGit, s.VCS.Backend)
	assert.Equal(t, "main", s.VCS.DefaultBranch)
	assert.Equal(t, "origin", s.VCS.RemoteName)

	assert.Equal(t, "github.com", s.Context["repo_host"])
	assert.Equal(t, "project_slug", s.Keys.Identifier)
	assert.Equal(t, "frontend_type", s.Keys.Variant)
}

func TestLoadSettingsProjectOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hatch.toml"), `
[vcs]
backend = "native"
default_branch = "trunk"

[cleanup]
extra = ["docs/internal"]
`)

	s, err := LoadSettings(LoadOptions{ProjectRoot: root})
	require.NoError(t, err)

	assert.Equal(t, BackendNative, s.VCS.Backend)
	assert.Equal(t, "trunk", s.VCS.DefaultBranch)
	assert.Equal(t, []string{"docs/internal"}, s.Cleanup.Extra)
	// untouched sections keep their defaults
	assert.Equal(t, "origin", s.VCS.RemoteName)
	assert.Contains(t, s.Variants, "react")
}

func TestLoadSettingsPrecedence(t *testing.T) {
	root := t.TempDir()
	userDir := t.TempDir()
	userConfig := filepath.Join(userDir, "config.toml")

	writeFile(t, userConfig, "[vcs]\ndefault_branch = \"user\"\nremote_name = \"upstream\"\n")
	writeFile(t, filepath.Join(root, ".hatch.toml"), "[vcs]\ndefault_branch = \"project\"\n")
	t.Setenv("HATCH_VCS__REMOTE_NAME", "env-remote")

	s, err := LoadSettings(LoadOptions{ProjectRoot: root, UserConfig: userConfig})
	require.NoError(t, err)

	assert.Equal(t, "project", s.VCS.DefaultBranch)
	assert.Equal(t, "env-remote", s.VCS.RemoteName)
}

func TestLoadSettingsEnvSlice(t *testing.T) {
	t.Setenv("HATCH_CLEANUP__EXTRA", "a,b")
	t.Setenv("HATCH_CTX_PROJECT_SLUG", "ignored_by_settings")

	s, err := LoadSettings(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, s.Cleanup.Extra)
}

func TestLoadSettingsMissingUserConfigIsSkipped(t *testing.T) {
	_, err := LoadSettings(LoadOptions{UserConfig: filepath.Join(t.TempDir(), "nope.toml")})
	assert.NoError(t, err)
}

func TestLoadSettingsExplicitFileMustExist(t *testing.T) {
	_, err := LoadSettings(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadSettingsInvalid(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "hatch.toml"), `
[variants.svelte]
stage = ["common", "svelte-template"]
`)

	_, err := LoadSettings(LoadOptions{ProjectRoot: root})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
	assert.Contains(t, err.Error(), "svelte-template")
}

func TestLoadSettingsUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.ini")
	writeFile(t, path, "x=1")

	_, err := LoadSettings(LoadOptions{File: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}
