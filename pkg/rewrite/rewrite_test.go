package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, p filesystem.Project, rel, content string) {
	t.Helper()
	require.NoError(t, p.FS.MkdirAll(filesystem.Clean(filepath.Dir(rel)), 0755))
	require.NoError(t, afero.WriteFile(p.FS, filesystem.Clean(rel), []byte(content), 0644))
}

func readFile(t *testing.T, p filesystem.Project, rel string) string {
	t.Helper()
	data, err := afero.ReadFile(p.FS, filesystem.Clean(rel))
	require.NoError(t, err)
	return string(data)
}

func TestApplyReplacesVersion(t *testing.T) {
	p := filesystem.NewMemProject("/project")
	writeFile(t, p, "ui/package.json", `{"name": "comfyui-react-example", "version": "0.1.0"}`)

	report := NewRewriter().Apply(p, []string{"ui/package.json"}, []Rule{
		{Search: "comfyui-react-example", Replace: "my_ext"},
		{Search: "0.1.0", Replace: "2.3.1"},
	})

	require.NoError(t, report.Err())
	assert.Equal(t, []string{"ui/package.json"}, report.Changed)

	got := readFile(t, p, "ui/package.json")
	assert.Contains(t, got, `"version": "2.3.1"`)
	assert.NotContains(t, got, "0.1.0")
	assert.NotContains(t, got, "comfyui-react-example")
	assert.Contains(t, got, "my_ext")
}

func TestApplyRulesSeeEarlierResults(t *testing.T) {
	p := filesystem.NewMemProject("/project")
	writeFile(t, p, "README.md", "alpha")

	report := NewRewriter().Apply(p, []string{"README.md"}, []Rule{
		{Search: "alpha", Replace: "beta"},
		{Search: "beta", Replace: "gamma"},
	})
	require.NoError(t, report.Err())
	assert.Equal(t, "gamma", readFile(t, p, "README.md"))
}

func TestApplyMissingFilesAreWarnings(t *testing.T) {
	p := filesystem.NewMemProject("/project")
	writeFile(t, p, "README.md", "example_ext")

	report := NewRewriter().Apply(p, []string{"ui/src/main.tsx", "README.md"}, []Rule{
		{Search: "example_ext", Replace: "my_ext"},
	})

	require.NoError(t, report.Err())
	assert.Equal(t, []string{"ui/src/main.tsx"}, report.Missing)
	assert.Equal(t, "my_ext", readFile(t, p, "README.md"))
}

func TestApplyUnchangedFileIsNotWritten(t *testing.T) {
	root := t.TempDir()
	p := filesystem.NewProject(root)
	writeFile(t, p, "README.md", "nothing to see")

	before, err := os.Stat(filepath.Join(root, "README.md"))
	require.NoError(t, err)

	report := NewRewriter().Apply(p, []string{"README.md"}, []Rule{{Search: "absent", Replace: "x"}})
	require.NoError(t, report.Err())
	assert.Equal(t, []string{"README.md"}, report.Unchanged)

	after, err := os.Stat(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestApplyFailureDoesNotStopOtherFiles(t *testing.T) {
	p := filesystem.NewMemProject("/project")
	require.NoError(t, afero.WriteFile(p.FS, filesystem.Clean("binary.bin"), []byte{0xff, 0xfe, 0x00}, 0644))
	require.NoError(t, p.FS.MkdirAll(filesystem.Clean("ui"), 0755))
	writeFile(t, p, "README.md", "0.1.0")

	report := NewRewriter().Apply(p, []string{"binary.bin", "ui", "README.md"}, []Rule{
		{Search: "0.1.0", Replace: "1.0.0"},
	})

	require.Len(t, report.Failed, 2)
	assert.Equal(t, "binary.bin", report.Failed[0].Path)
	assert.Equal(t, "ui", report.Failed[1].Path)
	assert.Equal(t, "1.0.0", readFile(t, p, "README.md"))

	err := report.Err()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRewrite))
	assert.Contains(t, err.Error(), "binary.bin")
}

func TestApplyPreservesPermissions(t *testing.T) {
	root := t.TempDir()
	p := filesystem.NewProject(root)
	require.NoError(t, afero.WriteFile(p.FS, filesystem.Clean("run.sh"), []byte("echo 0.1.0"), 0755))

	report := NewRewriter().Apply(p, []string{"run.sh"}, []Rule{{Search: "0.1.0", Replace: "0.2.0"}})
	require.NoError(t, report.Err())

	info, err := os.Stat(filepath.Join(root, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestApplyRejectsEscapingPath(t *testing.T) {
	p := filesystem.NewMemProject("/project")
	report := NewRewriter().Apply(p, []string{"../etc/hosts"}, []Rule{{Search: "a", Replace: "b"}})
	require.Len(t, report.Failed, 1)
	assert.True(t, errors.IsErrorCode(report.Failed[0].Err, errors.ErrInvalidInput))
}

func TestRulesExpandContext(t *testing.T) {
	ctx := config.NewContext(map[string]string{"project_slug": "my_ext", "version": "2.3.1"})
	rules := Rules([]config.RewriteRule{
		{Search: "example_ext", Replace: "${project_slug}"},
		{Search: "0.1.0", Replace: "${version}"},
	}, ctx)

	assert.Equal(t, []Rule{
		{Search: "example_ext", Replace: "my_ext"},
		{Search: "0.1.0", Replace: "2.3.1"},
	}, rules)
}
