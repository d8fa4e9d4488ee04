package pipeline

import (
	"strings"
	"testing"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/testutil"
	"github.com/stretchr/testify/require"
)

// renderedTree lays out what the templating engine leaves behind before
// compose runs: the project files plus every staging directory.
var renderedTree = map[string]string{
	"README.md":      "generic readme",
	"LICENSE":        "MIT License",
	"pyproject.toml": "name = \"my_ext\"",

	"common/.github/workflows/ci.yml": "on: push",
	"common/tests/test_nodes.py":      "def test(): pass",

	"custom-nodes-template/src/my_ext/__init__.py":  "NODES = {}",
	"custom-nodes-template/src/my_ext/web/index.js": "nodes web",

	"react-extension-template/.git/HEAD":               "ref: refs/heads/main",
	"react-extension-template/.git/config":             "[core]",
	"react-extension-template/.gitmodules":             "[submodule \"ui\"]",
	"react-extension-template/.gitignore":              "node_modules",
	"react-extension-template/README.md":               "# React Example Extension\ncomfyui-react-example",
	"react-extension-template/ui/package.json":         `{"name": "comfyui-react-example", "version": "0.1.0"}`,
	"react-extension-template/ui/src/main.tsx":         "import 'example_ext'",
	"react-extension-template/src/my_ext/__init__.py":  "WEB_DIRECTORY = './web'",
	"react-extension-template/src/my_ext/web/index.js": "react web",
	"react-extension-template/ui/.git":                 "gitdir: ../.git/modules/ui",
	"react-extension-template/ui/src/utils/i18n.ts":    "export const ns = 'example_ext'",
	"vue-extension-template/.git/HEAD":                 "ref: refs/heads/main",
	"vue-extension-template/README.md":                 "comfyui-vue-example",
	"vue-extension-template/ui/package.json":           `{"name": "comfyui-vue-example", "version": "0.1.0"}`,
	"vue-extension-template/src/my_ext/__init__.py":    "WEB_DIRECTORY = './web'",
	"vue-extension-template/src/my_ext/web/index.js":   "vue web",
}

// variantWeb is the web entry point each variant ships
var variantWeb = map[string]string{
	"no":    "nodes web",
	"js":    "nodes web",
	"react": "react web",
	"vue":   "vue web",
}

func renderTree(t *testing.T) string {
	t.Helper()
	return testutil.TempTree(t, renderedTree)
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s, err := config.DefaultSettings()
	require.NoError(t, err)
	return s
}

func testContext(variant string, overrides map[string]string) config.Context {
	values := map[string]string{
		"project_name":        "My Extension",
		"project_slug":        "my_ext",
		"full_name":           "Octo Cat",
		"email":               "octo@example.com",
		"version":             "2.3.1",
		"open_source_license": "MIT",
		"frontend_type":       variant,
		"include_web":         "True",
		"_template":           "gh:octo/cookiecutter-comfy-extension",
		"github_username":     "octo",
		"repo_host":           "github.com",
	}
	for k, v := range overrides {
		values[k] = v
	}
	return config.NewContext(values)
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	return testutil.Snapshot(t, root)
}

// stagingLeftovers lists every path under root containing a staging dir name
func stagingLeftovers(t *testing.T, root string, s *config.Settings) []string {
	t.Helper()
	var found []string
	for rel := range snapshot(t, root) {
		for _, part := range strings.Split(rel, "/") {
			if s.IsStagingDir(part) {
				found = append(found, rel)
				break
			}
		}
	}
	return found
}

func readProjectFile(t *testing.T, root, rel string) string {
	t.Helper()
	return testutil.ReadFile(t, root, rel)
}
