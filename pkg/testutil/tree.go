package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// DirMarker is the Snapshot value recorded for directories
const DirMarker = "/"

// WriteTree creates every file of tree under root, with parents, and
// returns root
func WriteTree(t *testing.T, root string, tree map[string]string) string {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

// TempTree writes tree into a fresh temporary directory
func TempTree(t *testing.T, tree map[string]string) string {
	t.Helper()
	return WriteTree(t, t.TempDir(), tree)
}

// WriteMemTree creates every file of tree on fs, relative to its root
func WriteMemTree(t *testing.T, fs afero.Fs, tree map[string]string) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.FromSlash(rel)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

// Snapshot maps every path under root to its content, DirMarker for
// directories and "-> target" for symlinks. root itself is "."
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch {
		case info.IsDir():
			tree[rel] = DirMarker
		case info.Mode()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			tree[rel] = "-> " + target
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree[rel] = string(data)
		}
		return nil
	})
	require.NoError(t, err)
	return tree
}

// Files lists the regular file paths of a snapshot, sorted
func Files(snapshot map[string]string) []string {
	var files []string
	for rel, content := range snapshot {
		if content != DirMarker {
			files = append(files, rel)
		}
	}
	sort.Strings(files)
	return files
}

// ReadFile returns the content of rel under root
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
