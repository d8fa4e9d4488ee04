package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/spf13/afero"
)

// Project is a generated project tree
type Project struct {
	// Root is the absolute project root on the host filesystem
	Root string
	// FS resolves paths relative to Root
	FS afero.Fs
}

// NewProject anchors an OS-backed filesystem at root
func NewProject(root string) Project {
	return Project{
		Root: root,
		FS:   afero.NewBasePathFs(afero.NewOsFs(), root),
	}
}

// NewMemProject returns an in-memory project, for tests and dry runs
func NewMemProject(root string) Project {
	return Project{Root: root, FS: afero.NewMemMapFs()}
}

// Exists reports whether rel exists in the project. Symlinks are not
// followed when the filesystem supports it.
func (p Project) Exists(rel string) (bool, error) {
	_, err := p.Lstat(rel)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Lstat stats rel without following a final symlink when possible
func (p Project) Lstat(rel string) (os.FileInfo, error) {
	if lstater, ok := p.FS.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(Clean(rel))
		return info, err
	}
	return p.FS.Stat(Clean(rel))
}

// Readlink returns the raw target of the symlink at rel
func (p Project) Readlink(rel string) (string, error) {
	if reader, ok := p.FS.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(Clean(rel))
	}
	return "", &os.PathError{Op: "readlink", Path: rel, Err: afero.ErrNoReadlink}
}

// Symlink creates rel pointing at target. The target is written verbatim,
// so relative links keep resolving against their own directory.
func (p Project) Symlink(target, rel string) error {
	if _, ok := p.FS.(*afero.BasePathFs); ok {
		return os.Symlink(target, p.HostPath(rel))
	}
	if linker, ok := p.FS.(afero.Linker); ok {
		return linker.SymlinkIfPossible(target, Clean(rel))
	}
	return &os.LinkError{Op: "symlink", Old: target, New: rel, Err: afero.ErrNoSymlink}
}

// HostPath maps a project-relative path to its location on the host
func (p Project) HostPath(rel string) string {
	return filepath.Join(p.Root, Clean(rel))
}

// Clean turns a project-relative path into the rooted form the project
// filesystem expects. It does not check for escapes, see Within.
func Clean(rel string) string {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "." {
		return string(filepath.Separator)
	}
	return string(filepath.Separator) + strings.TrimPrefix(cleaned, string(filepath.Separator))
}

// Within checks that rel stays inside the project root
func Within(rel string) error {
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return errors.Newf(errors.ErrInvalidInput, "path %s must be relative to the project root", rel).
			WithDetail("path", rel)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.Newf(errors.ErrInvalidInput, "path %s escapes the project root", rel).
			WithDetail("path", rel)
	}
	return nil
}
