package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/hatch/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigFile points at an explicit settings file
	EnvConfigFile = "HATCH_CONFIG"

	// EnvTemplateCache overrides the template cache root
	EnvTemplateCache = "HATCH_TEMPLATE_CACHE"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name used under the XDG roots
	AppDirName = "hatch"

	// UserConfigFileName is the per-user settings file under the XDG config root
	UserConfigFileName = "config.toml"

	// DefaultCacheDirName is where templating engines keep template checkouts,
	// relative to the user's home
	DefaultCacheDirName = ".cookiecutters"

	// DotEnvFile is read from the working directory for context values
	DotEnvFile = ".env"
)

// UserConfigPath returns the per-user settings file. HATCH_CONFIG wins
// over $XDG_CONFIG_HOME/hatch/config.toml.
func UserConfigPath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return expandHome(p)
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppDirName, UserConfigFileName)
}

// TemplateCacheRoot returns the per-user template cache root. The
// configured value wins, then HATCH_TEMPLATE_CACHE, then ~/.cookiecutters.
func TemplateCacheRoot(configured string) string {
	if configured != "" {
		return expandHome(configured)
	}
	if env := os.Getenv(EnvTemplateCache); env != "" {
		return expandHome(env)
	}
	xdg.Reload()
	return filepath.Join(xdg.Home, DefaultCacheDirName)
}

// TemplateCheckout returns the local checkout directory of a template
func TemplateCheckout(cacheRoot, templateName string) string {
	return filepath.Join(cacheRoot, templateName)
}

// ProjectRoot resolves the generated project root. An empty argument means
// the current working directory. The result is absolute and must be an
// existing directory.
func ProjectRoot(arg string) (string, error) {
	root := arg
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrFileNotFound, "failed to get current directory")
		}
		root = cwd
	}

	abs, err := filepath.Abs(expandHome(root))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve project root %s", root)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileNotFound, "project root %s does not exist", abs).
			WithDetail("path", abs)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrInvalidInput, "project root %s is not a directory", abs).
			WithDetail("path", abs)
	}
	return abs, nil
}

// DotEnvPath returns the .env file consulted in dir
func DotEnvPath(dir string) string {
	return filepath.Join(dir, DotEnvFile)
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user forms are left alone
	return path
}
