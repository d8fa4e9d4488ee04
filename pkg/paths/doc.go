// Package paths provides centralized path handling for hatch.
//
// It resolves:
//
//   - the generated project root every pipeline component works against
//   - the per-user settings file ($XDG_CONFIG_HOME/hatch/config.toml)
//   - the template cache root and a template's local checkout, where
//     submodules are initialized before generation
//
// # Environment Variables
//
//   - HATCH_CONFIG: explicit settings file
//   - HATCH_TEMPLATE_CACHE: template cache root (default: ~/.cookiecutters)
package paths
