// Package config handles configuration management for hatch.
//
// Two kinds of configuration are loaded here:
//
//   - Settings describe how the pipeline behaves: staging directory names,
//     the variant table, rewrite rules, cleanup targets and VCS options.
//     They come from the embedded defaults.toml, an optional hatch.toml in
//     the project root, the user config file and HATCH_ environment
//     variables, in that order of precedence.
//   - Context is the immutable set of answers produced by the templating
//     step (project name, slug, license, frontend variant ...). It is read
//     from a TOML or YAML file, HATCH_CTX_ variables and --set flags.
package config
