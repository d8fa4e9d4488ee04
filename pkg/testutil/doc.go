// Package testutil provides fixture helpers shared by hatch tests.
//
// Trees are described inline as maps from slash-separated relative paths to
// file contents, written either to a real directory or to an afero
// filesystem, and read back the same way for comparison.
package testutil
