// Package filesystem provides the root-anchored filesystem every hatch
// component works against.
//
// A Project pairs the absolute project root with an afero.Fs whose paths are
// relative to that root. Production code uses an afero.BasePathFs over the
// OS filesystem; tests use afero.NewMemMapFs.
package filesystem
