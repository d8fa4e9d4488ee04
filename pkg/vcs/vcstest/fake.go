// Package vcstest provides a recording vcs.Backend for tests.
package vcstest

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake records every call and fails the operations listed in FailOn
type Fake struct {
	mu    sync.Mutex
	calls []string
	// FailOn maps an operation name (init, branch, remote, submodule-init,
	// submodule-update) to the error it returns
	FailOn map[string]error
}

// NewFake returns a fake that succeeds everywhere
func NewFake() *Fake {
	return &Fake{FailOn: map[string]error{}}
}

// Calls returns the recorded calls, formatted "op arg..."
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Ops returns just the operation names, in call order
func (f *Fake) Ops() []string {
	var ops []string
	for _, call := range f.Calls() {
		ops = append(ops, strings.Fields(call)[0])
	}
	return ops
}

func (f *Fake) record(op string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, strings.TrimSpace(op+" "+strings.Join(args, " ")))
	return f.FailOn[op]
}

// Name implements vcs.Backend
func (f *Fake) Name() string { return "fake" }

// Init implements vcs.Backend
func (f *Fake) Init(_ context.Context, dir string) error {
	return f.record("init", dir)
}

// RenameBranch implements vcs.Backend
func (f *Fake) RenameBranch(_ context.Context, dir, branch string) error {
	return f.record("branch", dir, branch)
}

// AddRemote implements vcs.Backend
func (f *Fake) AddRemote(_ context.Context, dir, name, url string) error {
	return f.record("remote", dir, name, url)
}

// SubmoduleInit implements vcs.Backend
func (f *Fake) SubmoduleInit(_ context.Context, dir string) error {
	return f.record("submodule-init", dir)
}

// SubmoduleUpdate implements vcs.Backend
func (f *Fake) SubmoduleUpdate(_ context.Context, dir string, recursive bool) error {
	return f.record("submodule-update", dir, fmt.Sprintf("recursive=%t", recursive))
}
