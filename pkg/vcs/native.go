package vcs

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
)

// Native implements Backend with go-git
type Native struct {
	// Timeout bounds submodule updates, the only networked operation
	Timeout time.Duration
	logger  zerolog.Logger
}

// NewNative creates a go-git backend
func NewNative(timeout time.Duration) *Native {
	return &Native{
		Timeout: timeout,
		logger:  logging.GetLogger("vcs.native"),
	}
}

// Name implements Backend
func (n *Native) Name() string { return "native" }

// Init implements Backend. Initializing an existing repository is a no-op,
// as with git init.
func (n *Native) Init(ctx context.Context, dir string) error {
	_, err := git.PlainInit(dir, false)
	if stderrors.Is(err, git.ErrRepositoryAlreadyExists) {
		n.logger.Debug().Str("dir", dir).Msg("Repository already exists")
		return nil
	}
	if err != nil {
		return commandError(err, "init", dir)
	}
	n.logger.Debug().Str("dir", dir).Msg("Repository initialized")
	return nil
}

// RenameBranch points HEAD at branch, moving the current branch ref when it
// already has commits.
func (n *Native) RenameBranch(ctx context.Context, dir, branch string) error {
	repo, err := n.open(dir, "branch")
	if err != nil {
		return err
	}

	target := plumbing.NewBranchReferenceName(branch)
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return commandError(err, "branch", dir)
	}

	if head.Type() == plumbing.SymbolicReference && head.Target() != target {
		current, err := repo.Storer.Reference(head.Target())
		switch {
		case err == nil:
			if err := repo.Storer.SetReference(plumbing.NewHashReference(target, current.Hash())); err != nil {
				return commandError(err, "branch", dir)
			}
			if err := repo.Storer.RemoveReference(head.Target()); err != nil {
				return commandError(err, "branch", dir)
			}
		case stderrors.Is(err, plumbing.ErrReferenceNotFound):
			// unborn branch, only HEAD needs to move
		default:
			return commandError(err, "branch", dir)
		}
	}

	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, target)); err != nil {
		return commandError(err, "branch", dir)
	}
	n.logger.Debug().Str("dir", dir).Str("branch", branch).Msg("HEAD moved")
	return nil
}

// AddRemote implements Backend
func (n *Native) AddRemote(ctx context.Context, dir, name, url string) error {
	repo, err := n.open(dir, "remote")
	if err != nil {
		return err
	}
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		return commandError(err, "remote", dir).WithDetail("remote", name)
	}
	n.logger.Debug().Str("dir", dir).Str("remote", name).Str("url", url).Msg("Remote added")
	return nil
}

// SubmoduleInit implements Backend
func (n *Native) SubmoduleInit(ctx context.Context, dir string) error {
	subs, err := n.submodules(dir, "submodule init")
	if err != nil {
		return err
	}
	if err := subs.Init(); err != nil {
		return commandError(err, "submodule init", dir)
	}
	n.logger.Debug().Str("dir", dir).Int("count", len(subs)).Msg("Submodules initialized")
	return nil
}

// SubmoduleUpdate implements Backend
func (n *Native) SubmoduleUpdate(ctx context.Context, dir string, recursive bool) error {
	subs, err := n.submodules(dir, "submodule update")
	if err != nil {
		return err
	}

	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	depth := git.NoRecurseSubmodules
	if recursive {
		depth = git.DefaultSubmoduleRecursionDepth
	}
	err = subs.UpdateContext(ctx, &git.SubmoduleUpdateOptions{
		Init:              true,
		RecurseSubmodules: depth,
	})
	if err != nil {
		return commandError(err, "submodule update", dir)
	}
	n.logger.Debug().Str("dir", dir).Int("count", len(subs)).Msg("Submodules updated")
	return nil
}

func (n *Native) open(dir, command string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, commandError(err, command, dir)
	}
	return repo, nil
}

func (n *Native) submodules(dir, command string) (git.Submodules, error) {
	repo, err := n.open(dir, command)
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, commandError(err, command, dir)
	}
	subs, err := wt.Submodules()
	if err != nil {
		return nil, commandError(err, command, dir)
	}
	return subs, nil
}

func commandError(err error, command, dir string) *errors.HatchError {
	return errors.Wrapf(err, errors.ErrVCSCommand, "%s failed", command).
		WithDetail("command", command).
		WithDetail("path", dir)
}
