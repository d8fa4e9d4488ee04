package vcs

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/rs/zerolog"
)

// CLI runs the git binary
type CLI struct {
	Binary string
	// Timeout bounds every command; zero means no limit
	Timeout time.Duration
	logger  zerolog.Logger
}

// NewCLI creates a backend that shells out to binary
func NewCLI(binary string, timeout time.Duration) *CLI {
	if binary == "" {
		binary = "git"
	}
	return &CLI{
		Binary:  binary,
		Timeout: timeout,
		logger:  logging.GetLogger("vcs.cli"),
	}
}

// Name implements Backend
func (c *CLI) Name() string { return "git" }

// Init implements Backend
func (c *CLI) Init(ctx context.Context, dir string) error {
	return c.run(ctx, dir, "init")
}

// RenameBranch implements Backend
func (c *CLI) RenameBranch(ctx context.Context, dir, branch string) error {
	return c.run(ctx, dir, "branch", "-M", branch)
}

// AddRemote implements Backend
func (c *CLI) AddRemote(ctx context.Context, dir, name, url string) error {
	return c.run(ctx, dir, "remote", "add", name, url)
}

// SubmoduleInit implements Backend
func (c *CLI) SubmoduleInit(ctx context.Context, dir string) error {
	return c.run(ctx, dir, "submodule", "init")
}

// SubmoduleUpdate implements Backend
func (c *CLI) SubmoduleUpdate(ctx context.Context, dir string, recursive bool) error {
	args := []string{"submodule", "update"}
	if recursive {
		args = append(args, "--recursive")
	}
	return c.run(ctx, dir, args...)
}

func (c *CLI) run(ctx context.Context, dir string, args ...string) error {
	command := c.Binary + " " + strings.Join(args, " ")

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrFileNotFound, "working directory does not exist: %s", dir).
			WithDetail("path", dir).
			WithDetail("command", command)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	logging.LogCommand(c.logger, c.Binary, args)

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if stdout.Len() > 0 {
		c.logger.Debug().Str("output", stdout.String()).Msg("Command stdout")
	}
	if stderr.Len() > 0 {
		c.logger.Debug().Str("output", stderr.String()).Msg("Command stderr")
	}

	if err == nil {
		c.logger.Debug().Str("command", command).Str("dir", dir).Msg("Command succeeded")
		return nil
	}

	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrVCSNotFound, "%s not found", c.Binary).
			WithDetail("command", command)
	}

	if ctx.Err() != nil {
		return errors.Wrapf(ctx.Err(), errors.ErrVCSCommand, "%s did not finish", command).
			WithDetail("command", command).
			WithDetail("path", dir)
	}

	hatchErr := errors.Wrapf(err, errors.ErrVCSCommand, "%s failed", command).
		WithDetail("command", command).
		WithDetail("path", dir)
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		hatchErr = hatchErr.WithDetail("stderr", msg)
		hatchErr.Message += ": " + firstLine(msg)
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		hatchErr = hatchErr.WithDetail("exit_code", exitErr.ExitCode())
	}
	return hatchErr
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
