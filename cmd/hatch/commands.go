package hatch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/filesystem"
	"github.com/arthur-debert/hatch/pkg/paths"
	"github.com/arthur-debert/hatch/pkg/pipeline"
	"github.com/arthur-debert/hatch/pkg/vcs"
	"github.com/spf13/cobra"
)

// newBackend lets tests swap the repository backend used by validate and
// compose. nil means the backend configured in the settings.
var newBackend func(s *config.Settings) (vcs.Backend, error)

func backendFor(s *config.Settings) (vcs.Backend, error) {
	if newBackend == nil {
		return nil, nil
	}
	return newBackend(s)
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:     "validate",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		Example: MsgValidateExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrFileNotFound, "failed to get current directory")
			}
			s, err := opts.loadSettings(cwd)
			if err != nil {
				return err
			}
			c, err := opts.loadContext(s)
			if err != nil {
				return err
			}
			backend, err := backendFor(s)
			if err != nil {
				return err
			}

			report, runErr := pipeline.Prepare(cmd.Context(), pipeline.PrepareOptions{
				Settings:  s,
				Context:   c,
				Backend:   backend,
				CacheRoot: cacheDir,
				DryRun:    opts.dryRun,
			})
			if report != nil {
				if err := r.RenderReport(report); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", MsgFlagCacheDir)
	return cmd
}

func newComposeCmd(opts *globalOptions) *cobra.Command {
	var skipVCS bool

	cmd := &cobra.Command{
		Use:     "compose [root]",
		Short:   MsgComposeShort,
		Long:    MsgComposeLong,
		Example: MsgComposeExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			root, err := paths.ProjectRoot(arg)
			if err != nil {
				return err
			}

			s, err := opts.loadSettings(root)
			if err != nil {
				return err
			}
			c, err := opts.loadContext(s)
			if err != nil {
				return err
			}
			backend, err := backendFor(s)
			if err != nil {
				return err
			}

			report, runErr := pipeline.Compose(cmd.Context(), pipeline.ComposeOptions{
				Project:  filesystem.NewProject(root),
				Settings: s,
				Context:  c,
				Backend:  backend,
				DryRun:   opts.dryRun,
				SkipVCS:  skipVCS,
			})
			if report != nil {
				if err := r.RenderReport(report); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&skipVCS, "skip-vcs", false, MsgFlagSkipVCS)
	return cmd
}

func newVariantsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "variants",
		Short:   MsgVariantsShort,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrFileNotFound, "failed to get current directory")
			}
			s, err := opts.loadSettings(cwd)
			if err != nil {
				return err
			}
			summaries, err := pipeline.Variants(s)
			if err != nil {
				return err
			}
			return r.RenderVariants(summaries)
		},
	}
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var write, force, defaults bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "config",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, errors.ErrFileNotFound, "failed to get current directory")
			}
			s, err := opts.loadSettings(cwd)
			if err != nil {
				return err
			}
			content := config.GetDefaultsContent()
			if !defaults {
				content, err = config.GenerateConfigContent(s)
				if err != nil {
					return err
				}
			}

			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			target := filepath.Join(cwd, config.ProjectConfigFiles[0])
			if _, err := os.Stat(target); err == nil && !force {
				return errors.Newf(errors.ErrInvalidInput, MsgErrConfigExists, target).
					WithDetail("path", target)
			}
			if opts.dryRun {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
				return err
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "failed to write %s", target).
					WithDetail("path", target)
			}

			r, err := opts.renderer(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return r.RenderMessage(fmt.Sprintf(MsgConfigWritten, target))
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}
