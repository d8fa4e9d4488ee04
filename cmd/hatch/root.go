// Package hatch holds the hatch command tree.
package hatch

import (
	"io"
	"os"

	"github.com/arthur-debert/hatch/internal/version"
	"github.com/arthur-debert/hatch/pkg/config"
	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/arthur-debert/hatch/pkg/logging"
	"github.com/arthur-debert/hatch/pkg/paths"
	"github.com/arthur-debert/hatch/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity   int
	dryRun      bool
	format      string
	configFile  string
	contextFile string
	variant     string
	sets        []string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "hatch",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.SetVersionTemplate("hatch {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.BoolVar(&opts.dryRun, "dry-run", false, MsgFlagDryRun)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&opts.contextFile, "context", "", MsgFlagContext)
	flags.StringArrayVar(&opts.sets, "set", nil, MsgFlagSet)
	flags.StringVar(&opts.variant, "variant", "", MsgFlagVariant)
	_ = rootCmd.RegisterFlagCompletionFunc("variant", variantCompletion(opts))
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "config", Title: "CONFIGURATION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newComposeCmd(opts))
	rootCmd.AddCommand(newVariantsCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// loadSettings reads the settings that apply to projectRoot
func (o *globalOptions) loadSettings(projectRoot string) (*config.Settings, error) {
	return config.LoadSettings(config.LoadOptions{
		ProjectRoot: projectRoot,
		UserConfig:  paths.UserConfigPath(),
		File:        o.configFile,
	})
}

// loadContext gathers the template answers. --variant is applied as the
// last --set so it wins over every other source.
func (o *globalOptions) loadContext(s *config.Settings) (config.Context, error) {
	sets := append([]string(nil), o.sets...)
	if o.variant != "" {
		sets = append(sets, s.Keys.Variant+"="+o.variant)
	}

	dotEnv := ""
	if cwd, err := os.Getwd(); err == nil {
		dotEnv = paths.DotEnvPath(cwd)
	}

	return config.LoadContext(config.ContextOptions{
		Defaults: s.Context,
		File:     o.contextFile,
		DotEnv:   dotEnv,
		Sets:     sets,
	})
}

func (o *globalOptions) renderer(w io.Writer) (ui.Renderer, error) {
	format, err := ui.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, w)
}

// RenderError prints err to the command's error stream in the format the
// user selected, falling back to plain text when the flag is unusable.
func RenderError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()

	name, _ := cmd.PersistentFlags().GetString("format")
	format, perr := ui.ParseFormat(name)
	if perr != nil {
		format = ui.FormatText
	}
	r, rerr := ui.NewRenderer(format, w)
	if rerr != nil {
		r, _ = ui.NewRenderer(ui.FormatText, w)
	}
	_ = r.RenderError(err)
}

// variantCompletion completes variant names from the effective settings
func variantCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		s, err := opts.loadSettings(cwd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return s.VariantNames(), cobra.ShellCompDirectiveNoFileComp
	}
}
