package hatch

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Finish projects generated from the ComfyUI extension template"
	MsgValidateShort   = "Check template answers before generation"
	MsgComposeShort    = "Compose the selected frontend into a generated project"
	MsgVariantsShort   = "List the configured frontend variants"
	MsgGenConfigShort  = "Print the effective settings as TOML"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgConfigWritten = "Wrote %s"
	MsgDryRunNotice  = "dry run: nothing was changed"

	// Error messages
	MsgErrNoCommand    = "no command specified"
	MsgErrConfigExists = "%s already exists (use --force to overwrite)"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Show what would happen without changing anything"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagConfig   = "Settings file (.toml, .yaml or .yml) applied over hatch.toml"
	MsgFlagContext  = "Template answers file (.toml, .yaml or .yml)"
	MsgFlagSet      = "Set a template answer as key=value (repeatable)"
	MsgFlagVariant  = "Frontend variant, shorthand for --set <variant key>=<name>"
	MsgFlagCacheDir = "Template cache root holding the template checkout"
	MsgFlagSkipVCS  = "Do not initialise a repository"
	MsgFlagWrite    = "Write hatch.toml in the current directory instead of printing"
	MsgFlagForce    = "Overwrite an existing hatch.toml"
	MsgFlagDefaults = "Print the built-in defaults, with comments, instead of the effective settings"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/validate-long.txt
	msgValidateLongRaw string
	MsgValidateLong    = strings.TrimSpace(msgValidateLongRaw)

	//go:embed msgs/validate-example.txt
	msgValidateExampleRaw string
	MsgValidateExample    = strings.TrimRight(msgValidateExampleRaw, "\n")

	//go:embed msgs/compose-long.txt
	msgComposeLongRaw string
	MsgComposeLong    = strings.TrimSpace(msgComposeLongRaw)

	//go:embed msgs/compose-example.txt
	msgComposeExampleRaw string
	MsgComposeExample    = strings.TrimRight(msgComposeExampleRaw, "\n")

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
