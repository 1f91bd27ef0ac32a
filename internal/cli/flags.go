package cli

import (
	"github.com/spf13/cobra"

	"github.com/tacogips/regen/internal/config"
)

// Flag names shared with config.Settings keys.
const (
	FlagConfig          = config.KeyConfig
	FlagData            = config.KeyData
	FlagOutput          = config.KeyOutput
	FlagDryRun          = config.KeyDryRun
	FlagDiff            = config.KeyDiff
	FlagInclude         = config.KeyInclude
	FlagExclude         = config.KeyExclude
	FlagLogLevel        = config.KeyLogLevel
	FlagDebug           = config.KeyDebug
	FlagNoColor         = config.KeyNoColor
	FlagQuiet           = config.KeyQuiet
	FlagFormatTimeout   = config.KeyFormatTimeout
	FlagContinueOnError = config.KeyContinueOnError
	FlagForce           = "force"
)

// Flag descriptions
const (
	DescConfig          = "Path to the project configuration file"
	DescData            = "Path to the JSON or YAML data file"
	DescOutput          = "Output base directory (defaults to the configuration file's directory)"
	DescDryRun          = "Show what would be generated without writing files"
	DescDiff            = "Show a unified diff for every file that would change"
	DescInclude         = "Only generate template sets matching these patterns (glob or regex:<expr>)"
	DescExclude         = "Skip template sets matching these patterns (glob or regex:<expr>)"
	DescLogLevel        = "Log level (debug, info, warn, error)"
	DescDebug           = "Enable debug logging"
	DescNoColor         = "Disable colored output"
	DescQuiet           = "Suppress non-error output"
	DescFormatTimeout   = "Timeout for each formatter command (overrides format.timeout)"
	DescContinueOnError = "Keep generating past file errors and report them at the end"
	DescForce           = "Overwrite existing files without asking"
)

// addGlobalFlags registers the flags every command understands.
func addGlobalFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String(FlagLogLevel, "info", DescLogLevel)
	f.Bool(FlagDebug, false, DescDebug)
	f.Bool(FlagNoColor, false, DescNoColor)
	f.BoolP(FlagQuiet, "q", false, DescQuiet)
}

// addGenerateFlags registers the generation flags on cmd and its subcommands.
func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringP(FlagConfig, "c", config.DefaultConfigFile, DescConfig)
	f.StringP(FlagData, "d", "", DescData)
	f.StringP(FlagOutput, "o", "", DescOutput)
	f.Bool(FlagDryRun, false, DescDryRun)
	f.Bool(FlagDiff, false, DescDiff)
	f.StringSlice(FlagInclude, nil, DescInclude)
	f.StringSlice(FlagExclude, nil, DescExclude)
	f.Duration(FlagFormatTimeout, 0, DescFormatTimeout)
	f.Bool(FlagContinueOnError, false, DescContinueOnError)
}
