package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. REGEN_DRY_RUN=true.
const EnvPrefix = "REGEN"

// Setting keys. They double as command-line flag names.
const (
	KeyConfig          = "config"
	KeyData            = "data"
	KeyOutput          = "output"
	KeyDryRun          = "dry-run"
	KeyDiff            = "diff"
	KeyInclude         = "include"
	KeyExclude         = "exclude"
	KeyLogLevel        = "log-level"
	KeyDebug           = "debug"
	KeyNoColor         = "no-color"
	KeyQuiet           = "quiet"
	KeyFormatTimeout   = "format-timeout"
	KeyContinueOnError = "continue-on-error"
)

// Settings are the runtime options of one regen invocation.
type Settings struct {
	ConfigPath string
	DataPath   string
	// OutputDir overrides the output base directory when set.
	OutputDir string

	DryRun  bool
	Diff    bool
	Include []string
	Exclude []string

	LogLevel string
	Debug    bool
	NoColor  bool
	Quiet    bool

	// FormatTimeout overrides format.timeout when positive.
	FormatTimeout   time.Duration
	ContinueOnError bool
}

// LoadSettings resolves Settings from flags, with REGEN_* environment
// variables overriding flag defaults. Explicitly set flags win over the
// environment.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, DefaultConfigFile)
	v.SetDefault(KeyLogLevel, "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	s := &Settings{
		ConfigPath:      v.GetString(KeyConfig),
		DataPath:        v.GetString(KeyData),
		OutputDir:       v.GetString(KeyOutput),
		DryRun:          v.GetBool(KeyDryRun),
		Diff:            v.GetBool(KeyDiff),
		Include:         v.GetStringSlice(KeyInclude),
		Exclude:         v.GetStringSlice(KeyExclude),
		LogLevel:        v.GetString(KeyLogLevel),
		Debug:           v.GetBool(KeyDebug),
		NoColor:         v.GetBool(KeyNoColor),
		Quiet:           v.GetBool(KeyQuiet),
		FormatTimeout:   v.GetDuration(KeyFormatTimeout),
		ContinueOnError: v.GetBool(KeyContinueOnError),
	}

	if s.Debug {
		s.LogLevel = "debug"
	}
	if s.FormatTimeout < 0 {
		return nil, fmt.Errorf("%s cannot be negative: %s", KeyFormatTimeout, s.FormatTimeout)
	}
	return s, nil
}
