package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("regen", pflag.ContinueOnError)
	fs.StringP(KeyConfig, "c", DefaultConfigFile, "")
	fs.StringP(KeyData, "d", "", "")
	fs.StringP(KeyOutput, "o", "", "")
	fs.Bool(KeyDryRun, false, "")
	fs.Bool(KeyDiff, false, "")
	fs.StringSlice(KeyInclude, nil, "")
	fs.StringSlice(KeyExclude, nil, "")
	fs.String(KeyLogLevel, "info", "")
	fs.Bool(KeyDebug, false, "")
	fs.Bool(KeyNoColor, false, "")
	fs.BoolP(KeyQuiet, "q", false, "")
	fs.Duration(KeyFormatTimeout, 0, "")
	fs.Bool(KeyContinueOnError, false, "")
	return fs
}

func TestLoadSettings_Flags(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"-c", "proj/config.yaml", "-d", "data.yaml", "-o", "out",
		"--dry-run", "--diff", "--include", "api*,regex:^web", "--exclude", "legacy",
		"--format-timeout", "2s", "--continue-on-error",
	}))

	s, err := LoadSettings(fs)
	require.NoError(t, err)

	assert.Equal(t, "proj/config.yaml", s.ConfigPath)
	assert.Equal(t, "data.yaml", s.DataPath)
	assert.Equal(t, "out", s.OutputDir)
	assert.True(t, s.DryRun)
	assert.True(t, s.Diff)
	assert.Equal(t, []string{"api*", "regex:^web"}, s.Include)
	assert.Equal(t, []string{"legacy"}, s.Exclude)
	assert.Equal(t, 2*time.Second, s.FormatTimeout)
	assert.True(t, s.ContinueOnError)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadSettings_Defaults(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	s, err := LoadSettings(fs)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigFile, s.ConfigPath)
	assert.False(t, s.DryRun)
	assert.Empty(t, s.Include)
	assert.Equal(t, "info", s.LogLevel)
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("REGEN_DRY_RUN", "true")
	t.Setenv("REGEN_DATA", "env-data.json")
	t.Setenv("REGEN_FORMAT_TIMEOUT", "45s")
	t.Setenv("REGEN_OUTPUT", "env-out")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"-o", "flag-out"}))

	s, err := LoadSettings(fs)
	require.NoError(t, err)

	assert.True(t, s.DryRun)
	assert.Equal(t, "env-data.json", s.DataPath)
	assert.Equal(t, 45*time.Second, s.FormatTimeout)
	// An explicitly set flag wins over the environment.
	assert.Equal(t, "flag-out", s.OutputDir)
}

func TestLoadSettings_DebugRaisesLevel(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--debug"}))

	s, err := LoadSettings(fs)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettings_NegativeTimeout(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--format-timeout", "-1s"}))

	_, err := LoadSettings(fs)
	assert.Error(t, err)
}

func TestLoadSettings_NilFlags(t *testing.T) {
	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFile, s.ConfigPath)
}
