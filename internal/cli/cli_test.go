package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/regen/internal/template/generator"
)

// execute runs a fresh root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// initProject scaffolds a project in a temp dir and returns its directory.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, _, err := execute(t, "init", dir, "--no-color")
	require.NoError(t, err)
	return dir
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, currentVersion().Version+"\n", out)

	out, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.NotEmpty(t, info.GoVersion)

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "regen version ")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "init", dir, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ created config.yaml")
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
	assert.FileExists(t, filepath.Join(dir, "data.json"))

	// No terminal to confirm on, so existing files need --force.
	_, errOut, err := execute(t, "init", dir, "--no-color")
	assert.Error(t, err)
	assert.Contains(t, errOut, "--force")

	_, _, err = execute(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestGenerate(t *testing.T) {
	dir := initProject(t)
	cfg := filepath.Join(dir, "config.yaml")
	data := filepath.Join(dir, "data.json")

	for _, args := range [][]string{
		{"-c", cfg, "-d", data, "--no-color"},
		{"generate", "-c", cfg, "-d", data, "--no-color"},
	} {
		out, _, err := execute(t, args...)
		require.NoError(t, err, args)
		assert.Contains(t, out, "✓ Generated 2 file(s) (2 written)")
	}

	content, err := os.ReadFile(filepath.Join(dir, "output", "item1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Value: 100")
}

func TestGenerate_DryRunDiff(t *testing.T) {
	dir := initProject(t)

	out, _, err := execute(t,
		"-c", filepath.Join(dir, "config.yaml"),
		"-d", filepath.Join(dir, "data.json"),
		"--dry-run", "--diff", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "=== Dry run ===")
	assert.Contains(t, out, "would create "+filepath.Join(dir, "output")+"/")
	assert.Contains(t, out, "would write "+filepath.Join(dir, "output", "item1.md"))
	assert.Contains(t, out, "+# item1")
	assert.Contains(t, out, "Dry run complete: 2 file(s) (2 planned)")
	assert.NoDirExists(t, filepath.Join(dir, "output"))
}

func TestGenerate_EnvOverride(t *testing.T) {
	dir := initProject(t)
	t.Setenv("REGEN_DRY_RUN", "true")
	t.Setenv("REGEN_DATA", filepath.Join(dir, "data.json"))

	_, _, err := execute(t, "-c", filepath.Join(dir, "config.yaml"), "--quiet")
	require.NoError(t, err)
	assert.NoDirExists(t, filepath.Join(dir, "output"))
}

func TestGenerate_Filtered(t *testing.T) {
	dir := initProject(t)

	out, _, err := execute(t,
		"-c", filepath.Join(dir, "config.yaml"),
		"-d", filepath.Join(dir, "data.json"),
		"--exclude", "Exam*", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped Example (filtered)")
	assert.Contains(t, out, "Generated 0 file(s)")
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "missing config",
			args: []string{"-c", filepath.Join(t.TempDir(), "nope.yaml")},
			want: "failed to load configuration",
		},
		{
			name: "bad log level",
			args: []string{"--log-level", "loud"},
			want: "invalid --log-level",
		},
		{
			name: "negative timeout",
			args: []string{"--format-timeout", "-1s"},
			want: "format-timeout cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(t, append(tt.args, "--no-color")...)
			require.Error(t, err)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestGenerate_UnknownCommand(t *testing.T) {
	_, _, err := execute(t, "frobnicate")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		res  *generator.Result
		want string
	}{
		{name: "empty", res: &generator.Result{}, want: "0 file(s)"},
		{
			name: "mixed",
			res: &generator.Result{Files: []generator.FileResult{
				{Outcome: generator.Wrote},
				{Outcome: generator.Wrote},
				{Outcome: generator.Copied},
				{Outcome: generator.Failed},
			}},
			want: "4 file(s) (1 copied, 1 failed, 2 written)",
		},
		{
			name: "dry run",
			res:  &generator.Result{Files: []generator.FileResult{{Outcome: generator.DryRunSkipped}}},
			want: "1 file(s) (1 planned)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.res))
		})
	}
}

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := newPrinter(&out, &errOut, false, false)
	assert.False(t, p.color, "a buffer is not a terminal")

	p.printDiff("--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n")
	assert.Equal(t, "--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n", out.String())

	out.Reset()
	quiet := newPrinter(&out, &errOut, true, true)
	quiet.printInfo("hidden")
	quiet.printSuccess("hidden")
	quiet.printError("shown")
	assert.Empty(t, out.String())
	assert.Equal(t, "✗ shown\n", errOut.String())
}

func TestOverwriteConfirmer(t *testing.T) {
	assert.Nil(t, overwriteConfirmer(false))
	assert.NotNil(t, overwriteConfirmer(true))
}
