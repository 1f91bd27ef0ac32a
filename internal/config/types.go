package config

import (
	"path/filepath"
	"time"
)

// Config is a regen project configuration file.
type Config struct {
	// Globals are exposed to templates as "globals".
	Globals map[string]any `yaml:"globals"`
	// Templates lists the template sets to generate.
	Templates []TemplateSet `yaml:"templates"`
	// FlattenData exposes each top-level data key directly. Defaults to true.
	FlattenData *bool `yaml:"flatten_data"`
	// IgnorePatterns skip template-tree entries (glob or "regex:" prefixed).
	IgnorePatterns []string `yaml:"ignore_patterns"`
	// ManualSections configures the manual-section markers.
	ManualSections ManualSectionConfig `yaml:"manual_sections"`
	// ExtraData lists additional data files exposed under their own keys.
	ExtraData []ExtraData `yaml:"extra_data"`
	// Format configures the post-processing formatters.
	Format FormatConfig `yaml:"format"`

	// Path is the file the configuration was loaded from.
	Path string `yaml:"-"`
}

// TemplateSet is one template folder rendered into one output directory.
type TemplateSet struct {
	Name string `yaml:"name"`
	// Folder is resolved relative to the configuration file.
	Folder string `yaml:"folder"`
	// Output is resolved relative to the output base directory.
	Output string `yaml:"output"`
	// Iterate is an iteration expression such as "svc in services if svc.enabled".
	Iterate string `yaml:"iterate"`
	Enabled *bool  `yaml:"enabled"`
}

// IsEnabled reports whether the set is enabled. Sets are enabled by default.
func (t TemplateSet) IsEnabled() bool {
	return t.Enabled == nil || *t.Enabled
}

// ManualSectionConfig configures manual-section markers.
type ManualSectionConfig struct {
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
	IDPattern   string `yaml:"id_pattern"`
}

// ExtraData is an additional data file.
type ExtraData struct {
	// Key is the context name the data is exposed under.
	Key string `yaml:"key"`
	// Path is resolved relative to the configuration file.
	Path     string `yaml:"path"`
	Required bool   `yaml:"required"`
}

// FormatConfig configures post-processing.
type FormatConfig struct {
	Enabled bool `yaml:"enabled"`
	// Timeout bounds each formatter call, e.g. "30s".
	Timeout time.Duration `yaml:"timeout"`
	// Formatters is keyed by filename pattern ("*.go", "Makefile").
	Formatters map[string]FormatterConfig `yaml:"formatters"`
	Defaults   FormatDefaults             `yaml:"defaults"`
}

// FormatterConfig is one formatter command.
type FormatterConfig struct {
	Type    string         `yaml:"type"`
	Command string         `yaml:"command"`
	Args    []string       `yaml:"args"`
	Options map[string]any `yaml:"options"`
	Enabled *bool          `yaml:"enabled"`
}

// IsEnabled reports whether the formatter is enabled. Formatters are enabled by default.
func (f FormatterConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// FormatDefaults holds settings shared by all formatters.
type FormatDefaults struct {
	IgnorePatterns         []string `yaml:"ignore_patterns"`
	PreserveManualSections *bool    `yaml:"preserve_manual_sections"`
}

// Flatten reports whether top-level data keys are exposed directly.
func (c *Config) Flatten() bool {
	return c.FlattenData == nil || *c.FlattenData
}

// Dir returns the directory relative paths in the configuration resolve against.
func (c *Config) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// Resolve returns p relative to the configuration directory unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}
