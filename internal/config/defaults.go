package config

import (
	"time"

	"github.com/tacogips/regen/internal/template/format"
	"github.com/tacogips/regen/internal/template/generator"
	"github.com/tacogips/regen/internal/template/manual"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = "config.yaml"

// DefaultConfig returns the default configuration: no template sets, default
// markers, formatting disabled.
func DefaultConfig() *Config {
	flatten := true
	preserve := true
	return &Config{
		Globals:        map[string]any{},
		FlattenData:    &flatten,
		IgnorePatterns: DefaultIgnorePatterns(),
		ManualSections: ManualSectionConfig{
			StartMarker: manual.DefaultStartMarker,
			EndMarker:   manual.DefaultEndMarker,
			IDPattern:   manual.DefaultIDPattern,
		},
		Format: FormatConfig{
			Timeout:    format.DefaultTimeout,
			Formatters: map[string]FormatterConfig{},
			Defaults: FormatDefaults{
				PreserveManualSections: &preserve,
			},
		},
	}
}

// DefaultIgnorePatterns returns the default template ignore patterns.
func DefaultIgnorePatterns() []string {
	return generator.DefaultIgnorePatterns()
}

// mergeConfig fills missing fields of cfg from defaults.
func mergeConfig(cfg, defaults *Config) {
	if cfg.Globals == nil {
		cfg.Globals = defaults.Globals
	}
	if cfg.FlattenData == nil {
		cfg.FlattenData = defaults.FlattenData
	}
	if cfg.IgnorePatterns == nil {
		cfg.IgnorePatterns = defaults.IgnorePatterns
	}

	if cfg.ManualSections.StartMarker == "" {
		cfg.ManualSections.StartMarker = defaults.ManualSections.StartMarker
	}
	if cfg.ManualSections.EndMarker == "" {
		cfg.ManualSections.EndMarker = defaults.ManualSections.EndMarker
	}
	if cfg.ManualSections.IDPattern == "" {
		cfg.ManualSections.IDPattern = defaults.ManualSections.IDPattern
	}

	if cfg.Format.Timeout == 0 {
		cfg.Format.Timeout = defaults.Format.Timeout
	}
	if cfg.Format.Formatters == nil {
		cfg.Format.Formatters = defaults.Format.Formatters
	}
	if cfg.Format.Defaults.PreserveManualSections == nil {
		cfg.Format.Defaults.PreserveManualSections = defaults.Format.Defaults.PreserveManualSections
	}
}

// MergerConfig converts the marker settings for the manual-section merger.
func (c *Config) MergerConfig() manual.Config {
	return manual.Config{
		StartMarker: c.ManualSections.StartMarker,
		EndMarker:   c.ManualSections.EndMarker,
		IDPattern:   c.ManualSections.IDPattern,
	}
}

// PostProcessConfig converts the format settings for the post-processing pipeline.
// A positive timeout overrides the configured one.
func (c *Config) PostProcessConfig(timeout time.Duration) format.Config {
	fc := format.Config{
		Enabled:                c.Format.Enabled,
		Formatters:             make(map[string]format.FormatterConfig, len(c.Format.Formatters)),
		IgnorePatterns:         c.Format.Defaults.IgnorePatterns,
		PreserveManualSections: c.Format.Defaults.PreserveManualSections == nil || *c.Format.Defaults.PreserveManualSections,
		Timeout:                c.Format.Timeout,
	}
	if timeout > 0 {
		fc.Timeout = timeout
	}
	for pattern, f := range c.Format.Formatters {
		fc.Formatters[pattern] = format.FormatterConfig{
			Type:    f.Type,
			Command: f.Command,
			Args:    f.Args,
			Enabled: f.IsEnabled(),
		}
	}
	return fc
}
