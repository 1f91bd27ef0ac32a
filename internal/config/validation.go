package config

import (
	"fmt"

	"github.com/tacogips/regen/internal/template/format"
	"github.com/tacogips/regen/internal/template/iteration"
	"github.com/tacogips/regen/internal/template/manual"
	"github.com/tacogips/regen/internal/template/render"
)

// Validate checks a loaded configuration. The first problem found is returned
// as a *ConfigError of type ConfigValidationFailed.
func Validate(cfg *Config) error {
	if cfg == nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "", "configuration cannot be nil")
	}

	if err := validateTemplates(cfg); err != nil {
		return err
	}
	if err := validateManualSections(cfg); err != nil {
		return err
	}
	if err := validateExtraData(cfg); err != nil {
		return err
	}
	return validateFormat(cfg)
}

func validateTemplates(cfg *Config) error {
	if len(cfg.Templates) == 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, "templates",
			"at least one template set is required")
	}

	for i, set := range cfg.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		if set.Folder == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".folder",
				"template folder is required")
		}
		if set.Iterate != "" {
			if _, err := iteration.Parse(set.Iterate); err != nil {
				e := NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".iterate",
					"invalid iteration expression")
				e.Cause = err
				return e
			}
		}
	}
	return nil
}

func validateManualSections(cfg *Config) error {
	if _, err := manual.NewMerger(cfg.MergerConfig()); err != nil {
		e := NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, "manual_sections",
			"invalid manual section markers")
		e.Cause = err
		return e
	}
	return nil
}

func validateExtraData(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.ExtraData))
	for i, extra := range cfg.ExtraData {
		field := fmt.Sprintf("extra_data[%d]", i)
		if !render.IsIdentifier(extra.Key) {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".key",
				fmt.Sprintf("key %q must contain only letters, digits, and underscores", extra.Key))
		}
		if seen[extra.Key] {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".key",
				fmt.Sprintf("duplicate extra data key %q", extra.Key))
		}
		seen[extra.Key] = true
		if extra.Path == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".path",
				"extra data path is required")
		}
	}
	return nil
}

func validateFormat(cfg *Config) error {
	if cfg.Format.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, "format.timeout",
			"timeout cannot be negative")
	}

	for pattern, f := range cfg.Format.Formatters {
		field := fmt.Sprintf("format.formatters[%s]", pattern)
		if pattern == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field,
				"formatter pattern cannot be empty")
		}
		if !f.IsEnabled() {
			continue
		}
		if f.Type != format.CommandType {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".type",
				fmt.Sprintf("unsupported formatter type %q (expected %q)", f.Type, format.CommandType))
		}
		if f.Command == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, cfg.Path, field+".command",
				"formatter command is required")
		}
	}
	return nil
}
