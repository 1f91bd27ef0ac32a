// Package format runs external formatters over generated content without
// disturbing manual sections.
package format

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tacogips/regen/internal/template/manual"
)

// DefaultTimeout bounds a single formatter invocation.
const DefaultTimeout = 30 * time.Second

// CommandType is the only supported formatter type.
const CommandType = "command"

// FormatterConfig describes one formatter entry.
type FormatterConfig struct {
	Type    string
	Command string
	Args    []string
	Enabled bool
}

// Config controls the post-processing pass.
type Config struct {
	Enabled bool
	// Formatters is keyed by filename pattern: "*.ext", an exact name, or a suffix.
	Formatters map[string]FormatterConfig
	// IgnorePatterns skip formatting for files whose name contains the pattern
	// or ends with it after stripping leading '*'.
	IgnorePatterns         []string
	PreserveManualSections bool
	Timeout                time.Duration
}

// DefaultConfig returns a disabled configuration that preserves manual sections.
func DefaultConfig() Config {
	return Config{
		Formatters:             map[string]FormatterConfig{},
		PreserveManualSections: true,
		Timeout:                DefaultTimeout,
	}
}

// Options configures a Pipeline.
type Options struct {
	Config Config
	// Sections shields manual sections from the formatter. Defaults to the default markers.
	Sections *manual.Merger
	// Runner executes formatter commands. Defaults to NewCommandRunner().
	Runner Runner
	Logger *slog.Logger
}

// Pipeline formats content by filename. It never fails: any problem keeps the
// original content.
type Pipeline struct {
	cfg      Config
	sections *manual.Merger
	runner   Runner
	logger   *slog.Logger
	patterns []string
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.Sections == nil {
		opts.Sections = manual.MustNewMerger(manual.DefaultConfig())
	}
	if opts.Runner == nil {
		opts.Runner = NewCommandRunner()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Config.Timeout <= 0 {
		opts.Config.Timeout = DefaultTimeout
	}

	patterns := make([]string, 0, len(opts.Config.Formatters))
	for pattern := range opts.Config.Formatters {
		patterns = append(patterns, pattern)
	}
	// Most specific first, so "*.pb.go" wins over "*.go".
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})

	return &Pipeline{
		cfg:      opts.Config,
		sections: opts.Sections,
		runner:   opts.Runner,
		logger:   opts.Logger,
		patterns: patterns,
	}
}

// Process formats content destined for filename.
func (p *Pipeline) Process(ctx context.Context, content, filename string) string {
	if !p.cfg.Enabled {
		return content
	}
	if p.shouldIgnore(filename) {
		p.logger.Debug("formatting skipped by ignore pattern", "file", filename)
		return content
	}

	fc, pattern, ok := p.FormatterFor(filename)
	if !ok {
		return content
	}

	var blocks map[string]string
	if p.cfg.PreserveManualSections {
		blocks = p.sections.ExtractBlocks(content)
	}

	formatted, ok := p.run(ctx, content, fc, filename, pattern)
	if !ok {
		return content
	}

	if blocks != nil {
		formatted = p.sections.RestoreBlocks(formatted, blocks)
	}
	return formatted
}

// FormatterFor returns the enabled formatter whose pattern matches filename, and that pattern.
func (p *Pipeline) FormatterFor(filename string) (FormatterConfig, string, bool) {
	for _, pattern := range p.patterns {
		fc := p.cfg.Formatters[pattern]
		if !fc.Enabled {
			continue
		}
		if MatchesPattern(filename, pattern) {
			return fc, pattern, true
		}
	}
	return FormatterConfig{}, "", false
}

func (p *Pipeline) run(ctx context.Context, content string, fc FormatterConfig, filename, pattern string) (string, bool) {
	if fc.Type != CommandType {
		p.logger.Warn("unsupported formatter type", "type", fc.Type, "pattern", pattern)
		return "", false
	}
	if fc.Command == "" {
		p.logger.Warn("formatter has no command", "pattern", pattern)
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	p.logger.Debug("running formatter", "command", fc.Command, "args", fc.Args, "file", filename)
	out, err := p.runner.Run(ctx, fc.Command, fc.Args, content)
	if err != nil {
		p.logger.Error("formatter failed, keeping original content",
			"command", fc.Command, "file", filename, "error", err)
		return "", false
	}
	return out, true
}

func (p *Pipeline) shouldIgnore(filename string) bool {
	for _, pattern := range p.cfg.IgnorePatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(filename, pattern) || strings.HasSuffix(filename, strings.TrimLeft(pattern, "*")) {
			return true
		}
	}
	return false
}

// MatchesPattern reports whether filename matches a formatter key.
func MatchesPattern(filename, pattern string) bool {
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(filename, pattern[1:])
	}
	return filename == pattern || strings.HasSuffix(filename, pattern)
}
