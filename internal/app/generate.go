package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/tacogips/regen/internal/config"
	"github.com/tacogips/regen/internal/logging"
	"github.com/tacogips/regen/internal/template/format"
	"github.com/tacogips/regen/internal/template/generator"
	"github.com/tacogips/regen/internal/template/inject"
	"github.com/tacogips/regen/internal/template/iteration"
	"github.com/tacogips/regen/internal/template/manual"
	"github.com/tacogips/regen/internal/template/render"
)

// GenerateOptions contains options for a generation run.
type GenerateOptions struct {
	// ConfigPath is the path to the project configuration file.
	ConfigPath string
	// DataPath is the JSON or YAML data file. Empty means no data.
	DataPath string
	// OutputDir overrides the output base directory. Defaults to the
	// configuration file's directory.
	OutputDir string
	// DryRun computes results without writing files.
	DryRun bool
	// Diff records unified diffs against prior content.
	Diff bool
	// Include and Exclude filter named template sets (glob or "regex:" patterns).
	Include []string
	Exclude []string
	// FormatTimeout overrides format.timeout when positive.
	FormatTimeout time.Duration
	// ContinueOnError keeps generating past file-scoped failures.
	ContinueOnError bool
	// Runner executes formatter commands. Defaults to running real processes.
	Runner format.Runner
	Logger *slog.Logger
}

// SetResult summarizes one template set.
type SetResult struct {
	Name   string
	Folder string
	Output string
	// Skipped is set when the set was disabled or filtered out.
	Skipped bool
	// Reason explains why the set was skipped.
	Reason string
	// Expansions is the number of iteration bindings rendered.
	Expansions int
}

// GenerateResult contains the results of a generation run.
type GenerateResult struct {
	// Sets lists every configured template set in order.
	Sets []SetResult
	// Result aggregates the file results of all sets.
	Result *generator.Result
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Generate renders every enabled template set of the configured project.
// The returned result is non-nil once configuration and data have loaded,
// including when a set fails.
func Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	loader := config.NewLoader()
	cfg, err := loader.Load(opts.ConfigPath)
	if err != nil {
		return nil, NewConfigLoadError("failed to load configuration", err)
	}
	if err := loader.Validate(cfg); err != nil {
		return nil, NewConfigLoadError("invalid configuration", err)
	}
	logger.Info("loaded configuration", "path", opts.ConfigPath, "template_sets", len(cfg.Templates))

	data, err := LoadData(opts.DataPath)
	if err != nil {
		return nil, NewDataLoadError("failed to load data", err)
	}
	if opts.DataPath != "" {
		logger.Info("loaded data", "path", opts.DataPath)
	}

	extra, err := LoadExtraData(cfg, logger)
	if err != nil {
		return nil, err
	}
	base := BaseContext(cfg, data, extra)

	sections, err := manual.NewMerger(cfg.MergerConfig())
	if err != nil {
		return nil, NewConfigLoadError("invalid manual section markers", err)
	}
	injector := inject.NewMerger(inject.Options{Logger: logger})
	post := format.New(format.Options{
		Config:   cfg.PostProcessConfig(opts.FormatTimeout),
		Sections: sections,
		Runner:   opts.Runner,
		Logger:   logger,
	})

	outputBase := opts.OutputDir
	if outputBase == "" {
		outputBase = cfg.Dir()
	}

	if opts.DryRun {
		logger.Info("dry run: no files will be written")
	}

	result := &GenerateResult{Result: &generator.Result{}}
	for _, set := range cfg.Templates {
		sr := SetResult{
			Name:   set.Name,
			Folder: cfg.Resolve(set.Folder),
			Output: filepath.Join(outputBase, set.Output),
		}

		if !set.IsEnabled() {
			sr.Skipped, sr.Reason = true, "disabled"
			logger.Info("skipping template set", "set", set.Name, "reason", sr.Reason)
			result.Sets = append(result.Sets, sr)
			continue
		}
		if set.Name != "" && filtered(set.Name, opts.Include, opts.Exclude) {
			sr.Skipped, sr.Reason = true, "filtered"
			logger.Info("skipping template set", "set", set.Name, "reason", sr.Reason)
			result.Sets = append(result.Sets, sr)
			continue
		}

		bindings, err := bindingsFor(set, data, base)
		if err != nil {
			result.Sets = append(result.Sets, sr)
			return result, NewIterationError(fmt.Sprintf("template set %s", setLabel(set)), err)
		}

		engine, err := render.NewEngine(render.Options{BaseDir: sr.Folder})
		if err != nil {
			result.Sets = append(result.Sets, sr)
			return result, NewGenerationError(fmt.Sprintf("template set %s", setLabel(set)), err)
		}
		gen, err := generator.New(generator.Options{
			DryRun:          opts.DryRun,
			Diff:            opts.Diff,
			ContinueOnError: opts.ContinueOnError,
			IgnorePatterns:  cfg.IgnorePatterns,
			Renderer:        engine,
			Sections:        sections,
			Injector:        injector,
			PostProcess:     post,
			Logger:          logger.With("set", setLabel(set)),
		})
		if err != nil {
			result.Sets = append(result.Sets, sr)
			return result, NewGenerationError(fmt.Sprintf("template set %s", setLabel(set)), err)
		}

		logger.Info("generating template set",
			"set", setLabel(set), "folder", sr.Folder, "output", sr.Output, "expansions", len(bindings))

		for _, b := range bindings {
			rctx := base.Merge(b)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Debug("render context", "set", setLabel(set), "context", dumpConfig.Sdump(map[string]any(rctx)))
			}

			res, err := gen.Generate(ctx, sr.Folder, sr.Output, rctx)
			result.Result.Merge(res)
			sr.Expansions++
			if err != nil {
				result.Sets = append(result.Sets, sr)
				return result, NewGenerationError(fmt.Sprintf("template set %s", setLabel(set)), err)
			}
		}
		result.Sets = append(result.Sets, sr)
	}

	logger.Info("generation finished",
		"files", len(result.Result.Files),
		"errors", len(result.Result.Errors),
		"dry_run", opts.DryRun)
	return result, nil
}

// bindingsFor expands a set's iteration, or returns a single empty binding for
// a static set.
func bindingsFor(set config.TemplateSet, data any, base render.Context) ([]Binding, error) {
	if set.Iterate == "" {
		return []Binding{{}}, nil
	}
	plan, err := iteration.Parse(set.Iterate)
	if err != nil {
		return nil, err
	}
	return Expand(plan, data, base)
}

// filtered reports whether include/exclude patterns rule name out. With
// include patterns, name must match one of them; it must match no exclude
// pattern.
func filtered(name string, include, exclude []string) bool {
	if len(include) > 0 {
		matched := false
		for _, pattern := range include {
			if generator.MatchesPattern(name, pattern) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}
	}
	for _, pattern := range exclude {
		if generator.MatchesPattern(name, pattern) {
			return true
		}
	}
	return false
}

func setLabel(set config.TemplateSet) string {
	if set.Name != "" {
		return set.Name
	}
	return set.Folder
}
