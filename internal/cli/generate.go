package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tacogips/regen/internal/app"
	"github.com/tacogips/regen/internal/template/generator"
)

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate files from the configured template sets",
		Long: `Render every enabled template set of the project configuration.

Examples:
  regen generate -c config.yaml -d data.json
  regen generate -d data.yaml --dry-run --diff
  regen generate --include 'api*' --exclude 'regex:^legacy'`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	st := s.settings

	result, err := app.Generate(cmd.Context(), app.GenerateOptions{
		ConfigPath:      st.ConfigPath,
		DataPath:        st.DataPath,
		OutputDir:       st.OutputDir,
		DryRun:          st.DryRun,
		Diff:            st.Diff,
		Include:         st.Include,
		Exclude:         st.Exclude,
		FormatTimeout:   st.FormatTimeout,
		ContinueOnError: st.ContinueOnError,
		Logger:          s.logger,
	})
	if result != nil {
		s.printGenerateResult(result)
	}
	if err != nil {
		return s.fail(err)
	}

	if n := len(result.Result.Errors); n > 0 {
		return s.fail(fmt.Errorf("%d file(s) failed to generate", n))
	}
	return nil
}

func (s *session) printGenerateResult(result *app.GenerateResult) {
	p := s.printer
	res := result.Result

	for _, set := range result.Sets {
		if set.Skipped {
			label := set.Name
			if label == "" {
				label = set.Folder
			}
			p.printInfo(p.style(mutedStyle, fmt.Sprintf("skipped %s (%s)", label, set.Reason)))
		}
	}

	if s.settings.DryRun {
		p.printHeader("Dry run")
		for _, dir := range res.Directories {
			p.printInfo("  would create " + dir + "/")
		}
	}

	for _, f := range res.Files {
		for _, name := range f.Unmatched {
			p.printWarning(fmt.Sprintf("%s: injection point %q matched nothing", f.Output, name))
		}
		if s.settings.DryRun {
			verb := actionLabel(f.Action)
			if !f.Changed {
				verb += " (unchanged)"
			}
			p.printInfo(fmt.Sprintf("  would %s %s", verb, f.Output))
		}
		if s.settings.Diff && f.Changed {
			p.printDiff(f.Diff)
		}
	}

	for _, err := range res.Errors {
		p.printError(err.Error())
	}

	summary := summarize(res)
	if s.settings.DryRun {
		p.printSuccess("Dry run complete: " + summary)
		return
	}
	p.printSuccess("Generated " + summary)
}

func actionLabel(a generator.Action) string {
	switch a {
	case generator.ActionCopy:
		return "copy"
	case generator.ActionInject:
		return "inject into"
	default:
		return "write"
	}
}

// summarize renders file counts by outcome, e.g. "3 files (2 written, 1 copied)".
func summarize(res *generator.Result) string {
	counts := map[string]int{
		"written": res.Count(generator.Wrote),
		"copied":  res.Count(generator.Copied),
		"planned": res.Count(generator.DryRunSkipped),
		"failed":  res.Count(generator.Failed),
	}

	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		if n > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := fmt.Sprintf("%d file(s)", len(res.Files))
	for i, k := range keys {
		if i == 0 {
			out += " ("
		} else {
			out += ", "
		}
		out += fmt.Sprintf("%d %s", counts[k], k)
	}
	if len(keys) > 0 {
		out += ")"
	}
	return out
}
