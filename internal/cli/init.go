package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tacogips/regen/internal/app"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold an example project",
		Long: `Create an example project: config.yaml, data.json, and an iterated template
with a manual section.

Existing files are only overwritten after confirmation, or with --force.

Examples:
  regen init
  regen init my-project
  regen init my-project --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, FlagForce, false, DescForce)
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	result, err := app.Init(app.InitOptions{
		Dir:     dir,
		Force:   force,
		Confirm: overwriteConfirmer(stdinIsTerminal()),
		Logger:  s.logger,
	})
	if err != nil {
		return s.fail(err)
	}

	p := s.printer
	for _, rel := range result.Created {
		p.printSuccess("created " + rel)
	}
	for _, rel := range result.Skipped {
		p.printWarning("kept existing " + rel)
	}

	config := filepath.Join(dir, "config.yaml")
	data := filepath.Join(dir, "data.json")
	p.printInfo(fmt.Sprintf("\nProject initialized in %s\nRun: regen -c %s -d %s", result.Dir, config, data))
	return nil
}
