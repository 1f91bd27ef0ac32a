package app

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tacogips/regen/internal/logging"
)

//go:embed scaffold
var scaffoldFS embed.FS

const scaffoldRoot = "scaffold"

// InitOptions contains options for project initialization.
type InitOptions struct {
	// Dir is the project directory. Defaults to the working directory.
	Dir string
	// Force overwrites existing files without asking.
	Force bool
	// Confirm is asked before overwriting an existing file when Force is off.
	// With no Confirm, an existing file fails the run.
	Confirm func(path string) (bool, error)
	Logger  *slog.Logger
}

// InitResult contains the results of project initialization.
type InitResult struct {
	// Dir is the absolute project directory.
	Dir string
	// Created lists files written, relative to Dir.
	Created []string
	// Skipped lists existing files kept because overwriting was declined.
	Skipped []string
}

// Init scaffolds an example project: a configuration file, a data file, and
// an iterated template with a manual section.
func Init(opts InitOptions) (*InitResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, NewInitError("failed to resolve project directory", err)
	}
	if info, err := os.Stat(absDir); err == nil && !info.IsDir() {
		return nil, NewInitError(fmt.Sprintf("project path exists and is not a directory: %s", absDir), nil)
	}

	files, err := scaffoldFiles()
	if err != nil {
		return nil, NewInitError("failed to read scaffold", err)
	}

	result := &InitResult{Dir: absDir}
	for _, rel := range files {
		target := filepath.Join(absDir, filepath.FromSlash(rel))

		if _, err := os.Stat(target); err == nil && !opts.Force {
			if opts.Confirm == nil {
				return result, NewInitError(fmt.Sprintf("file already exists: %s (use --force to overwrite)", target), nil)
			}
			ok, err := opts.Confirm(target)
			if err != nil {
				return result, NewInitError("confirmation failed", err)
			}
			if !ok {
				logger.Info("keeping existing file", "path", target)
				result.Skipped = append(result.Skipped, rel)
				continue
			}
		}

		content, err := scaffoldFS.ReadFile(path.Join(scaffoldRoot, rel))
		if err != nil {
			return result, NewInitError(fmt.Sprintf("failed to read scaffold file %s", rel), err)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return result, NewInitError(fmt.Sprintf("failed to create directory for %s", target), err)
		}
		if err := os.WriteFile(target, content, 0644); err != nil {
			return result, NewInitError(fmt.Sprintf("failed to write %s", target), err)
		}

		logger.Info("created", "path", target)
		result.Created = append(result.Created, rel)
	}

	return result, nil
}

// scaffoldFiles lists scaffold files relative to the scaffold root, in walk order.
func scaffoldFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(scaffoldFS, scaffoldRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, ok := strings.CutPrefix(p, scaffoldRoot+"/")
		if !ok {
			return errors.New("scaffold file outside root: " + p)
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}
