// Package generator mirrors a template tree into an output tree.
//
// Directories are recreated under their rendered names. Files ending in .j2 are
// rendered and merged with the manual sections of the file they replace, files
// ending in .inj are rendered and spliced into the file they target, and every
// other file is copied verbatim. Entries are visited depth first in lexicographic
// order.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/tacogips/regen/internal/template/inject"
	"github.com/tacogips/regen/internal/template/manual"
	"github.com/tacogips/regen/internal/template/render"
)

// Generator generates an output tree from a template tree.
type Generator interface {
	// Generate walks templateRoot and writes the mirrored tree under outputRoot.
	// The returned Result is non-nil whenever the walk started, including on error.
	Generate(ctx context.Context, templateRoot, outputRoot string, rctx render.Context) (*Result, error)
}

// PostProcessor transforms final content before it is written.
type PostProcessor interface {
	Process(ctx context.Context, content, filename string) string
}

// Options configures a Pipeline.
type Options struct {
	// DryRun computes every result without touching the filesystem.
	DryRun bool
	// Diff fills FileResult.Diff against the prior content.
	Diff bool
	// ContinueOnError records file-scoped failures and keeps walking instead of
	// stopping at the first one.
	ContinueOnError bool
	// IgnorePatterns skip template entries by relative path or base name.
	IgnorePatterns []string

	// Renderer is required.
	Renderer render.Renderer
	// Sections defaults to the default manual-section markers.
	Sections *manual.Merger
	// Injector defaults to a regexp-backed merger.
	Injector *inject.Merger
	// PostProcess is optional.
	PostProcess PostProcessor
	// Writer defaults to a FileWriter that preserves executable bits.
	Writer Writer
	Logger *slog.Logger
}

// Pipeline implements Generator.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Renderer == nil {
		return nil, errors.New("generator: renderer is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Sections == nil {
		opts.Sections = manual.MustNewMerger(manual.DefaultConfig())
	}
	if opts.Injector == nil {
		opts.Injector = inject.NewMerger(inject.Options{Logger: opts.Logger})
	}
	if opts.Writer == nil {
		opts.Writer = NewFileWriter(FileWriterOptions{PreserveExecutable: true, Logger: opts.Logger})
	}
	return &Pipeline{opts: opts, logger: opts.Logger}, nil
}

// walkItem is a pending entry: a template node and the output directory it lands in.
type walkItem struct {
	node   Node
	outDir string
}

// run holds the state of one Generate call.
type run struct {
	*Pipeline
	rctx    render.Context
	result  *Result
	created map[string]bool
}

// Generate implements Generator.
func (p *Pipeline) Generate(ctx context.Context, templateRoot, outputRoot string, rctx render.Context) (*Result, error) {
	info, err := os.Stat(templateRoot)
	if err != nil || !info.IsDir() {
		return nil, newGeneratorError(TemplateNotFound, "template directory not found", templateRoot, err)
	}

	p.logger.Info("generating",
		"template", templateRoot, "output", outputRoot, "dry_run", p.opts.DryRun)

	r := &run{
		Pipeline: p,
		rctx:     rctx,
		result:   &Result{},
		created:  make(map[string]bool),
	}

	if err := r.ensureDir(outputRoot); err != nil {
		return r.result, err
	}

	// The root directory's own name is not rendered; its children land in outputRoot.
	children, err := r.children(Node{Path: templateRoot, Rel: "."})
	if err != nil {
		return r.result, err
	}

	stack := make([]walkItem, 0, len(children))
	stack = pushReversed(stack, children, outputRoot)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.node.Kind == Directory {
			outDir, err := r.enterDir(item)
			if err != nil {
				if ferr := r.fail(item.node.Rel, err); ferr != nil {
					return r.result, ferr
				}
				continue
			}
			kids, err := r.children(item.node)
			if err != nil {
				if ferr := r.fail(item.node.Rel, err); ferr != nil {
					return r.result, ferr
				}
				continue
			}
			stack = pushReversed(stack, kids, outDir)
			continue
		}

		fr := r.processFile(ctx, item)
		r.result.Files = append(r.result.Files, fr)
		if fr.Err != nil {
			if ferr := r.fail(item.node.Rel, fr.Err); ferr != nil {
				return r.result, ferr
			}
		}
	}

	p.logger.Info("generation complete",
		"wrote", r.result.Count(Wrote),
		"copied", r.result.Count(Copied),
		"dry_run", r.result.Count(DryRunSkipped),
		"failed", r.result.Count(Failed))

	return r.result, nil
}

// fail logs a file-scoped error and returns it unless the run continues past failures.
func (r *run) fail(rel string, err error) error {
	r.logger.Error("generation failed", "template", rel, "error", err)
	if !r.opts.ContinueOnError {
		return err
	}
	r.result.Errors = append(r.result.Errors, err)
	return nil
}

// children lists the non-ignored entries of dir, sorted by name.
func (r *run) children(dir Node) ([]Node, error) {
	entries, err := os.ReadDir(dir.Path)
	if err != nil {
		return nil, newGeneratorError(FilesystemFailed, "failed to read template directory", dir.Path, err)
	}

	nodes := make([]Node, 0, len(entries))
	for _, e := range entries {
		rel := e.Name()
		if dir.Rel != "." {
			rel = path.Join(dir.Rel, e.Name())
		}
		if ShouldIgnoreFile(rel, r.opts.IgnorePatterns) {
			r.logger.Debug("ignoring template entry", "template", rel)
			continue
		}
		nodes = append(nodes, Node{
			Path: filepath.Join(dir.Path, e.Name()),
			Rel:  rel,
			Name: e.Name(),
			Kind: Classify(e.Name(), e.IsDir()),
		})
	}
	return nodes, nil
}

// pushReversed pushes nodes so the first one is popped first.
func pushReversed(stack []walkItem, nodes []Node, outDir string) []walkItem {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, walkItem{node: nodes[i], outDir: outDir})
	}
	return stack
}

// enterDir renders a directory name and ensures the matching output directory.
func (r *run) enterDir(item walkItem) (string, error) {
	name, err := r.renderName(item.node.Rel, item.node.Name)
	if err != nil {
		return "", err
	}
	outDir := filepath.Join(item.outDir, name)
	if err := r.ensureDir(outDir); err != nil {
		return "", err
	}
	return outDir, nil
}

// ensureDir creates dir if missing. In dry-run mode it only records it.
func (r *run) ensureDir(dir string) error {
	if r.created[dir] || r.opts.Writer.Exists(dir) {
		return nil
	}
	r.created[dir] = true
	r.result.Directories = append(r.result.Directories, dir)

	if r.opts.DryRun {
		r.logger.Info("dry run: would create directory", "path", dir)
		return nil
	}
	if err := r.opts.Writer.CreateDir(dir); err != nil {
		return err
	}
	r.logger.Info("created directory", "path", dir)
	return nil
}

// renderName renders a file or directory name and validates the result.
func (r *run) renderName(rel, name string) (string, error) {
	rendered, err := r.opts.Renderer.Render(rel, name, r.rctx)
	if err != nil {
		return "", newGeneratorError(RenderFailed, "failed to render name", rel, err)
	}
	if err := ValidateOutputName(rendered, name); err != nil {
		return "", err
	}
	return rendered, nil
}

// processFile reads, renders, merges, and writes one template file.
func (r *run) processFile(ctx context.Context, item walkItem) FileResult {
	node := item.node
	fr := FileResult{Template: node.Rel, Kind: node.Kind}

	outName := node.Name
	if node.Kind != PlainFile {
		var err error
		outName, err = r.renderName(node.Rel, OutputStem(node.Name, node.Kind))
		if err != nil {
			return failed(fr, err)
		}
	}
	fr.Output = filepath.Join(item.outDir, outName)

	info, err := os.Stat(node.Path)
	if err != nil {
		return failed(fr, newGeneratorError(FilesystemFailed, "failed to stat template", node.Path, err))
	}
	source, err := os.ReadFile(node.Path)
	if err != nil {
		return failed(fr, newGeneratorError(FilesystemFailed, "failed to read template", node.Path, err))
	}

	prior, err := readPrior(fr.Output)
	if err != nil {
		return failed(fr, err)
	}
	fr.Existed = prior != nil

	if err := r.ensureDir(filepath.Dir(fr.Output)); err != nil {
		return failed(fr, err)
	}

	var final string
	switch node.Kind {
	case RenderableFile:
		fr.Action = ActionWrite
		final, err = r.renderFile(ctx, node, fr.Output, string(source), prior)
	case InjectionFile:
		final, err = r.injectFile(node, &fr, string(source), prior)
	default:
		fr.Action = ActionCopy
		final = string(source)
	}
	if err != nil {
		return failed(fr, err)
	}

	fr.Changed = prior == nil || *prior != final
	if r.opts.Diff {
		fr.Diff = UnifiedDiff(fr.Output, prior, final)
	}

	if r.opts.DryRun {
		fr.Outcome = DryRunSkipped
		fr.Content = []byte(final)
		r.logger.Info("dry run: would "+fr.Action.String(),
			"template", node.Rel, "output", fr.Output, "changed", fr.Changed)
		return fr
	}

	if err := r.opts.Writer.WriteFile(fr.Output, []byte(final), info.Mode()); err != nil {
		return failed(fr, err)
	}

	fr.Outcome = Wrote
	if fr.Action == ActionCopy {
		fr.Outcome = Copied
	}
	r.logger.Info(actionVerb(fr.Action), "template", node.Rel, "output", fr.Output)
	return fr
}

// renderFile renders a .j2 template, validates and preserves manual sections,
// then post-processes the merged text.
func (r *run) renderFile(ctx context.Context, node Node, output, source string, prior *string) (string, error) {
	rendered, err := r.opts.Renderer.Render(node.Rel, source, r.rctx)
	if err != nil {
		return "", newGeneratorError(RenderFailed, "failed to render template", node.Rel, err)
	}

	if err := r.opts.Sections.Validate(node.Rel, rendered, prior); err != nil {
		return "", newGeneratorError(ValidationFailed, "manual section validation failed", output, err)
	}

	final := rendered
	if prior != nil {
		final = r.opts.Sections.Preserve(rendered, *prior)
	}

	if r.opts.PostProcess != nil {
		final = r.opts.PostProcess.Process(ctx, final, output)
	}
	return final, nil
}

// injectFile renders a .inj template and splices it into prior. Without a
// prior file the rendered text becomes the new file.
func (r *run) injectFile(node Node, fr *FileResult, source string, prior *string) (string, error) {
	rendered, err := r.opts.Renderer.Render(node.Rel, source, r.rctx)
	if err != nil {
		return "", newGeneratorError(RenderFailed, "failed to render template", node.Rel, err)
	}

	res, err := r.opts.Injector.Apply(node.Rel, rendered, prior)
	if err != nil {
		return "", newGeneratorError(InjectionFailed, "failed to apply injection", fr.Output, err)
	}

	if prior == nil {
		fr.Action = ActionPassThrough
		r.logger.Warn("injection target does not exist, writing rendered template",
			"template", node.Rel, "output", fr.Output)
		return res.Content, nil
	}

	fr.Action = ActionInject
	fr.Unmatched = res.Unmatched
	return res.Content, nil
}

func failed(fr FileResult, err error) FileResult {
	fr.Outcome = Failed
	fr.Err = err
	return fr
}

func actionVerb(a Action) string {
	switch a {
	case ActionWrite:
		return "wrote file"
	case ActionCopy:
		return "copied file"
	case ActionInject:
		return "injected file"
	case ActionPassThrough:
		return "wrote injection template"
	default:
		return fmt.Sprintf("processed file (%s)", a)
	}
}
