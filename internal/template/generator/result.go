package generator

import "slices"

// Action is what the pipeline does with a file.
type Action int

const (
	// ActionWrite renders a template and writes the merged result.
	ActionWrite Action = iota
	// ActionCopy copies a plain file.
	ActionCopy
	// ActionInject splices injection blocks into an existing file.
	ActionInject
	// ActionPassThrough writes a rendered injection template because no prior file exists.
	ActionPassThrough
)

// String returns the name of the action.
func (a Action) String() string {
	switch a {
	case ActionWrite:
		return "write"
	case ActionCopy:
		return "copy"
	case ActionInject:
		return "inject"
	case ActionPassThrough:
		return "pass-through"
	default:
		return "unknown"
	}
}

// Outcome is the per-file result of a run.
type Outcome int

const (
	// Wrote means rendered or merged content was written.
	Wrote Outcome = iota
	// Copied means a plain file was copied.
	Copied
	// DryRunSkipped means the file would have been written.
	DryRunSkipped
	// Failed means the file was not written; see FileResult.Err.
	Failed
)

// String returns the name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Wrote:
		return "wrote"
	case Copied:
		return "copied"
	case DryRunSkipped:
		return "dry-run"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult describes what happened to one template file.
type FileResult struct {
	// Template is the template path relative to the template root.
	Template string
	// Output is the output path.
	Output string
	Kind   NodeKind
	Action Action
	// Outcome is Failed when Err is set.
	Outcome Outcome
	// Existed reports whether a prior file was present at Output.
	Existed bool
	// Changed reports whether the final content differs from the prior content.
	Changed bool
	// Diff is a unified diff against the prior content, filled in when diffs are requested.
	Diff string
	// Unmatched lists injection points that matched nothing.
	Unmatched []string
	Err       error

	// Content is the final content. Only kept in dry-run mode.
	Content []byte
}

// Result contains the outcome of a generation run.
type Result struct {
	// Files lists every processed file in walk order.
	Files []FileResult
	// Directories lists directories that were created, or would be in dry-run mode.
	Directories []string
	// Errors contains file-scoped errors recorded when continuing past failures.
	Errors []error
}

// Count returns the number of files with the given outcome.
func (r *Result) Count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Merge appends the files and errors of other to r, and the directories r
// does not already list.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Files = append(r.Files, other.Files...)
	for _, dir := range other.Directories {
		if !slices.Contains(r.Directories, dir) {
			r.Directories = append(r.Directories, dir)
		}
	}
	r.Errors = append(r.Errors, other.Errors...)
}
