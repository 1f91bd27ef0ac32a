// Package render turns template text plus a Context into output text.
//
// The Renderer interface is all the generation pipeline depends on. Engine is the
// Jinja-flavoured implementation backed by pongo2 and extended with case-transform
// filters (camelcase, pascalcase, snakecase, kebabcase, screamingsnakecase) and the
// uuid_generate filter/function.
package render

import (
	"errors"
	"regexp"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// Renderer renders template text against a context.
type Renderer interface {
	// Render evaluates text as a template named name.
	// Failures are returned as *RenderError.
	Render(name, text string, ctx Context) (string, error)
}

// Options configures an Engine.
type Options struct {
	// BaseDir is the directory {% include %} and {% import %} resolve against.
	// Empty means the working directory.
	BaseDir string
	// Globals are visible to every template rendered by the engine.
	Globals map[string]any
}

// Engine implements Renderer on top of a pongo2 template set.
type Engine struct {
	set *pongo2.TemplateSet
}

// identifierPattern matches the context keys pongo2 accepts.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// IsIdentifier reports whether name can be used as a template context key.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// NewEngine creates an Engine.
func NewEngine(opts Options) (*Engine, error) {
	registerFilters()

	loader, err := pongo2.NewLocalFileSystemLoader(opts.BaseDir)
	if err != nil {
		return nil, err
	}

	set := pongo2.NewSet("regen", loader)
	set.Globals["uuid_generate"] = uuidFunction
	for k, v := range opts.Globals {
		set.Globals[k] = v
	}

	return &Engine{set: set}, nil
}

// Render evaluates text as a template.
// Context keys that are not valid identifiers are not visible to the template.
// Reading a name that is not defined fails with a RenderError wrapping ErrUndefined.
func (e *Engine) Render(name, text string, ctx Context) (string, error) {
	tpl, err := e.set.FromString(text)
	if err != nil {
		return "", newRenderError(name, text, err)
	}

	pctx := make(pongo2.Context, len(ctx))
	for k, v := range ctx {
		if IsIdentifier(k) {
			pctx[k] = v
		}
	}

	lookup := func(key string) (any, bool) {
		if v, ok := pctx[key]; ok {
			return v, true
		}
		v, ok := e.set.Globals[key]
		return v, ok
	}
	if variable, offset, found := findUndefined(text, lookup); found {
		return "", newUndefinedError(name, text, variable, offset)
	}

	out, err := tpl.Execute(pctx)
	if err != nil {
		return "", newRenderError(name, text, err)
	}
	return out, nil
}

func newRenderError(name, text string, err error) *RenderError {
	rerr := &RenderError{
		Template: name,
		Message:  err.Error(),
		Cause:    err,
	}

	var perr *pongo2.Error
	if errors.As(err, &perr) {
		if perr.OrigError != nil {
			rerr.Message = perr.OrigError.Error()
		}
		if perr.Line > 0 {
			rerr.Line = perr.Line
			lines := strings.Split(text, "\n")
			if perr.Line <= len(lines) {
				rerr.SourceLine = lines[perr.Line-1]
			}
		}
	}
	return rerr
}
