package render

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// ErrUndefined is the cause of a RenderError raised for a name the template reads
// but neither the context, the engine globals, nor the template itself defines.
var ErrUndefined = errors.New("undefined variable")

// pongo2 keywords; they never name a variable.
var keywords = map[string]bool{
	"in": true, "and": true, "or": true, "not": true,
	"true": true, "false": true, "as": true, "export": true,
}

var endCommentPattern = regexp.MustCompile(`\{%-?\s*endcomment\s*-?%\}`)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokSymbol
)

type exprToken struct {
	kind tokenKind
	val  string
	pos  int
}

type segmentKind int

const (
	segPrint segmentKind = iota
	segTag
)

type segment struct {
	kind   segmentKind
	tokens []exprToken
}

// name returns the tag name of a {% %} segment.
func (s segment) name() string {
	if s.kind != segTag || len(s.tokens) == 0 || s.tokens[0].kind != tokIdent {
		return ""
	}
	return s.tokens[0].val
}

// lookupFunc resolves a root name against the render scope.
type lookupFunc func(name string) (any, bool)

// findUndefined returns the first name text reads that lookup cannot resolve and the
// template does not bind itself, together with its byte offset in text.
//
// Root names bound by for, set, with, macro, import and "as" clauses count as defined
// everywhere in the template. Attribute chains on context values are followed through
// string-keyed maps; a missing key is undefined. A read piped straight into the default
// or default_if_none filter is exempt.
func findUndefined(text string, lookup lookupFunc) (string, int, bool) {
	segs := scanSegments(text)

	bound := make(map[string]bool)
	for _, s := range segs {
		if s.kind == segTag {
			collectBindings(s, bound)
		}
	}

	for _, s := range segs {
		toks, skip := checkedTokens(s)
		for i, t := range toks {
			if t.kind != tokIdent || keywords[t.val] || skip(i) || bound[t.val] {
				continue
			}
			if i > 0 && (toks[i-1].val == "." || toks[i-1].val == "|") {
				continue
			}
			end := chainEnd(toks, i)
			if end+1 < len(toks) && toks[end].val == "|" &&
				(toks[end+1].val == "default" || toks[end+1].val == "default_if_none") {
				continue
			}
			v, ok := lookup(t.val)
			if !ok {
				return t.val, t.pos, true
			}
			if path, missing := missingAttribute(v, toks[i+1:end]); missing {
				return t.val + path, t.pos, true
			}
		}
	}
	return "", 0, false
}

// collectBindings records the names a tag introduces.
func collectBindings(s segment, bound map[string]bool) {
	if len(s.tokens) == 0 {
		return
	}
	rest := s.tokens[1:]
	switch s.name() {
	case "for":
		bound["forloop"] = true
		for _, t := range rest {
			if t.kind == tokIdent && t.val == "in" {
				break
			}
			if t.kind == tokIdent {
				bound[t.val] = true
			}
		}
	case "set":
		if len(rest) > 0 && rest[0].kind == tokIdent {
			bound[rest[0].val] = true
		}
	case "macro":
		for i, t := range rest {
			if t.kind != tokIdent {
				continue
			}
			if i == 0 || rest[i-1].val == "(" || rest[i-1].val == "," {
				bound[t.val] = true
			}
		}
	case "import":
		for _, t := range rest {
			if t.kind == tokIdent && !keywords[t.val] {
				bound[t.val] = true
			}
		}
	}

	for i, t := range rest {
		if t.kind != tokIdent || keywords[t.val] {
			continue
		}
		if i > 0 && rest[i-1].val == "as" {
			bound[t.val] = true
		}
		if i+1 < len(rest) && rest[i+1].val == "=" {
			bound[t.val] = true
		}
	}
}

// checkedTokens returns the part of a segment that is evaluated as an expression and
// a predicate for tokens within it that are not variable reads.
func checkedTokens(s segment) ([]exprToken, func(int) bool) {
	none := func(int) bool { return false }
	if s.kind == segPrint {
		return s.tokens, none
	}
	if len(s.tokens) == 0 {
		return nil, none
	}
	rest := s.tokens[1:]
	switch s.name() {
	case "if", "elif", "ifequal", "ifnotequal":
		return rest, none
	case "for":
		for i, t := range rest {
			if t.kind == tokIdent && t.val == "in" {
				expr := rest[i+1:]
				return expr, func(j int) bool {
					return expr[j].val == "reversed" || expr[j].val == "sorted"
				}
			}
		}
	case "set":
		for i, t := range rest {
			if t.val == "=" {
				return rest[i+1:], none
			}
		}
	case "with":
		return rest, func(j int) bool {
			if j+1 < len(rest) && rest[j+1].val == "=" {
				return true
			}
			return j > 0 && rest[j-1].val == "as"
		}
	}
	return nil, none
}

// chainEnd returns the index just past the attribute and index accesses that follow
// the root name at toks[i].
func chainEnd(toks []exprToken, i int) int {
	j := i + 1
	for j < len(toks) {
		switch toks[j].val {
		case ".":
			j += 2
		case "[":
			depth := 0
			for ; j < len(toks); j++ {
				if toks[j].val == "[" {
					depth++
				} else if toks[j].val == "]" {
					depth--
					if depth == 0 {
						j++
						break
					}
				}
			}
		default:
			return min(j, len(toks))
		}
	}
	return min(j, len(toks))
}

// missingAttribute follows the leading ".name" accesses of chain through string-keyed
// maps and reports the dotted path to the first key v does not hold.
func missingAttribute(v any, chain []exprToken) (string, bool) {
	var path strings.Builder
	for i := 0; i+1 < len(chain) && chain[i].val == "." && chain[i+1].kind == tokIdent; i += 2 {
		key := chain[i+1].val
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.MethodByName(key).IsValid() {
			return "", false
		}
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return "", false
		}
		path.WriteString("." + key)
		elem := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !elem.IsValid() {
			return path.String(), true
		}
		v = elem.Interface()
	}
	return "", false
}

// scanSegments splits text into its {{ }} and {% %} segments, skipping {# #}
// comments, {% comment %} blocks and {% verbatim %} blocks.
func scanSegments(text string) []segment {
	var segs []segment
	i := 0
	for {
		j := nextOpen(text, i)
		if j < 0 {
			return segs
		}
		if text[j+1] == '#' {
			k := strings.Index(text[j+2:], "#}")
			if k < 0 {
				return segs
			}
			i = j + 2 + k + 2
			continue
		}

		kind, closer := segPrint, "}}"
		if text[j+1] == '%' {
			kind, closer = segTag, "%}"
		}
		end := indexOutsideQuotes(text, j+2, closer)
		if end < 0 {
			return segs
		}
		from, to := j+2, end
		if from < to && text[from] == '-' {
			from++
		}
		if from < to && text[to-1] == '-' {
			to--
		}
		s := segment{kind: kind, tokens: tokenize(text[from:to], from)}
		segs = append(segs, s)
		i = end + 2

		switch s.name() {
		case "comment":
			loc := endCommentPattern.FindStringIndex(text[i:])
			if loc == nil {
				return segs
			}
			i += loc[1]
		case "verbatim":
			k := strings.Index(text[i:], "{% endverbatim")
			if k < 0 {
				return segs
			}
			i += k
		}
	}
}

func nextOpen(text string, from int) int {
	for i := from; i+1 < len(text); i++ {
		if text[i] == '{' && (text[i+1] == '{' || text[i+1] == '%' || text[i+1] == '#') {
			return i
		}
	}
	return -1
}

func indexOutsideQuotes(text string, from int, closer string) int {
	var quote byte
	for i := from; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case strings.HasPrefix(text[i:], closer):
			return i
		}
	}
	return -1
}

// tokenize splits an expression body; base is the body's offset in the template.
func tokenize(body string, base int) []exprToken {
	var toks []exprToken
	for i := 0; i < len(body); {
		c := body[i]
		start := i
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
			continue
		case c == '"' || c == '\'':
			for i++; i < len(body) && body[i] != c; i++ {
				if body[i] == '\\' {
					i++
				}
			}
			i = min(i+1, len(body))
			toks = append(toks, exprToken{tokString, body[start:i], base + start})
		case isDigit(c):
			for i < len(body) && (isDigit(body[i]) || (body[i] == '.' && i+1 < len(body) && isDigit(body[i+1]))) {
				i++
			}
			toks = append(toks, exprToken{tokNumber, body[start:i], base + start})
		case isIdentStart(c):
			for i < len(body) && (isIdentStart(body[i]) || isDigit(body[i])) {
				i++
			}
			toks = append(toks, exprToken{tokIdent, body[start:i], base + start})
		default:
			n := 1
			if i+1 < len(body) {
				switch body[i : i+2] {
				case "==", "!=", "<=", ">=", "&&", "||", "<>":
					n = 2
				}
			}
			i += n
			toks = append(toks, exprToken{tokSymbol, body[start:i], base + start})
		}
	}
	return toks
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func newUndefinedError(name, text, variable string, offset int) *RenderError {
	cause := fmt.Errorf("%w %q", ErrUndefined, variable)
	line := strings.Count(text[:offset], "\n") + 1
	return &RenderError{
		Template:   name,
		Message:    cause.Error(),
		Line:       line,
		SourceLine: strings.Split(text, "\n")[line-1],
		Cause:      cause,
	}
}
