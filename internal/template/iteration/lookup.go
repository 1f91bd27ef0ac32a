package iteration

import (
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Lookup resolves a pointer path produced by EvaluatePath against decoded data
// (maps of string keys, slices, scalars). "/" alone refers to the data root.
func Lookup(data any, pointer string) (any, error) {
	query := toJSONPath(pointer)
	value, err := jsonpath.Get(query, data)
	if err != nil {
		return nil, newIterationError(DataPathNotFound, "data path not found", pointer, err)
	}
	return value, nil
}

// LookupArray resolves pointer like Lookup and requires the result to be an array.
func LookupArray(data any, pointer string) ([]any, error) {
	value, err := Lookup(data, pointer)
	if err != nil {
		return nil, err
	}
	items, ok := value.([]any)
	if !ok {
		return nil, newIterationError(NotAnArray, "data path did not resolve to an array", pointer, nil)
	}
	return items, nil
}

// toJSONPath rewrites "/a/b/0" as `$["a"]["b"][0]`. Purely numeric segments
// are treated as array indexes.
func toJSONPath(pointer string) string {
	var b strings.Builder
	b.WriteString("$")

	trimmed := strings.TrimPrefix(pointer, "/")
	if trimmed == "" {
		return b.String()
	}

	for _, segment := range strings.Split(trimmed, "/") {
		// RFC 6901 escapes
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")

		if _, err := strconv.Atoi(segment); err == nil {
			b.WriteString("[" + segment + "]")
			continue
		}
		b.WriteString("[" + strconv.Quote(segment) + "]")
	}
	return b.String()
}
