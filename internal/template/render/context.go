package render

import "maps"

// Context is the immutable set of names visible to a template.
// Methods that "modify" a Context return a new one and leave the receiver untouched.
type Context map[string]any

// With returns a copy of c with key bound to value.
func (c Context) With(key string, value any) Context {
	out := make(Context, len(c)+1)
	maps.Copy(out, c)
	out[key] = value
	return out
}

// Merge returns a copy of c overlaid with every entry of other.
func (c Context) Merge(other map[string]any) Context {
	out := make(Context, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}
