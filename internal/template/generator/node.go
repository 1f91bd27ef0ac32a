package generator

import "strings"

// Template suffixes that select how a file is processed.
const (
	RenderSuffix = ".j2"
	InjectSuffix = ".inj"
)

// NodeKind classifies a template-tree entry.
type NodeKind int

const (
	// Directory is mirrored into the output tree under its rendered name.
	Directory NodeKind = iota
	// RenderableFile (*.j2) is rendered and merged with manual sections of the prior file.
	RenderableFile
	// InjectionFile (*.inj) is rendered and spliced into the prior file.
	InjectionFile
	// PlainFile is copied byte for byte under its original name.
	PlainFile
)

// String returns the name of the kind.
func (k NodeKind) String() string {
	switch k {
	case Directory:
		return "directory"
	case RenderableFile:
		return "render"
	case InjectionFile:
		return "inject"
	case PlainFile:
		return "copy"
	default:
		return "unknown"
	}
}

// Node is a template-tree entry discovered during a walk.
type Node struct {
	// Path is the absolute (or caller-relative) source path.
	Path string
	// Rel is the slash-separated path relative to the template root.
	Rel string
	// Name is the base name.
	Name string
	Kind NodeKind
}

// Classify returns the kind for an entry name.
func Classify(name string, isDir bool) NodeKind {
	switch {
	case isDir:
		return Directory
	case strings.HasSuffix(name, RenderSuffix):
		return RenderableFile
	case strings.HasSuffix(name, InjectSuffix):
		return InjectionFile
	default:
		return PlainFile
	}
}

// OutputStem returns name without the suffix that selected its kind.
func OutputStem(name string, kind NodeKind) string {
	switch kind {
	case RenderableFile:
		return strings.TrimSuffix(name, RenderSuffix)
	case InjectionFile:
		return strings.TrimSuffix(name, InjectSuffix)
	default:
		return name
	}
}
