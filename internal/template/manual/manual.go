// Package manual finds, validates, and carries over hand-edited regions of
// generated files.
//
// A manual section is delimited by a header "<StartMarker>: <id>" and a closing
// <EndMarker>. The markers may sit inside comments of the host language:
//
//	// MANUAL SECTION START: init-custom-variables
//	custom_variable = 1;
//	// MANUAL SECTION END
//
// Ids are unique within a text, sections never nest, and every opened section closes.
package manual

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Default marker and id grammar.
const (
	DefaultStartMarker = "MANUAL SECTION START"
	DefaultEndMarker   = "MANUAL SECTION END"
	DefaultIDPattern   = "[A-Za-z0-9_-]+"
)

// Config holds the marker text and id grammar.
type Config struct {
	StartMarker string
	EndMarker   string
	// IDPattern is a regular expression matching a complete section id.
	IDPattern string
}

// DefaultConfig returns the default markers and id grammar.
func DefaultConfig() Config {
	return Config{
		StartMarker: DefaultStartMarker,
		EndMarker:   DefaultEndMarker,
		IDPattern:   DefaultIDPattern,
	}
}

// Section is one manual section located in a text.
type Section struct {
	// ID is the section id from the header.
	ID string
	// Body is the text between the header line and the end marker.
	Body string
	// Start and End are the byte offsets of the full span, header through end marker.
	Start int
	End   int
}

// Merger validates and merges manual sections.
type Merger struct {
	cfg    Config
	header *regexp.Regexp
	block  *regexp.Regexp
	idIdx  int
	bodIdx int
}

// NewMerger creates a Merger. Empty Config fields take their defaults.
func NewMerger(cfg Config) (*Merger, error) {
	def := DefaultConfig()
	if cfg.StartMarker == "" {
		cfg.StartMarker = def.StartMarker
	}
	if cfg.EndMarker == "" {
		cfg.EndMarker = def.EndMarker
	}
	if cfg.IDPattern == "" {
		cfg.IDPattern = def.IDPattern
	}
	if cfg.StartMarker == cfg.EndMarker {
		return nil, fmt.Errorf("manual section start and end markers must differ: %q", cfg.StartMarker)
	}
	if _, err := regexp.Compile(cfg.IDPattern); err != nil {
		return nil, fmt.Errorf("invalid manual section id pattern %q: %w", cfg.IDPattern, err)
	}

	headerExpr := regexp.QuoteMeta(cfg.StartMarker) + `:\s*(?P<id>` + cfg.IDPattern + `)(?:\s|$)`
	header, err := regexp.Compile(headerExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid manual section header pattern: %w", err)
	}
	block, err := regexp.Compile(headerExpr + `(?P<body>(?s:.*?))` + regexp.QuoteMeta(cfg.EndMarker))
	if err != nil {
		return nil, fmt.Errorf("invalid manual section block pattern: %w", err)
	}

	return &Merger{
		cfg:    cfg,
		header: header,
		block:  block,
		idIdx:  block.SubexpIndex("id"),
		bodIdx: block.SubexpIndex("body"),
	}, nil
}

// MustNewMerger is like NewMerger but panics on an invalid Config.
func MustNewMerger(cfg Config) *Merger {
	m, err := NewMerger(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// ExtractSectionIDs returns the ids of all section headers in text, in order.
func (m *Merger) ExtractSectionIDs(text string) []string {
	idx := m.header.SubexpIndex("id")
	var ids []string
	for _, match := range m.header.FindAllStringSubmatch(text, -1) {
		ids = append(ids, match[idx])
	}
	return ids
}

// Sections returns every complete section in text, in order.
func (m *Merger) Sections(text string) []Section {
	var sections []Section
	for _, loc := range m.block.FindAllStringSubmatchIndex(text, -1) {
		sections = append(sections, Section{
			ID:    text[loc[2*m.idIdx]:loc[2*m.idIdx+1]],
			Body:  text[loc[2*m.bodIdx]:loc[2*m.bodIdx+1]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return sections
}

// CheckDuplicates fails with DuplicateSectionID if any id repeats within text.
func (m *Merger) CheckDuplicates(text, source string) error {
	seen := make(map[string]bool)
	reported := make(map[string]bool)
	var duplicates []string
	for _, id := range m.ExtractSectionIDs(text) {
		if seen[id] {
			if !reported[id] {
				duplicates = append(duplicates, id)
				reported[id] = true
			}
			continue
		}
		seen[id] = true
	}

	if len(duplicates) > 0 {
		return newSectionError(DuplicateSectionID, source, "duplicate manual section ids", duplicates...)
	}
	return nil
}

// CheckStructure fails with MalformedHeader when a start marker does not begin a
// well-formed header, UnbalancedMarkers when start and end counts differ,
// NestedSection when a start marker appears inside an open section, and
// DanglingEnd when an end marker appears with no open section.
func (m *Merger) CheckStructure(text, source string) error {
	events := m.markerEvents(text)

	headers := make(map[int]bool)
	for _, loc := range m.header.FindAllStringIndex(text, -1) {
		headers[loc[0]] = true
	}
	for _, ev := range events {
		if ev.delta > 0 && !headers[ev.offset] {
			return newSectionError(MalformedHeader, source,
				fmt.Sprintf("malformed manual section header at line %d", lineOf(text, ev.offset)))
		}
	}

	starts, ends := 0, 0
	for _, ev := range events {
		if ev.delta > 0 {
			starts++
		} else {
			ends++
		}
	}
	if starts != ends {
		return newSectionError(UnbalancedMarkers, source,
			fmt.Sprintf("mismatched manual section markers: %d starts, %d ends", starts, ends))
	}

	depth := 0
	for _, ev := range events {
		if ev.delta > 0 && depth >= 1 {
			return newSectionError(NestedSection, source,
				fmt.Sprintf("nested manual section at line %d", lineOf(text, ev.offset)))
		}
		depth += ev.delta
		if depth < 0 {
			return newSectionError(DanglingEnd, source,
				fmt.Sprintf("manual section end before start at line %d", lineOf(text, ev.offset)))
		}
	}
	return nil
}

// Validate runs the structure and duplicate checks on rendered and, when prior is
// non-nil, on prior too. It then fails with LostSection for every id present in
// prior but absent from rendered.
func (m *Merger) Validate(source, rendered string, prior *string) error {
	if err := m.CheckStructure(rendered, source); err != nil {
		return err
	}
	if err := m.CheckDuplicates(rendered, source); err != nil {
		return err
	}
	if prior == nil {
		return nil
	}

	priorSource := source + " (existing output)"
	if err := m.CheckStructure(*prior, priorSource); err != nil {
		return err
	}
	if err := m.CheckDuplicates(*prior, priorSource); err != nil {
		return err
	}

	current := make(map[string]bool)
	for _, id := range m.ExtractSectionIDs(rendered) {
		current[id] = true
	}
	var lost []string
	for _, id := range m.ExtractSectionIDs(*prior) {
		if !current[id] {
			lost = append(lost, id)
		}
	}
	if len(lost) > 0 {
		return newSectionError(LostSection, source,
			"manual sections from existing output are missing in new render", lost...)
	}
	return nil
}

// Preserve replaces each section span in rendered with the same-id span from
// prior. Sections that prior does not have keep their freshly rendered span.
func (m *Merger) Preserve(rendered, prior string) string {
	return m.RestoreBlocks(rendered, m.ExtractBlocks(prior))
}

// ExtractBlocks returns the full span (header through end marker) of every section
// in text, keyed by id. The first occurrence of an id wins.
func (m *Merger) ExtractBlocks(text string) map[string]string {
	blocks := make(map[string]string)
	for _, s := range m.Sections(text) {
		if _, ok := blocks[s.ID]; !ok {
			blocks[s.ID] = text[s.Start:s.End]
		}
	}
	return blocks
}

// RestoreBlocks replaces each section span in text with blocks[id] when present.
func (m *Merger) RestoreBlocks(text string, blocks map[string]string) string {
	sections := m.Sections(text)
	if len(sections) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, s := range sections {
		b.WriteString(text[last:s.Start])
		if saved, ok := blocks[s.ID]; ok {
			b.WriteString(saved)
		} else {
			b.WriteString(text[s.Start:s.End])
		}
		last = s.End
	}
	b.WriteString(text[last:])
	return b.String()
}

type markerEvent struct {
	offset int
	delta  int
}

// markerEvents returns start (+1) and end (-1) marker occurrences ordered by
// offset. When one marker contains the other, occurrences of the shorter one
// inside the longer one are not counted.
func (m *Merger) markerEvents(text string) []markerEvent {
	startSpans := occurrences(text, m.cfg.StartMarker)
	endSpans := occurrences(text, m.cfg.EndMarker)

	if len(m.cfg.StartMarker) > len(m.cfg.EndMarker) {
		endSpans = outside(endSpans, startSpans)
	} else if len(m.cfg.EndMarker) > len(m.cfg.StartMarker) {
		startSpans = outside(startSpans, endSpans)
	}

	events := make([]markerEvent, 0, len(startSpans)+len(endSpans))
	for _, s := range startSpans {
		events = append(events, markerEvent{offset: s[0], delta: 1})
	}
	for _, s := range endSpans {
		events = append(events, markerEvent{offset: s[0], delta: -1})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].offset < events[j].offset })
	return events
}

func occurrences(text, marker string) [][2]int {
	var spans [][2]int
	for pos := 0; pos <= len(text); {
		i := strings.Index(text[pos:], marker)
		if i < 0 {
			break
		}
		start := pos + i
		spans = append(spans, [2]int{start, start + len(marker)})
		pos = start + len(marker)
	}
	return spans
}

// outside drops spans lying entirely within any of the covering spans.
func outside(spans, covering [][2]int) [][2]int {
	var kept [][2]int
	for _, s := range spans {
		inside := false
		for _, c := range covering {
			if s[0] >= c[0] && s[1] <= c[1] {
				inside = true
				break
			}
		}
		if !inside {
			kept = append(kept, s)
		}
	}
	return kept
}

func lineOf(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}
