// Package patch applies named generated-section payloads onto existing file
// text. Markers delimit the regions the tool owns; everything outside them
// is user-owned and is never touched. When any section's markers are absent
// the whole patch is refused so a foreign file is never partially
// overwritten.
package patch

import (
	"fmt"
	"sort"
	"strings"
)

// Marker line shapes. Both markers must appear as whole lines.
const (
	beginMarkerPrefix = "// BEGIN GENERATED: "
	endMarkerPrefix   = "// END GENERATED: "
)

// Section is one named generated-section payload.
type Section struct {
	// Name of the section (props, example). Ignored when explicit markers
	// are set.
	Name string
	// Content is the generated body, without markers or indentation.
	Content string
	// StartMarker and EndMarker override the name-derived marker pair.
	StartMarker string
	EndMarker   string
}

// Markers returns the effective marker pair for the section.
func (s Section) Markers() (string, string) {
	if s.StartMarker != "" && s.EndMarker != "" {
		return s.StartMarker, s.EndMarker
	}
	return beginMarkerPrefix + s.Name, endMarkerPrefix + s.Name
}

// NotApplicableError reports that a section's markers were not found and the
// patch was refused.
type NotApplicableError struct {
	Section string
}

func (e *NotApplicableError) Error() string {
	return fmt.Sprintf("generated-section markers for %q not found", e.Section)
}

// Apply replaces every section's marker-delimited region in existing with
// freshly rendered content, preserving the indentation of each start-marker
// line and the file's line-ending style. If any section's markers are
// missing the original text is left alone and a NotApplicableError is
// returned. Applying identical content twice is a no-op.
func Apply(existing string, sections []Section) (string, error) {
	crlf := strings.Contains(existing, "\r\n")
	text := existing
	if crlf {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	lines := strings.Split(text, "\n")

	type located struct {
		section    Section
		start, end int // inclusive line indexes of the marker lines
		indent     string
	}

	// Locate every section before changing anything: a single missing
	// marker pair aborts the whole patch.
	locs := make([]located, 0, len(sections))
	for _, s := range sections {
		start, end, indent, ok := findSection(lines, s)
		if !ok {
			return "", &NotApplicableError{Section: sectionLabel(s)}
		}
		locs = append(locs, located{section: s, start: start, end: end, indent: indent})
	}

	// Splice in document order, bottom-up, so earlier line indexes stay
	// valid no matter how the caller ordered the sections. The blocks may
	// sit in any order in the file.
	sort.Slice(locs, func(i, j int) bool { return locs[i].start < locs[j].start })
	for i := 0; i+1 < len(locs); i++ {
		if locs[i].end >= locs[i+1].start {
			// Interleaved or nested marker pairs; the regions are
			// ambiguous, so leave the file alone.
			return "", &NotApplicableError{Section: sectionLabel(locs[i+1].section)}
		}
	}
	for i := len(locs) - 1; i >= 0; i-- {
		l := locs[i]
		block := renderBlock(l.section, l.indent)
		lines = append(lines[:l.start], append(block, lines[l.end+1:]...)...)
	}

	out := strings.Join(lines, "\n")
	if crlf {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, nil
}

// findSection locates a section's marker lines. Markers match as whole
// lines, ignoring surrounding whitespace; the start line's leading
// whitespace becomes the block indent.
func findSection(lines []string, s Section) (start, end int, indent string, ok bool) {
	startMarker, endMarker := s.Markers()

	start = -1
	for i, line := range lines {
		if strings.TrimSpace(line) == startMarker {
			start = i
			indent = line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			break
		}
	}
	if start < 0 {
		return 0, 0, "", false
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == endMarker {
			return start, i, indent, true
		}
	}
	return 0, 0, "", false
}

// renderBlock renders a section as marker-delimited lines with the given
// indentation.
func renderBlock(s Section, indent string) []string {
	startMarker, endMarker := s.Markers()

	out := []string{indent + startMarker}
	content := strings.TrimRight(s.Content, "\n")
	if content != "" {
		for _, line := range strings.Split(content, "\n") {
			if line == "" {
				out = append(out, "")
				continue
			}
			out = append(out, indent+line)
		}
	}
	return append(out, indent+endMarker)
}

// RenderBlock renders a section with markers at the given indentation as a
// single string. Emitters use it so fresh files and patched files carry
// byte-identical generated regions.
func RenderBlock(s Section, indent string) string {
	return strings.Join(renderBlock(s, indent), "\n")
}

func sectionLabel(s Section) string {
	if s.Name != "" {
		return s.Name
	}
	start, _ := s.Markers()
	return start
}
