package importer

import (
	"strings"
	"unicode"
)

// Section identifies one of the body sections the importer understands.
type Section int

const (
	SectionSkills Section = iota + 1
	SectionTestimonials
	SectionPortfolioItems
)

// sectionsByKey maps a normalized heading to its section.
// Headings not listed here are ignored.
var sectionsByKey = map[string]Section{
	"skills":         SectionSkills,
	"testimonials":   SectionTestimonials,
	"portfolioitems": SectionPortfolioItems,
}

// String returns the human name used in error messages.
func (s Section) String() string {
	switch s {
	case SectionSkills:
		return "Skills"
	case SectionTestimonials:
		return "Testimonials"
	case SectionPortfolioItems:
		return "Portfolio Items"
	default:
		return "Unknown"
	}
}

// Heading returns the level-1 heading written by the exporter.
func (s Section) Heading() string {
	switch s {
	case SectionPortfolioItems:
		return "PortfolioItems"
	default:
		return s.String()
	}
}

// SplitSections divides a Markdown body into level-1 sections.
//
// The result maps the normalized title (lower-cased, whitespace removed)
// to the trimmed section body. Text before the first heading is dropped.
// A heading that appears twice keeps the last body.
func SplitSections(body string) map[string]string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	sections := make(map[string]string)

	var (
		current string
		inside  bool
		buf     strings.Builder
	)
	flush := func() {
		if inside {
			sections[current] = strings.TrimSpace(buf.String())
		}
		buf.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		if title, ok := headingTitle(line); ok {
			flush()
			current = normalizeTitle(title)
			inside = true
			continue
		}
		if inside {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	flush()

	return sections
}

// headingTitle reports whether line opens a level-1 section.
// "# Skills" does, "## Skills" and "#Skills" do not.
func headingTitle(line string) (string, bool) {
	if len(line) < 2 || line[0] != '#' {
		return "", false
	}
	if line[1] != ' ' && line[1] != '\t' {
		return "", false
	}
	title := strings.TrimSpace(line[2:])
	if strings.HasPrefix(title, "#") {
		return "", false
	}
	return title, true
}

func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// knownSections keeps only the sections the importer has a parser for.
func knownSections(raw map[string]string) map[Section]string {
	out := make(map[Section]string, len(raw))
	for key, body := range raw {
		if s, ok := sectionsByKey[key]; ok {
			out[s] = body
		}
	}
	return out
}
