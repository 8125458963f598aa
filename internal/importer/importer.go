package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

var (
	ErrMissingID   = errors.New("missing id and title")
	ErrDuplicateID = errors.New("duplicate id")
)

// Document is a parsed import file. A nil collection means the section
// was absent and the stored collection must be kept; a non-nil empty one
// means the section was present and empties the collection.
type Document struct {
	Frontmatter    Frontmatter
	Skills         *[]string
	Testimonials   *[]domain.Testimonial
	PortfolioItems *[]domain.PortfolioItem
}

// Parse reads frontmatter and sections from a Markdown document.
// Nothing is applied; a returned error leaves the caller's state untouched.
func Parse(source []byte) (*Document, error) {
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))

	block, body, err := splitFrontmatter(source)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	fm, err := parseFrontmatter(block)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	doc := &Document{Frontmatter: fm}

	sections := knownSections(SplitSections(string(body)))
	for _, section := range []Section{SectionSkills, SectionTestimonials, SectionPortfolioItems} {
		content, ok := sections[section]
		if !ok {
			continue
		}
		switch section {
		case SectionSkills:
			skills := parseSkills(content)
			doc.Skills = &skills
		case SectionTestimonials:
			items, err := parseRecords[domain.Testimonial](content, section)
			if err != nil {
				return nil, err
			}
			doc.Testimonials = &items
		case SectionPortfolioItems:
			items, err := parseRecords[domain.PortfolioItem](content, section)
			if err != nil {
				return nil, err
			}
			if err := assignItemIDs(items); err != nil {
				return nil, err
			}
			doc.PortfolioItems = &items
		}
	}

	return doc, nil
}

// Apply merges the document into a copy of current and returns the copy.
func (d *Document) Apply(current *domain.PortfolioData) *domain.PortfolioData {
	next := current.Clone()
	d.Frontmatter.Merge(next)

	if d.Skills != nil {
		next.Skills = *d.Skills
	}
	if d.Testimonials != nil {
		next.Testimonials = *d.Testimonials
	}
	if d.PortfolioItems != nil {
		next.PortfolioItems = *d.PortfolioItems
	}

	next.Normalize()
	return next
}

// Import parses source and merges it into current in one step.
func Import(source []byte, current *domain.PortfolioData) (*domain.PortfolioData, error) {
	doc, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return doc.Apply(current), nil
}

// assignItemIDs derives missing ids from titles and rejects duplicates.
func assignItemIDs(items []domain.PortfolioItem) error {
	seen := make(map[string]bool, len(items))
	for i := range items {
		item := &items[i]
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			if strings.TrimSpace(item.Title) == "" {
				return &SectionError{Section: SectionPortfolioItems, Index: i + 1, Err: ErrMissingID}
			}
			id, err := slug.Normalize(item.Title)
			if err != nil {
				return &SectionError{Section: SectionPortfolioItems, Index: i + 1, Err: fmt.Errorf("derive id from title: %w", err)}
			}
			item.ID = id
		}
		if seen[item.ID] {
			return &SectionError{Section: SectionPortfolioItems, Index: i + 1, Err: fmt.Errorf("%w %q", ErrDuplicateID, item.ID)}
		}
		seen[item.ID] = true
	}
	return nil
}
