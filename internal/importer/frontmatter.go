package importer

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

const frontmatterDelimiter = "---"

var ErrUnclosedFrontmatter = errors.New("missing closing '---' line")

// Frontmatter is the recognized preamble of an import document.
//
// Every field is a pointer: nil means the key was absent (or null) and
// the stored value must be kept.
type Frontmatter struct {
	LogoURL              *string              `yaml:"logoUrl,omitempty"`
	BackgroundURL        *string              `yaml:"backgroundUrl,omitempty"`
	ShowTestimonials     *bool                `yaml:"showTestimonials,omitempty"`
	ShowFeaturedProjects *bool                `yaml:"showFeaturedProjects,omitempty"`
	UseAIForKeywords     *bool                `yaml:"useAiForKeywords,omitempty"`
	NavLinks             *[]domain.NavLink    `yaml:"navLinks,omitempty"`
	SocialLinks          *[]domain.SocialLink `yaml:"socialLinks,omitempty"`
	HomeHero             *HomeHeroPatch       `yaml:"homeHero,omitempty"`
	AboutMe              *AboutMePatch        `yaml:"aboutMe,omitempty"`
	Contact              *ContactPatch        `yaml:"contact,omitempty"`
}

type HomeHeroPatch struct {
	Headline    *string `yaml:"headline,omitempty"`
	Subheadline *string `yaml:"subheadline,omitempty"`
}

type AboutMePatch struct {
	Narrative            *string `yaml:"narrative,omitempty"`
	ProfessionalPhotoURL *string `yaml:"professionalPhotoUrl,omitempty"`
	ResumeURL            *string `yaml:"resumeUrl,omitempty"`
	BriefResumeURL       *string `yaml:"briefResumeUrl,omitempty"`
}

type ContactPatch struct {
	Email    *string `yaml:"email,omitempty"`
	Phone    *string `yaml:"phone,omitempty"`
	Location *string `yaml:"location,omitempty"`
}

// splitFrontmatter cuts source into its YAML preamble and the Markdown
// body. The preamble opens on the first non-blank line and closes on the
// next "---" line starting in column 0; indented "---" lines belong to
// YAML block scalars. A document without a preamble is all body.
func splitFrontmatter(source []byte) (block, body []byte, err error) {
	rest := source
	for len(rest) > 0 {
		line, next := cutLine(rest)
		if len(bytes.TrimSpace(line)) > 0 {
			break
		}
		rest = next
	}

	line, rest := cutLine(rest)
	if !isDelimiter(line) {
		return nil, source, nil
	}

	start := rest
	for offset := 0; len(rest) > 0; {
		line, next := cutLine(rest)
		if isDelimiter(line) {
			return start[:offset], next, nil
		}
		offset += len(rest) - len(next)
		rest = next
	}
	return nil, nil, ErrUnclosedFrontmatter
}

// cutLine returns the first line of b (without its newline) and the rest.
func cutLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:]
	}
	return b, nil
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == frontmatterDelimiter
}

// parseFrontmatter decodes a preamble block. An empty or comment-only
// block is valid.
func parseFrontmatter(block []byte) (Frontmatter, error) {
	var fm Frontmatter
	if len(bytes.TrimSpace(block)) == 0 {
		return fm, nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(block, &node); err != nil {
		return fm, err
	}
	if len(node.Content) == 0 {
		return fm, nil
	}
	if node.Content[0].Kind != yaml.MappingNode {
		return fm, fmt.Errorf("frontmatter %w", ErrNotAnObject)
	}
	if err := node.Decode(&fm); err != nil {
		return fm, err
	}
	return fm, nil
}

// Merge overwrites the fields of data that the frontmatter defines.
func (fm *Frontmatter) Merge(data *domain.PortfolioData) {
	s := &data.SiteSettings
	setString(&s.LogoURL, fm.LogoURL)
	setString(&s.BackgroundURL, fm.BackgroundURL)
	setBool(&s.ShowTestimonials, fm.ShowTestimonials)
	setBool(&s.ShowFeaturedProjects, fm.ShowFeaturedProjects)
	setBool(&s.UseAIForKeywords, fm.UseAIForKeywords)
	if fm.NavLinks != nil {
		s.NavLinks = append([]domain.NavLink{}, (*fm.NavLinks)...)
	}
	if fm.SocialLinks != nil {
		s.SocialLinks = append([]domain.SocialLink{}, (*fm.SocialLinks)...)
	}
	if h := fm.HomeHero; h != nil {
		setString(&s.HomeHero.Headline, h.Headline)
		setString(&s.HomeHero.Subheadline, h.Subheadline)
	}

	if a := fm.AboutMe; a != nil {
		setString(&data.AboutMe.Narrative, a.Narrative)
		setString(&data.AboutMe.ProfessionalPhotoURL, a.ProfessionalPhotoURL)
		setString(&data.AboutMe.ResumeURL, a.ResumeURL)
		setString(&data.AboutMe.BriefResumeURL, a.BriefResumeURL)
	}

	if c := fm.Contact; c != nil {
		setString(&data.Contact.Email, c.Email)
		setString(&data.Contact.Phone, c.Phone)
		setString(&data.Contact.Location, c.Location)
	}
}

// frontmatterOf captures every recognized field of data; used by Export.
func frontmatterOf(data *domain.PortfolioData) Frontmatter {
	s := data.SiteSettings
	nav := append([]domain.NavLink{}, s.NavLinks...)
	social := append([]domain.SocialLink{}, s.SocialLinks...)
	return Frontmatter{
		LogoURL:              ptr(s.LogoURL),
		BackgroundURL:        ptr(s.BackgroundURL),
		ShowTestimonials:     ptr(s.ShowTestimonials),
		ShowFeaturedProjects: ptr(s.ShowFeaturedProjects),
		UseAIForKeywords:     ptr(s.UseAIForKeywords),
		NavLinks:             &nav,
		SocialLinks:          &social,
		HomeHero: &HomeHeroPatch{
			Headline:    ptr(s.HomeHero.Headline),
			Subheadline: ptr(s.HomeHero.Subheadline),
		},
		AboutMe: &AboutMePatch{
			Narrative:            ptr(data.AboutMe.Narrative),
			ProfessionalPhotoURL: ptr(data.AboutMe.ProfessionalPhotoURL),
			ResumeURL:            ptr(data.AboutMe.ResumeURL),
			BriefResumeURL:       ptr(data.AboutMe.BriefResumeURL),
		},
		Contact: &ContactPatch{
			Email:    ptr(data.Contact.Email),
			Phone:    ptr(data.Contact.Phone),
			Location: ptr(data.Contact.Location),
		},
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T { return &v }
