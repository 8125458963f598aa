package domain

// PortfolioData is the single document every page is rendered from.
//
// It is persisted as one JSON file and replaced wholesale on every
// successful content update. Collections are never nil once the
// document went through Normalize.
type PortfolioData struct {
	SiteSettings   SiteSettings    `json:"siteSettings" yaml:"siteSettings"`
	AboutMe        AboutMe         `json:"aboutMe" yaml:"aboutMe"`
	Contact        Contact         `json:"contact" yaml:"contact"`
	Skills         []string        `json:"skills" yaml:"skills"`
	PortfolioItems []PortfolioItem `json:"portfolioItems" yaml:"portfolioItems"`
	Testimonials   []Testimonial   `json:"testimonials" yaml:"testimonials"`
}

// ─────────────────────────────
// Settings & profile
// ─────────────────────────────

// SiteSettings holds the display toggles and site chrome.
type SiteSettings struct {
	LogoURL              string       `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
	BackgroundURL        string       `json:"backgroundUrl,omitempty" yaml:"backgroundUrl,omitempty"`
	ShowTestimonials     bool         `json:"showTestimonials" yaml:"showTestimonials"`
	ShowFeaturedProjects bool         `json:"showFeaturedProjects" yaml:"showFeaturedProjects"`
	UseAIForKeywords     bool         `json:"useAiForKeywords" yaml:"useAiForKeywords"`
	NavLinks             []NavLink    `json:"navLinks" yaml:"navLinks"`
	SocialLinks          []SocialLink `json:"socialLinks" yaml:"socialLinks"`
	HomeHero             HomeHero     `json:"homeHero" yaml:"homeHero"`
}

type NavLink struct {
	Href   string `json:"href" yaml:"href"`
	Label  string `json:"label" yaml:"label"`
	Hidden bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// SocialLink name is free-form; GitHub, LinkedIn and Twitter get icons.
type SocialLink struct {
	Name string `json:"name" yaml:"name"`
	Href string `json:"href" yaml:"href"`
}

type HomeHero struct {
	Headline    string `json:"headline" yaml:"headline"`
	Subheadline string `json:"subheadline" yaml:"subheadline"`
}

type AboutMe struct {
	Narrative            string `json:"narrative" yaml:"narrative"`
	ProfessionalPhotoURL string `json:"professionalPhotoUrl" yaml:"professionalPhotoUrl"`
	ResumeURL            string `json:"resumeUrl" yaml:"resumeUrl"`
	BriefResumeURL       string `json:"briefResumeUrl" yaml:"briefResumeUrl"`
}

type Contact struct {
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Location string `json:"location" yaml:"location"`
}

// ─────────────────────────────
// Collections
// ─────────────────────────────

// PortfolioItem is one project. ID is used in URLs and must stay stable
// across imports.
type PortfolioItem struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Images      []string  `json:"images" yaml:"images"`
	ImageHint   string    `json:"imageHint" yaml:"imageHint"`
	CaseStudy   CaseStudy `json:"caseStudy" yaml:"caseStudy"`
}

type CaseStudy struct {
	Role      string `json:"role" yaml:"role"`
	Challenge string `json:"challenge" yaml:"challenge"`
	Process   string `json:"process" yaml:"process"`
	Results   string `json:"results" yaml:"results"`
}

type Testimonial struct {
	Quote     string `json:"quote" yaml:"quote"`
	Name      string `json:"name" yaml:"name"`
	Title     string `json:"title" yaml:"title"`
	AvatarURL string `json:"avatarUrl" yaml:"avatarUrl"`
}

// Normalize replaces nil collections with empty ones so the document
// always serializes arrays, never null.
func (p *PortfolioData) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.PortfolioItems == nil {
		p.PortfolioItems = []PortfolioItem{}
	}
	if p.Testimonials == nil {
		p.Testimonials = []Testimonial{}
	}
	if p.SiteSettings.NavLinks == nil {
		p.SiteSettings.NavLinks = []NavLink{}
	}
	if p.SiteSettings.SocialLinks == nil {
		p.SiteSettings.SocialLinks = []SocialLink{}
	}
	for i := range p.PortfolioItems {
		if p.PortfolioItems[i].Images == nil {
			p.PortfolioItems[i].Images = []string{}
		}
	}
}

// Clone returns a deep copy so callers can mutate the result without
// touching the original.
func (p *PortfolioData) Clone() *PortfolioData {
	out := *p
	out.Skills = append([]string(nil), p.Skills...)
	out.Testimonials = append([]Testimonial(nil), p.Testimonials...)
	out.SiteSettings.NavLinks = append([]NavLink(nil), p.SiteSettings.NavLinks...)
	out.SiteSettings.SocialLinks = append([]SocialLink(nil), p.SiteSettings.SocialLinks...)
	out.PortfolioItems = make([]PortfolioItem, len(p.PortfolioItems))
	for i, item := range p.PortfolioItems {
		item.Images = append([]string(nil), item.Images...)
		out.PortfolioItems[i] = item
	}
	out.Normalize()
	return &out
}

// FindItem returns the portfolio item with the given id.
func (p *PortfolioData) FindItem(id string) (PortfolioItem, bool) {
	for _, item := range p.PortfolioItems {
		if item.ID == id {
			return item, true
		}
	}
	return PortfolioItem{}, false
}
