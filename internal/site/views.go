package site

import "github.com/MrSnakeDoc/folio/internal/domain"

// FeaturedLimit is how many projects the home page shows.
const FeaturedLimit = 3

type SiteView struct {
	LogoURL       string              `json:"logoUrl,omitempty"`
	BackgroundURL string              `json:"backgroundUrl,omitempty"`
	NavLinks      []domain.NavLink    `json:"navLinks"`
	SocialLinks   []domain.SocialLink `json:"socialLinks"`
}

type HomeView struct {
	Hero             domain.HomeHero      `json:"hero"`
	FeaturedProjects []ItemView           `json:"featuredProjects"`
	Testimonials     []domain.Testimonial `json:"testimonials"`
	Competencies     *Competencies        `json:"competencies,omitempty"`
}

// Competencies is the skills block of the home page, either owner-listed
// skills or AI-extracted keywords.
type Competencies struct {
	Source   string   `json:"source"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Notice   *Notice  `json:"notice,omitempty"`
}

const (
	SourceSkills = "skills"
	SourceAI     = "ai"
)

// Notice is a message shown in place of (or next to) the block content.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

type AboutView struct {
	Narrative            string   `json:"narrative"`
	NarrativeHTML        string   `json:"narrativeHtml"`
	ProfessionalPhotoURL string   `json:"professionalPhotoUrl"`
	ResumeURL            string   `json:"resumeUrl"`
	BriefResumeURL       string   `json:"briefResumeUrl"`
	Skills               []string `json:"skills"`
}

type ItemView struct {
	domain.PortfolioItem
	DescriptionHTML string `json:"descriptionHtml"`
}

type PortfolioView struct {
	Items []ItemView `json:"items"`
}

type ContactView struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}
