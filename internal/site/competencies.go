package site

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

const (
	titleSkills   = "Core Competencies"
	titleAI       = "AI Core Competencies"
	titleAIResult = "AI-Generated Core Competencies"

	msgNoSkills = "No skills listed. You can add them in the # Skills section of your content file."
	msgAIFailed = "Failed to generate AI keywords. Please check the server logs for details."
)

// competencies builds the skills block. nil means the block is hidden.
func (s *Service) competencies(ctx context.Context, data *domain.PortfolioData) *Competencies {
	if !data.SiteSettings.UseAIForKeywords {
		if len(data.Skills) == 0 {
			return &Competencies{
				Source:   SourceSkills,
				Title:    titleSkills,
				Keywords: []string{},
				Notice:   &Notice{Level: LevelInfo, Message: msgNoSkills},
			}
		}
		return &Competencies{Source: SourceSkills, Title: titleSkills, Keywords: data.Skills}
	}

	if s.keywords == nil || !s.keywords.Configured() {
		return &Competencies{
			Source:   SourceAI,
			Title:    titleAI,
			Keywords: []string{},
			Notice: &Notice{
				Level: LevelWarning,
				Message: fmt.Sprintf("AI keyword generation is enabled in your settings, but your %s is missing. "+
					"Please add it to the .env file or disable AI keywords in your content settings.", s.credentialEnv),
			},
		}
	}

	keywords, err := s.keywords.OptimizeKeywords(ctx, PortfolioContent(data))
	if err != nil {
		s.logger.Error("failed to fetch AI keywords", logger.Error(err))
		return &Competencies{
			Source:   SourceAI,
			Title:    titleAI,
			Keywords: []string{},
			Notice:   &Notice{Level: LevelError, Message: msgAIFailed},
		}
	}
	if len(keywords) == 0 {
		return nil
	}
	return &Competencies{Source: SourceAI, Title: titleAIResult, Keywords: keywords}
}
