// Package site builds the read-only views of the public pages from the
// stored portfolio document and caches them until the next content change.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/folio/internal/cache"
	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/logger"
)

var ErrNotFound = errors.New("project not found")

// Source loads the current document.
type Source interface {
	Load(ctx context.Context) (*domain.PortfolioData, error)
}

// KeywordGenerator extracts SEO keywords; the ai client implements it.
type KeywordGenerator interface {
	Configured() bool
	OptimizeKeywords(ctx context.Context, content string) ([]string, error)
}

// Renderer turns owner prose into HTML.
type Renderer interface {
	Render(source string) (string, error)
}

type Service struct {
	source   Source
	cache    cache.Cache
	keywords KeywordGenerator
	md       Renderer
	logger   logger.Logger
	// credentialEnv is named in the warning shown when AI keywords are
	// enabled without a key.
	credentialEnv string

	// generation changes on every Invalidate. A view built from a load
	// that started in an older generation is served but not cached.
	generation atomic.Uint64
	// writes holds Set and the generation check together against a flush.
	writes sync.RWMutex
}

func NewService(source Source, c cache.Cache, keywords KeywordGenerator, md Renderer, credentialEnv string, log logger.Logger) *Service {
	return &Service{
		source:        source,
		cache:         c,
		keywords:      keywords,
		md:            md,
		logger:        log,
		credentialEnv: credentialEnv,
	}
}

// Invalidate drops every cached view.
func (s *Service) Invalidate(ctx context.Context) error {
	s.writes.Lock()
	defer s.writes.Unlock()
	s.generation.Add(1)
	if err := s.cache.Flush(ctx); err != nil {
		return fmt.Errorf("flush view cache: %w", err)
	}
	s.logger.Debug("view cache flushed")
	return nil
}

func (s *Service) Site(ctx context.Context) (SiteView, error) {
	return cached(ctx, s, "site", func(ctx context.Context, data *domain.PortfolioData) (SiteView, bool, error) {
		st := data.SiteSettings
		nav := make([]domain.NavLink, 0, len(st.NavLinks))
		for _, l := range st.NavLinks {
			if !l.Hidden {
				nav = append(nav, l)
			}
		}
		return SiteView{
			LogoURL:       st.LogoURL,
			BackgroundURL: st.BackgroundURL,
			NavLinks:      nav,
			SocialLinks:   st.SocialLinks,
		}, true, nil
	})
}

func (s *Service) Home(ctx context.Context) (HomeView, error) {
	return cached(ctx, s, "home", func(ctx context.Context, data *domain.PortfolioData) (HomeView, bool, error) {
		st := data.SiteSettings
		view := HomeView{
			Hero:             st.HomeHero,
			FeaturedProjects: []ItemView{},
			Testimonials:     []domain.Testimonial{},
		}

		if st.ShowFeaturedProjects && len(data.PortfolioItems) > 0 {
			n := min(len(data.PortfolioItems), FeaturedLimit)
			items, err := s.itemViews(data.PortfolioItems[:n])
			if err != nil {
				return view, false, err
			}
			view.FeaturedProjects = items
		}
		if st.ShowTestimonials && len(data.Testimonials) > 0 {
			view.Testimonials = data.Testimonials
		}

		comp := s.competencies(ctx, data)
		view.Competencies = comp
		// A failed AI call is retried on the next request.
		cacheable := comp == nil || comp.Notice == nil || comp.Notice.Level != LevelError
		return view, cacheable, nil
	})
}

func (s *Service) About(ctx context.Context) (AboutView, error) {
	return cached(ctx, s, "about", func(ctx context.Context, data *domain.PortfolioData) (AboutView, bool, error) {
		html, err := s.md.Render(data.AboutMe.Narrative)
		if err != nil {
			return AboutView{}, false, err
		}
		return AboutView{
			Narrative:            data.AboutMe.Narrative,
			NarrativeHTML:        html,
			ProfessionalPhotoURL: data.AboutMe.ProfessionalPhotoURL,
			ResumeURL:            data.AboutMe.ResumeURL,
			BriefResumeURL:       data.AboutMe.BriefResumeURL,
			Skills:               data.Skills,
		}, true, nil
	})
}

func (s *Service) Portfolio(ctx context.Context) (PortfolioView, error) {
	return cached(ctx, s, "portfolio", func(ctx context.Context, data *domain.PortfolioData) (PortfolioView, bool, error) {
		items, err := s.itemViews(data.PortfolioItems)
		if err != nil {
			return PortfolioView{}, false, err
		}
		return PortfolioView{Items: items}, true, nil
	})
}

// PortfolioItem returns one project or ErrNotFound.
func (s *Service) PortfolioItem(ctx context.Context, id string) (ItemView, error) {
	return cached(ctx, s, "portfolio:"+id, func(ctx context.Context, data *domain.PortfolioData) (ItemView, bool, error) {
		item, ok := data.FindItem(id)
		if !ok {
			return ItemView{}, false, ErrNotFound
		}
		views, err := s.itemViews([]domain.PortfolioItem{item})
		if err != nil {
			return ItemView{}, false, err
		}
		return views[0], true, nil
	})
}

func (s *Service) Contact(ctx context.Context) (ContactView, error) {
	return cached(ctx, s, "contact", func(ctx context.Context, data *domain.PortfolioData) (ContactView, bool, error) {
		return ContactView{
			Email:    data.Contact.Email,
			Phone:    data.Contact.Phone,
			Location: data.Contact.Location,
		}, true, nil
	})
}

func (s *Service) itemViews(items []domain.PortfolioItem) ([]ItemView, error) {
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		html, err := s.md.Render(item.Description)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", item.ID, err)
		}
		out = append(out, ItemView{PortfolioItem: item, DescriptionHTML: html})
	}
	return out, nil
}

// PortfolioContent is the text sent to the keyword model.
func PortfolioContent(data *domain.PortfolioData) string {
	var b strings.Builder
	b.WriteString("About Me: " + data.AboutMe.Narrative + "\n")
	b.WriteString("My Skills: " + strings.Join(data.Skills, ", ") + "\n")
	b.WriteString("Projects:\n")
	for _, item := range data.PortfolioItems {
		b.WriteString(item.Title + ": " + item.Description + "\n")
	}
	return b.String()
}

// cached serves key from the cache or builds, stores and returns it.
// Cache failures degrade to an uncached build.
func cached[T any](ctx context.Context, s *Service, key string, build func(context.Context, *domain.PortfolioData) (T, bool, error)) (T, error) {
	var zero T

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("view cache read failed", logger.String("view", key), logger.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		s.logger.Warn("discarding undecodable cached view", logger.String("view", key))
	}

	gen := s.generation.Load()
	data, err := s.source.Load(ctx)
	if err != nil {
		return zero, fmt.Errorf("load portfolio: %w", err)
	}

	v, cacheable, err := build(ctx, data)
	if err != nil {
		return zero, err
	}

	if cacheable {
		raw, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("encode view %s: %w", key, err)
		}
		s.store(ctx, key, raw, gen)
	}
	return v, nil
}

// store caches raw unless an invalidation happened since gen was read.
func (s *Service) store(ctx context.Context, key string, raw []byte, gen uint64) {
	s.writes.RLock()
	defer s.writes.RUnlock()
	if s.generation.Load() != gen {
		s.logger.Debug("skipping stale view", logger.String("view", key))
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.logger.Warn("view cache write failed", logger.String("view", key), logger.Error(err))
	}
}
