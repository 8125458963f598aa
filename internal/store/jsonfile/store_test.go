package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

func sample() *domain.PortfolioData {
	return &domain.PortfolioData{
		SiteSettings: domain.SiteSettings{
			LogoURL:          "/logo.svg",
			ShowTestimonials: true,
			NavLinks:         []domain.NavLink{{Href: "/", Label: "Home"}},
			HomeHero:         domain.HomeHero{Headline: "Hello"},
		},
		Skills: []string{"Go", "Redis"},
		PortfolioItems: []domain.PortfolioItem{
			{ID: "folio", Title: "Folio"},
		},
	}
}

func TestLoadMissingFileReturnsEmptyDocument(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "data.json"))

	data, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, data.Skills)
	assert.Empty(t, data.PortfolioItems)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "data.json")
	s := New(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sample()))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Redis"}, got.Skills)
	assert.Equal(t, "folio", got.PortfolioItems[0].ID)
	assert.NotNil(t, got.PortfolioItems[0].Images)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"siteSettings\"")
	assert.NotContains(t, string(raw), "null")
}

func TestSaveRejectsInvalidDocumentAndKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s := New(path)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, sample()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	bad := sample()
	bad.PortfolioItems = append(bad.PortfolioItems, domain.PortfolioItem{Title: "no id"})
	err = s.Save(ctx, bad)

	require.ErrorIs(t, err, ErrInvalidDocument)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadRejectsHandEditedBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"skills": "not a list"}`), 0o644))

	_, err := New(path).Load(context.Background())

	require.ErrorIs(t, err, ErrInvalidDocument)
}

func TestLoadHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(filepath.Join(t.TempDir(), "data.json")).Load(ctx)

	require.ErrorIs(t, err, context.Canceled)
}
