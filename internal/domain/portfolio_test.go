package domain

import "testing"

func TestNormalizeFillsNilCollections(t *testing.T) {
	var p PortfolioData
	p.PortfolioItems = []PortfolioItem{{ID: "a"}}
	p.Normalize()

	if p.Skills == nil || p.Testimonials == nil {
		t.Fatal("Normalize() left a nil collection")
	}
	if p.SiteSettings.NavLinks == nil || p.SiteSettings.SocialLinks == nil {
		t.Fatal("Normalize() left nil links")
	}
	if p.PortfolioItems[0].Images == nil {
		t.Error("Normalize() left nil images on item")
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &PortfolioData{
		Skills:         []string{"Go"},
		PortfolioItems: []PortfolioItem{{ID: "a", Images: []string{"/a.png"}}},
	}
	cp := orig.Clone()
	cp.Skills[0] = "Rust"
	cp.PortfolioItems[0].Images[0] = "/b.png"

	if orig.Skills[0] != "Go" {
		t.Errorf("Clone() shared skills slice, got %q", orig.Skills[0])
	}
	if orig.PortfolioItems[0].Images[0] != "/a.png" {
		t.Errorf("Clone() shared images slice, got %q", orig.PortfolioItems[0].Images[0])
	}
}

func TestFindItem(t *testing.T) {
	p := &PortfolioData{PortfolioItems: []PortfolioItem{{ID: "one"}, {ID: "two", Title: "Two"}}}

	item, ok := p.FindItem("two")
	if !ok || item.Title != "Two" {
		t.Errorf("FindItem(two) = %+v, %v", item, ok)
	}
	if _, ok := p.FindItem("missing"); ok {
		t.Error("FindItem(missing) should not be found")
	}
}
