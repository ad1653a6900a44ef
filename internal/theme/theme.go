package theme

import (
	"strings"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/domain"
)

// Theme is the presentation of one universe. Views receive it explicitly.
type Theme struct {
	Name     string
	Accent   string
	Fallback string
}

// placeholders are upstream images that stand for "no image".
var placeholders = []string{
	"image_not_available",
}

// Image returns url, or the fallback image when url cannot be shown.
func (t Theme) Image(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return t.Fallback
	}
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return t.Fallback
	}
	for _, p := range placeholders {
		if strings.Contains(lower, p) {
			return t.Fallback
		}
	}
	return url
}

// Registry maps every universe to its theme.
type Registry struct {
	themes   map[domain.Universe]Theme
	fallback Theme
}

func NewRegistry(cfg map[string]config.Theme) *Registry {
	r := &Registry{
		themes:   make(map[domain.Universe]Theme, len(domain.Universes)),
		fallback: Theme{Name: "Multiverse"},
	}
	for _, u := range domain.Universes {
		t := Theme{Name: u.GetUniverseName()}
		if c, ok := cfg[u.String()]; ok {
			if c.Title != "" {
				t.Name = c.Title
			}
			t.Accent = c.Accent
			t.Fallback = c.Fallback
		}
		r.themes[u] = t
	}
	return r
}

// For returns the theme of u, or a neutral theme for unknown universes.
func (r *Registry) For(u domain.Universe) Theme {
	if t, ok := r.themes[u]; ok {
		return t
	}
	return r.fallback
}
