package theme

import (
	"testing"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/domain"
)

func TestTheme_Image(t *testing.T) {
	t.Parallel()

	th := Theme{Name: "Marvel", Fallback: "/assets/images/marvel-placeholder.jpg"}

	tests := []struct {
		url  string
		want string
	}{
		{"http://i.annihil.us/u/prod/marvel/i/mg/3/50/526548a343e4b.jpg", "http://i.annihil.us/u/prod/marvel/i/mg/3/50/526548a343e4b.jpg"},
		{"https://rickandmortyapi.com/api/character/avatar/1.jpeg", "https://rickandmortyapi.com/api/character/avatar/1.jpeg"},
		{"http://i.annihil.us/u/prod/marvel/i/mg/b/40/image_not_available.jpg", th.Fallback},
		{"", th.Fallback},
		{"   ", th.Fallback},
		{"ftp://example.com/a.png", th.Fallback},
		{"not a url", th.Fallback},
	}
	for _, tt := range tests {
		if got := th.Image(tt.url); got != tt.want {
			t.Errorf("Image(%q) got %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry(map[string]config.Theme{
		"marvel": {Title: "Marvel Comics", Accent: "#e62429", Fallback: "/m.jpg"},
	})

	m := r.For(domain.UniverseMarvel)
	if m.Name != "Marvel Comics" || m.Accent != "#e62429" || m.Fallback != "/m.jpg" {
		t.Fatalf("marvel theme got %+v", m)
	}

	p := r.For(domain.UniversePokemon)
	if p.Name != "Pokémon" || p.Fallback != "" {
		t.Fatalf("unconfigured theme got %+v", p)
	}

	if u := r.For("digimon"); u.Name != "Multiverse" {
		t.Fatalf("unknown theme got %+v", u)
	}
}
