package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/fetch"
)

func newTestSource(t *testing.T, resource domain.Resource, handler http.HandlerFunc) Source {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewSource(NewClient(srv.URL+"/api/", 5*time.Second), resource)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func body(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s))
	}
}

func TestSource_offsetPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantMore  bool
		wantTotal *int
	}{
		{"bool next", `{"results":[{"id":1,"name":"bulbasaur","types":["grass"]}],"next":true,"count":1302}`, true, ptr(1302)},
		{"url next", `{"results":[{"id":1,"name":"bulbasaur"}],"next":"https://pokeapi.co/api/v2/pokemon?offset=20"}`, true, nil},
		{"null next", `{"results":[{"id":1,"name":"bulbasaur"}],"next":null,"count":1}`, false, ptr(1)},
		{"false next", `{"results":[],"next":false,"count":0}`, false, ptr(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSource(t, domain.ResourcePokemon, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/pokemon/list" {
					t.Errorf("path got %q", r.URL.Path)
				}
				if r.URL.Query().Get("limit") != "20" || r.URL.Query().Get("offset") != "40" {
					t.Errorf("query got %q", r.URL.RawQuery)
				}
				_, _ = w.Write([]byte(tt.body))
			})

			page, err := s.Page(context.Background(), 20, 40)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.HasMore != tt.wantMore {
				t.Fatalf("HasMore got %t, want %t", page.HasMore, tt.wantMore)
			}
			if (page.TotalCount == nil) != (tt.wantTotal == nil) ||
				(page.TotalCount != nil && *page.TotalCount != *tt.wantTotal) {
				t.Fatalf("TotalCount got %v, want %v", page.TotalCount, tt.wantTotal)
			}
		})
	}
}

func TestSource_pokemonEntry(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, domain.ResourcePokemon,
		body(`{"results":[{"id":25,"name":"mr-mime","image":"https://img/25.png","types":["psychic","fairy"]}],"next":false}`))

	page, err := s.Page(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := page.Items[0]
	if got.ID != "25" || got.Title != "Mr-Mime" || got.Subtitle != "#025" || got.Image != "https://img/25.png" {
		t.Fatalf("entry got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "fairy" {
		t.Fatalf("Tags got %v", got.Tags)
	}
}

func TestSource_numberedPage(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, domain.ResourceRMCharacter, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rickandmorty/characters/list" || r.URL.Query().Get("page") != "3" {
			t.Errorf("request got %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"info":{"count":826,"pages":42,"next":"https://rickandmortyapi.com/api/character?page=4"},
			"results":[{"id":41,"name":"Big Head Morty","status":"unknown","species":"Human"}]}`))
	})

	if _, ok := s.Paging().(fetch.PageNumberPaging); !ok {
		t.Fatalf("Paging got %T, want PageNumberPaging", s.Paging())
	}

	page, err := s.Page(context.Background(), 20, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.HasMore || page.TotalCount == nil || *page.TotalCount != 826 {
		t.Fatalf("page got HasMore=%t TotalCount=%v", page.HasMore, page.TotalCount)
	}
	if page.Items[0].Subtitle != "Human" || page.Items[0].Tags[0] != "unknown" {
		t.Fatalf("entry got %+v", page.Items[0])
	}
}

func TestSource_numberedPage_lastPage(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, domain.ResourceRMEpisode,
		body(`{"info":{"count":51,"pages":3,"next":null},"results":[{"id":51,"name":"Rickmurai Jack","episode":"S05E10"}]}`))

	page, err := s.Page(context.Background(), 20, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.HasMore {
		t.Fatal("HasMore should be false on the last page")
	}
}

func TestSource_searchShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		resource domain.Resource
		body     string
	}{
		{"results object", domain.ResourceMarvelCharacter, `{"results":[{"marvel_id":1009610,"name":"Spider-Man"}]}`},
		{"bare array", domain.ResourceRMCharacter, `[{"id":1,"name":"Rick Sanchez"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSource(t, tt.resource, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("query") != "spi der" {
					t.Errorf("query got %q", r.URL.RawQuery)
				}
				_, _ = w.Write([]byte(tt.body))
			})

			items, err := s.Search()(context.Background(), "spi der")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 || items[0].ID == "" || items[0].Title == "" {
				t.Fatalf("items got %+v", items)
			}
		})
	}
}

func TestSource_notSearchable(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, domain.ResourceMarvelEvent, body(`{}`))
	if s.Search() != nil {
		t.Fatal("events should not expose a search fetcher")
	}
}

func TestSource_errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, fetch.ErrBackend},
		{"not json", body(`<html>`), fetch.ErrBackend},
		{"missing results", body(`{"next":false}`), fetch.ErrBackend},
		{"bad next", body(`{"results":[],"next":42}`), fetch.ErrBackend},
		{"missing id", body(`{"results":[{"name":"nobody"}],"next":false}`), fetch.ErrBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newTestSource(t, domain.ResourcePokemon, tt.handler)
			_, err := s.Page(context.Background(), 20, 0)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSource_networkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(body(`{}`))
	srv.Close()

	s, err := NewSource(NewClient(srv.URL, time.Second), domain.ResourcePokemon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Page(context.Background(), 20, 0); !errors.Is(err, fetch.ErrNetwork) {
		t.Fatalf("got %v, want ErrNetwork", err)
	}
}

func TestSource_Detail_flattens(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, domain.ResourcePokemon, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/pokemon/item/pikachu" {
			t.Errorf("path got %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"name":"pikachu","id":25,"types":["electric"],
			"species":{"habitat":null,"is_legendary":false},
			"stats":[{"name":"hp","base_stat":35}]}`))
	})

	fields, err := s.Detail(context.Background(), "pikachu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Field{
		{"id", "25"},
		{"name", "pikachu"},
		{"species.habitat", "-"},
		{"species.is_legendary", "false"},
		{"stats.1.base_stat", "35"},
		{"stats.1.name", "hp"},
		{"types", "electric"},
	}
	if len(fields) != len(want) {
		t.Fatalf("fields got %+v", fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Errorf("field %d got %+v, want %+v", i, fields[i], want[i])
		}
	}
}

func TestNewSource_unknownResource(t *testing.T) {
	t.Parallel()

	if _, err := NewSource(NewClient("http://localhost", time.Second), domain.Resource{Universe: "digimon"}); err == nil {
		t.Fatal("expected error")
	}
}

func ptr(v int) *int { return &v }

func TestTitleCase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"pikachu", "Pikachu"},
		{"mr-mime", "Mr-Mime"},
		{"élan", "Élan"},
		{"ünown-b", "Ünown-B"},
		{"", ""},
		{"a--b", "A--B"},
	}
	for _, tt := range tests {
		got := TitleCase(tt.in)
		if got != tt.want {
			t.Errorf("TitleCase(%q) got %q, want %q", tt.in, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("TitleCase(%q) produced invalid UTF-8 %q", tt.in, got)
		}
	}
}
