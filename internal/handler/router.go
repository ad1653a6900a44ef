package handler

import (
	"context"
	"net/http"

	"multiverse/browser/internal/domain"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type PokemonService interface {
	List(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.PokemonSummary], error)
	Search(ctx context.Context, term string) (*domain.SearchResults[domain.PokemonSummary], error)
	Detail(ctx context.Context, idOrName string) (*domain.PokemonDetails, error)
}

type MarvelService interface {
	ListCharacters(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.MarvelCharacter], error)
	SearchCharacters(ctx context.Context, term string) (*domain.SearchResults[domain.MarvelCharacter], error)
	CharacterDetail(ctx context.Context, id int) (*domain.MarvelCharacterDetails, error)
	ListComics(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.MarvelComic], error)
	SearchComics(ctx context.Context, term string) (*domain.SearchResults[domain.MarvelComic], error)
	ComicDetail(ctx context.Context, id int) (*domain.MarvelComic, error)
	ListEvents(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.MarvelEvent], error)
	EventDetail(ctx context.Context, id int) (*domain.MarvelEvent, error)
}

type RickAndMortyService interface {
	ListCharacters(ctx context.Context, page int) (*domain.NumberedPage[domain.RMCharacter], error)
	SearchCharacters(ctx context.Context, term string) ([]domain.RMCharacter, error)
	CharacterDetail(ctx context.Context, id int) (*domain.RMCharacter, error)
	ListLocations(ctx context.Context, page int) (*domain.NumberedPage[domain.RMLocation], error)
	SearchLocations(ctx context.Context, term string) ([]domain.RMLocation, error)
	LocationDetail(ctx context.Context, id int) (*domain.RMLocation, error)
	ListEpisodes(ctx context.Context, page int) (*domain.NumberedPage[domain.RMEpisode], error)
	SearchEpisodes(ctx context.Context, term string) ([]domain.RMEpisode, error)
	EpisodeDetail(ctx context.Context, id int) (*domain.RMEpisode, error)
}

// RouterDependencies holds the services behind the HTTP API
type RouterDependencies struct {
	Pokemon      PokemonService
	Marvel       MarvelService
	RickAndMorty RickAndMortyService
}

// NewRouter mounts the catalog endpoints under /api.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/resources", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, domain.Resources)
		})

		r.Route("/"+domain.ResourcePokemon.Path(), func(r chi.Router) {
			r.Get("/list", ListOffset(deps.Pokemon.List))
			r.Get("/search", Search(deps.Pokemon.Search))
			r.Get("/item/{id}", ItemByKey(deps.Pokemon.Detail))
		})

		r.Route("/"+domain.ResourceMarvelCharacter.Path(), func(r chi.Router) {
			r.Get("/list", ListOffset(deps.Marvel.ListCharacters))
			r.Get("/search", Search(deps.Marvel.SearchCharacters))
			r.Get("/item/{id}", ItemByID(deps.Marvel.CharacterDetail))
		})
		r.Route("/"+domain.ResourceMarvelComic.Path(), func(r chi.Router) {
			r.Get("/list", ListOffset(deps.Marvel.ListComics))
			r.Get("/search", Search(deps.Marvel.SearchComics))
			r.Get("/item/{id}", ItemByID(deps.Marvel.ComicDetail))
		})
		r.Route("/"+domain.ResourceMarvelEvent.Path(), func(r chi.Router) {
			r.Get("/list", ListOffset(deps.Marvel.ListEvents))
			r.Get("/item/{id}", ItemByID(deps.Marvel.EventDetail))
		})

		r.Route("/"+domain.ResourceRMCharacter.Path(), func(r chi.Router) {
			r.Get("/list", ListNumbered(deps.RickAndMorty.ListCharacters))
			r.Get("/search", Search(deps.RickAndMorty.SearchCharacters))
			r.Get("/item/{id}", ItemByID(deps.RickAndMorty.CharacterDetail))
		})
		r.Route("/"+domain.ResourceRMLocation.Path(), func(r chi.Router) {
			r.Get("/list", ListNumbered(deps.RickAndMorty.ListLocations))
			r.Get("/search", Search(deps.RickAndMorty.SearchLocations))
			r.Get("/item/{id}", ItemByID(deps.RickAndMorty.LocationDetail))
		})
		r.Route("/"+domain.ResourceRMEpisode.Path(), func(r chi.Router) {
			r.Get("/list", ListNumbered(deps.RickAndMorty.ListEpisodes))
			r.Get("/search", Search(deps.RickAndMorty.SearchEpisodes))
			r.Get("/item/{id}", ItemByID(deps.RickAndMorty.EpisodeDetail))
		})
	})

	return r
}
