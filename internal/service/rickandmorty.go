package service

import (
	"context"
	"fmt"
	"strings"

	"multiverse/browser/internal/client"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/state"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type RickAndMortyService struct {
	client     client.RickAndMortyClient
	cache      state.Cache
	maxWorkers int
}

func NewRickAndMortyService(client client.RickAndMortyClient, cache state.Cache, maxWorkers int) *RickAndMortyService {
	return &RickAndMortyService{
		client:     client,
		cache:      orNop(cache),
		maxWorkers: max(1, maxWorkers),
	}
}

type pageFunc[T any] func(ctx context.Context, page int) (*domain.NumberedPage[T], error)

// searchAll follows every page of a name-filtered listing so that search
// results are never paginated. Pages after the first load concurrently and
// keep their upstream order.
func searchAll[T any](ctx context.Context, maxWorkers int, fetch pageFunc[T]) ([]T, error) {
	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, err
	}
	if first.Info.Pages <= 1 {
		return nonNil(first.Results), nil
	}

	rest := make([][]T, first.Info.Pages-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i := range rest {
		g.Go(func() error {
			page, err := fetch(gctx, i+2)
			if err != nil {
				return err
			}
			rest[i] = page.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := append(make([]T, 0, first.Info.Count), first.Results...)
	for _, r := range rest {
		results = append(results, r...)
	}
	log.Debugf("Collected %d search results over %d pages", len(results), first.Info.Pages)
	return results, nil
}

func (s *RickAndMortyService) ListCharacters(ctx context.Context, page int) (*domain.NumberedPage[domain.RMCharacter], error) {
	result, err := s.client.ListCharacters(ctx, page, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list rick and morty characters: %w", err)
	}
	return result, nil
}

func (s *RickAndMortyService) SearchCharacters(ctx context.Context, term string) ([]domain.RMCharacter, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.RMCharacter{}, nil
	}
	results, err := searchAll(ctx, s.maxWorkers, func(ctx context.Context, page int) (*domain.NumberedPage[domain.RMCharacter], error) {
		return s.client.ListCharacters(ctx, page, term)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search rick and morty characters %q: %w", term, err)
	}
	return results, nil
}

func (s *RickAndMortyService) CharacterDetail(ctx context.Context, id int) (*domain.RMCharacter, error) {
	return cached(ctx, s.cache, state.Key("rickandmorty:character", id), func(ctx context.Context) (*domain.RMCharacter, error) {
		return s.client.GetCharacter(ctx, id)
	})
}

func (s *RickAndMortyService) ListLocations(ctx context.Context, page int) (*domain.NumberedPage[domain.RMLocation], error) {
	result, err := s.client.ListLocations(ctx, page, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list rick and morty locations: %w", err)
	}
	return result, nil
}

func (s *RickAndMortyService) SearchLocations(ctx context.Context, term string) ([]domain.RMLocation, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.RMLocation{}, nil
	}
	results, err := searchAll(ctx, s.maxWorkers, func(ctx context.Context, page int) (*domain.NumberedPage[domain.RMLocation], error) {
		return s.client.ListLocations(ctx, page, term)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search rick and morty locations %q: %w", term, err)
	}
	return results, nil
}

func (s *RickAndMortyService) LocationDetail(ctx context.Context, id int) (*domain.RMLocation, error) {
	return cached(ctx, s.cache, state.Key("rickandmorty:location", id), func(ctx context.Context) (*domain.RMLocation, error) {
		return s.client.GetLocation(ctx, id)
	})
}

func (s *RickAndMortyService) ListEpisodes(ctx context.Context, page int) (*domain.NumberedPage[domain.RMEpisode], error) {
	result, err := s.client.ListEpisodes(ctx, page, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list rick and morty episodes: %w", err)
	}
	return result, nil
}

func (s *RickAndMortyService) SearchEpisodes(ctx context.Context, term string) ([]domain.RMEpisode, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.RMEpisode{}, nil
	}
	results, err := searchAll(ctx, s.maxWorkers, func(ctx context.Context, page int) (*domain.NumberedPage[domain.RMEpisode], error) {
		return s.client.ListEpisodes(ctx, page, term)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search rick and morty episodes %q: %w", term, err)
	}
	return results, nil
}

func (s *RickAndMortyService) EpisodeDetail(ctx context.Context, id int) (*domain.RMEpisode, error) {
	return cached(ctx, s.cache, state.Key("rickandmorty:episode", id), func(ctx context.Context) (*domain.RMEpisode, error) {
		return s.client.GetEpisode(ctx, id)
	})
}
