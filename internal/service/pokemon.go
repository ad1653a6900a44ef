package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"multiverse/browser/internal/client"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/state"

	log "github.com/sirupsen/logrus"
)

type PokemonService struct {
	client client.PokeAPIClient
	cache  state.Cache
}

func NewPokemonService(client client.PokeAPIClient, cache state.Cache) *PokemonService {
	return &PokemonService{
		client: client,
		cache:  orNop(cache),
	}
}

func (s *PokemonService) List(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.PokemonSummary], error) {
	list, err := s.client.ListPokemon(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list pokemon: %w", err)
	}
	return domain.NewOffsetPage(list.Summaries, limit, offset, list.Count), nil
}

// Search is an exact lookup by name or id, so it yields zero or one result.
func (s *PokemonService) Search(ctx context.Context, term string) (*domain.SearchResults[domain.PokemonSummary], error) {
	term = strings.TrimSpace(term)
	results := &domain.SearchResults[domain.PokemonSummary]{Results: []domain.PokemonSummary{}}
	if term == "" {
		return results, nil
	}

	summary, err := s.client.GetPokemonSummary(ctx, term)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			log.Debugf("No pokemon matches %q", term)
			return results, nil
		}
		return nil, fmt.Errorf("failed to search pokemon %q: %w", term, err)
	}

	results.Results = append(results.Results, *summary)
	return results, nil
}

func (s *PokemonService) Detail(ctx context.Context, idOrName string) (*domain.PokemonDetails, error) {
	key := state.Key("pokemon", strings.ToLower(strings.TrimSpace(idOrName)))
	return cached(ctx, s.cache, key, func(ctx context.Context) (*domain.PokemonDetails, error) {
		return s.client.GetPokemonDetails(ctx, idOrName)
	})
}
