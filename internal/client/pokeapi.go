package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/proxy"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const maxPokemonMoves = 10

type PokeAPIClient interface {
	ListPokemon(ctx context.Context, limit, offset int) (*PokemonList, error)
	GetPokemonSummary(ctx context.Context, idOrName string) (*domain.PokemonSummary, error)
	GetPokemonDetails(ctx context.Context, idOrName string) (*domain.PokemonDetails, error)
}

// PokemonList is one page of the upstream list with summaries resolved.
type PokemonList struct {
	Count     int
	Summaries []domain.PokemonSummary
}

type pokeAPIClient struct {
	rest       *restClient
	maxWorkers int
}

func NewPokeAPIClient(cfg config.PokeAPIConfig, httpCfg config.HTTPConfig, proxySupplier proxy.ProxySupplier) PokeAPIClient {
	return &pokeAPIClient{
		rest:       newRestClient("pokeapi", cfg.BaseURL, httpCfg, proxySupplier),
		maxWorkers: max(1, httpCfg.MaxWorkers),
	}
}

type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokemonListResponse struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []namedRef `json:"results"`
}

type sprite struct {
	FrontDefault string `json:"front_default"`
}

type pokemonResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience int    `json:"base_experience"`
	Types          []struct {
		Type namedRef `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability  namedRef `json:"ability"`
		IsHidden bool     `json:"is_hidden"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int      `json:"base_stat"`
		Effort   int      `json:"effort"`
		Stat     namedRef `json:"stat"`
	} `json:"stats"`
	Moves []struct {
		Move namedRef `json:"move"`
	} `json:"moves"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		FrontShiny   string `json:"front_shiny"`
		BackDefault  string `json:"back_default"`
		BackShiny    string `json:"back_shiny"`
		Other        struct {
			OfficialArtwork sprite `json:"official-artwork"`
			DreamWorld      sprite `json:"dream_world"`
		} `json:"other"`
	} `json:"sprites"`
	Species namedRef `json:"species"`
}

type speciesResponse struct {
	Name              string    `json:"name"`
	IsLegendary       bool      `json:"is_legendary"`
	IsMythical        bool      `json:"is_mythical"`
	GenderRate        int       `json:"gender_rate"`
	Habitat           *namedRef `json:"habitat"`
	FlavorTextEntries []struct {
		FlavorText string   `json:"flavor_text"`
		Language   namedRef `json:"language"`
	} `json:"flavor_text_entries"`
}

func (c *pokeAPIClient) ListPokemon(ctx context.Context, limit, offset int) (*PokemonList, error) {
	var list pokemonListResponse
	err := c.rest.getJSON(ctx, "/pokemon", map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}, &list)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pokemon list: %w", err)
	}

	// Summaries are fetched concurrently; entries that fail are left out.
	summaries := make([]*domain.PokemonSummary, len(list.Results))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)

	for i, ref := range list.Results {
		g.Go(func() error {
			summary, err := c.GetPokemonSummary(gctx, ref.Name)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Errorf("❌ Failed to fetch pokemon %s: %v", ref.Name, err)
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch pokemon summaries: %w", err)
	}

	result := &PokemonList{
		Count:     list.Count,
		Summaries: make([]domain.PokemonSummary, 0, len(summaries)),
	}
	for _, s := range summaries {
		if s != nil {
			result.Summaries = append(result.Summaries, *s)
		}
	}

	log.Debugf("Fetched %d of %d pokemon at offset %d", len(result.Summaries), len(list.Results), offset)
	return result, nil
}

func (c *pokeAPIClient) GetPokemonSummary(ctx context.Context, idOrName string) (*domain.PokemonSummary, error) {
	p, err := c.getPokemon(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	image := p.Sprites.Other.OfficialArtwork.FrontDefault
	if image == "" {
		image = p.Sprites.FrontDefault
	}
	return &domain.PokemonSummary{
		ID:    p.ID,
		Name:  p.Name,
		Image: image,
		Types: pokemonTypes(p),
	}, nil
}

func (c *pokeAPIClient) GetPokemonDetails(ctx context.Context, idOrName string) (*domain.PokemonDetails, error) {
	p, err := c.getPokemon(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	var species speciesResponse
	if err := c.rest.getJSON(ctx, "/pokemon-species/"+url.PathEscape(p.Species.Name), nil, &species); err != nil {
		return nil, fmt.Errorf("failed to fetch species %s: %w", p.Species.Name, err)
	}

	details := &domain.PokemonDetails{
		ID:             p.ID,
		Name:           p.Name,
		Height:         float64(p.Height) / 10,
		Weight:         float64(p.Weight) / 10,
		BaseExperience: p.BaseExperience,
		Types:          pokemonTypes(p),
		Abilities:      make([]domain.PokemonAbility, 0, len(p.Abilities)),
		Stats:          make([]domain.PokemonStat, 0, len(p.Stats)),
		Moves:          make([]string, 0, maxPokemonMoves),
		Images: domain.PokemonImages{
			FrontDefault:    p.Sprites.FrontDefault,
			FrontShiny:      p.Sprites.FrontShiny,
			BackDefault:     p.Sprites.BackDefault,
			BackShiny:       p.Sprites.BackShiny,
			OfficialArtwork: p.Sprites.Other.OfficialArtwork.FrontDefault,
			DreamWorld:      p.Sprites.Other.DreamWorld.FrontDefault,
		},
		Species: domain.PokemonSpecies{
			Name:        species.Name,
			IsLegendary: species.IsLegendary,
			IsMythical:  species.IsMythical,
			GenderRate:  domain.NewGenderRate(species.GenderRate),
		},
	}

	for _, a := range p.Abilities {
		details.Abilities = append(details.Abilities, domain.PokemonAbility{Name: a.Ability.Name, IsHidden: a.IsHidden})
	}
	for _, s := range p.Stats {
		details.Stats = append(details.Stats, domain.PokemonStat{Name: s.Stat.Name, BaseStat: s.BaseStat, Effort: s.Effort})
	}
	for _, m := range p.Moves {
		if len(details.Moves) == maxPokemonMoves {
			break
		}
		details.Moves = append(details.Moves, m.Move.Name)
	}
	if species.Habitat != nil {
		habitat := species.Habitat.Name
		details.Species.Habitat = &habitat
	}
	for _, entry := range species.FlavorTextEntries {
		if entry.Language.Name == "en" {
			details.Species.FlavorText = cleanFlavorText(entry.FlavorText)
			break
		}
	}

	return details, nil
}

func (c *pokeAPIClient) getPokemon(ctx context.Context, idOrName string) (*pokemonResponse, error) {
	key := strings.ToLower(strings.TrimSpace(idOrName))
	if key == "" {
		return nil, fmt.Errorf("pokemon %q: %w", idOrName, ErrNotFound)
	}

	var p pokemonResponse
	if err := c.rest.getJSON(ctx, "/pokemon/"+url.PathEscape(key), nil, &p); err != nil {
		return nil, fmt.Errorf("failed to fetch pokemon %s: %w", key, err)
	}
	return &p, nil
}

func pokemonTypes(p *pokemonResponse) []string {
	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, t.Type.Name)
	}
	return types
}
