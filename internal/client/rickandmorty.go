package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/proxy"
)

type RickAndMortyClient interface {
	ListCharacters(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMCharacter], error)
	GetCharacter(ctx context.Context, id int) (*domain.RMCharacter, error)
	ListLocations(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMLocation], error)
	GetLocation(ctx context.Context, id int) (*domain.RMLocation, error)
	ListEpisodes(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMEpisode], error)
	GetEpisode(ctx context.Context, id int) (*domain.RMEpisode, error)
}

type rickAndMortyClient struct {
	rest *restClient
}

func NewRickAndMortyClient(cfg config.RickAndMortyConfig, httpCfg config.HTTPConfig, proxySupplier proxy.ProxySupplier) RickAndMortyClient {
	return &rickAndMortyClient{
		rest: newRestClient("rickandmorty", cfg.BaseURL, httpCfg, proxySupplier),
	}
}

type rmPlaceResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (p rmPlaceResponse) toDomain() domain.RMPlace {
	place := domain.RMPlace{Name: p.Name}
	if id, ok := idFromURL(p.URL); ok {
		place.ID = &id
	}
	return place
}

type rmCharacterResponse struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Species  string          `json:"species"`
	Type     string          `json:"type"`
	Gender   string          `json:"gender"`
	Origin   rmPlaceResponse `json:"origin"`
	Location rmPlaceResponse `json:"location"`
	Image    string          `json:"image"`
	Episode  []string        `json:"episode"`
}

func (r rmCharacterResponse) toDomain() domain.RMCharacter {
	return domain.RMCharacter{
		ID:         r.ID,
		Name:       r.Name,
		Status:     r.Status,
		Species:    r.Species,
		Type:       r.Type,
		Gender:     r.Gender,
		Origin:     r.Origin.toDomain(),
		Location:   r.Location.toDomain(),
		Image:      r.Image,
		EpisodeIDs: idsFromURLs(r.Episode),
	}
}

type rmLocationResponse struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Residents []string `json:"residents"`
}

func (r rmLocationResponse) toDomain() domain.RMLocation {
	return domain.RMLocation{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Dimension:   r.Dimension,
		ResidentIDs: idsFromURLs(r.Residents),
	}
}

type rmEpisodeResponse struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	AirDate    string   `json:"air_date"`
	Episode    string   `json:"episode"`
	Characters []string `json:"characters"`
}

func (r rmEpisodeResponse) toDomain() domain.RMEpisode {
	return domain.RMEpisode{
		ID:           r.ID,
		Name:         r.Name,
		AirDate:      r.AirDate,
		Code:         r.Episode,
		CharacterIDs: idsFromURLs(r.Characters),
	}
}

type rmPageResponse[R any] struct {
	Info    domain.PageInfo `json:"info"`
	Results []R             `json:"results"`
}

// getRMPage loads one page of a collection. With a name filter the upstream
// answers 404 when nothing matches; that is returned as an empty page.
func getRMPage[R any, T any](ctx context.Context, c *rickAndMortyClient, path string, page int, name string, convert func(R) T) (*domain.NumberedPage[T], error) {
	if page < 1 {
		page = 1
	}
	params := map[string]string{"page": strconv.Itoa(page)}
	if name != "" {
		params["name"] = name
	}

	var resp rmPageResponse[R]
	if err := c.rest.getJSON(ctx, path, params, &resp); err != nil {
		if name != "" && errors.Is(err, ErrNotFound) {
			return &domain.NumberedPage[T]{Results: []T{}}, nil
		}
		return nil, fmt.Errorf("failed to fetch rick and morty %s page %d: %w", path, page, err)
	}

	result := &domain.NumberedPage[T]{
		Info:    resp.Info,
		Results: make([]T, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		result.Results = append(result.Results, convert(r))
	}
	return result, nil
}

func getRMOne[R any, T any](ctx context.Context, c *rickAndMortyClient, path string, id int, convert func(R) T) (*T, error) {
	var resp R
	if err := c.rest.getJSON(ctx, fmt.Sprintf("%s/%d", path, id), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch rick and morty %s %d: %w", path, id, err)
	}
	out := convert(resp)
	return &out, nil
}

func (c *rickAndMortyClient) ListCharacters(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMCharacter], error) {
	return getRMPage(ctx, c, "/character", page, name, rmCharacterResponse.toDomain)
}

func (c *rickAndMortyClient) GetCharacter(ctx context.Context, id int) (*domain.RMCharacter, error) {
	return getRMOne(ctx, c, "/character", id, rmCharacterResponse.toDomain)
}

func (c *rickAndMortyClient) ListLocations(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMLocation], error) {
	return getRMPage(ctx, c, "/location", page, name, rmLocationResponse.toDomain)
}

func (c *rickAndMortyClient) GetLocation(ctx context.Context, id int) (*domain.RMLocation, error) {
	return getRMOne(ctx, c, "/location", id, rmLocationResponse.toDomain)
}

func (c *rickAndMortyClient) ListEpisodes(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMEpisode], error) {
	return getRMPage(ctx, c, "/episode", page, name, rmEpisodeResponse.toDomain)
}

func (c *rickAndMortyClient) GetEpisode(ctx context.Context, id int) (*domain.RMEpisode, error) {
	return getRMOne(ctx, c, "/episode", id, rmEpisodeResponse.toDomain)
}
