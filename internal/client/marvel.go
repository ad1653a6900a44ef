package client

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/proxy"
)

type MarvelClient interface {
	ListCharacters(ctx context.Context, limit, offset int, nameStartsWith string) (*MarvelPage[domain.MarvelCharacter], error)
	GetCharacter(ctx context.Context, id int) (*domain.MarvelCharacter, error)
	GetCharacterComics(ctx context.Context, id, limit int) ([]domain.MarvelComic, error)
	ListComics(ctx context.Context, limit, offset int, titleStartsWith string) (*MarvelPage[domain.MarvelComic], error)
	GetComic(ctx context.Context, id int) (*domain.MarvelComic, error)
	ListEvents(ctx context.Context, limit, offset int) (*MarvelPage[domain.MarvelEvent], error)
	GetEvent(ctx context.Context, id int) (*domain.MarvelEvent, error)
}

// MarvelPage is the "data" container of a Marvel list response.
type MarvelPage[T any] struct {
	Offset  int
	Limit   int
	Total   int
	Results []T
}

type marvelClient struct {
	rest       *restClient
	publicKey  string
	privateKey string
	now        func() time.Time
}

func NewMarvelClient(cfg config.MarvelConfig, httpCfg config.HTTPConfig, proxySupplier proxy.ProxySupplier) MarvelClient {
	return &marvelClient{
		rest:       newRestClient("marvel", cfg.BaseURL, httpCfg, proxySupplier),
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		now:        time.Now,
	}
}

type marvelEnvelope[T any] struct {
	Code int `json:"code"`
	Data struct {
		Offset  int `json:"offset"`
		Limit   int `json:"limit"`
		Total   int `json:"total"`
		Count   int `json:"count"`
		Results []T `json:"results"`
	} `json:"data"`
}

type marvelImage struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
}

func (i marvelImage) URL() string {
	if i.Path == "" {
		return ""
	}
	return i.Path + "." + i.Extension
}

type marvelList struct {
	Available int `json:"available"`
}

type marvelURL struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func firstURL(urls []marvelURL) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0].URL
}

type marvelCharacterResponse struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Thumbnail   marvelImage `json:"thumbnail"`
	Comics      marvelList  `json:"comics"`
	Series      marvelList  `json:"series"`
	Stories     marvelList  `json:"stories"`
	Events      marvelList  `json:"events"`
	URLs        []marvelURL `json:"urls"`
}

func (r marvelCharacterResponse) toDomain() domain.MarvelCharacter {
	return domain.MarvelCharacter{
		MarvelID:         r.ID,
		Name:             r.Name,
		Description:      stripHTML(r.Description),
		Thumbnail:        r.Thumbnail.URL(),
		ComicsAvailable:  r.Comics.Available,
		SeriesAvailable:  r.Series.Available,
		StoriesAvailable: r.Stories.Available,
		EventsAvailable:  r.Events.Available,
		DetailURL:        firstURL(r.URLs),
	}
}

type marvelComicResponse struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	ISBN        string      `json:"isbn"`
	PageCount   int         `json:"pageCount"`
	Thumbnail   marvelImage `json:"thumbnail"`
	Prices      []struct {
		Type  string  `json:"type"`
		Price float64 `json:"price"`
	} `json:"prices"`
	Series struct {
		Name string `json:"name"`
	} `json:"series"`
	Dates []struct {
		Type string `json:"type"`
		Date string `json:"date"`
	} `json:"dates"`
	URLs []marvelURL `json:"urls"`
}

func (r marvelComicResponse) toDomain() domain.MarvelComic {
	comic := domain.MarvelComic{
		MarvelID:  r.ID,
		Title:     r.Title,
		ISBN:      r.ISBN,
		PageCount: r.PageCount,
		Thumbnail: r.Thumbnail.URL(),
		Series:    r.Series.Name,
		DetailURL: firstURL(r.URLs),
	}
	if r.Description != nil {
		comic.Description = stripHTML(*r.Description)
	}
	for _, p := range r.Prices {
		if p.Type == "printPrice" {
			comic.Price = p.Price
		}
	}
	for _, d := range r.Dates {
		if d.Type == "onsaleDate" && d.Date != "" {
			comic.PublicationDate = parseDate(d.Date)
		}
	}
	return comic
}

type marvelEventResponse struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Thumbnail   marvelImage `json:"thumbnail"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	URLs        []marvelURL `json:"urls"`
}

func (r marvelEventResponse) toDomain() domain.MarvelEvent {
	return domain.MarvelEvent{
		MarvelID:    r.ID,
		Title:       r.Title,
		Description: stripHTML(r.Description),
		Thumbnail:   r.Thumbnail.URL(),
		Start:       parseDate(r.Start),
		End:         parseDate(r.End),
		DetailURL:   firstURL(r.URLs),
	}
}

// authParams signs a request: hash = md5(ts + privateKey + publicKey).
func (c *marvelClient) authParams() map[string]string {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	sum := md5.Sum([]byte(ts + c.privateKey + c.publicKey))
	return map[string]string{
		"ts":     ts,
		"apikey": c.publicKey,
		"hash":   hex.EncodeToString(sum[:]),
	}
}

func (c *marvelClient) params(extra map[string]string) map[string]string {
	params := c.authParams()
	for k, v := range extra {
		if v != "" {
			params[k] = v
		}
	}
	return params
}

func getMarvelPage[R any, T any](ctx context.Context, c *marvelClient, path string, extra map[string]string, convert func(R) T) (*MarvelPage[T], error) {
	var env marvelEnvelope[R]
	if err := c.rest.getJSON(ctx, path, c.params(extra), &env); err != nil {
		return nil, fmt.Errorf("failed to fetch marvel %s: %w", path, err)
	}

	page := &MarvelPage[T]{
		Offset:  env.Data.Offset,
		Limit:   env.Data.Limit,
		Total:   env.Data.Total,
		Results: make([]T, 0, len(env.Data.Results)),
	}
	for _, r := range env.Data.Results {
		page.Results = append(page.Results, convert(r))
	}
	return page, nil
}

func getMarvelOne[R any, T any](ctx context.Context, c *marvelClient, path string, convert func(R) T) (*T, error) {
	page, err := getMarvelPage(ctx, c, path, nil, convert)
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("marvel %s: %w", path, ErrNotFound)
	}
	return &page.Results[0], nil
}

func (c *marvelClient) ListCharacters(ctx context.Context, limit, offset int, nameStartsWith string) (*MarvelPage[domain.MarvelCharacter], error) {
	return getMarvelPage(ctx, c, "/characters", map[string]string{
		"limit":          strconv.Itoa(limit),
		"offset":         strconv.Itoa(offset),
		"orderBy":        "name",
		"nameStartsWith": nameStartsWith,
	}, marvelCharacterResponse.toDomain)
}

func (c *marvelClient) GetCharacter(ctx context.Context, id int) (*domain.MarvelCharacter, error) {
	return getMarvelOne(ctx, c, fmt.Sprintf("/characters/%d", id), marvelCharacterResponse.toDomain)
}

func (c *marvelClient) GetCharacterComics(ctx context.Context, id, limit int) ([]domain.MarvelComic, error) {
	page, err := getMarvelPage(ctx, c, fmt.Sprintf("/characters/%d/comics", id), map[string]string{
		"limit":   strconv.Itoa(limit),
		"orderBy": "-focDate",
	}, marvelComicResponse.toDomain)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *marvelClient) ListComics(ctx context.Context, limit, offset int, titleStartsWith string) (*MarvelPage[domain.MarvelComic], error) {
	return getMarvelPage(ctx, c, "/comics", map[string]string{
		"limit":           strconv.Itoa(limit),
		"offset":          strconv.Itoa(offset),
		"orderBy":         "-focDate",
		"titleStartsWith": titleStartsWith,
	}, marvelComicResponse.toDomain)
}

func (c *marvelClient) GetComic(ctx context.Context, id int) (*domain.MarvelComic, error) {
	return getMarvelOne(ctx, c, fmt.Sprintf("/comics/%d", id), marvelComicResponse.toDomain)
}

func (c *marvelClient) ListEvents(ctx context.Context, limit, offset int) (*MarvelPage[domain.MarvelEvent], error) {
	return getMarvelPage(ctx, c, "/events", map[string]string{
		"limit":   strconv.Itoa(limit),
		"offset":  strconv.Itoa(offset),
		"orderBy": "name",
	}, marvelEventResponse.toDomain)
}

func (c *marvelClient) GetEvent(ctx context.Context, id int) (*domain.MarvelEvent, error) {
	return getMarvelOne(ctx, c, fmt.Sprintf("/events/%d", id), marvelEventResponse.toDomain)
}
