package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"multiverse/browser/internal/fetch"
)

// Entry is the normalized list item shared by every resource.
type Entry struct {
	ID       string
	Title    string
	Subtitle string
	Image    string
	Tags     []string
}

// offsetPage is {results, next: bool|string|null, count?}.
type offsetPage[W any] struct {
	Results *[]W            `json:"results"`
	Next    json.RawMessage `json:"next"`
	Count   *int            `json:"count"`
}

// numberedPage is {results, info{next, count}}.
type numberedPage[W any] struct {
	Results *[]W `json:"results"`
	Info    *struct {
		Next  *string `json:"next"`
		Count *int    `json:"count"`
	} `json:"info"`
}

type searchObject[W any] struct {
	Results *[]W `json:"results"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: malformed response: %s", fetch.ErrBackend, fmt.Sprintf(format, args...))
}

// hasNext accepts a boolean or a next-page URL.
func hasNext(raw json.RawMessage) (bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != "", nil
	}
	return false, malformed("next is neither a boolean nor a URL: %s", raw)
}

func decodeOffsetPage[W any](body []byte) ([]W, *int, bool, error) {
	var p offsetPage[W]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, nil, false, malformed("%v", err)
	}
	if p.Results == nil {
		return nil, nil, false, malformed("missing results")
	}
	next, err := hasNext(p.Next)
	if err != nil {
		return nil, nil, false, err
	}
	return *p.Results, p.Count, next, nil
}

func decodeNumberedPage[W any](body []byte) ([]W, *int, bool, error) {
	var p numberedPage[W]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, nil, false, malformed("%v", err)
	}
	if p.Results == nil {
		return nil, nil, false, malformed("missing results")
	}
	if p.Info == nil {
		return nil, nil, false, malformed("missing info")
	}
	next := p.Info.Next != nil && *p.Info.Next != ""
	return *p.Results, p.Info.Count, next, nil
}

// decodeSearch accepts {results: [...]} as well as a bare array.
func decodeSearch[W any](body []byte) ([]W, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []W
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, malformed("%v", err)
		}
		return items, nil
	}

	var obj searchObject[W]
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, malformed("%v", err)
	}
	if obj.Results == nil {
		return nil, malformed("missing results")
	}
	return *obj.Results, nil
}

// Wire schemas of the list items, one per resource.

type pokemonItem struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Types []string `json:"types"`
}

func (p pokemonItem) id() int { return p.ID }

func (p pokemonItem) entry() Entry {
	return Entry{
		ID:       strconv.Itoa(p.ID),
		Title:    TitleCase(p.Name),
		Subtitle: fmt.Sprintf("#%03d", p.ID),
		Image:    p.Image,
		Tags:     p.Types,
	}
}

type marvelCharacterItem struct {
	MarvelID        int    `json:"marvel_id"`
	Name            string `json:"name"`
	Thumbnail       string `json:"thumbnail"`
	ComicsAvailable int    `json:"comics_available"`
}

func (c marvelCharacterItem) id() int { return c.MarvelID }

func (c marvelCharacterItem) entry() Entry {
	return Entry{
		ID:       strconv.Itoa(c.MarvelID),
		Title:    c.Name,
		Subtitle: fmt.Sprintf("%d comics", c.ComicsAvailable),
		Image:    c.Thumbnail,
	}
}

type marvelComicItem struct {
	MarvelID  int     `json:"marvel_id"`
	Title     string  `json:"title"`
	Series    string  `json:"series"`
	Thumbnail string  `json:"thumbnail"`
	Price     float64 `json:"price"`
}

func (c marvelComicItem) id() int { return c.MarvelID }

func (c marvelComicItem) entry() Entry {
	e := Entry{
		ID:       strconv.Itoa(c.MarvelID),
		Title:    c.Title,
		Subtitle: c.Series,
		Image:    c.Thumbnail,
	}
	if c.Price > 0 {
		e.Tags = []string{fmt.Sprintf("$%.2f", c.Price)}
	}
	return e
}

type marvelEventItem struct {
	MarvelID  int     `json:"marvel_id"`
	Title     string  `json:"title"`
	Thumbnail string  `json:"thumbnail"`
	Start     *string `json:"start"`
}

func (e marvelEventItem) id() int { return e.MarvelID }

func (e marvelEventItem) entry() Entry {
	entry := Entry{
		ID:    strconv.Itoa(e.MarvelID),
		Title: e.Title,
		Image: e.Thumbnail,
	}
	if e.Start != nil && len(*e.Start) >= 4 {
		entry.Subtitle = (*e.Start)[:4]
	}
	return entry
}

type rmCharacterItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Species string `json:"species"`
	Image   string `json:"image"`
}

func (c rmCharacterItem) id() int { return c.ID }

func (c rmCharacterItem) entry() Entry {
	return Entry{
		ID:       strconv.Itoa(c.ID),
		Title:    c.Name,
		Subtitle: c.Species,
		Image:    c.Image,
		Tags:     nonEmpty(c.Status),
	}
}

type rmLocationItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Dimension string `json:"dimension"`
}

func (l rmLocationItem) id() int { return l.ID }

func (l rmLocationItem) entry() Entry {
	return Entry{
		ID:       strconv.Itoa(l.ID),
		Title:    l.Name,
		Subtitle: l.Dimension,
		Tags:     nonEmpty(l.Type),
	}
}

type rmEpisodeItem struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Episode string `json:"episode"`
	AirDate string `json:"air_date"`
}

func (e rmEpisodeItem) id() int { return e.ID }

func (e rmEpisodeItem) entry() Entry {
	return Entry{
		ID:       strconv.Itoa(e.ID),
		Title:    e.Name,
		Subtitle: e.AirDate,
		Tags:     nonEmpty(e.Episode),
	}
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// TitleCase upper-cases the first rune of every dash-separated word.
func TitleCase(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if r, size := utf8.DecodeRuneInString(p); r != utf8.RuneError {
			parts[i] = string(unicode.ToUpper(r)) + p[size:]
		}
	}
	return strings.Join(parts, "-")
}
