package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/fetch"
)

// Source is one browsable resource of the proxy API.
type Source interface {
	Resource() domain.Resource
	Paging() fetch.Paging
	Page(ctx context.Context, pageSize, cursor int) (*fetch.Page[Entry], error)
	// Search is nil for resources that cannot be searched.
	Search() fetch.SearchFetcher[Entry]
	Detail(ctx context.Context, id string) ([]Field, error)
}

type item interface {
	id() int
	entry() Entry
}

type source[W item] struct {
	client   *Client
	resource domain.Resource
}

// NewSource returns the adapter for resource.
func NewSource(client *Client, resource domain.Resource) (Source, error) {
	switch resource {
	case domain.ResourcePokemon:
		return &source[pokemonItem]{client: client, resource: resource}, nil
	case domain.ResourceMarvelCharacter:
		return &source[marvelCharacterItem]{client: client, resource: resource}, nil
	case domain.ResourceMarvelComic:
		return &source[marvelComicItem]{client: client, resource: resource}, nil
	case domain.ResourceMarvelEvent:
		return &source[marvelEventItem]{client: client, resource: resource}, nil
	case domain.ResourceRMCharacter:
		return &source[rmCharacterItem]{client: client, resource: resource}, nil
	case domain.ResourceRMLocation:
		return &source[rmLocationItem]{client: client, resource: resource}, nil
	case domain.ResourceRMEpisode:
		return &source[rmEpisodeItem]{client: client, resource: resource}, nil
	default:
		return nil, fmt.Errorf("unknown resource %q", resource.Path())
	}
}

func (s *source[W]) Resource() domain.Resource {
	return s.resource
}

func (s *source[W]) Paging() fetch.Paging {
	if s.resource.PageNumbered {
		return fetch.PageNumberPaging{}
	}
	return fetch.OffsetPaging{}
}

func (s *source[W]) path(suffix string) string {
	return "/" + s.resource.Path() + suffix
}

func (s *source[W]) Page(ctx context.Context, pageSize, cursor int) (*fetch.Page[Entry], error) {
	var (
		params map[string]string
		decode func([]byte) ([]W, *int, bool, error)
	)
	if s.resource.PageNumbered {
		params = map[string]string{"page": strconv.Itoa(cursor)}
		decode = decodeNumberedPage[W]
	} else {
		params = map[string]string{"limit": strconv.Itoa(pageSize), "offset": strconv.Itoa(cursor)}
		decode = decodeOffsetPage[W]
	}

	body, err := s.client.get(ctx, s.path("/list"), params)
	if err != nil {
		return nil, err
	}
	items, total, next, err := decode(body)
	if err != nil {
		return nil, err
	}
	entries, err := normalize(items)
	if err != nil {
		return nil, err
	}
	return &fetch.Page[Entry]{Items: entries, TotalCount: total, HasMore: next}, nil
}

func (s *source[W]) Search() fetch.SearchFetcher[Entry] {
	if !s.resource.Searchable {
		return nil
	}
	return s.search
}

func (s *source[W]) search(ctx context.Context, term string) ([]Entry, error) {
	body, err := s.client.get(ctx, s.path("/search"), map[string]string{"query": term})
	if err != nil {
		return nil, err
	}
	items, err := decodeSearch[W](body)
	if err != nil {
		return nil, err
	}
	return normalize(items)
}

func (s *source[W]) Detail(ctx context.Context, id string) ([]Field, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", fetch.ErrBackend)
	}
	body, err := s.client.get(ctx, s.path("/item/"+url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	return flatten(body)
}

// normalize rejects any item without an id.
func normalize[W item](items []W) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for i, it := range items {
		if it.id() == 0 {
			return nil, malformed("result %d has no id", i)
		}
		entries = append(entries, it.entry())
	}
	return entries, nil
}

// Field is one line of a detail record.
type Field struct {
	Key   string
	Value string
}

// flatten turns a JSON object into dotted key/value fields in key order.
// Arrays of scalars are joined; arrays of objects are numbered.
func flatten(body []byte) ([]Field, error) {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, malformed("%v", err)
	}
	var fields []Field
	flattenInto(&fields, "", root)
	return fields, nil
}

func flattenInto(fields *[]Field, prefix string, v any) {
	switch v := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenInto(fields, join(prefix, k), v[k])
		}
	case []any:
		if scalars(v) {
			parts := make([]string, 0, len(v))
			for _, e := range v {
				parts = append(parts, scalar(e))
			}
			*fields = append(*fields, Field{Key: prefix, Value: strings.Join(parts, ", ")})
			return
		}
		for i, e := range v {
			flattenInto(fields, join(prefix, strconv.Itoa(i+1)), e)
		}
	default:
		*fields = append(*fields, Field{Key: prefix, Value: scalar(v)})
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalars(values []any) bool {
	for _, v := range values {
		switch v.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
