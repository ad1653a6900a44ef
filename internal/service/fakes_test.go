package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"multiverse/browser/internal/client"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/domain/task"

	"github.com/redis/go-redis/v9"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, out)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

type fakePokeAPI struct {
	mu          sync.Mutex
	detailCalls int
}

func (f *fakePokeAPI) ListPokemon(ctx context.Context, limit, offset int) (*client.PokemonList, error) {
	list := &client.PokemonList{Count: 45}
	for i := offset; i < min(offset+limit, 45); i++ {
		list.Summaries = append(list.Summaries, domain.PokemonSummary{ID: i + 1, Name: fmt.Sprintf("mon-%d", i+1)})
	}
	return list, nil
}

func (f *fakePokeAPI) GetPokemonSummary(ctx context.Context, idOrName string) (*domain.PokemonSummary, error) {
	switch idOrName {
	case "pikachu", "25":
		return &domain.PokemonSummary{ID: 25, Name: "pikachu"}, nil
	case "boom":
		return nil, errors.New("connection reset")
	default:
		return nil, fmt.Errorf("pokemon %s: %w", idOrName, client.ErrNotFound)
	}
}

func (f *fakePokeAPI) GetPokemonDetails(ctx context.Context, idOrName string) (*domain.PokemonDetails, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	return &domain.PokemonDetails{ID: 25, Name: "pikachu", Moves: []string{"thunder-shock"}}, nil
}

type fakeMarvel struct {
	total        int
	comics       []domain.MarvelComic
	lastFilter   string
	lastLimit    int
	characterErr error
}

func (f *fakeMarvel) ListCharacters(ctx context.Context, limit, offset int, nameStartsWith string) (*client.MarvelPage[domain.MarvelCharacter], error) {
	f.lastFilter, f.lastLimit = nameStartsWith, limit
	page := &client.MarvelPage[domain.MarvelCharacter]{Offset: offset, Limit: limit, Total: f.total}
	for i := offset; i < min(offset+limit, f.total); i++ {
		page.Results = append(page.Results, domain.MarvelCharacter{MarvelID: 1000 + i, Name: fmt.Sprintf("hero-%d", i)})
	}
	return page, nil
}

func (f *fakeMarvel) GetCharacter(ctx context.Context, id int) (*domain.MarvelCharacter, error) {
	if f.characterErr != nil {
		return nil, f.characterErr
	}
	return &domain.MarvelCharacter{MarvelID: id, Name: "Spider-Man"}, nil
}

func (f *fakeMarvel) GetCharacterComics(ctx context.Context, id, limit int) ([]domain.MarvelComic, error) {
	return f.comics, nil
}

func (f *fakeMarvel) ListComics(ctx context.Context, limit, offset int, titleStartsWith string) (*client.MarvelPage[domain.MarvelComic], error) {
	f.lastFilter, f.lastLimit = titleStartsWith, limit
	return &client.MarvelPage[domain.MarvelComic]{Total: len(f.comics), Results: f.comics}, nil
}

func (f *fakeMarvel) GetComic(ctx context.Context, id int) (*domain.MarvelComic, error) {
	return &domain.MarvelComic{MarvelID: id, Title: "Amazing"}, nil
}

func (f *fakeMarvel) ListEvents(ctx context.Context, limit, offset int) (*client.MarvelPage[domain.MarvelEvent], error) {
	return &client.MarvelPage[domain.MarvelEvent]{Total: 74, Results: []domain.MarvelEvent{{MarvelID: 1, Title: "Civil War"}}}, nil
}

func (f *fakeMarvel) GetEvent(ctx context.Context, id int) (*domain.MarvelEvent, error) {
	return &domain.MarvelEvent{MarvelID: id, Title: "Civil War"}, nil
}

type fakeRepository struct {
	mu         sync.Mutex
	characters map[int]domain.MarvelCharacter
	comics     map[int]domain.MarvelComic
	links      map[int][]int
	err        error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		characters: map[int]domain.MarvelCharacter{},
		comics:     map[int]domain.MarvelComic{},
		links:      map[int][]int{},
	}
}

func (r *fakeRepository) EnsureSchema(ctx context.Context) error { return r.err }

func (r *fakeRepository) UpsertCharacters(ctx context.Context, characters []domain.MarvelCharacter) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range characters {
		r.characters[c.MarvelID] = c
	}
	return nil
}

func (r *fakeRepository) UpsertComics(ctx context.Context, comics []domain.MarvelComic) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range comics {
		r.comics[c.MarvelID] = c
	}
	return nil
}

func (r *fakeRepository) LinkCharacterComics(ctx context.Context, characterID int, comicIDs []int) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[characterID] = append(r.links[characterID], comicIDs...)
	return nil
}

func (r *fakeRepository) ListCharacterComics(ctx context.Context, characterID, limit int) ([]domain.MarvelComic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MarvelComic
	for _, id := range r.links[characterID] {
		if len(out) == limit {
			break
		}
		out = append(out, r.comics[id])
	}
	return out, nil
}

type fakeQueue struct {
	mu      sync.Mutex
	added   []task.Task
	acked   []string
	addErr  error
	pending []redis.XMessage
}

func (q *fakeQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	if q.addErr != nil {
		return "", q.addErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.added = append(q.added, t)
	return fmt.Sprintf("%d-0", len(q.added)), nil
}

func (q *fakeQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (q *fakeQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, stream+"/"+msgID)
	return nil
}

func (q *fakeQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	claimed := q.pending
	q.pending = nil
	return claimed, nil
}

func (q *fakeQueue) StreamName(taskType string) string { return "test:" + taskType }

func (q *fakeQueue) GroupName() string { return "test-group" }

type fakeRickAndMorty struct {
	mu          sync.Mutex
	pages       int
	perPage     int
	detailCalls int
}

func (f *fakeRickAndMorty) page(page int) domain.PageInfo {
	info := domain.PageInfo{Count: f.pages * f.perPage, Pages: f.pages}
	if page < f.pages {
		next := fmt.Sprintf("https://rickandmortyapi.com/api/character?page=%d", page+1)
		info.Next = &next
	}
	return info
}

func (f *fakeRickAndMorty) ListCharacters(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMCharacter], error) {
	if name == "nobody" {
		return &domain.NumberedPage[domain.RMCharacter]{Results: []domain.RMCharacter{}}, nil
	}
	if page > f.pages {
		return nil, client.ErrNotFound
	}
	out := &domain.NumberedPage[domain.RMCharacter]{Info: f.page(page)}
	for i := 0; i < f.perPage; i++ {
		id := (page-1)*f.perPage + i + 1
		out.Results = append(out.Results, domain.RMCharacter{ID: id, Name: fmt.Sprintf("%s-%d", name, id)})
	}
	return out, nil
}

func (f *fakeRickAndMorty) GetCharacter(ctx context.Context, id int) (*domain.RMCharacter, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	return &domain.RMCharacter{ID: id, Name: "Rick Sanchez", EpisodeIDs: []int{1, 2}}, nil
}

func (f *fakeRickAndMorty) ListLocations(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMLocation], error) {
	return &domain.NumberedPage[domain.RMLocation]{Info: f.page(page), Results: []domain.RMLocation{{ID: 1, Name: "Earth"}}}, nil
}

func (f *fakeRickAndMorty) GetLocation(ctx context.Context, id int) (*domain.RMLocation, error) {
	return &domain.RMLocation{ID: id, Name: "Earth"}, nil
}

func (f *fakeRickAndMorty) ListEpisodes(ctx context.Context, page int, name string) (*domain.NumberedPage[domain.RMEpisode], error) {
	return nil, errors.New("upstream down")
}

func (f *fakeRickAndMorty) GetEpisode(ctx context.Context, id int) (*domain.RMEpisode, error) {
	return nil, client.ErrNotFound
}
