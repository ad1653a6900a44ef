package service

import (
	"context"
	"fmt"
	"strings"

	"multiverse/browser/internal/client"
	"multiverse/browser/internal/domain"
	"multiverse/browser/internal/domain/task"
	"multiverse/browser/internal/repository"
	"multiverse/browser/internal/state"

	log "github.com/sirupsen/logrus"
)

const (
	marvelSearchLimit     = 20
	characterComicsFetch  = 10
	characterComicsReturn = 5
)

// TaskQueue is the producer side of the persistence queue.
type TaskQueue interface {
	AddTask(ctx context.Context, task task.Task) (string, error)
}

type MarvelService struct {
	client     client.MarvelClient
	repository repository.MarvelRepository
	queue      TaskQueue
	cache      state.Cache
}

// NewMarvelService wires the Marvel use cases. repository and queue may be
// nil, in which case nothing is persisted.
func NewMarvelService(client client.MarvelClient, repository repository.MarvelRepository, queue TaskQueue, cache state.Cache) *MarvelService {
	return &MarvelService{
		client:     client,
		repository: repository,
		queue:      queue,
		cache:      orNop(cache),
	}
}

func (s *MarvelService) ListCharacters(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.MarvelCharacter], error) {
	page, err := s.client.ListCharacters(ctx, limit, offset, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list marvel characters: %w", err)
	}
	s.enqueue(ctx, &task.PersistCharactersTask{Source: "list", Characters: page.Results})
	return domain.NewOffsetPage(page.Results, limit, offset, page.Total), nil
}

func (s *MarvelService) SearchCharacters(ctx context.Context, term string) (*domain.SearchResults[domain.MarvelCharacter], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return &domain.SearchResults[domain.MarvelCharacter]{Results: []domain.MarvelCharacter{}}, nil
	}

	page, err := s.client.ListCharacters(ctx, marvelSearchLimit, 0, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search marvel characters %q: %w", term, err)
	}
	s.enqueue(ctx, &task.PersistCharactersTask{Source: "search", Characters: page.Results})
	return &domain.SearchResults[domain.MarvelCharacter]{Results: nonNil(page.Results)}, nil
}

// CharacterDetail stores the character with its latest comics and answers
// with the related comics read back from the database. Without a working
// database the comics come straight from the upstream response.
func (s *MarvelService) CharacterDetail(ctx context.Context, id int) (*domain.MarvelCharacterDetails, error) {
	character, err := s.client.GetCharacter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get marvel character %d: %w", id, err)
	}

	comics, err := s.client.GetCharacterComics(ctx, id, characterComicsFetch)
	if err != nil {
		return nil, fmt.Errorf("failed to get comics of marvel character %d: %w", id, err)
	}

	details := &domain.MarvelCharacterDetails{MarvelCharacter: *character}

	stored, err := s.storeCharacterComics(ctx, character, comics)
	if err != nil {
		log.Warnf("⚠️ Failed to persist marvel character %d, serving upstream comics: %v", id, err)
		stored = comics
	}
	if len(stored) > characterComicsReturn {
		stored = stored[:characterComicsReturn]
	}
	details.Comics = nonNil(stored)

	return details, nil
}

func (s *MarvelService) storeCharacterComics(ctx context.Context, character *domain.MarvelCharacter, comics []domain.MarvelComic) ([]domain.MarvelComic, error) {
	if s.repository == nil {
		return comics, nil
	}

	if err := s.repository.UpsertCharacters(ctx, []domain.MarvelCharacter{*character}); err != nil {
		return nil, err
	}
	if err := s.repository.UpsertComics(ctx, comics); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(comics))
	for _, c := range comics {
		ids = append(ids, c.MarvelID)
	}
	if err := s.repository.LinkCharacterComics(ctx, character.MarvelID, ids); err != nil {
		return nil, err
	}

	return s.repository.ListCharacterComics(ctx, character.MarvelID, characterComicsReturn)
}

func (s *MarvelService) ListComics(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.MarvelComic], error) {
	page, err := s.client.ListComics(ctx, limit, offset, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list marvel comics: %w", err)
	}
	s.enqueue(ctx, &task.PersistComicsTask{Source: "list", Comics: page.Results})
	return domain.NewOffsetPage(page.Results, limit, offset, page.Total), nil
}

func (s *MarvelService) SearchComics(ctx context.Context, term string) (*domain.SearchResults[domain.MarvelComic], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return &domain.SearchResults[domain.MarvelComic]{Results: []domain.MarvelComic{}}, nil
	}

	page, err := s.client.ListComics(ctx, marvelSearchLimit, 0, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search marvel comics %q: %w", term, err)
	}
	s.enqueue(ctx, &task.PersistComicsTask{Source: "search", Comics: page.Results})
	return &domain.SearchResults[domain.MarvelComic]{Results: nonNil(page.Results)}, nil
}

func (s *MarvelService) ComicDetail(ctx context.Context, id int) (*domain.MarvelComic, error) {
	return cached(ctx, s.cache, state.Key("marvel:comic", id), func(ctx context.Context) (*domain.MarvelComic, error) {
		return s.client.GetComic(ctx, id)
	})
}

func (s *MarvelService) ListEvents(ctx context.Context, limit, offset int) (*domain.OffsetPage[domain.MarvelEvent], error) {
	page, err := s.client.ListEvents(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list marvel events: %w", err)
	}
	return domain.NewOffsetPage(page.Results, limit, offset, page.Total), nil
}

func (s *MarvelService) EventDetail(ctx context.Context, id int) (*domain.MarvelEvent, error) {
	return cached(ctx, s.cache, state.Key("marvel:event", id), func(ctx context.Context) (*domain.MarvelEvent, error) {
		return s.client.GetEvent(ctx, id)
	})
}

// enqueue hands results to the persistence workers. Queue failures only
// cost persistence, so they are logged.
func (s *MarvelService) enqueue(ctx context.Context, t task.Task) {
	if s.queue == nil {
		return
	}
	if empty(t) {
		return
	}
	if _, err := s.queue.AddTask(ctx, t); err != nil {
		log.Errorf("❌ Failed to enqueue %s: %v", t.TaskType(), err)
	}
}

func empty(t task.Task) bool {
	switch t := t.(type) {
	case *task.PersistCharactersTask:
		return len(t.Characters) == 0
	case *task.PersistComicsTask:
		return len(t.Comics) == 0
	default:
		return false
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
