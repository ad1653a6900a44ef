package task

import "multiverse/browser/internal/domain"

// PersistCharactersTask stores Marvel characters seen in a list or search.
type PersistCharactersTask struct {
	Source     string                   `json:"source"` // "list" or "search"
	Characters []domain.MarvelCharacter `json:"characters"`
}

func (t *PersistCharactersTask) TaskType() string {
	return TypePersistCharacters
}

func (t *PersistCharactersTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}

// PersistComicsTask stores Marvel comics seen in a list or search.
type PersistComicsTask struct {
	Source string               `json:"source"`
	Comics []domain.MarvelComic `json:"comics"`
}

func (t *PersistComicsTask) TaskType() string {
	return TypePersistComics
}

func (t *PersistComicsTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
