package domain

import "time"

type MarvelCharacter struct {
	MarvelID         int    `json:"marvel_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Thumbnail        string `json:"thumbnail"`
	ComicsAvailable  int    `json:"comics_available"`
	SeriesAvailable  int    `json:"series_available"`
	StoriesAvailable int    `json:"stories_available"`
	EventsAvailable  int    `json:"events_available"`
	DetailURL        string `json:"detail_url"`
}

// MarvelCharacterDetails is a character plus a handful of its comics.
type MarvelCharacterDetails struct {
	MarvelCharacter
	Comics []MarvelComic `json:"comics"`
}

type MarvelComic struct {
	MarvelID        int        `json:"marvel_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	ISBN            string     `json:"isbn"`
	PageCount       int        `json:"page_count"`
	Thumbnail       string     `json:"thumbnail"`
	Price           float64    `json:"price"`
	Series          string     `json:"series"`
	PublicationDate *time.Time `json:"publication_date"`
	DetailURL       string     `json:"detail_url"`
}

type MarvelEvent struct {
	MarvelID    int        `json:"marvel_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Thumbnail   string     `json:"thumbnail"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	DetailURL   string     `json:"detail_url"`
}
