package repository

import (
	"context"
	"fmt"
	"time"

	"multiverse/browser/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS marvel_characters (
	marvel_id         INTEGER PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	thumbnail         TEXT NOT NULL DEFAULT '',
	comics_available  INTEGER NOT NULL DEFAULT 0,
	series_available  INTEGER NOT NULL DEFAULT 0,
	stories_available INTEGER NOT NULL DEFAULT 0,
	events_available  INTEGER NOT NULL DEFAULT 0,
	detail_url        TEXT NOT NULL DEFAULT '',
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS marvel_comics (
	marvel_id        INTEGER PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	isbn             TEXT NOT NULL DEFAULT '',
	page_count       INTEGER NOT NULL DEFAULT 0,
	thumbnail        TEXT NOT NULL DEFAULT '',
	price            NUMERIC(10, 2) NOT NULL DEFAULT 0,
	series           TEXT NOT NULL DEFAULT '',
	publication_date DATE,
	detail_url       TEXT NOT NULL DEFAULT '',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS marvel_character_comics (
	character_id INTEGER NOT NULL REFERENCES marvel_characters (marvel_id) ON DELETE CASCADE,
	comic_id     INTEGER NOT NULL REFERENCES marvel_comics (marvel_id) ON DELETE CASCADE,
	PRIMARY KEY (character_id, comic_id)
);`

// MarvelRepository persists the Marvel characters and comics users browse.
type MarvelRepository interface {
	EnsureSchema(ctx context.Context) error
	UpsertCharacters(ctx context.Context, characters []domain.MarvelCharacter) error
	UpsertComics(ctx context.Context, comics []domain.MarvelComic) error
	LinkCharacterComics(ctx context.Context, characterID int, comicIDs []int) error
	ListCharacterComics(ctx context.Context, characterID, limit int) ([]domain.MarvelComic, error)
}

type marvelRepository struct {
	db *pgxpool.Pool
}

func NewMarvelRepository(db *pgxpool.Pool) MarvelRepository {
	return &marvelRepository{
		db: db,
	}
}

func (r *marvelRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create marvel schema: %w", err)
	}
	return nil
}

func (r *marvelRepository) UpsertCharacters(ctx context.Context, characters []domain.MarvelCharacter) error {
	if len(characters) == 0 {
		return nil
	}

	query := `
	INSERT INTO marvel_characters (marvel_id, name, description, thumbnail,
		comics_available, series_available, stories_available, events_available, detail_url, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
	ON CONFLICT (marvel_id)
	DO UPDATE SET name = $2, description = $3, thumbnail = $4, comics_available = $5,
		series_available = $6, stories_available = $7, events_available = $8, detail_url = $9, updated_at = now()`

	batch := &pgx.Batch{}
	for _, c := range characters {
		batch.Queue(query, c.MarvelID, c.Name, c.Description, c.Thumbnail,
			c.ComicsAvailable, c.SeriesAvailable, c.StoriesAvailable, c.EventsAvailable, c.DetailURL)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert %d characters: %w", len(characters), err)
	}
	return nil
}

func (r *marvelRepository) UpsertComics(ctx context.Context, comics []domain.MarvelComic) error {
	if len(comics) == 0 {
		return nil
	}

	query := `
	INSERT INTO marvel_comics (marvel_id, title, description, isbn, page_count, thumbnail,
		price, series, publication_date, detail_url, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	ON CONFLICT (marvel_id)
	DO UPDATE SET title = $2, description = $3, isbn = $4, page_count = $5, thumbnail = $6,
		price = $7, series = $8, publication_date = $9, detail_url = $10, updated_at = now()`

	batch := &pgx.Batch{}
	for _, c := range comics {
		batch.Queue(query, c.MarvelID, c.Title, c.Description, c.ISBN, c.PageCount, c.Thumbnail,
			c.Price, c.Series, c.PublicationDate, c.DetailURL)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert %d comics: %w", len(comics), err)
	}
	return nil
}

func (r *marvelRepository) LinkCharacterComics(ctx context.Context, characterID int, comicIDs []int) error {
	if len(comicIDs) == 0 {
		return nil
	}

	query := `
	INSERT INTO marvel_character_comics (character_id, comic_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

	batch := &pgx.Batch{}
	for _, id := range comicIDs {
		batch.Queue(query, characterID, id)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to link character %d to comics: %w", characterID, err)
	}
	return nil
}

// ListCharacterComics returns the newest linked comics first.
func (r *marvelRepository) ListCharacterComics(ctx context.Context, characterID, limit int) ([]domain.MarvelComic, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.marvel_id, c.title, c.description, c.isbn, c.page_count, c.thumbnail,
			c.price::float8, c.series, c.publication_date, c.detail_url
		FROM marvel_comics c
		JOIN marvel_character_comics cc ON cc.comic_id = c.marvel_id
		WHERE cc.character_id = $1
		ORDER BY c.publication_date DESC NULLS LAST, c.marvel_id
		LIMIT $2`, characterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comics of character %d: %w", characterID, err)
	}
	defer rows.Close()

	comics := make([]domain.MarvelComic, 0, limit)
	for rows.Next() {
		var (
			c         domain.MarvelComic
			published *time.Time
		)
		if err := rows.Scan(&c.MarvelID, &c.Title, &c.Description, &c.ISBN, &c.PageCount, &c.Thumbnail,
			&c.Price, &c.Series, &published, &c.DetailURL); err != nil {
			return nil, fmt.Errorf("failed to scan comic: %w", err)
		}
		c.PublicationDate = published
		comics = append(comics, c)
	}

	return comics, rows.Err()
}
