package handler

import (
	"context"
	"net/http"

	"multiverse/browser/internal/domain"

	"github.com/go-chi/chi/v5"
)

func ListOffset[T any](list func(ctx context.Context, limit, offset int) (*domain.OffsetPage[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset, err := limitOffset(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		page, err := list(r.Context(), limit, offset)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func ListNumbered[T any](list func(ctx context.Context, page int) (*domain.NumberedPage[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageNumber(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := list(r.Context(), page)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// Search answers with whatever shape search returns: a {results} object or
// a bare array.
func Search[R any](search func(ctx context.Context, term string) (R, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := searchTerm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		result, err := search(r.Context(), term)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func ItemByID[T any](get func(ctx context.Context, id int) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		item, err := get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func ItemByKey[T any](get func(ctx context.Context, key string) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}
