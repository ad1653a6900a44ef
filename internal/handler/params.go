package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, name)
	}
	return v, nil
}

func limitOffset(r *http.Request) (int, int, error) {
	limit, err := intQuery(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err := intQuery(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 || limit > maxLimit {
		return 0, 0, fmt.Errorf("%w: limit must be between 1 and %d", errBadRequest, maxLimit)
	}
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must not be negative", errBadRequest)
	}
	return limit, offset, nil
}

func pageNumber(r *http.Request) (int, error) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		return 0, err
	}
	if page < 1 {
		return 0, fmt.Errorf("%w: page must be at least 1", errBadRequest)
	}
	return page, nil
}

func searchTerm(r *http.Request) (string, error) {
	term := strings.TrimSpace(r.URL.Query().Get("query"))
	if term == "" {
		return "", fmt.Errorf("%w: query parameter is required", errBadRequest)
	}
	return term, nil
}

func idParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}
