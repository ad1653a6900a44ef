package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"multiverse/browser/internal/client"

	log "github.com/sirupsen/logrus"
)

// errBadRequest marks invalid query or path parameters.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("❌ Failed to write response: %v", err)
	}
}

// writeError maps err to a status code. Anything that is not a client
// mistake or a missing entity is reported as an upstream failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, client.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case r.Context().Err() != nil:
		log.Debugf("Request %s %s cancelled: %v", r.Method, r.URL.Path, err)
	default:
		log.Errorf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream service unavailable"})
	}
}
