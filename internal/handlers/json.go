package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"notebase/internal/apperr"
	"notebase/internal/contextutil"
)

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already gone; nothing to do but note it.
		slog.Error("json encode failed", "error", err)
	}
}

// decodeJSON decodes the request body into v and runs its validation. A false
// return means the error response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// writeError maps application errors to HTTP status codes: bad input is the
// caller's fault, missing rows are 404, unusable-but-well-formed content is
// 422, and upstream model failures surface as 502 so clients can tell them
// apart from our own faults.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := contextutil.LoggerFromContext(r.Context())

	var verr validation.Errors
	switch {
	case errors.Is(err, apperr.ErrInvalidInput), errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrEmptyContent):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("no usable content"))
	case errors.Is(err, apperr.ErrEmbedding):
		logger.Error("embedding failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody("embedding service error"))
	case errors.Is(err, apperr.ErrGeneration):
		logger.Error("generation failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody("generation service error"))
	default:
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
