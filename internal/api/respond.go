package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
	"github.com/blackwell-systems/closetprune/internal/logging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type okResponse struct {
	Status string `json:"status"`
}

// respondJSON writes v as JSON with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError writes the error envelope. err, if set, is logged but never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("request failed")
	}
	respondJSON(w, r, status, errorResponse{Status: "error", Code: code, Message: message})
}

// respondDomainError maps engine and lifecycle errors to HTTP statuses.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *lifecycle.ValidationError
		te *lifecycle.TransitionError
	)

	switch {
	case errors.As(err, &ve):
		respondError(w, r, http.StatusBadRequest, "validation_error", ve.Message, nil)
	case errors.Is(err, analyzer.ErrItemNotFound):
		respondError(w, r, http.StatusNotFound, "not_found", "item not found", nil)
	case errors.As(err, &te):
		respondError(w, r, http.StatusConflict, "transition_not_allowed", te.Error(), nil)
	default:
		respondError(w, r, http.StatusInternalServerError, "internal_error", "internal server error", err)
	}
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &lifecycle.ValidationError{Field: "body", Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}
