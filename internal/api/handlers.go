package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blackwell-systems/closetprune/internal/auth"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
	"github.com/blackwell-systems/closetprune/internal/logging"
	"github.com/blackwell-systems/closetprune/internal/metrics"
	"github.com/blackwell-systems/closetprune/internal/validation"
)

// handleCandidates serves GET /api/items/declutter_candidates/.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	results, err := s.deps.Analyzer.Candidates(r.Context(), userID, s.now())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "internal_error", "failed to load declutter candidates", err)
		return
	}

	resp := make([]candidateResponse, len(results))
	for i, res := range results {
		resp[i] = toCandidate(res, s.opts.Location)
	}
	respondJSON(w, r, http.StatusOK, resp)
}

// handleAction serves POST /api/items/declutter_action/.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	var body actionRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondDomainError(w, r, err)
		return
	}

	req := lifecycle.Request{
		UserID: userID,
		ItemID: body.ItemID,
		Action: lifecycle.Action(body.Action),
	}

	outcome, err := s.deps.Machine.Apply(r.Context(), req, s.now())
	if err != nil {
		metrics.RecordAction(string(req.Action), actionResult(err))
		respondDomainError(w, r, err)
		return
	}

	result := "noop"
	if outcome.Changed {
		result = "changed"
	}
	metrics.RecordAction(string(req.Action), result)

	logging.Ctx(r.Context()).Info().
		Int64("item_id", outcome.ItemID).
		Str("action", string(req.Action)).
		Str("from", string(outcome.From)).
		Str("to", string(outcome.To)).
		Bool("changed", outcome.Changed).
		Msg("declutter action applied")

	respondJSON(w, r, http.StatusOK, okResponse{Status: "ok"})
}

func actionResult(err error) string {
	var (
		ve *lifecycle.ValidationError
		te *lifecycle.TransitionError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &te), errors.Is(err, lifecycle.ErrItemNotFound):
		return "rejected"
	default:
		return "error"
	}
}

// handleExplain serves GET /api/items/{itemID}/declutter_explain/.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		respondError(w, r, http.StatusBadRequest, "validation_error", "item id must be a positive integer", nil)
		return
	}

	exp, err := s.deps.Analyzer.Explain(r.Context(), userID, itemID, s.now())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, toExplain(exp, s.opts.Location))
}

// handleUsage serves POST /api/usage_history/.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())

	var body usageRequest
	if err := decodeJSON(w, r, &body); err != nil {
		respondDomainError(w, r, err)
		return
	}

	if err := validation.Struct(&body); err != nil {
		message := err.Error()
		var errs validation.Errors
		if errors.As(err, &errs) && len(errs) > 0 {
			message = errs[0].Message
		}
		respondError(w, r, http.StatusBadRequest, "validation_error", message, nil)
		return
	}

	now := s.now()
	usedAt := now
	if body.UsedAt != "" {
		// Validated above.
		usedAt, _ = time.ParseInLocation(dateLayout, body.UsedAt, s.opts.Location)
	}

	ev, err := s.deps.Recorder.Record(r.Context(), userID, body.ItemID, usedAt, now)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	metrics.RecordUsage(ev.Reactivated)

	respondJSON(w, r, http.StatusCreated, usageResponse{
		Status:      "ok",
		HistoryID:   ev.ID,
		ItemID:      ev.ItemID,
		UsedAt:      ev.UsedAt.In(s.opts.Location).Format(dateLayout),
		Reactivated: ev.Reactivated,
	})
}

// handleHealth serves GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(r.Context()); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("health check failed")
			respondJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	respondJSON(w, r, http.StatusOK, healthResponse{Status: "ok"})
}
