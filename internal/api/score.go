package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikeSquared-Agency/Roost/internal/enrich"
)

type ScoreHandler struct {
	enricher *enrich.Enricher
}

func NewScoreHandler(e *enrich.Enricher) *ScoreHandler {
	return &ScoreHandler{enricher: e}
}

type ScoreRequest struct {
	URL string `json:"url"`
}

// FromURL scrapes a listing page and scores every matching floor plan. A
// failed scrape is the caller's cue to fall back to manual entry, so it comes
// back as 422 with needs_manual set rather than a server error.
func (h *ScoreHandler) FromURL(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url required"})
		return
	}

	result, err := h.enricher.ScoreURL(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, enrich.ErrScrapeFailed) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"status":       "scrape_failed",
				"error":        err.Error(),
				"needs_manual": true,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ScoreHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var entry enrich.ManualEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if entry.Rent < 0 || entry.Sqft < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rent and sqft must be non-negative"})
		return
	}

	a, err := h.enricher.ScoreManual(r.Context(), entry)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":    "success",
		"apartment": a,
		"scores":    a.Scores,
	})
}
