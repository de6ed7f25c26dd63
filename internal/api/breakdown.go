package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

type BreakdownHandler struct {
	store   store.Store
	profile scoring.Profile
}

func NewBreakdownHandler(s store.Store, profile scoring.Profile) *BreakdownHandler {
	return &BreakdownHandler{store: s, profile: profile}
}

// Breakdown explains one apartment's score: every category with its points,
// tier and a one-line reason, plus the overall.
func (h *BreakdownHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid apartment id"})
		return
	}

	a, err := h.store.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "apartment not found"})
		return
	}

	categories := scoring.Breakdown(a.Unit(), h.profile)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"apartment_id": a.ID,
		"name":         a.Name,
		"overall":      a.Scores.Overall,
		"tier":         scoring.Tier(a.Scores.Overall),
		"categories":   categories,
	})
}
