package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

type CompareHandler struct {
	store store.Store
}

func NewCompareHandler(s store.Store) *CompareHandler {
	return &CompareHandler{store: s}
}

// Compare picks the best stored apartment for a key, overall by default. Ties
// are returned in full rather than broken arbitrarily.
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = scoring.CompareKeyOverall
	}
	dir, err := scoring.KeyDirection(key)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	apartments, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	values := make([]float64, len(apartments))
	for i, a := range apartments {
		v, err := scoring.KeyValue(key, a.Scores, a.Rent)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		values[i] = v
	}

	best := make([]*store.Apartment, 0, 1)
	for _, i := range scoring.BestIndices(values, dir) {
		best = append(best, apartments[i])
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":   key,
		"count": len(apartments),
		"best":  best,
	})
}
