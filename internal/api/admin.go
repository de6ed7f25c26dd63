package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Roost/internal/atlas"
	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

type AdminHandler struct {
	store store.Store
	cache *atlas.Cache
}

func NewAdminHandler(s store.Store, c *atlas.Cache) *AdminHandler {
	return &AdminHandler{store: s, cache: c}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	tiers := map[string]int{}
	for _, a := range apartments {
		tiers[scoring.Tier(a.Scores.Overall)]++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"apartments": len(apartments),
		"tiers":      tiers,
	})
}

// PurgeCache drops every cached neighborhood row so the next lookups hit the
// data service fresh. Running without a cache is fine, there is just nothing
// to purge.
func (h *AdminHandler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "purged": 0})
		return
	}

	n, err := h.cache.Purge(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "purged": n})
}
