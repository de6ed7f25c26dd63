package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Roost/internal/herald"
	"github.com/MikeSquared-Agency/Roost/internal/observability"
	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

type ApartmentsHandler struct {
	store   store.Store
	herald  herald.Client
	metrics *observability.Metrics
}

func NewApartmentsHandler(s store.Store, h herald.Client, m *observability.Metrics) *ApartmentsHandler {
	return &ApartmentsHandler{store: s, herald: h, metrics: m}
}

type CreateApartmentRequest struct {
	Name         string                     `json:"name,omitempty"`
	Address      string                     `json:"address,omitempty"`
	URL          string                     `json:"url,omitempty"`
	TourURL      string                     `json:"tour_3d,omitempty"`
	Rent         int                        `json:"rent"`
	Bedrooms     *int                       `json:"bedrooms,omitempty"`
	Bathrooms    *int                       `json:"bathrooms,omitempty"`
	Sqft         float64                    `json:"sqft,omitempty"`
	Amenities    []scoring.AmenityID        `json:"amenities,omitempty"`
	Neighborhood scoring.NeighborhoodInputs `json:"neighborhood,omitempty"`
}

// Create stores an apartment exactly as given, with no scraping and no
// neighborhood lookup. The score vector is computed on write.
func (h *ApartmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateApartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Rent < 0 || req.Sqft < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rent and sqft must be non-negative"})
		return
	}

	a := &store.Apartment{
		Name:         req.Name,
		Address:      req.Address,
		URL:          req.URL,
		TourURL:      req.TourURL,
		Rent:         req.Rent,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Sqft:         req.Sqft,
		Amenities:    req.Amenities,
		Neighborhood: req.Neighborhood,
	}

	if err := h.store.Create(r.Context(), a); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.metrics.ScoreComputed()

	if h.herald != nil {
		_ = h.herald.Publish(herald.SubjectApartmentCreated(a.ID.String()), herald.ApartmentCreatedEvent{
			ApartmentID: a.ID.String(),
			Name:        a.Name,
			Rent:        a.Rent,
			Overall:     a.Scores.Overall,
			Tier:        scoring.Tier(a.Scores.Overall),
			Source:      "api",
		})
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *ApartmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if apartments == nil {
		apartments = []*store.Apartment{}
	}
	writeJSON(w, http.StatusOK, apartments)
}

func (h *ApartmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, a)
}

func (h *ApartmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid apartment id"})
		return
	}

	var patch store.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	a, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "apartment not found"})
		return
	}
	h.metrics.ScoreComputed()

	if h.herald != nil {
		_ = h.herald.Publish(herald.SubjectApartmentUpdated(a.ID.String()), herald.ApartmentUpdatedEvent{
			ApartmentID: a.ID.String(),
			Rent:        a.Rent,
			Overall:     a.Scores.Overall,
			Tier:        scoring.Tier(a.Scores.Overall),
		})
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *ApartmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid apartment id"})
		return
	}

	ok, err := h.store.Delete(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "apartment not found"})
		return
	}

	if h.herald != nil {
		_ = h.herald.Publish(herald.SubjectApartmentDeleted(id.String()), herald.ApartmentDeletedEvent{
			ApartmentID: id.String(),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

type SortRequest struct {
	Key string `json:"key"`
}

// Sort reorders the stored ranking by the given key and returns the new
// order. The key is validated up front so a bad key is a 400, not a 500.
func (h *ApartmentsHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if _, err := scoring.KeyDirection(req.Key); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store.Sort(r.Context(), req.Key); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	apartments, err := h.store.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if apartments == nil {
		apartments = []*store.Apartment{}
	}

	if h.herald != nil {
		_ = h.herald.Publish(herald.SubjectStoreSorted, herald.StoreSortedEvent{
			Key:       req.Key,
			Count:     len(apartments),
			Timestamp: time.Now().UTC(),
		})
	}

	writeJSON(w, http.StatusOK, apartments)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
