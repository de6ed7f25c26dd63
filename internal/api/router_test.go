package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MikeSquared-Agency/Roost/internal/atlas"
	"github.com/MikeSquared-Agency/Roost/internal/enrich"
	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/scout"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

// Mocks
type stubScout struct {
	listing *scout.Listing
	err     error
}

func (s stubScout) Fetch(_ context.Context, _ string) (*scout.Listing, error) {
	return s.listing, s.err
}

type mockHerald struct {
	published []string
}

func (m *mockHerald) Publish(subject string, _ interface{}) error {
	m.published = append(m.published, subject)
	return nil
}
func (m *mockHerald) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (m *mockHerald) Close()                                           {}

func newTestRouter(sc scout.Scout) (http.Handler, *store.Memory) {
	st := store.NewMemory(scoring.DefaultProfile())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := enrich.New(st, sc, nil, nil, atlas.DefaultCommuteTarget(), scoring.DefaultProfile(), nil, logger)
	router := NewRouter(st, e, nil, nil, scoring.DefaultProfile(), nil, "test-token", logger)
	return router, st
}

func setupTestRouter() (http.Handler, *store.Memory) {
	return newTestRouter(stubScout{err: errors.New("no scout configured in test")})
}

func scrapedListing() *scout.Listing {
	return &scout.Listing{
		URL:     "https://www.thefred.com",
		Name:    "The Fred",
		Address: "800 Carlson Pkwy, Minnetonka, MN 55305",
		Plans: []scout.FloorPlan{
			{Bedrooms: 2, Bathrooms: 2, Sqft: 1050, Units: []scout.Unit{{Label: "#312", Available: "now", Rent: 2250}}},
			{Bedrooms: 1, Bathrooms: 1, Sqft: 750, Units: []scout.Unit{{Label: "#118", Available: "now", Rent: 1395}}},
		},
		Amenities: []scoring.AmenityID{scoring.AmenityDishwasher, scoring.AmenityInUnitLaundry},
		TourURL:   "https://my.matterport.com/show/?m=abc",
	}
}

func TestHealth(t *testing.T) {
	router, st := setupTestRouter()

	st.Create(context.Background(), &store.Apartment{Name: "Seed", Rent: 1800})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Status string `json:"status"`
		Stored int    `json:"apartments_stored"`
	}
	json.NewDecoder(w.Body).Decode(&body)
	if body.Status != "running" {
		t.Errorf("expected status 'running', got '%s'", body.Status)
	}
	if body.Stored != 1 {
		t.Errorf("expected 1 apartment stored, got %d", body.Stored)
	}
}

func TestScoreFromURL(t *testing.T) {
	router, st := newTestRouter(stubScout{listing: scrapedListing()})

	body := `{"url":"https://www.thefred.com"}`
	req := httptest.NewRequest("POST", "/api/v1/score", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result enrich.ScoreResult
	json.NewDecoder(w.Body).Decode(&result)
	if result.Status != "success" {
		t.Errorf("expected status 'success', got '%s'", result.Status)
	}
	if result.TotalPlans != 2 || result.MatchingPlans != 1 {
		t.Errorf("expected 2 plans with 1 matching, got %d/%d", result.TotalPlans, result.MatchingPlans)
	}
	if len(result.Apartments) != 1 {
		t.Fatalf("expected 1 apartment, got %d", len(result.Apartments))
	}
	if result.Apartments[0].Rent != 2250 {
		t.Errorf("expected rent 2250, got %d", result.Apartments[0].Rent)
	}
	if !result.ScrapeInfo.TourFound {
		t.Error("expected tour found")
	}

	n, _ := st.Count(context.Background())
	if n != 1 {
		t.Errorf("expected 1 stored apartment, got %d", n)
	}
}

func TestScoreFromURLScrapeFailed(t *testing.T) {
	router, st := newTestRouter(stubScout{err: errors.New("blocked by site")})

	body := `{"url":"https://www.thefred.com"}`
	req := httptest.NewRequest("POST", "/api/v1/score", bytes.NewBufferString(body))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status      string `json:"status"`
		NeedsManual bool   `json:"needs_manual"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "scrape_failed" {
		t.Errorf("expected status 'scrape_failed', got '%s'", resp.Status)
	}
	if !resp.NeedsManual {
		t.Error("expected needs_manual to be set")
	}

	n, _ := st.Count(context.Background())
	if n != 0 {
		t.Errorf("expected nothing stored after failed scrape, got %d", n)
	}
}

func TestScoreFromURLMissingURL(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("POST", "/api/v1/score", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestScoreManual(t *testing.T) {
	router, st := setupTestRouter()

	body := `{"name":"The Fred","rent":2250,"bedrooms":2,"bathrooms":2,"sqft":1050}`
	req := httptest.NewRequest("POST", "/api/v1/score/manual", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status    string           `json:"status"`
		Apartment *store.Apartment `json:"apartment"`
		Scores    scoring.Vector   `json:"scores"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "success" {
		t.Errorf("expected status 'success', got '%s'", resp.Status)
	}
	if resp.Apartment == nil || resp.Apartment.Name != "The Fred" {
		t.Fatalf("expected apartment 'The Fred', got %+v", resp.Apartment)
	}
	if resp.Scores.Overall == 0 {
		t.Error("expected a computed overall score")
	}

	n, _ := st.Count(context.Background())
	if n != 1 {
		t.Errorf("expected 1 stored apartment, got %d", n)
	}
}

func TestMetricsRouterHealth(t *testing.T) {
	router := NewMetricsRouter()
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestStatsRequiresAdminToken(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/v1/admin/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestStatsWithToken(t *testing.T) {
	router, st := setupTestRouter()

	st.Create(context.Background(), &store.Apartment{Name: "Seed", Rent: 1500})

	req := httptest.NewRequest("GET", "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var stats struct {
		Apartments int            `json:"apartments"`
		Tiers      map[string]int `json:"tiers"`
	}
	json.NewDecoder(w.Body).Decode(&stats)
	if stats.Apartments != 1 {
		t.Errorf("expected 1 apartment, got %d", stats.Apartments)
	}
	if len(stats.Tiers) != 1 {
		t.Errorf("expected a single tier bucket, got %v", stats.Tiers)
	}
}

func TestPurgeCacheWithoutCache(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("DELETE", "/api/v1/admin/cache", nil)
	req.Header.Set("Authorization", "Bearer test-token")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Purged int    `json:"purged"`
	}
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" || resp.Purged != 0 {
		t.Errorf("expected ok with 0 purged, got %+v", resp)
	}
}
