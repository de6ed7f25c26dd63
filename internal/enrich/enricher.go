// Package enrich orchestrates the score-from-URL and manual-entry flows:
// scrape a listing, look up its neighborhood, score every matching floor
// plan, and persist each as its own apartment.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Roost/internal/atlas"
	"github.com/MikeSquared-Agency/Roost/internal/herald"
	"github.com/MikeSquared-Agency/Roost/internal/observability"
	"github.com/MikeSquared-Agency/Roost/internal/scoring"
	"github.com/MikeSquared-Agency/Roost/internal/scout"
	"github.com/MikeSquared-Agency/Roost/internal/store"
)

// ErrScrapeFailed marks a listing page the scout could not turn into floor
// plans. Callers map it to a needs-manual response instead of a server error.
var ErrScrapeFailed = errors.New("scrape failed")

type Enricher struct {
	store   store.Store
	scout   scout.Scout
	atlas   atlas.Client
	herald  herald.Client
	target  atlas.CommuteTarget
	profile scoring.Profile
	metrics *observability.Metrics
	logger  *slog.Logger
}

func New(s store.Store, sc scout.Scout, at atlas.Client, h herald.Client, target atlas.CommuteTarget, profile scoring.Profile, metrics *observability.Metrics, logger *slog.Logger) *Enricher {
	return &Enricher{
		store:   s,
		scout:   sc,
		atlas:   at,
		herald:  h,
		target:  target,
		profile: profile,
		metrics: metrics,
		logger:  logger,
	}
}

// ScrapeInfo summarizes what the scout saw on the page, echoed back so the
// caller can judge a thin result.
type ScrapeInfo struct {
	Name              string              `json:"name"`
	Address           string              `json:"address"`
	AmenitiesDetected []scoring.AmenityID `json:"amenities_detected"`
	TourFound         bool                `json:"tour_found"`
	AllPlansCount     int                 `json:"all_plans_count"`
}

// ScoreResult is the outcome of one score-from-URL call: every stored
// apartment plus the scrape summary.
type ScoreResult struct {
	Status        string             `json:"status"`
	Apartments    []*store.Apartment `json:"apartments"`
	TotalPlans    int                `json:"total_plans_found"`
	MatchingPlans int                `json:"matching_plans"`
	ScrapeInfo    ScrapeInfo         `json:"scrape_info"`
}

// ManualEntry carries user-typed listing fields for the fallback path. Nil
// bedroom and bathroom counts default to the profile's ideal layout.
type ManualEntry struct {
	Name      string              `json:"name"`
	Address   string              `json:"address"`
	URL       string              `json:"url"`
	Rent      int                 `json:"rent"`
	Bedrooms  *int                `json:"bedrooms"`
	Bathrooms *int                `json:"bathrooms"`
	Sqft      float64             `json:"sqft"`
	Amenities []scoring.AmenityID `json:"amenities"`
	TourURL   string              `json:"tour_3d"`
}

// ScoreURL scrapes one listing page, scores every floor plan matching the
// profile's ideal layout, and stores each as its own apartment. Scrape
// failures come back wrapped in ErrScrapeFailed so the API can offer the
// manual path; store failures are returned as-is.
func (e *Enricher) ScoreURL(ctx context.Context, pageURL string) (*ScoreResult, error) {
	listing, err := e.scout.Fetch(ctx, pageURL)
	if err != nil {
		e.logger.Warn("scrape failed", "url", pageURL, "error", err)
		e.metrics.Scrape("error")
		e.publishFailed(pageURL, err.Error(), true)
		return nil, fmt.Errorf("%w: %v", ErrScrapeFailed, err)
	}
	if len(listing.Plans) == 0 {
		e.logger.Warn("no floor plans found", "url", pageURL)
		e.metrics.Scrape("error")
		e.publishFailed(pageURL, "no floor plans found on page", true)
		return nil, fmt.Errorf("%w: no floor plans found on page", ErrScrapeFailed)
	}
	e.metrics.Scrape("ok")

	matching := e.matchingPlans(listing.Plans)

	var inputs scoring.NeighborhoodInputs
	if listing.Address == "" {
		e.logger.Warn("listing has no address, scoring with neutral neighborhood", "url", pageURL)
		e.publishFailed(pageURL, "no address found on page", false)
	} else {
		inputs = e.neighborhood(ctx, pageURL, listing.Address)
	}

	result := &ScoreResult{
		Status:        "success",
		TotalPlans:    len(listing.Plans),
		MatchingPlans: len(matching),
		ScrapeInfo: ScrapeInfo{
			Name:              listing.Name,
			Address:           listing.Address,
			AmenitiesDetected: listing.Amenities,
			TourFound:         listing.TourURL != "",
			AllPlansCount:     len(listing.Plans),
		},
	}

	for _, plan := range matching {
		a := apartmentFromPlan(pageURL, listing, plan, inputs)
		if err := e.store.Create(ctx, a); err != nil {
			return nil, fmt.Errorf("store apartment: %w", err)
		}
		e.metrics.ScoreComputed()
		e.logger.Info("apartment scored", "id", a.ID, "name", a.Name, "rent", a.Rent, "overall", a.Scores.Overall)
		e.publishCreated(a, "scrape")
		result.Apartments = append(result.Apartments, a)
	}
	return result, nil
}

// ScoreManual stores and scores one hand-entered apartment, running the same
// neighborhood enrichment by address. Nothing is left pending: the record
// comes back fully scored.
func (e *Enricher) ScoreManual(ctx context.Context, entry ManualEntry) (*store.Apartment, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = "Unknown"
	}
	beds := e.profile.IdealBedrooms
	if entry.Bedrooms != nil {
		beds = *entry.Bedrooms
	}
	baths := e.profile.IdealBathrooms
	if entry.Bathrooms != nil {
		baths = *entry.Bathrooms
	}

	var inputs scoring.NeighborhoodInputs
	if entry.Address != "" {
		inputs = e.neighborhood(ctx, entry.URL, entry.Address)
	}

	a := &store.Apartment{
		Name:         name,
		Address:      entry.Address,
		URL:          entry.URL,
		TourURL:      entry.TourURL,
		Rent:         entry.Rent,
		Bedrooms:     &beds,
		Bathrooms:    &baths,
		Sqft:         entry.Sqft,
		Amenities:    entry.Amenities,
		Neighborhood: inputs,
	}
	if err := e.store.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("store apartment: %w", err)
	}
	e.metrics.ScoreComputed()
	e.logger.Info("manual apartment scored", "id", a.ID, "name", a.Name, "overall", a.Scores.Overall)
	e.publishCreated(a, "manual")
	return a, nil
}

// matchingPlans keeps plans that hit the profile's ideal layout, or all plans
// when nothing matches exactly. Bathrooms compare on the rounded count, so a
// 2.5-bath plan does not match a 2-bath ideal.
func (e *Enricher) matchingPlans(plans []scout.FloorPlan) []scout.FloorPlan {
	var matching []scout.FloorPlan
	for _, p := range plans {
		if p.Bedrooms == e.profile.IdealBedrooms && int(math.Round(p.Bathrooms)) == e.profile.IdealBathrooms {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		return plans
	}
	return matching
}

// neighborhood looks up and derives category inputs for an address. Any
// failure degrades to neutral scoring; the apartment is still stored.
func (e *Enricher) neighborhood(ctx context.Context, ref, address string) scoring.NeighborhoodInputs {
	if e.atlas == nil {
		return nil
	}
	nd, err := e.atlas.Lookup(ctx, address)
	if err != nil {
		e.logger.Warn("neighborhood lookup failed", "address", address, "error", err)
		e.publishFailed(ref, err.Error(), false)
		return nil
	}
	return atlas.Derive(nd, e.target)
}

func apartmentFromPlan(pageURL string, l *scout.Listing, plan scout.FloorPlan, inputs scoring.NeighborhoodInputs) *store.Apartment {
	name := l.Name
	if name == "" {
		name = "Unknown Apartment"
	}
	beds := plan.Bedrooms
	a := &store.Apartment{
		Name:         name,
		Address:      l.Address,
		URL:          pageURL,
		TourURL:      l.TourURL,
		Rent:         plan.BestRent(),
		Bedrooms:     &beds,
		Sqft:         plan.Sqft,
		Amenities:    l.Amenities,
		Neighborhood: inputs,
	}
	if plan.Bathrooms > 0 {
		baths := int(math.Round(plan.Bathrooms))
		a.Bathrooms = &baths
	}
	return a
}

func (e *Enricher) publishCreated(a *store.Apartment, source string) {
	if e.herald == nil {
		return
	}
	_ = e.herald.Publish(herald.SubjectApartmentCreated(a.ID.String()), herald.ApartmentCreatedEvent{
		ApartmentID: a.ID.String(),
		Name:        a.Name,
		Rent:        a.Rent,
		Overall:     a.Scores.Overall,
		Tier:        scoring.Tier(a.Scores.Overall),
		Source:      source,
	})
}

func (e *Enricher) publishFailed(ref, reason string, needsManual bool) {
	if e.herald == nil {
		return
	}
	_ = e.herald.Publish(herald.SubjectEnrichmentFailed(uuid.NewString()), herald.EnrichmentFailedEvent{
		URL:         ref,
		Error:       reason,
		NeedsManual: needsManual,
	})
}
