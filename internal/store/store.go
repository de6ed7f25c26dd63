package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

// Apartment is one stored candidate unit. Scores is a cache derived from the
// other fields: every create and update recomputes it, and nothing else ever
// writes it.
type Apartment struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name,omitempty"`
	Address string    `json:"address,omitempty"`
	URL     string    `json:"url,omitempty"`
	TourURL string    `json:"tour_3d,omitempty"`

	Rent      int                 `json:"rent"`
	Bedrooms  *int                `json:"bedrooms,omitempty"`
	Bathrooms *int                `json:"bathrooms,omitempty"`
	Sqft      float64             `json:"sqft"`
	Amenities []scoring.AmenityID `json:"amenities"`

	Neighborhood scoring.NeighborhoodInputs `json:"neighborhood,omitempty"`

	Scores   scoring.Vector `json:"scores"`
	// Position is the 1-based rank in the persisted order.
	Position int `json:"position"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit extracts the scoring-relevant fields.
func (a *Apartment) Unit() scoring.Unit {
	return scoring.Unit{
		Rent:         a.Rent,
		Bedrooms:     a.Bedrooms,
		Bathrooms:    a.Bathrooms,
		Sqft:         a.Sqft,
		Amenities:    a.Amenities,
		Neighborhood: a.Neighborhood,
	}
}

// Patch carries a shallow field merge for Update: nil fields are left
// untouched, set fields replace the stored value whole. Amenities and
// Neighborhood are pointers to the whole collection so an explicit empty
// value clears it while an absent one does not.
type Patch struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	URL     *string `json:"url,omitempty"`
	TourURL *string `json:"tour_3d,omitempty"`

	Rent      *int     `json:"rent,omitempty"`
	Bedrooms  *int     `json:"bedrooms,omitempty"`
	Bathrooms *int     `json:"bathrooms,omitempty"`
	Sqft      *float64 `json:"sqft,omitempty"`

	Amenities    *[]scoring.AmenityID        `json:"amenities,omitempty"`
	Neighborhood *scoring.NeighborhoodInputs `json:"neighborhood,omitempty"`
}

func (p Patch) apply(a *Apartment) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Address != nil {
		a.Address = *p.Address
	}
	if p.URL != nil {
		a.URL = *p.URL
	}
	if p.TourURL != nil {
		a.TourURL = *p.TourURL
	}
	if p.Rent != nil {
		a.Rent = *p.Rent
	}
	if p.Bedrooms != nil {
		a.Bedrooms = p.Bedrooms
	}
	if p.Bathrooms != nil {
		a.Bathrooms = p.Bathrooms
	}
	if p.Sqft != nil {
		a.Sqft = *p.Sqft
	}
	if p.Amenities != nil {
		a.Amenities = *p.Amenities
	}
	if p.Neighborhood != nil {
		a.Neighborhood = *p.Neighborhood
	}
}

// Store is the apartment record store. Get and Update return nil, nil for an
// unknown id; Delete reports false. Implementations recompute Scores inside
// Create and Update so a stored record can never disagree with its fields.
type Store interface {
	Create(ctx context.Context, a *Apartment) error
	Get(ctx context.Context, id uuid.UUID) (*Apartment, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Apartment, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns records in their persisted position order: insertion
	// order until Sort rewrites it.
	List(ctx context.Context) ([]*Apartment, error)

	// Sort reorders the whole collection by a comparison key (a category
	// name, "overall", or "rent") and persists the new positions.
	Sort(ctx context.Context, key string) error

	Count(ctx context.Context) (int, error)

	Close() error
}

func rescore(a *Apartment, p scoring.Profile) {
	a.Scores = scoring.Score(a.Unit(), p)
}

// orderByKey stable-sorts apartments by a comparison key, best first. Records
// that tie keep their relative order, so repeated sorts are stable.
func orderByKey(apartments []*Apartment, key string) error {
	dir, err := scoring.KeyDirection(key)
	if err != nil {
		return err
	}
	sort.SliceStable(apartments, func(i, j int) bool {
		vi, _ := scoring.KeyValue(key, apartments[i].Scores, apartments[i].Rent)
		vj, _ := scoring.KeyValue(key, apartments[j].Scores, apartments[j].Rent)
		return scoring.Better(dir, vi, vj)
	})
	return nil
}
