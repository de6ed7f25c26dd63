package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

// Memory is a map-backed Store. It holds the same semantics as Postgres and
// backs unit tests plus database-less dev runs; records do not survive a
// restart.
type Memory struct {
	profile scoring.Profile

	mu    sync.RWMutex
	items map[uuid.UUID]*Apartment
	next  int
}

func NewMemory(profile scoring.Profile) *Memory {
	return &Memory{
		profile: profile,
		items:   make(map[uuid.UUID]*Apartment),
		next:    1,
	}
}

func (s *Memory) Create(ctx context.Context, a *Apartment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.New()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.Position = s.next
	s.next++
	rescore(a, s.profile)

	s.items[a.ID] = cloneApartment(a)
	return nil
}

func (s *Memory) Get(ctx context.Context, id uuid.UUID) (*Apartment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneApartment(a), nil
}

func (s *Memory) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Apartment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	updated := cloneApartment(a)
	patch.apply(updated)
	rescore(updated, s.profile)
	updated.UpdatedAt = time.Now().UTC()
	s.items[id] = cloneApartment(updated)
	return updated, nil
}

func (s *Memory) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *Memory) List(ctx context.Context) ([]*Apartment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Apartment, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, cloneApartment(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Memory) Sort(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := make([]*Apartment, 0, len(s.items))
	for _, a := range s.items {
		ordered = append(ordered, a)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	if err := orderByKey(ordered, key); err != nil {
		return err
	}
	for i, a := range ordered {
		a.Position = i + 1
	}
	s.next = len(ordered) + 1
	return nil
}

func (s *Memory) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *Memory) Close() error { return nil }

func cloneApartment(a *Apartment) *Apartment {
	out := *a
	if a.Bedrooms != nil {
		v := *a.Bedrooms
		out.Bedrooms = &v
	}
	if a.Bathrooms != nil {
		v := *a.Bathrooms
		out.Bathrooms = &v
	}
	if a.Amenities != nil {
		out.Amenities = append([]scoring.AmenityID(nil), a.Amenities...)
	}
	if a.Neighborhood != nil {
		out.Neighborhood = make(scoring.NeighborhoodInputs, len(a.Neighborhood))
		for k, v := range a.Neighborhood {
			out.Neighborhood[k] = v
		}
	}
	return &out
}
