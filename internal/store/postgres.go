package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool    *pgxpool.Pool
	profile scoring.Profile
}

func NewPostgres(ctx context.Context, databaseURL string, profile scoring.Profile) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Postgres{pool: pool, profile: profile}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Postgres) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS apartments (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			tour_url TEXT NOT NULL DEFAULT '',
			rent INTEGER NOT NULL DEFAULT 0,
			bedrooms INTEGER,
			bathrooms INTEGER,
			sqft DOUBLE PRECISION NOT NULL DEFAULT 0,
			amenities TEXT[] NOT NULL DEFAULT '{}',
			neighborhood JSONB NOT NULL DEFAULT '{}',
			scores JSONB NOT NULL DEFAULT '{}',
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

const apartmentColumns = `id, name, address, url, tour_url, rent, bedrooms, bathrooms, sqft,
	amenities, neighborhood, scores, position, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, a *Apartment) error {
	a.ID = uuid.New()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	rescore(a, s.profile)

	neighborhoodJSON, _ := json.Marshal(a.Neighborhood)
	scoresJSON, _ := json.Marshal(a.Scores)

	err := s.pool.QueryRow(ctx, `
		INSERT INTO apartments (id, name, address, url, tour_url, rent, bedrooms, bathrooms, sqft,
			amenities, neighborhood, scores, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			(SELECT COALESCE(MAX(position) + 1, 1) FROM apartments), $13, $14)
		RETURNING position`,
		a.ID, a.Name, a.Address, a.URL, a.TourURL, a.Rent, a.Bedrooms, a.Bathrooms, a.Sqft,
		toStrings(a.Amenities), neighborhoodJSON, scoresJSON, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.Position)
	if err != nil {
		return fmt.Errorf("create apartment: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, id uuid.UUID) (*Apartment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+apartmentColumns+` FROM apartments WHERE id = $1`, id)
	a, err := scanApartment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get apartment: %w", err)
	}
	return a, nil
}

func (s *Postgres) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Apartment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}

	patch.apply(a)
	rescore(a, s.profile)
	a.UpdatedAt = time.Now().UTC()

	neighborhoodJSON, _ := json.Marshal(a.Neighborhood)
	scoresJSON, _ := json.Marshal(a.Scores)

	_, err = s.pool.Exec(ctx, `
		UPDATE apartments
		SET name = $2, address = $3, url = $4, tour_url = $5, rent = $6, bedrooms = $7,
			bathrooms = $8, sqft = $9, amenities = $10, neighborhood = $11, scores = $12,
			updated_at = $13
		WHERE id = $1`,
		a.ID, a.Name, a.Address, a.URL, a.TourURL, a.Rent, a.Bedrooms,
		a.Bathrooms, a.Sqft, toStrings(a.Amenities), neighborhoodJSON, scoresJSON,
		a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update apartment: %w", err)
	}
	return a, nil
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM apartments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete apartment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Postgres) List(ctx context.Context) ([]*Apartment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apartmentColumns+` FROM apartments ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	defer rows.Close()
	return scanApartments(rows)
}

// Sort rewrites every position inside one transaction so a failure part way
// through never leaves a half-ordered collection.
func (s *Postgres) Sort(ctx context.Context, key string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin sort: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		`SELECT `+apartmentColumns+` FROM apartments ORDER BY position, created_at`)
	if err != nil {
		return fmt.Errorf("sort apartments: %w", err)
	}
	apartments, err := scanApartments(rows)
	if err != nil {
		return fmt.Errorf("sort apartments: %w", err)
	}

	if err := orderByKey(apartments, key); err != nil {
		return err
	}
	for i, a := range apartments {
		if a.Position == i+1 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE apartments SET position = $2 WHERE id = $1`, a.ID, i+1); err != nil {
			return fmt.Errorf("sort apartments: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sort: %w", err)
	}
	return nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM apartments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count apartments: %w", err)
	}
	return count, nil
}

func scanApartment(row pgx.Row) (*Apartment, error) {
	var a Apartment
	var amenities []string
	var neighborhoodJSON, scoresJSON []byte

	err := row.Scan(&a.ID, &a.Name, &a.Address, &a.URL, &a.TourURL, &a.Rent,
		&a.Bedrooms, &a.Bathrooms, &a.Sqft, &amenities, &neighborhoodJSON,
		&scoresJSON, &a.Position, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Amenities = toAmenityIDs(amenities)
	if len(neighborhoodJSON) > 0 {
		_ = json.Unmarshal(neighborhoodJSON, &a.Neighborhood)
	}
	if len(scoresJSON) > 0 {
		_ = json.Unmarshal(scoresJSON, &a.Scores)
	}
	return &a, nil
}

func scanApartments(rows pgx.Rows) ([]*Apartment, error) {
	var apartments []*Apartment
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan apartment: %w", err)
		}
		apartments = append(apartments, a)
	}
	return apartments, rows.Err()
}

func toStrings(ids []scoring.AmenityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func toAmenityIDs(values []string) []scoring.AmenityID {
	if len(values) == 0 {
		return nil
	}
	out := make([]scoring.AmenityID, len(values))
	for i, v := range values {
		out[i] = scoring.AmenityID(v)
	}
	return out
}
