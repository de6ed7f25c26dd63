package atlas

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache persists raw neighborhood lookups in a local SQLite file so repeat
// scores of the same address stay off the network. Rows expire after the
// configured TTL; a TTL of zero keeps them forever.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func OpenCache(path string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	c := &Cache{
		db:     db,
		ttl:    ttl,
		logger: logger,
		stopCh: make(chan struct{}),
	}
	if err := c.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) ensureSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS neighborhoods (
			address TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			fetched_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure cache schema: %w", err)
	}
	return nil
}

// Get returns the cached payload for an address, reporting a miss for
// unknown, expired, or unreadable rows.
func (c *Cache) Get(ctx context.Context, address string) (*NeighborhoodData, bool, error) {
	var payload string
	var fetchedAt time.Time
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM neighborhoods WHERE address = ?`,
		normalizeAddress(address),
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache: %w", err)
	}
	if c.ttl > 0 && time.Since(fetchedAt) > c.ttl {
		return nil, false, nil
	}

	var nd NeighborhoodData
	if err := json.Unmarshal([]byte(payload), &nd); err != nil {
		c.logger.Warn("skipping unreadable cache row", "address", address, "error", err)
		return nil, false, nil
	}
	return &nd, true, nil
}

func (c *Cache) Put(ctx context.Context, address string, nd *NeighborhoodData) error {
	payload, _ := json.Marshal(nd)
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO neighborhoods (address, payload, fetched_at) VALUES (?, ?, ?)`,
		normalizeAddress(address), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Purge drops every cached row and reports how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM neighborhoods`)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (c *Cache) purgeExpired(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM neighborhoods WHERE fetched_at < ?`, time.Now().UTC().Add(-c.ttl))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// StartJanitor begins a background sweep that removes expired rows. It is a
// no-op when rows never expire.
func (c *Cache) StartJanitor(interval time.Duration) {
	if c.ttl <= 0 {
		return
	}
	c.wg.Add(1)
	go c.janitorLoop(interval)
}

func (c *Cache) janitorLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			n, err := c.purgeExpired(context.Background())
			if err != nil {
				c.logger.Error("cache janitor sweep failed", "error", err)
				continue
			}
			if n > 0 {
				c.logger.Info("purged expired neighborhood rows", "count", n)
			}
		}
	}
}

func (c *Cache) Close() error {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.wg.Wait()
	return c.db.Close()
}

// normalizeAddress makes the cache key tolerant of casing and spacing so
// "400 Excelsior  Blvd" and "400 excelsior blvd" hit the same row.
func normalizeAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
