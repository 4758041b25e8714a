// Package storage persists establishments, offers, and user addresses in
// SQLite and answers proximity-filtered offer lookups.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds storage settings.
type Config struct {
	// Path is the SQLite database file. ":memory:" is valid for tests.
	Path string
	// RadiusKm bounds proximity lookups.
	RadiusKm float64
	// MaxResults caps the row count returned by offer lookups.
	MaxResults int
}

// DefaultConfig returns production storage settings.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		RadiusKm:   10,
		MaxResults: 20,
	}
}

// Store wraps the SQLite database.
type Store struct {
	db         *sql.DB
	radiusKm   float64
	maxResults int
	logger     *slog.Logger
	now        func() time.Time
}

// NewStore opens the database and verifies connectivity.
func NewStore(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RadiusKm <= 0 {
		cfg.RadiusKm = 10
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 20
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{
		db:         db,
		radiusKm:   cfg.RadiusKm,
		maxResults: cfg.MaxResults,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate applies the schema. Statements are idempotent so running it on an
// existing database is safe.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration: %w", err)
		}
	}
	s.logger.Debug("schema migrated")
	return nil
}

// haversineKm returns the great-circle distance between two points in
// kilometers. Computed here rather than in SQL: the sqlite driver does not
// ship trigonometric functions by default.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
