package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/infohub-br/promoagent/internal/common"
	"github.com/infohub-br/promoagent/internal/model"
)

// SearchOffers returns currently valid offers for the product term within
// the configured radius of the user's registered address. A user without an
// address gets ErrNoLocation; a term with no matches gets an empty slice,
// not an error.
func (s *Store) SearchOffers(ctx context.Context, term string, userID int64) ([]model.Offer, error) {
	return s.lookupOffers(ctx, term, userID)
}

// NearbyOffers returns every currently valid offer within the radius,
// regardless of product.
func (s *Store) NearbyOffers(ctx context.Context, userID int64) ([]model.Offer, error) {
	return s.lookupOffers(ctx, "", userID)
}

func (s *Store) lookupOffers(ctx context.Context, term string, userID int64) ([]model.Offer, error) {
	lat, lon, err := s.userLocation(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT o.product, o.price, o.valid_from, o.valid_to,
		       e.name, e.city, e.state, e.latitude, e.longitude
		FROM offers o
		JOIN establishments e ON e.id = o.establishment_id
		WHERE o.valid_from <= ? AND o.valid_to >= ?`
	now := s.now()
	args := []any{now, now}

	if term != "" {
		query += ` AND o.product LIKE ?`
		args = append(args, "%"+term+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying offers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := make([]model.Offer, 0)
	for rows.Next() {
		var o model.Offer
		var estLat, estLon float64
		if err := rows.Scan(&o.Product, &o.Price, &o.ValidFrom, &o.ValidTo,
			&o.Establishment, &o.City, &o.State, &estLat, &estLon); err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}

		o.DistanceKm = haversineKm(lat, lon, estLat, estLon)
		if o.DistanceKm > s.radiusKm {
			continue
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offers: %w", err)
	}

	// Proximity filtering happens in Go, so row order from SQL is not
	// meaningful; cap after sorting by distance.
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].DistanceKm < offers[j].DistanceKm
	})
	if len(offers) > s.maxResults {
		offers = offers[:s.maxResults]
	}
	return offers, nil
}

func (s *Store) userLocation(ctx context.Context, userID int64) (lat, lon float64, err error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT latitude, longitude FROM user_addresses WHERE user_id = ?`, userID)
	if err := row.Scan(&lat, &lon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("user %d: %w", userID, common.ErrNoLocation)
		}
		return 0, 0, fmt.Errorf("loading user address: %w", err)
	}
	return lat, lon, nil
}

// SaveUserAddress upserts the user's location.
func (s *Store) SaveUserAddress(ctx context.Context, userID int64, lat, lon float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_addresses (user_id, latitude, longitude, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			updated_at = excluded.updated_at`,
		userID, lat, lon, s.now())
	if err != nil {
		return fmt.Errorf("saving user address: %w", err)
	}
	return nil
}

// SaveEstablishment inserts an establishment and returns its ID.
func (s *Store) SaveEstablishment(ctx context.Context, name, city, state string, lat, lon float64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO establishments (name, city, state, latitude, longitude)
		VALUES (?, ?, ?, ?, ?)`,
		name, city, state, lat, lon)
	if err != nil {
		return 0, fmt.Errorf("saving establishment: %w", err)
	}
	return res.LastInsertId()
}

// SaveOffer inserts an offer for an establishment.
func (s *Store) SaveOffer(ctx context.Context, establishmentID int64, product string, price float64, validFrom, validTo time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offers (establishment_id, product, price, valid_from, valid_to)
		VALUES (?, ?, ?, ?, ?)`,
		establishmentID, product, price, validFrom, validTo)
	if err != nil {
		return fmt.Errorf("saving offer: %w", err)
	}
	return nil
}
