package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ziorum/internal/ident"
	"ziorum/internal/moderation"
)

// Venue is a reviewable bar/establishment. ID is the unified identifier:
// the external id when the row carries one (records that existed on a
// client before their first sync), otherwise the database row id. RemoteID
// is always the database row id for rows that originated there, so lookups
// can match either space.
type Venue struct {
	ID           string       `json:"id"`
	RemoteID     string       `json:"remote_id,omitempty"`
	ExternalID   *string      `json:"external_id,omitempty"`
	Origin       ident.Origin `json:"-"`
	CloudPending bool         `json:"cloud_pending,omitempty"`

	Name       string   `json:"name"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	Address    string   `json:"address"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Categories []string `json:"categories,omitempty"`
	PriceRange string   `json:"price_range,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Website    *string  `json:"website,omitempty"`
	CoverURL   *string  `json:"cover_url,omitempty"`
	ImageURLs  []string `json:"image_urls,omitempty"`

	// Verified is the legacy gating flag carried by records imported from
	// old backups; new records rely on Status only.
	Verified bool                   `json:"verified"`
	Status   moderation.VenueStatus `json:"status"`

	SubmitterEmail *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived from the review set on read, never stored.
	ReviewCount int      `json:"review_count"`
	Overall     *float64 `json:"overall_rating"`
	DrinkAvg    *float64 `json:"drink_quality_avg,omitempty"`
	StaffAvg    *float64 `json:"staff_avg,omitempty"`
	AtmoAvg     *float64 `json:"atmosphere_avg,omitempty"`
	ValueAvg    *float64 `json:"value_avg,omitempty"`
}

type VenuesStore struct {
	db *pgxpool.Pool
}

const venueColumns = `
	id, external_id, name, city, country, address,
	latitude, longitude, categories, price_range,
	phone, email, website, cover_url, image_urls,
	verified, status, submitter_email, created_at, updated_at`

func scanVenue(row pgx.Row) (*Venue, error) {
	var v Venue
	err := row.Scan(
		&v.RemoteID, &v.ExternalID, &v.Name, &v.City, &v.Country, &v.Address,
		&v.Latitude, &v.Longitude, &v.Categories, &v.PriceRange,
		&v.Phone, &v.Email, &v.Website, &v.CoverURL, &v.ImageURLs,
		&v.Verified, &v.Status, &v.SubmitterEmail, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Origin = ident.OriginRemote
	if v.ExternalID != nil && *v.ExternalID != "" {
		v.ID = *v.ExternalID
	} else {
		v.ID = v.RemoteID
	}
	return &v, nil
}

func (s *VenuesStore) ListByStatus(ctx context.Context, status moderation.VenueStatus) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE status = $1 ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *v)
	}
	return venues, rows.Err()
}

// GetByID matches either the row id or the external id.
func (s *VenuesStore) GetByID(ctx context.Context, id string) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id::text = $1 OR external_id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	v, err := scanVenue(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Create inserts the venue and fills RemoteID, unified ID, timestamps and
// status from the database. Status defaults to pending unless the caller
// set a valid one (admin-created venues insert approved directly).
func (s *VenuesStore) Create(ctx context.Context, venue *Venue) error {
	if !venue.Status.Valid() {
		venue.Status = moderation.VenuePending
	}

	query := `
		INSERT INTO venues (
			external_id, name, city, country, address,
			latitude, longitude, categories, price_range,
			phone, email, website, cover_url, image_urls,
			verified, status, submitter_email
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		venue.ExternalID, venue.Name, venue.City, venue.Country, venue.Address,
		venue.Latitude, venue.Longitude, venue.Categories, venue.PriceRange,
		venue.Phone, venue.Email, venue.Website, venue.CoverURL, venue.ImageURLs,
		venue.Verified, venue.Status, venue.SubmitterEmail,
	).Scan(&venue.RemoteID, &venue.CreatedAt, &venue.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create venue: %w", err)
	}

	venue.Origin = ident.OriginRemote
	if venue.ExternalID == nil || *venue.ExternalID == "" {
		venue.ID = venue.RemoteID
	}
	return nil
}

// Update patches the given fields. The allow-list keeps callers from
// touching moderation or identity columns through this path.
func (s *VenuesStore) Update(ctx context.Context, id string, updateData map[string]any) error {
	query := "UPDATE venues SET updated_at = now(), "
	args := []any{}
	argCounter := 1

	for key, value := range updateData {
		switch key {
		case "name", "city", "country", "address", "price_range",
			"phone", "email", "website", "cover_url":
			query += fmt.Sprintf("%s = $%d, ", key, argCounter)
			args = append(args, value)
			argCounter++
		case "latitude", "longitude":
			query += fmt.Sprintf("%s = $%d, ", key, argCounter)
			args = append(args, value)
			argCounter++
		case "categories", "image_urls":
			list, ok := value.([]string)
			if !ok {
				return fmt.Errorf("invalid %s data", key)
			}
			query += fmt.Sprintf("%s = $%d, ", key, argCounter)
			args = append(args, list)
			argCounter++
		default:
			return fmt.Errorf("unsupported field: %s", key)
		}
	}

	query = query[:len(query)-2]
	query += fmt.Sprintf(" WHERE id::text = $%d OR external_id = $%d", argCounter, argCounter)
	args = append(args, id)

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus drives the moderation transition, optionally patching the
// coordinates in the same statement (admins fix geocoding on approval).
func (s *VenuesStore) SetStatus(ctx context.Context, id string, status moderation.VenueStatus, lat, lon *float64) error {
	query := `
		UPDATE venues
		SET status = $2,
		    latitude = COALESCE($3, latitude),
		    longitude = COALESCE($4, longitude),
		    updated_at = now()
		WHERE id::text = $1 OR external_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, query, id, status, lat, lon)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *VenuesStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM venues WHERE id::text = $1 OR external_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
