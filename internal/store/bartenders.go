package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ziorum/internal/moderation"
)

// Bartender is a professional profile, optionally tied to a venue either
// by id (an existing venue) or by free-text name — never both.
type Bartender struct {
	ID          string                   `json:"id"`
	UserID      *string                  `json:"user_id,omitempty"`
	DisplayName string                   `json:"display_name"`
	Bio         string                   `json:"bio,omitempty"`
	VenueID     *string                  `json:"venue_id,omitempty"`
	VenueName   *string                  `json:"venue_name,omitempty"`
	Specialties []string                 `json:"specialties,omitempty"`
	PhotoURL    *string                  `json:"photo_url,omitempty"`
	Status      moderation.ProfileStatus `json:"status"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type BartendersStore struct {
	db *pgxpool.Pool
}

const bartenderColumns = `
	id, user_id, display_name, bio, venue_id, venue_name, specialties, photo_url, status, created_at, updated_at`

func scanBartender(row pgx.Row) (*Bartender, error) {
	var b Bartender
	err := row.Scan(&b.ID, &b.UserID, &b.DisplayName, &b.Bio, &b.VenueID, &b.VenueName,
		&b.Specialties, &b.PhotoURL, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BartendersStore) List(ctx context.Context, status *moderation.ProfileStatus) ([]Bartender, error) {
	query := `SELECT ` + bartenderColumns + ` FROM bartenders`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bartenders []Bartender
	for rows.Next() {
		b, err := scanBartender(rows)
		if err != nil {
			return nil, err
		}
		bartenders = append(bartenders, *b)
	}
	return bartenders, rows.Err()
}

func (s *BartendersStore) GetByID(ctx context.Context, id string) (*Bartender, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	b, err := scanBartender(s.db.QueryRow(ctx, `SELECT `+bartenderColumns+` FROM bartenders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *BartendersStore) Create(ctx context.Context, bartender *Bartender) error {
	// Venue reference is either an id or a free-text name, not both.
	if bartender.VenueID != nil {
		bartender.VenueName = nil
	}
	if !bartender.Status.Valid() {
		bartender.Status = moderation.ProfilePending
	}

	query := `
		INSERT INTO bartenders (user_id, display_name, bio, venue_id, venue_name, specialties, photo_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		bartender.UserID, bartender.DisplayName, bartender.Bio, bartender.VenueID,
		bartender.VenueName, bartender.Specialties, bartender.PhotoURL, bartender.Status,
	).Scan(&bartender.ID, &bartender.CreatedAt, &bartender.UpdatedAt)
}

func (s *BartendersStore) SetStatus(ctx context.Context, id string, status moderation.ProfileStatus) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `UPDATE bartenders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BartendersStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM bartenders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
