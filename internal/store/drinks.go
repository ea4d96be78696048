package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Drink is a catalog entry (rum, cocktail, spirit).
type Drink struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	OriginLand  string    `json:"origin,omitempty"`
	ABV         *float64  `json:"abv,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type DrinksStore struct {
	db *pgxpool.Pool
}

func (s *DrinksStore) List(ctx context.Context) ([]Drink, error) {
	query := `
		SELECT id, name, category, description, origin, abv, image_url, approved, created_by, created_at, updated_at
		FROM drinks ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drinks []Drink
	for rows.Next() {
		var d Drink
		if err := rows.Scan(&d.ID, &d.Name, &d.Category, &d.Description, &d.OriginLand,
			&d.ABV, &d.ImageURL, &d.Approved, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drinks = append(drinks, d)
	}
	return drinks, rows.Err()
}

func (s *DrinksStore) Create(ctx context.Context, drink *Drink) error {
	query := `
		INSERT INTO drinks (name, category, description, origin, abv, image_url, approved, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		drink.Name, drink.Category, drink.Description, drink.OriginLand,
		drink.ABV, drink.ImageURL, drink.Approved, drink.CreatedBy,
	).Scan(&drink.ID, &drink.CreatedAt, &drink.UpdatedAt)
}

func (s *DrinksStore) Update(ctx context.Context, drink *Drink) error {
	query := `
		UPDATE drinks
		SET name = $2, category = $3, description = $4, origin = $5, abv = $6, image_url = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		drink.ID, drink.Name, drink.Category, drink.Description, drink.OriginLand, drink.ABV, drink.ImageURL,
	).Scan(&drink.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *DrinksStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM drinks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
