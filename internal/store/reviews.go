package store

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Review struct {
	ID      string `json:"id"`
	VenueID string `json:"venue_id"`
	UserID  *string `json:"user_id,omitempty"`

	AuthorName string `json:"author_name"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`

	// Sub-ratings are 1..10; zero means not rated.
	DrinkQuality    int `json:"drink_quality"`
	StaffCompetence int `json:"staff_competence"`
	Atmosphere      int `json:"atmosphere"`
	Value           int `json:"value"`

	// Overall is the rounded mean of the present sub-ratings, recomputed
	// on read and never stored or accepted from a client.
	Overall *float64 `json:"overall_rating"`

	DrinkMentions []string `json:"drink_mentions,omitempty"`
	PhotoURLs     []string `json:"photo_urls,omitempty"`
	VideoURLs     []string `json:"video_urls,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recompute sets Overall from the sub-ratings that are present (>0),
// rounded to one decimal. With no sub-ratings present Overall stays nil.
func (r *Review) Recompute() {
	sum, n := 0, 0
	for _, v := range []int{r.DrinkQuality, r.StaffCompetence, r.Atmosphere, r.Value} {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		r.Overall = nil
		return
	}
	overall := math.Round(float64(sum)/float64(n)*10) / 10
	r.Overall = &overall
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

const reviewColumns = `
	id, venue_id, user_id, author_name, title, content,
	drink_quality, staff_competence, atmosphere, value,
	drink_mentions, photo_urls, video_urls, status, created_at, updated_at`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(
		&r.ID, &r.VenueID, &r.UserID, &r.AuthorName, &r.Title, &r.Content,
		&r.DrinkQuality, &r.StaffCompetence, &r.Atmosphere, &r.Value,
		&r.DrinkMentions, &r.PhotoURLs, &r.VideoURLs, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Recompute()
	return &r, nil
}

func (s *ReviewsStore) list(ctx context.Context, query string, args ...any) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

func (s *ReviewsStore) ListApproved(ctx context.Context) ([]Review, error) {
	return s.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE status = 'approved' ORDER BY created_at DESC`)
}

func (s *ReviewsStore) Create(ctx context.Context, review *Review) error {
	if review.Status == "" {
		// Reviews publish immediately in the current flow.
		review.Status = "approved"
	}

	query := `
		INSERT INTO reviews (
			venue_id, user_id, author_name, title, content,
			drink_quality, staff_competence, atmosphere, value,
			drink_mentions, photo_urls, video_urls, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		review.VenueID, review.UserID, review.AuthorName, review.Title, review.Content,
		review.DrinkQuality, review.StaffCompetence, review.Atmosphere, review.Value,
		review.DrinkMentions, review.PhotoURLs, review.VideoURLs, review.Status,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return err
	}
	review.Recompute()
	return nil
}

func (s *ReviewsStore) Update(ctx context.Context, review *Review) error {
	query := `
		UPDATE reviews
		SET title = $2, content = $3,
		    drink_quality = $4, staff_competence = $5, atmosphere = $6, value = $7,
		    drink_mentions = $8, photo_urls = $9, video_urls = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		review.ID, review.Title, review.Content,
		review.DrinkQuality, review.StaffCompetence, review.Atmosphere, review.Value,
		review.DrinkMentions, review.PhotoURLs, review.VideoURLs,
	).Scan(&review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	review.Recompute()
	return nil
}

func (s *ReviewsStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ReviewsStore) DeleteByVenue(ctx context.Context, venueID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.Exec(ctx, `DELETE FROM reviews WHERE venue_id = $1`, venueID)
	return err
}

// RekeyVenue repoints reviews from an old (local) venue id to the id the
// venue received on sync. Returns the number of reviews moved.
func (s *ReviewsStore) RekeyVenue(ctx context.Context, oldVenueID, newVenueID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `UPDATE reviews SET venue_id = $2 WHERE venue_id = $1`, oldVenueID, newVenueID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
