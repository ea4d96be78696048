package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommunityPost is a feed entry from a user.
type CommunityPost struct {
	ID         string    `json:"id"`
	AuthorID   *string   `json:"author_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommunityEvent is a user- or admin-announced event. Listings order by
// EventDate ascending (soonest first), unlike the other feeds.
type CommunityEvent struct {
	ID          string    `json:"id"`
	AuthorID    *string   `json:"author_id,omitempty"`
	AuthorName  string    `json:"author_name"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	VenueName   *string   `json:"venue_name,omitempty"`
	EventDate   time.Time `json:"event_date"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommunityPostsStore struct {
	db *pgxpool.Pool
}

func (s *CommunityPostsStore) List(ctx context.Context, approvedOnly bool) ([]CommunityPost, error) {
	query := `
		SELECT id, author_id, author_name, content, photo_url, approved, created_at
		FROM community_posts
	`
	if approvedOnly {
		query += ` WHERE approved`
	}
	query += ` ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []CommunityPost
	for rows.Next() {
		var p CommunityPost
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Content, &p.PhotoURL, &p.Approved, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *CommunityPostsStore) Create(ctx context.Context, post *CommunityPost) error {
	query := `
		INSERT INTO community_posts (author_id, author_name, content, photo_url, approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		post.AuthorID, post.AuthorName, post.Content, post.PhotoURL, post.Approved,
	).Scan(&post.ID, &post.CreatedAt)
}

func (s *CommunityPostsStore) SetApproved(ctx context.Context, id string, approved bool) error {
	return setApproved(ctx, s.db, "community_posts", id, approved)
}

func (s *CommunityPostsStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "community_posts", id)
}

type CommunityEventsStore struct {
	db *pgxpool.Pool
}

func (s *CommunityEventsStore) List(ctx context.Context, approvedOnly bool) ([]CommunityEvent, error) {
	query := `
		SELECT id, author_id, author_name, title, description, venue_name, event_date, approved, created_at
		FROM community_events
	`
	if approvedOnly {
		query += ` WHERE approved`
	}
	query += ` ORDER BY event_date ASC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []CommunityEvent
	for rows.Next() {
		var e CommunityEvent
		if err := rows.Scan(&e.ID, &e.AuthorID, &e.AuthorName, &e.Title, &e.Description,
			&e.VenueName, &e.EventDate, &e.Approved, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *CommunityEventsStore) Create(ctx context.Context, event *CommunityEvent) error {
	query := `
		INSERT INTO community_events (author_id, author_name, title, description, venue_name, event_date, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		event.AuthorID, event.AuthorName, event.Title, event.Description,
		event.VenueName, event.EventDate, event.Approved,
	).Scan(&event.ID, &event.CreatedAt)
}

func (s *CommunityEventsStore) SetApproved(ctx context.Context, id string, approved bool) error {
	return setApproved(ctx, s.db, "community_events", id, approved)
}

func (s *CommunityEventsStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "community_events", id)
}

func setApproved(ctx context.Context, db *pgxpool.Pool, table, id string, approved bool) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := db.Exec(ctx, `UPDATE `+table+` SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, db *pgxpool.Pool, table, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
