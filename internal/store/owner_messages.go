package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerMessage is a note from a venue owner shown on the venue page.
type OwnerMessage struct {
	ID         string    `json:"id"`
	VenueID    *string   `json:"venue_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	Approved   bool      `json:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type OwnerMessagesStore struct {
	db *pgxpool.Pool
}

func (s *OwnerMessagesStore) List(ctx context.Context, approvedOnly bool) ([]OwnerMessage, error) {
	query := `SELECT id, venue_id, author_name, message, approved, created_at FROM owner_messages`
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

	var messages []OwnerMessage
	for rows.Next() {
		var m OwnerMessage
		if err := rows.Scan(&m.ID, &m.VenueID, &m.AuthorName, &m.Message, &m.Approved, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *OwnerMessagesStore) Create(ctx context.Context, msg *OwnerMessage) error {
	query := `
		INSERT INTO owner_messages (venue_id, author_name, message, approved)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		msg.VenueID, msg.AuthorName, msg.Message, msg.Approved,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (s *OwnerMessagesStore) SetApproved(ctx context.Context, id string, approved bool) error {
	return setApproved(ctx, s.db, "owner_messages", id, approved)
}

func (s *OwnerMessagesStore) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, s.db, "owner_messages", id)
}
