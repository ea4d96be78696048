package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PushToken is an expo device token, used to alert admins about new
// pending submissions.
type PushToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type PushTokensStore struct {
	db *pgxpool.Pool
}

func (s *PushTokensStore) Register(ctx context.Context, pt *PushToken) error {
	query := `
		INSERT INTO push_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (user_id, token) DO UPDATE SET created_at = now()
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query, pt.UserID, pt.Token).Scan(&pt.ID, &pt.CreatedAt)
}

// ListForRole returns the device tokens of every user holding the role.
func (s *PushTokensStore) ListForRole(ctx context.Context, role string) ([]string, error) {
	query := `
		SELECT pt.token
		FROM push_tokens pt
		JOIN users u ON u.id = pt.user_id
		WHERE u.role = $1
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
