package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Article is magazine content.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content"`
	Category  string    `json:"category,omitempty"`
	CoverURL  *string   `json:"cover_url,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArticlesStore struct {
	db *pgxpool.Pool
}

func (s *ArticlesStore) List(ctx context.Context) ([]Article, error) {
	query := `
		SELECT id, title, author, excerpt, content, category, cover_url, approved, created_by, created_at, updated_at
		FROM articles ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Author, &a.Excerpt, &a.Content, &a.Category,
			&a.CoverURL, &a.Approved, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *ArticlesStore) Create(ctx context.Context, article *Article) error {
	query := `
		INSERT INTO articles (title, author, excerpt, content, category, cover_url, approved, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.db.QueryRow(ctx, query,
		article.Title, article.Author, article.Excerpt, article.Content,
		article.Category, article.CoverURL, article.Approved, article.CreatedBy,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (s *ArticlesStore) Update(ctx context.Context, article *Article) error {
	query := `
		UPDATE articles
		SET title = $2, author = $3, excerpt = $4, content = $5, category = $6, cover_url = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, query,
		article.ID, article.Title, article.Author, article.Excerpt,
		article.Content, article.Category, article.CoverURL,
	).Scan(&article.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *ArticlesStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
