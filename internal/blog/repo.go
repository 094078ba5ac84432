package blog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists blog posts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const postColumns = `id, title, slug, body, cover_url, author_id, status, reviewer_note, created_at, updated_at, published_at`

// Insert writes a new draft.
func (r *Repository) Insert(ctx context.Context, p Post) (Post, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO blog_posts (id, title, slug, body, cover_url, author_id, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Slug, p.Body, p.CoverURL, p.AuthorID, p.Status)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Get returns a post by id, or nil when none matches.
func (r *Repository) Get(ctx context.Context, id string) (*Post, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetBySlug returns a post by slug, or nil when none matches.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.getOne(ctx, `WHERE slug = $1`, slug)
}

func (r *Repository) getOne(ctx context.Context, where string, arg any) (*Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts `+where, arg)
	var p Post
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.CoverURL, &p.AuthorID, &p.Status, &p.ReviewerNote, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// List returns posts, optionally filtered by status, newest first.
func (r *Repository) List(ctx context.Context, status string) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.CoverURL, &p.AuthorID, &p.Status, &p.ReviewerNote, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// UpdateContent changes title, body and cover of a post.
func (r *Repository) UpdateContent(ctx context.Context, id, title, slug, body, coverURL string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET title = $2, slug = $3, body = $4, cover_url = $5, updated_at = NOW()
		WHERE id = $1
	`, id, title, slug, body, coverURL)
	return err
}

// SetStatus moves a post to a new status, recording the reviewer note and
// stamping published_at on publish.
func (r *Repository) SetStatus(ctx context.Context, id, status, reviewerNote string) error {
	var publishedAt any
	if status == StatusPublished {
		publishedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE blog_posts
		SET status = $2, reviewer_note = $3, updated_at = NOW(),
		    published_at = COALESCE($4, published_at)
		WHERE id = $1
	`, id, status, reviewerNote, publishedAt)
	return err
}
