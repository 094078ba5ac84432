package admin

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Repository persists staff accounts and refresh tokens.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(ctx context.Context, email, passwordHash, role string) (*Account, error) {
	a := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		a.ID, a.Email, a.PasswordHash, a.Role,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM admins WHERE email = $1`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) SaveRefreshToken(ctx context.Context, adminID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, admin_id, expires_at)
		VALUES ($1, $2, $3)`,
		token, adminID, expiresAt)
	return err
}

// GetRefreshToken returns the owning admin id for a live token, or "" when
// the token is unknown, revoked, or past its expiry.
func (r *Repository) GetRefreshToken(ctx context.Context, token string) (string, error) {
	var adminID string
	err := r.db.QueryRowContext(ctx, `
		SELECT admin_id FROM refresh_tokens
		WHERE token = $1 AND NOT revoked AND expires_at > NOW()`, token,
	).Scan(&adminID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return adminID, nil
}

func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	return err
}
