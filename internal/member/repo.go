package member

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists contributors and redeem codes in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new contributor.
func (r *Repository) Insert(ctx context.Context, c Contributor) (Contributor, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Active = true
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO contributors (id, name, email, student_id, cohort)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING points, created_at
	`, c.ID, c.Name, c.Email, c.StudentID, c.Cohort)
	if err := row.Scan(&c.Points, &c.CreatedAt); err != nil {
		return Contributor{}, err
	}
	return c, nil
}

// GetByEmail returns a contributor by email, or nil when none matches.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Contributor, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

// GetByID returns a contributor by id, or nil when none matches.
func (r *Repository) GetByID(ctx context.Context, id string) (*Contributor, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *Repository) get(ctx context.Context, where string, arg any) (*Contributor, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, student_id, cohort, points, active, created_at
		FROM contributors `+where, arg)
	var c Contributor
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.StudentID, &c.Cohort, &c.Points, &c.Active, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// List returns all contributors ordered by name.
func (r *Repository) List(ctx context.Context) ([]Contributor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, student_id, cohort, points, active, created_at
		FROM contributors
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Contributor
	for rows.Next() {
		var c Contributor
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.StudentID, &c.Cohort, &c.Points, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// Deactivate marks a contributor inactive. Rows are never deleted.
func (r *Repository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE contributors SET active = FALSE WHERE id = $1`, id)
	return err
}

// AddPoints credits points to a contributor.
func (r *Repository) AddPoints(ctx context.Context, id string, delta int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE contributors SET points = points + $2 WHERE id = $1
	`, id, delta)
	return err
}

// InsertCode writes a new redeem code.
func (r *Repository) InsertCode(ctx context.Context, rc RedeemCode) (RedeemCode, error) {
	if rc.ID == "" {
		rc.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO redeem_codes (id, code, points, max_uses, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING used_count, created_at
	`, rc.ID, rc.Code, rc.Points, rc.MaxUses, rc.ExpiresAt)
	if err := row.Scan(&rc.UsedCount, &rc.CreatedAt); err != nil {
		return RedeemCode{}, err
	}
	return rc, nil
}

// GetCode returns a redeem code by its code value, or nil when none matches.
func (r *Repository) GetCode(ctx context.Context, code string) (*RedeemCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, code, points, max_uses, used_count, expires_at, created_at
		FROM redeem_codes WHERE code = $1
	`, code)
	var rc RedeemCode
	if err := row.Scan(&rc.ID, &rc.Code, &rc.Points, &rc.MaxUses, &rc.UsedCount, &rc.ExpiresAt, &rc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}

// InsertRedemption records a code use and credits the points in one
// transaction. Returns (nil, nil) when the contributor already redeemed the
// code; the unique index decides, so concurrent duplicates collapse to one.
func (r *Repository) InsertRedemption(ctx context.Context, codeID, contributorID string, points int) (*Redemption, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	red := Redemption{
		ID:            uuid.NewString(),
		CodeID:        codeID,
		ContributorID: contributorID,
		Points:        points,
		CreatedAt:     time.Now().UTC(),
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO redemptions (id, code_id, contributor_id, points, created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (code_id, contributor_id) DO NOTHING
	`, red.ID, red.CodeID, red.ContributorID, red.Points, red.CreatedAt)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE redeem_codes SET used_count = used_count + 1 WHERE id = $1
	`, codeID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE contributors SET points = points + $2 WHERE id = $1
	`, contributorID, points); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &red, nil
}
