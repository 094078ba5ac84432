package certificate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists certificates in Postgres and answers the read
// queries eligibility needs.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// EligibleMeeting is a meeting a contributor attended that carries the
// certificate flag.
type EligibleMeeting struct {
	MeetingID string
	Title     string
	Date      time.Time
}

// ListEligibleMeetings returns meetings where the contributor has a
// "present" record and the meeting is certificate-eligible.
func (r *Repository) ListEligibleMeetings(ctx context.Context, contributorID string) ([]EligibleMeeting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.title, m.meeting_date
		FROM participation_records p
		JOIN meetings m ON m.id = p.meeting_id
		WHERE p.contributor_id = $1 AND p.status = 'present' AND m.certificate_eligible
		ORDER BY m.meeting_date
	`, contributorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []EligibleMeeting
	for rows.Next() {
		var em EligibleMeeting
		if err := rows.Scan(&em.MeetingID, &em.Title, &em.Date); err != nil {
			return nil, err
		}
		res = append(res, em)
	}
	return res, rows.Err()
}

// HasPresentEligible reports whether the contributor was present at the
// given certificate-eligible meeting.
func (r *Repository) HasPresentEligible(ctx context.Context, contributorID, meetingID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM participation_records p
		JOIN meetings m ON m.id = p.meeting_id
		WHERE p.contributor_id = $1 AND p.meeting_id = $2
		  AND p.status = 'present' AND m.certificate_eligible
	`, contributorID, meetingID).Scan(&n)
	return n > 0, err
}

// CountSubmissions counts the contributor's quiz submissions.
func (r *Repository) CountSubmissions(ctx context.Context, contributorID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM quiz_submissions WHERE contributor_id = $1
	`, contributorID).Scan(&n)
	return n, err
}

// GetForMeeting returns the certificate for (contributor, meeting), or nil.
func (r *Repository) GetForMeeting(ctx context.Context, contributorID, meetingID string) (*Certificate, error) {
	return r.getOne(ctx, `
		WHERE contributor_id = $1 AND kind = 'meeting' AND meeting_id = $2
	`, contributorID, meetingID)
}

// GetForQuiz returns the contributor's quiz-milestone certificate, or nil.
func (r *Repository) GetForQuiz(ctx context.Context, contributorID string) (*Certificate, error) {
	return r.getOne(ctx, `WHERE contributor_id = $1 AND kind = 'quiz'`, contributorID)
}

// GetBySerial returns the certificate carrying serial, or nil.
func (r *Repository) GetBySerial(ctx context.Context, serial string) (*Certificate, error) {
	return r.getOne(ctx, `WHERE serial = $1`, serial)
}

// GetByID returns a certificate by row id, or nil.
func (r *Repository) GetByID(ctx context.Context, id string) (*Certificate, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *Repository) getOne(ctx context.Context, where string, args ...any) (*Certificate, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, serial, contributor_id, kind, meeting_id, pdf_url, issued_at
		FROM certificates `+where, args...)
	var c Certificate
	if err := row.Scan(&c.ID, &c.Serial, &c.ContributorID, &c.Kind, &c.MeetingID, &c.PDFURL, &c.IssuedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Insert writes a certificate. Returns (nil, nil) when the entitlement is
// already claimed: the partial unique indexes arbitrate concurrent claims.
func (r *Repository) Insert(ctx context.Context, c Certificate) (*Certificate, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.IssuedAt.IsZero() {
		c.IssuedAt = time.Now().UTC()
	}
	var query string
	if c.Kind == KindMeeting {
		query = `
			INSERT INTO certificates (id, serial, contributor_id, kind, meeting_id, issued_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (contributor_id, meeting_id) WHERE kind = 'meeting' DO NOTHING
		`
	} else {
		query = `
			INSERT INTO certificates (id, serial, contributor_id, kind, meeting_id, issued_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (contributor_id) WHERE kind = 'quiz' DO NOTHING
		`
	}
	res, err := r.db.ExecContext(ctx, query, c.ID, c.Serial, c.ContributorID, c.Kind, c.MeetingID, c.IssuedAt)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return &c, nil
}

// SetPDFURL stores the rendered document location. Rendering is a
// follow-up step; the certificate row never waits for it.
func (r *Repository) SetPDFURL(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE certificates SET pdf_url = $2 WHERE id = $1`, id, url)
	return err
}

// ListByContributor returns all certificates issued to a contributor.
func (r *Repository) ListByContributor(ctx context.Context, contributorID string) ([]Certificate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, serial, contributor_id, kind, meeting_id, pdf_url, issued_at
		FROM certificates WHERE contributor_id = $1 ORDER BY issued_at
	`, contributorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Certificate
	for rows.Next() {
		var c Certificate
		if err := rows.Scan(&c.ID, &c.Serial, &c.ContributorID, &c.Kind, &c.MeetingID, &c.PDFURL, &c.IssuedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
