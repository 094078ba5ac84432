package meeting

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists meetings and participation records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertMeeting writes a new meeting.
func (r *Repository) InsertMeeting(ctx context.Context, m Meeting) (Meeting, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO meetings (id, title, meeting_date, minutes, certificate_eligible)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, m.ID, m.Title, m.Date, m.Minutes, m.CertificateEligible)
	if err := row.Scan(&m.CreatedAt); err != nil {
		return Meeting{}, err
	}
	return m, nil
}

// GetMeeting returns a meeting by id, or nil when none matches.
func (r *Repository) GetMeeting(ctx context.Context, id string) (*Meeting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, meeting_date, minutes, certificate_eligible, created_at
		FROM meetings WHERE id = $1
	`, id)
	var m Meeting
	if err := row.Scan(&m.ID, &m.Title, &m.Date, &m.Minutes, &m.CertificateEligible, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListMeetings returns all meetings, newest first.
func (r *Repository) ListMeetings(ctx context.Context) ([]Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, meeting_date, minutes, certificate_eligible, created_at
		FROM meetings
		ORDER BY meeting_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.Title, &m.Date, &m.Minutes, &m.CertificateEligible, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

// UpdateMeeting changes title and minutes.
func (r *Repository) UpdateMeeting(ctx context.Context, id, title, minutes string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE meetings SET title = $2, minutes = $3 WHERE id = $1
	`, id, title, minutes)
	return err
}

// MarkCertificateEligible flips the flag on. There is deliberately no way
// to flip it back off.
func (r *Repository) MarkCertificateEligible(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE meetings SET certificate_eligible = TRUE WHERE id = $1
	`, id)
	return err
}

// GetParticipation returns the record for a contributor at a meeting, or nil.
func (r *Repository) GetParticipation(ctx context.Context, contributorID, meetingID string) (*ParticipationRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, contributor_id, meeting_id, status, points, note, created_at
		FROM participation_records
		WHERE contributor_id = $1 AND meeting_id = $2
	`, contributorID, meetingID)
	var p ParticipationRecord
	if err := row.Scan(&p.ID, &p.ContributorID, &p.MeetingID, &p.Status, &p.Points, &p.Note, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertParticipation writes or replaces the record for (contributor,
// meeting) and adjusts the contributor's points by the delta against any
// previous record, in one transaction.
func (r *Repository) UpsertParticipation(ctx context.Context, rec ParticipationRecord) (ParticipationRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return ParticipationRecord{}, err
	}
	defer tx.Rollback()

	var prevPoints int
	err = tx.QueryRowContext(ctx, `
		SELECT points FROM participation_records
		WHERE contributor_id = $1 AND meeting_id = $2
	`, rec.ContributorID, rec.MeetingID).Scan(&prevPoints)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return ParticipationRecord{}, err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO participation_records (id, contributor_id, meeting_id, status, points, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (contributor_id, meeting_id) DO UPDATE SET
			status = EXCLUDED.status,
			points = EXCLUDED.points,
			note = EXCLUDED.note
		RETURNING id, created_at
	`, rec.ID, rec.ContributorID, rec.MeetingID, rec.Status, rec.Points, rec.Note, rec.CreatedAt).
		Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return ParticipationRecord{}, err
	}

	if delta := rec.Points - prevPoints; delta != 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE contributors SET points = points + $2 WHERE id = $1
		`, rec.ContributorID, delta); err != nil {
			return ParticipationRecord{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return ParticipationRecord{}, err
	}
	return rec, nil
}

// ListParticipationByMeeting returns the roster for one meeting.
func (r *Repository) ListParticipationByMeeting(ctx context.Context, meetingID string) ([]ParticipationRecord, error) {
	return r.listParticipation(ctx, `WHERE meeting_id = $1`, meetingID)
}

// ListParticipationByContributor returns one contributor's attendance history.
func (r *Repository) ListParticipationByContributor(ctx context.Context, contributorID string) ([]ParticipationRecord, error) {
	return r.listParticipation(ctx, `WHERE contributor_id = $1`, contributorID)
}

func (r *Repository) listParticipation(ctx context.Context, where string, arg any) ([]ParticipationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, contributor_id, meeting_id, status, points, note, created_at
		FROM participation_records `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []ParticipationRecord
	for rows.Next() {
		var p ParticipationRecord
		if err := rows.Scan(&p.ID, &p.ContributorID, &p.MeetingID, &p.Status, &p.Points, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// CountCertificates reports issued certificates for a contributor at a
// meeting. Used to freeze participation records once certificates exist.
func (r *Repository) CountCertificates(ctx context.Context, contributorID, meetingID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM certificates
		WHERE contributor_id = $1 AND meeting_id = $2
	`, contributorID, meetingID).Scan(&n)
	return n, err
}
