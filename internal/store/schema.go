package store

import "database/sql"

// migrate creates the schema when missing. The unique indexes here carry the
// idempotency guarantees: one participation row per contributor per meeting,
// one submission per quiz session, one certificate per entitlement, and one
// redemption per contributor per code.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS admins (
		id            UUID PRIMARY KEY,
		email         TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'admin',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS refresh_tokens (
		token      TEXT PRIMARY KEY,
		admin_id   UUID NOT NULL REFERENCES admins(id),
		expires_at TIMESTAMPTZ NOT NULL,
		revoked    BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS contributors (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT UNIQUE NOT NULL,
		student_id TEXT UNIQUE NOT NULL,
		cohort     TEXT NOT NULL DEFAULT '',
		points     INTEGER NOT NULL DEFAULT 0,
		active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS meetings (
		id                   UUID PRIMARY KEY,
		title                TEXT NOT NULL,
		meeting_date         DATE NOT NULL,
		minutes              TEXT NOT NULL DEFAULT '',
		certificate_eligible BOOLEAN NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS participation_records (
		id             UUID PRIMARY KEY,
		contributor_id UUID NOT NULL REFERENCES contributors(id),
		meeting_id     UUID NOT NULL REFERENCES meetings(id),
		status         TEXT NOT NULL,
		points         INTEGER NOT NULL DEFAULT 0,
		note           TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (contributor_id, meeting_id)
	);

	CREATE TABLE IF NOT EXISTS redeem_codes (
		id         UUID PRIMARY KEY,
		code       TEXT UNIQUE NOT NULL,
		points     INTEGER NOT NULL,
		max_uses   INTEGER NOT NULL DEFAULT 0,
		used_count INTEGER NOT NULL DEFAULT 0,
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS redemptions (
		id             UUID PRIMARY KEY,
		code_id        UUID NOT NULL REFERENCES redeem_codes(id),
		contributor_id UUID NOT NULL REFERENCES contributors(id),
		points         INTEGER NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (code_id, contributor_id)
	);

	CREATE TABLE IF NOT EXISTS quizzes (
		id          UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS quiz_questions (
		id             UUID PRIMARY KEY,
		quiz_id        UUID NOT NULL REFERENCES quizzes(id),
		position       INTEGER NOT NULL,
		prompt         TEXT NOT NULL,
		option_a       TEXT NOT NULL,
		option_b       TEXT NOT NULL,
		option_c       TEXT NOT NULL,
		option_d       TEXT NOT NULL,
		correct_option TEXT NOT NULL,
		UNIQUE (quiz_id, position)
	);

	CREATE TABLE IF NOT EXISTS quiz_sessions (
		id         UUID PRIMARY KEY,
		quiz_id    UUID UNIQUE NOT NULL REFERENCES quizzes(id),
		token      TEXT UNIQUE NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS quiz_submissions (
		id               UUID PRIMARY KEY,
		session_token    TEXT UNIQUE NOT NULL,
		quiz_id          UUID NOT NULL REFERENCES quizzes(id),
		contributor_id   UUID NOT NULL REFERENCES contributors(id),
		participant_name TEXT NOT NULL,
		answers          TEXT NOT NULL,
		score            INTEGER NOT NULL,
		submitted_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS certificates (
		id             UUID PRIMARY KEY,
		serial         TEXT UNIQUE NOT NULL,
		contributor_id UUID NOT NULL REFERENCES contributors(id),
		kind           TEXT NOT NULL,
		meeting_id     UUID REFERENCES meetings(id),
		pdf_url        TEXT NOT NULL DEFAULT '',
		issued_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_certificates_meeting
		ON certificates (contributor_id, meeting_id) WHERE kind = 'meeting';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_certificates_quiz
		ON certificates (contributor_id) WHERE kind = 'quiz';

	CREATE TABLE IF NOT EXISTS blog_posts (
		id            UUID PRIMARY KEY,
		title         TEXT NOT NULL,
		slug          TEXT UNIQUE NOT NULL,
		body          TEXT NOT NULL DEFAULT '',
		cover_url     TEXT NOT NULL DEFAULT '',
		author_id     UUID NOT NULL REFERENCES admins(id),
		status        TEXT NOT NULL DEFAULT 'draft',
		reviewer_note TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		published_at  TIMESTAMPTZ
	);
	`
	_, err := db.Exec(schema)
	return err
}
