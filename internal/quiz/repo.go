package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists quizzes, sessions and submissions in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertQuiz writes a new quiz.
func (r *Repository) InsertQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO quizzes (id, title, description)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, q.ID, q.Title, q.Description)
	if err := row.Scan(&q.CreatedAt); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// GetQuiz returns a quiz with its questions, or nil when none matches.
func (r *Repository) GetQuiz(ctx context.Context, id string) (*Quiz, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at FROM quizzes WHERE id = $1
	`, id)
	var q Quiz
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	questions, err := r.ListQuestions(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	q.Questions = questions
	return &q, nil
}

// ListQuizzes returns all quizzes without questions, newest first.
func (r *Repository) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, created_at FROM quizzes ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Quiz
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, q)
	}
	return res, rows.Err()
}

// InsertQuestion appends a question at the next position.
func (r *Repository) InsertQuestion(ctx context.Context, q Question) (Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO quiz_questions (id, quiz_id, position, prompt, option_a, option_b, option_c, option_d, correct_option)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3, $4, $5, $6, $7, $8
		FROM quiz_questions WHERE quiz_id = $2
		RETURNING position
	`, q.ID, q.QuizID, q.Prompt, q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.CorrectOption)
	if err := row.Scan(&q.Position); err != nil {
		return Question{}, err
	}
	return q, nil
}

// ListQuestions returns a quiz's questions in order.
func (r *Repository) ListQuestions(ctx context.Context, quizID string) ([]Question, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, quiz_id, position, prompt, option_a, option_b, option_c, option_d, correct_option
		FROM quiz_questions WHERE quiz_id = $1 ORDER BY position
	`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Position, &q.Prompt, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectOption); err != nil {
			return nil, err
		}
		res = append(res, q)
	}
	return res, rows.Err()
}

// UpsertSession mints a session for the quiz unless an unexpired one
// exists. The expiry check runs inside the conditional upsert, so two
// concurrent calls cannot both mint. Returns the winning row either way.
func (r *Repository) UpsertSession(ctx context.Context, quizID, token string, expiresAt time.Time) (Session, error) {
	s := Session{ID: uuid.NewString(), QuizID: quizID, Token: token, ExpiresAt: expiresAt}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO quiz_sessions (id, quiz_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (quiz_id) DO UPDATE SET
			token = EXCLUDED.token,
			expires_at = EXCLUDED.expires_at
		WHERE quiz_sessions.expires_at <= NOW()
		RETURNING id, token, expires_at, created_at
	`, s.ID, s.QuizID, s.Token, s.ExpiresAt).
		Scan(&s.ID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Session{}, err
	}
	// Upsert declined: a live session exists, return it.
	existing, err := r.GetSessionByQuiz(ctx, quizID)
	if err != nil {
		return Session{}, err
	}
	if existing == nil {
		return Session{}, errors.New("session vanished during upsert")
	}
	return *existing, nil
}

// GetSessionByQuiz returns the session row for a quiz, or nil.
func (r *Repository) GetSessionByQuiz(ctx context.Context, quizID string) (*Session, error) {
	return r.getSession(ctx, `WHERE quiz_id = $1`, quizID)
}

// GetSessionByToken returns the session carrying token, or nil.
func (r *Repository) GetSessionByToken(ctx context.Context, token string) (*Session, error) {
	return r.getSession(ctx, `WHERE token = $1`, token)
}

func (r *Repository) getSession(ctx context.Context, where string, arg any) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, quiz_id, token, expires_at, created_at
		FROM quiz_sessions `+where, arg)
	var s Session
	if err := row.Scan(&s.ID, &s.QuizID, &s.Token, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// InsertSubmission writes the answer sheet and credits the score to the
// contributor in one transaction. Returns (nil, nil) when the session
// token was already spent; the unique index decides under races.
func (r *Repository) InsertSubmission(ctx context.Context, sub Submission) (*Submission, error) {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return nil, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO quiz_submissions (id, session_token, quiz_id, contributor_id, participant_name, answers, score, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (session_token) DO NOTHING
	`, sub.ID, sub.SessionToken, sub.QuizID, sub.ContributorID, sub.ParticipantName, string(answers), sub.Score, sub.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	if sub.Score > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE contributors SET points = points + $2 WHERE id = $1
		`, sub.ContributorID, sub.Score); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubmissionByToken returns the submission that spent token, or nil.
func (r *Repository) GetSubmissionByToken(ctx context.Context, token string) (*Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, session_token, quiz_id, contributor_id, participant_name, answers, score, submitted_at
		FROM quiz_submissions WHERE session_token = $1
	`, token)
	return scanSubmission(row)
}

func scanSubmission(row *sql.Row) (*Submission, error) {
	var sub Submission
	var answers string
	if err := row.Scan(&sub.ID, &sub.SessionToken, &sub.QuizID, &sub.ContributorID, &sub.ParticipantName, &answers, &sub.Score, &sub.SubmittedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CountSubmissionsByContributor counts scored submissions for a contributor.
func (r *Repository) CountSubmissionsByContributor(ctx context.Context, contributorID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM quiz_submissions WHERE contributor_id = $1
	`, contributorID).Scan(&n)
	return n, err
}

// ListSubmissions returns all submissions for a quiz, newest first.
func (r *Repository) ListSubmissions(ctx context.Context, quizID string) ([]Submission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_token, quiz_id, contributor_id, participant_name, answers, score, submitted_at
		FROM quiz_submissions WHERE quiz_id = $1 ORDER BY submitted_at DESC
	`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Submission
	for rows.Next() {
		var sub Submission
		var answers string
		if err := rows.Scan(&sub.ID, &sub.SessionToken, &sub.QuizID, &sub.ContributorID, &sub.ParticipantName, &answers, &sub.Score, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &sub.Answers); err != nil {
			return nil, err
		}
		res = append(res, sub)
	}
	return res, rows.Err()
}
