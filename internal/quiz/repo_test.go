package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertSessionMints(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	exp := time.Now().Add(time.Hour)
	mock.ExpectQuery(`INSERT INTO quiz_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "expires_at", "created_at"}).
			AddRow("s1", "tok-1", exp, time.Now()))

	s, err := repo.UpsertSession(context.Background(), "q1", "tok-1", exp)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSessionReturnsLiveRowWhenDeclined(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	exp := time.Now().Add(time.Hour)
	// Conditional upsert returns no row because the stored session is live.
	mock.ExpectQuery(`INSERT INTO quiz_sessions`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "token", "expires_at", "created_at"}))
	mock.ExpectQuery(`SELECT .+ FROM quiz_sessions WHERE quiz_id = \$1`).
		WithArgs("q1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "quiz_id", "token", "expires_at", "created_at"}).
			AddRow("s1", "q1", "tok-existing", exp, time.Now()))

	s, err := repo.UpsertSession(context.Background(), "q1", "tok-new", exp)
	require.NoError(t, err)
	assert.Equal(t, "tok-existing", s.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSubmissionSpentToken(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO quiz_submissions`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	sub, err := repo.InsertSubmission(context.Background(), Submission{
		SessionToken:  "tok",
		QuizID:        "q1",
		ContributorID: "c1",
		Answers:       map[string]string{"qq1": "A"},
		Score:         1,
	})
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSubmissionCreditsScore(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO quiz_submissions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE contributors SET points = points \+ \$2`).
		WithArgs("c1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sub, err := repo.InsertSubmission(context.Background(), Submission{
		SessionToken:  "tok",
		QuizID:        "q1",
		ContributorID: "c1",
		Answers:       map[string]string{"qq1": "A", "qq2": "C"},
		Score:         2,
	})
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, 2, sub.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
