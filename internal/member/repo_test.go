package member

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	cols := []string{"id", "name", "email", "student_id", "cohort", "points", "active", "created_at"}
	mock.ExpectQuery(`SELECT .+ FROM contributors WHERE email = \$1`).
		WithArgs("ana@example.org").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("c1", "Ana", "ana@example.org", "S1", "2024", 120, true, time.Now()))

	c, err := repo.GetByEmail(context.Background(), "ana@example.org")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 120, c.Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailMissingReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM contributors WHERE email = \$1`).
		WithArgs("nobody@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, err := repo.GetByEmail(context.Background(), "nobody@example.org")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestInsertRedemptionDuplicateRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO redemptions`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	red, err := repo.InsertRedemption(context.Background(), "k1", "c1", 25)
	require.NoError(t, err)
	assert.Nil(t, red)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRedemptionCreditsPoints(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO redemptions`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE redeem_codes SET used_count = used_count \+ 1`).
		WithArgs("k1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE contributors SET points = points \+ \$2`).
		WithArgs("c1", 25).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	red, err := repo.InsertRedemption(context.Background(), "k1", "c1", 25)
	require.NoError(t, err)
	require.NotNil(t, red)
	assert.Equal(t, 25, red.Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}
