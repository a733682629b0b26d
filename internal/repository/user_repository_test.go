package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bukhari-academy/academy-api/internal/models"
)

func newUserMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "first_name", "last_name", "created_at"}).
		AddRow("u-1", "admin@bukhari-academy.uz", "hash", "admin", "Super", "Admin", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("admin@bukhari-academy.uz").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "admin@bukhari-academy.uz")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryEmailExists(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1")).
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1")).
		WithArgs("free@example.com").
		WillReturnError(sql.ErrNoRows)

	taken, err := repo.EmailExists(context.Background(), "taken@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := repo.EmailExists(context.Background(), "free@example.com")
	require.NoError(t, err)
	assert.False(t, free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListLogins(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	group := "Group A"
	rows := sqlmock.NewRows([]string{"id", "email", "role", "first_name", "last_name", "group_name", "created_at"}).
		AddRow("u-2", "teacher@example.com", "teacher", "T", "One", nil, time.Now()).
		AddRow("u-3", "student@example.com", "student", "S", "One", &group, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.role <> 'admin'")).
		WillReturnRows(rows)

	entries, err := repo.ListLogins(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Nil(t, entries[0].GroupName)
	require.NotNil(t, entries[1].GroupName)
	assert.Equal(t, "Group A", *entries[1].GroupName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePasswordMissing(t *testing.T) {
	db, mock, cleanup := newUserMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs("missing", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), "missing", "newhash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
