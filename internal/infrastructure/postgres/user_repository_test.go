package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

const (
	anaID  = "3f2b8c1e-6a4d-4e1f-9b7a-2c5d8e9f0a1b"
	luisID = "8c9d0e1f-2a3b-4c5d-8e6f-7a8b9c0d1e2f"
)

var (
	userCols  = []string{"id", "name", "email", "password", "created", "modified", "last_login", "token", "is_active"}
	phoneCols = []string{"user_id", "number", "city_code", "country_code"}
	oct15     = time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestFindAll_GroupsPhonesByUser(t *testing.T) {
	mock, r := newMock(t)
	active := true
	modified := oct15.AddDate(0, 0, 1)

	mock.ExpectQuery("FROM users").WillReturnRows(
		pgxmock.NewRows(userCols).
			AddRow(anaID, "Ana", "ana@x.com", "h1", oct15, nil, nil, "t1", nil).
			AddRow(luisID, "Luis", "luis@x.com", "h2", oct15, &modified, &oct15, "t2", &active),
	)
	mock.ExpectQuery("FROM phones").WillReturnRows(
		pgxmock.NewRows(phoneCols).
			AddRow(anaID, "5551234", "1", "57").
			AddRow(anaID, "5559999", "2", "57"),
	)

	users, err := r.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "Ana", users[0].Name)
	assert.Nil(t, users[0].Modified)
	assert.Nil(t, users[0].IsActive)
	require.Len(t, users[0].Phones, 2)
	assert.Equal(t, "5551234", users[0].Phones[0].Number)
	assert.Equal(t, anaID, users[0].Phones[1].UserID)

	assert.Equal(t, "Luis", users[1].Name)
	assert.Empty(t, users[1].Phones)
	assert.NotNil(t, users[1].Phones)
	require.NotNil(t, users[1].IsActive)
	assert.True(t, *users[1].IsActive)
	require.NotNil(t, users[1].Modified)
	assert.Equal(t, modified, *users[1].Modified)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail(t *testing.T) {
	mock, r := newMock(t)
	id, err := pgUUID(anaID)
	require.NoError(t, err)

	mock.ExpectQuery("WHERE email = ").WithArgs("ana@x.com").WillReturnRows(
		pgxmock.NewRows(userCols).AddRow(anaID, "Ana", "ana@x.com", "h1", oct15, nil, nil, "t1", nil),
	)
	mock.ExpectQuery("WHERE user_id = ").WithArgs(id).WillReturnRows(
		pgxmock.NewRows(phoneCols).AddRow(anaID, "5551234", "1", "57"),
	)

	u, err := r.FindByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, anaID, u.ID)
	assert.Equal(t, oct15, u.Created)
	require.Len(t, u.Phones, 1)
	assert.Equal(t, "57", u.Phones[0].CountryCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectQuery("WHERE email = ").WithArgs("nobody@x.com").WillReturnError(pgx.ErrNoRows)

	_, err := r.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UpsertsUserAndReplacesPhones(t *testing.T) {
	mock, r := newMock(t)
	id, err := pgUUID(anaID)
	require.NoError(t, err)

	rec := repository.UserRecord{
		ID: anaID, Name: "Ana", Email: "ana@x.com", PasswordHash: "h1",
		Created: oct15, Token: "t1",
		Phones: []repository.PhoneRecord{{Number: "5551234", CityCode: "1", CountryCode: "57"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(id, "Ana", "ana@x.com", "h1", oct15, rec.Modified, rec.LastLogin, "t1", rec.IsActive).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM phones").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO phones").WithArgs("5551234", "1", "57", id).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	saved, err := r.Save(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, saved.Phones, 1)
	assert.Equal(t, anaID, saved.Phones[0].UserID)
	assert.Empty(t, rec.Phones[0].UserID, "input record is not mutated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_UniqueViolationIsDuplicateEmail(t *testing.T) {
	mock, r := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	mock.ExpectRollback()

	_, err := r.Save(context.Background(), repository.UserRecord{ID: anaID, Email: "ana@x.com", Created: oct15})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_PhoneInsertFailureRollsBack(t *testing.T) {
	mock, r := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("DELETE FROM phones").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("INSERT INTO phones").WillReturnError(boom)
	mock.ExpectRollback()

	_, err := r.Save(context.Background(), repository.UserRecord{
		ID: anaID, Email: "ana@x.com", Created: oct15,
		Phones: []repository.PhoneRecord{{Number: "1"}},
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_RejectsMalformedID(t *testing.T) {
	mock, r := newMock(t)

	_, err := r.Save(context.Background(), repository.UserRecord{ID: "not-a-uuid"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
