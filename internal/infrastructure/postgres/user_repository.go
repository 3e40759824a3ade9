package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

const uniqueViolation = "23505"

const (
	selectUsersSQL = `
		SELECT id::text, name, email, password, created, modified, last_login, token, is_active
		FROM users`

	selectUserByEmailSQL = selectUsersSQL + `
		WHERE email = $1`

	selectPhonesSQL = `
		SELECT user_id::text, number, city_code, country_code
		FROM phones
		ORDER BY id`

	selectPhonesByUserSQL = `
		SELECT user_id::text, number, city_code, country_code
		FROM phones
		WHERE user_id = $1
		ORDER BY id`

	upsertUserSQL = `
		INSERT INTO users (id, name, email, password, created, modified, last_login, token, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    password = EXCLUDED.password,
		    modified = EXCLUDED.modified,
		    last_login = EXCLUDED.last_login,
		    is_active = EXCLUDED.is_active`

	deletePhonesSQL = `DELETE FROM phones WHERE user_id = $1`

	insertPhoneSQL = `
		INSERT INTO phones (number, city_code, country_code, user_id)
		VALUES ($1, $2, $3, $4)`
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]repository.UserRecord, error) {
	rows, err := r.db.Query(ctx, selectUsersSQL)
	if err != nil {
		return nil, err
	}
	var users []repository.UserRecord
	for rows.Next() {
		var u repository.UserRecord
		if err := scanUser(rows, &u); err != nil {
			rows.Close()
			return nil, err
		}
		users = append(users, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	phones, err := r.queryPhones(ctx, selectPhonesSQL)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string][]repository.PhoneRecord, len(users))
	for _, p := range phones {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	out := make([]repository.UserRecord, 0, len(users))
	for _, u := range users {
		u.Phones = byUser[u.ID]
		if u.Phones == nil {
			u.Phones = []repository.PhoneRecord{}
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*repository.UserRecord, error) {
	u := &repository.UserRecord{}
	if err := scanUser(r.db.QueryRow(ctx, selectUserByEmailSQL, email), u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	id, err := pgUUID(u.ID)
	if err != nil {
		return nil, err
	}
	phones, err := r.queryPhones(ctx, selectPhonesByUserSQL, id)
	if err != nil {
		return nil, err
	}
	u.Phones = phones
	return u, nil
}

// Save upserts the user row and replaces its phones in one transaction.
// The created date and token of an existing row are never overwritten.
func (r *UserRepository) Save(ctx context.Context, rec repository.UserRecord) (*repository.UserRecord, error) {
	id, err := pgUUID(rec.ID)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, upsertUserSQL,
		id, rec.Name, rec.Email, rec.PasswordHash, rec.Created,
		rec.Modified, rec.LastLogin, rec.Token, rec.IsActive,
	); err != nil {
		_ = tx.Rollback(ctx)
		return nil, mapWriteErr(err)
	}
	if _, err := tx.Exec(ctx, deletePhonesSQL, id); err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	for _, p := range rec.Phones {
		if _, err := tx.Exec(ctx, insertPhoneSQL, p.Number, p.CityCode, p.CountryCode, id); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapWriteErr(err)
	}

	out := rec
	out.Phones = make([]repository.PhoneRecord, 0, len(rec.Phones))
	for _, p := range rec.Phones {
		p.UserID = rec.ID
		out.Phones = append(out.Phones, p)
	}
	return &out, nil
}

func (r *UserRepository) queryPhones(ctx context.Context, sql string, args ...any) ([]repository.PhoneRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phones := []repository.PhoneRecord{}
	for rows.Next() {
		var p repository.PhoneRecord
		if err := rows.Scan(&p.UserID, &p.Number, &p.CityCode, &p.CountryCode); err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

func scanUser(row pgx.Row, u *repository.UserRecord) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Created,
		&u.Modified, &u.LastLogin, &u.Token, &u.IsActive)
}

func pgUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid user id %q: %w", id, err)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
