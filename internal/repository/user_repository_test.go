package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

type fakeQuerier struct {
	row      fakeRow
	lastSQL  string
	lastArgs []any
	pingErr  error
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	q.lastArgs = args
	return q.row
}

func (q *fakeQuerier) Ping(context.Context) error { return q.pingErr }

func TestUserRepository_Create(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	q := &fakeQuerier{row: fakeRow{values: []any{"9b1c", created}}}
	repo := NewUserRepository(q)

	user := &domain.User{Email: "a@x.com", PasswordHash: "$2a$10$hash"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, "9b1c", user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.True(t, strings.Contains(q.lastSQL, "INSERT INTO users"))
	assert.Equal(t, []any{"a@x.com", "$2a$10$hash"}, q.lastArgs)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}}}

	err := NewUserRepository(q).Create(context.Background(), &domain.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_CreateDBError(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: errors.New("db down")}}

	err := NewUserRepository(q).Create(context.Background(), &domain.User{Email: "a@x.com"})
	require.Error(t, err)
	assert.EqualError(t, err, "insert user: db down")
}

func TestUserRepository_GetByEmail(t *testing.T) {
	created := time.Now().UTC()
	q := &fakeQuerier{row: fakeRow{values: []any{"u-1", "a@x.com", "hash", created}}}

	user, err := NewUserRepository(q).GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, &domain.User{ID: "u-1", Email: "a@x.com", PasswordHash: "hash", CreatedAt: created}, user)
	assert.Equal(t, []any{"a@x.com"}, q.lastArgs)
}

func TestUserRepository_GetByEmailNotFound(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewUserRepository(q).GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_Ping(t *testing.T) {
	q := &fakeQuerier{pingErr: errors.New("refused")}
	assert.EqualError(t, NewUserRepository(q).Ping(context.Background()), "refused")
}
