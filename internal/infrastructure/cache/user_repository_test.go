package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
	"github.com/oksasatya/go-user-registration/internal/infrastructure/memory"
)

type countingRepo struct {
	repository.UserRepository
	findAll int
}

func (c *countingRepo) FindAll(ctx context.Context) ([]repository.UserRecord, error) {
	c.findAll++
	return c.UserRepository.FindAll(ctx)
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingRepo, *UserRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &countingRepo{UserRepository: memory.NewUserRepository()}
	return mr, inner, NewUserRepository(inner, rdb, time.Minute, nil)
}

func record(id, email string) repository.UserRecord {
	return repository.UserRecord{
		ID: id, Name: "Ana", Email: email, PasswordHash: "h",
		Created: time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
		Phones:  []repository.PhoneRecord{{Number: "5551234", CityCode: "1", CountryCode: "57"}},
	}
}

func TestFindAll_ServesFromCache(t *testing.T) {
	mr, inner, r := setup(t)
	ctx := context.Background()

	_, err := inner.Save(ctx, record("a", "ana@x.com"))
	require.NoError(t, err)

	first, err := r.FindAll(ctx)
	require.NoError(t, err)
	second, err := r.FindAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.findAll)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(listingKey(0)))
	assert.Equal(t, time.Minute, mr.TTL(listingKey(0)))
}

func TestSave_InvalidatesListing(t *testing.T) {
	mr, inner, r := setup(t)
	ctx := context.Background()

	_, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(listingKey(0)))

	_, err = r.Save(ctx, record("a", "ana@x.com"))
	require.NoError(t, err)
	gen, err := mr.Get(usersGenKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.False(t, mr.Exists(listingKey(1)))

	users, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a", users[0].Phones[0].UserID)
	assert.Equal(t, 2, inner.findAll)
}

func TestSave_FailureKeepsCache(t *testing.T) {
	mr, _, r := setup(t)
	ctx := context.Background()

	_, err := r.Save(ctx, record("a", "ana@x.com"))
	require.NoError(t, err)
	_, err = r.FindAll(ctx)
	require.NoError(t, err)

	_, err = r.Save(ctx, record("b", "ana@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.True(t, mr.Exists(listingKey(1)))
	gen, err := mr.Get(usersGenKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}

func TestFindAll_RedisDownFallsBack(t *testing.T) {
	mr, inner, r := setup(t)
	ctx := context.Background()
	_, err := inner.Save(ctx, record("a", "ana@x.com"))
	require.NoError(t, err)

	mr.Close()

	users, err := r.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestFindByEmail_PassesThrough(t *testing.T) {
	_, inner, r := setup(t)
	ctx := context.Background()
	_, err := inner.Save(ctx, record("a", "ana@x.com"))
	require.NoError(t, err)

	u, err := r.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a", u.ID)

	_, err = r.FindByEmail(ctx, "other@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// interleavingRepo runs afterFindAll once the wrapped listing has been read,
// before the caller gets to cache it.
type interleavingRepo struct {
	repository.UserRepository
	afterFindAll func()
}

func (i *interleavingRepo) FindAll(ctx context.Context) ([]repository.UserRecord, error) {
	users, err := i.UserRepository.FindAll(ctx)
	if hook := i.afterFindAll; hook != nil {
		i.afterFindAll = nil
		hook()
	}
	return users, err
}

func TestFindAll_SaveDuringLoadIsNotHidden(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &interleavingRepo{UserRepository: memory.NewUserRepository()}
	r := NewUserRepository(inner, rdb, time.Minute, nil)
	ctx := context.Background()

	inner.afterFindAll = func() {
		_, err := r.Save(ctx, record("a", "ana@x.com"))
		require.NoError(t, err)
	}

	stale, err := r.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, stale)

	users, err := r.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a", users[0].ID)
}
