package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

const (
	usersGenKey       = "users:gen"
	usersAllKeyPrefix = "users:all:"
)

// listingKey scopes a cached listing to the generation it was loaded under.
// A listing written after a concurrent Save lands under a generation nobody
// reads anymore and expires with its TTL.
func listingKey(gen int64) string {
	return usersAllKeyPrefix + strconv.FormatInt(gen, 10)
}

// UserRepository caches the full listing in Redis in front of another
// repository. Lookups by email always go to the wrapped store, and any
// successful Save bumps the listing generation. Redis failures fall back to
// the wrapped store.
type UserRepository struct {
	next   repository.UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewUserRepository(next repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *UserRepository {
	return &UserRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]repository.UserRecord, error) {
	gen, err := r.rdb.Get(ctx, usersGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.warn(err, "read users generation")
		return r.next.FindAll(ctx)
	}
	key := listingKey(gen)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var users []repository.UserRecord
		if err := json.Unmarshal(raw, &users); err == nil {
			return users, nil
		}
		r.warn(err, "decode cached users")
	case !errors.Is(err, redis.Nil):
		r.warn(err, "read cached users")
	}

	users, err := r.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(users); err == nil {
		if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
			r.warn(err, "cache users")
		}
	}
	return users, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*repository.UserRecord, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *UserRepository) Save(ctx context.Context, rec repository.UserRecord) (*repository.UserRecord, error) {
	saved, err := r.next.Save(ctx, rec)
	if err != nil {
		return nil, err
	}
	if err := r.rdb.Incr(ctx, usersGenKey).Err(); err != nil {
		r.warn(err, "invalidate cached users")
	}
	return saved, nil
}

func (r *UserRepository) warn(err error, msg string) {
	if r.logger != nil {
		r.logger.WithError(err).Warn(msg)
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
