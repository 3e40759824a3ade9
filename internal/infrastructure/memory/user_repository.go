package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// UserRepository keeps records in insertion order. Email uniqueness is
// enforced on Save, like the unique index of the Postgres schema.
type UserRepository struct {
	mu      sync.RWMutex
	order   []string
	records map[string]repository.UserRecord
	saves   int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{records: make(map[string]repository.UserRecord)}
}

func (r *UserRepository) FindAll(_ context.Context) ([]repository.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repository.UserRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, clone(r.records[id]))
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*repository.UserRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if rec := r.records[id]; rec.Email == email {
			c := clone(rec)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Save(_ context.Context, rec repository.UserRecord) (*repository.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if id != rec.ID && r.records[id].Email == rec.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	if _, ok := r.records[rec.ID]; !ok {
		r.order = append(r.order, rec.ID)
	}
	stored := clone(rec)
	for i := range stored.Phones {
		stored.Phones[i].UserID = rec.ID
	}
	r.records[rec.ID] = stored
	r.saves++
	out := clone(stored)
	return &out, nil
}

// Saves reports how many successful writes the store has taken.
func (r *UserRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

func clone(rec repository.UserRecord) repository.UserRecord {
	c := rec
	c.Phones = append([]repository.PhoneRecord(nil), rec.Phones...)
	c.Modified = cloneTime(rec.Modified)
	c.LastLogin = cloneTime(rec.LastLogin)
	if rec.IsActive != nil {
		v := *rec.IsActive
		c.IsActive = &v
	}
	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

var _ repository.UserRepository = (*UserRepository)(nil)
