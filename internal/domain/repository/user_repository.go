package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRecord is the stored representation of a user.
type UserRecord struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"password_hash"`
	Created      time.Time     `json:"created"`
	Modified     *time.Time    `json:"modified,omitempty"`
	LastLogin    *time.Time    `json:"last_login,omitempty"`
	Token        string        `json:"token"`
	IsActive     *bool         `json:"is_active,omitempty"`
	Phones       []PhoneRecord `json:"phones"`
}

// PhoneRecord is a stored phone row, linked to its owner by UserID.
type PhoneRecord struct {
	Number      string `json:"number"`
	CityCode    string `json:"city_code"`
	CountryCode string `json:"country_code"`
	UserID      string `json:"user_id"`
}

// UserRepository defines the storage operations the lifecycle service relies on.
type UserRepository interface {
	FindAll(ctx context.Context) ([]UserRecord, error)
	// FindByEmail returns ErrNotFound when no record has this exact email.
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	// Save inserts the record or replaces the one with the same ID, phones included.
	Save(ctx context.Context, rec UserRecord) (*UserRecord, error)
}
