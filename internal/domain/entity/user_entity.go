package entity

import (
	"time"
)

// User is the aggregate root for the registration domain.
// Password holds plaintext only between request binding and hashing;
// once persisted it is always a bcrypt hash.
//
// Dates are calendar dates (UTC midnight). LastLogin, Modified and IsActive
// are optional and resolved when shaping the public response.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Phones    []Phone
	Created   time.Time
	Modified  *time.Time
	LastLogin *time.Time
	Token     string
	IsActive  *bool
}

// Phone is owned by a User. UserID links it back for persistence only.
type Phone struct {
	Number      string
	CityCode    string
	CountryCode string
	UserID      string
}
