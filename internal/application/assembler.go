package application

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// DateLayout is the wire format of every date in a UserResponse.
const DateLayout = "2006-01-02"

type PhoneResponse struct {
	Number      string `json:"number"`
	CityCode    string `json:"citycode"`
	CountryCode string `json:"countrycode"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Phones    []PhoneResponse `json:"phones"`
	Created   string          `json:"created"`
	Modified  *string         `json:"modified"`
	LastLogin string          `json:"lastLogin"`
	Token     string          `json:"token"`
	IsActive  bool            `json:"isActive"`
}

// AssembleNew fills the generated fields of a freshly validated user.
// A caller-supplied last-login date is kept, otherwise it starts at created.
func AssembleNew(in entity.User, id, passwordHash, token string, today time.Time) entity.User {
	u := in
	u.ID = id
	u.Password = passwordHash
	u.Created = today
	u.Modified = nil
	if u.LastLogin == nil {
		created := today
		u.LastLogin = &created
	}
	u.Token = token
	u.Phones = linkPhones(in.Phones, id)
	return u
}

// MergeUpdate keeps identity, creation date, token, last-login and active
// flag from current and takes everything else from in.
func MergeUpdate(current, in entity.User, passwordHash string, today time.Time) entity.User {
	modified := today
	return entity.User{
		ID:        current.ID,
		Name:      in.Name,
		Email:     in.Email,
		Password:  passwordHash,
		Phones:    linkPhones(in.Phones, current.ID),
		Created:   current.Created,
		Modified:  &modified,
		LastLogin: current.LastLogin,
		Token:     current.Token,
		IsActive:  current.IsActive,
	}
}

func linkPhones(phones []entity.Phone, userID string) []entity.Phone {
	out := make([]entity.Phone, 0, len(phones))
	for _, p := range phones {
		p.UserID = userID
		out = append(out, p)
	}
	return out
}

// ToRecord maps a domain user onto its stored shape.
func ToRecord(u entity.User) repository.UserRecord {
	phones := make([]repository.PhoneRecord, 0, len(u.Phones))
	for _, p := range u.Phones {
		phones = append(phones, repository.PhoneRecord{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
			UserID:      u.ID,
		})
	}
	return repository.UserRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.Password,
		Created:      u.Created,
		Modified:     u.Modified,
		LastLogin:    u.LastLogin,
		Token:        u.Token,
		IsActive:     u.IsActive,
		Phones:       phones,
	}
}

// FromRecord is the inverse of ToRecord.
func FromRecord(r repository.UserRecord) entity.User {
	phones := make([]entity.Phone, 0, len(r.Phones))
	for _, p := range r.Phones {
		phones = append(phones, entity.Phone{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
			UserID:      p.UserID,
		})
	}
	return entity.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.PasswordHash,
		Phones:    phones,
		Created:   r.Created,
		Modified:  r.Modified,
		LastLogin: r.LastLogin,
		Token:     r.Token,
		IsActive:  r.IsActive,
	}
}

// ToResponse shapes a user for callers: phones flattened, id parsed,
// active flag defaulted to false and last-login defaulted to created.
func ToResponse(u entity.User) (UserResponse, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return UserResponse{}, fmt.Errorf("user %q has a malformed id: %w", u.ID, err)
	}
	phones := make([]PhoneResponse, 0, len(u.Phones))
	for _, p := range u.Phones {
		phones = append(phones, PhoneResponse{Number: p.Number, CityCode: p.CityCode, CountryCode: p.CountryCode})
	}
	lastLogin := u.Created
	if u.LastLogin != nil {
		lastLogin = *u.LastLogin
	}
	var modified *string
	if u.Modified != nil {
		m := u.Modified.Format(DateLayout)
		modified = &m
	}
	return UserResponse{
		ID:        id,
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.Password,
		Phones:    phones,
		Created:   u.Created.Format(DateLayout),
		Modified:  modified,
		LastLogin: lastLogin.Format(DateLayout),
		Token:     u.Token,
		IsActive:  u.IsActive != nil && *u.IsActive,
	}, nil
}
