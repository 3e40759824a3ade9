package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	repo "github.com/oksasatya/go-user-registration/internal/domain/repository"
)

// PasswordHasher is the one-way credential strategy. Verify is kept for login flows.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type IDGenerator interface {
	NewID() string
}

// TokenIssuer produces the opaque session token handed out at registration.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Indexer receives every created or updated user for search.
type Indexer interface {
	IndexUser(ctx context.Context, u UserResponse) error
}

// Notifier is told about every newly registered user.
type Notifier interface {
	NotifyRegistered(ctx context.Context, u UserResponse) error
}

type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	IDs    IDGenerator
	Tokens TokenIssuer
	Logger *logrus.Logger

	// optional collaborators; nil disables them
	Indexer  Indexer
	Notifier Notifier

	// RedactPassword blanks the password hash in every response.
	RedactPassword bool

	Now func() time.Time
}

func NewService(repo repo.UserRepository, hasher PasswordHasher, ids IDGenerator, tokens TokenIssuer, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   repo,
		Hasher: hasher,
		IDs:    ids,
		Tokens: tokens,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *Service) today() time.Time {
	y, m, d := s.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create validates, hashes and stores a new user and returns its response shape.
// Nothing is written unless every validation passes.
func (s *Service) Create(ctx context.Context, in entity.User) (*UserResponse, error) {
	if err := s.validateEmail(ctx, in.Email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	id := s.IDs.NewID()
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.Tokens.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	u := AssembleNew(in, id, hash, token, s.today())
	saved, err := s.Repo.Save(ctx, ToRecord(u))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, in.Email)
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	resp, err := ToResponse(FromRecord(*saved))
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": resp.ID.String(), "email": resp.Email}).Info("user created")
	}
	s.index(ctx, resp)
	s.notify(ctx, resp)
	return s.present(resp), nil
}

// Update replaces name, email, phones and password of the user found by
// email. The password is always re-hashed, so only its byte length is checked.
func (s *Service) Update(ctx context.Context, in entity.User) (*UserResponse, error) {
	if len(in.Password) > passwordMaxBytes {
		return nil, ErrPasswordTooLong
	}
	existing, err := s.Repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, in.Email)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := MergeUpdate(FromRecord(*existing), in, hash, s.today())
	saved, err := s.Repo.Save(ctx, ToRecord(u))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, in.Email)
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	resp, err := ToResponse(FromRecord(*saved))
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": resp.ID.String(), "email": resp.Email}).Info("user updated")
	}
	s.index(ctx, resp)
	return s.present(resp), nil
}

// List returns every stored user in the store's retrieval order.
func (s *Service) List(ctx context.Context) ([]UserResponse, error) {
	records, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]UserResponse, 0, len(records))
	for _, r := range records {
		resp, err := ToResponse(FromRecord(r))
		if err != nil {
			return nil, err
		}
		out = append(out, *s.present(resp))
	}
	return out, nil
}

func (s *Service) validateEmail(ctx context.Context, email string) error {
	if err := ValidateEmailFormat(email); err != nil {
		return err
	}
	_, err := s.Repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrEmailAlreadyRegistered, email)
	case errors.Is(err, repo.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}

func (s *Service) present(resp UserResponse) *UserResponse {
	if s.RedactPassword {
		resp.Password = ""
	}
	return &resp
}

func (s *Service) index(ctx context.Context, resp UserResponse) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.IndexUser(ctx, resp); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", resp.ID.String()).Warn("index user failed")
	}
}

func (s *Service) notify(ctx context.Context, resp UserResponse) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifyRegistered(ctx, resp); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", resp.ID.String()).Warn("registration notification failed")
	}
}
