// Package services contains server-side business logic: account registration
// and login (UserService) and ownership-enforced task management (TaskService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(claims auth.Claims, ttl time.Duration) (string, error)
}

// Session is the result of a successful login.
type Session struct {
	Token  string
	UserID string
}

// UserService registers accounts and exchanges credentials for session tokens.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	tokenTTL    time.Duration
}

// NewUserService constructs a UserService. tokenTTL is the lifetime of every
// issued session token.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer, tokenTTL time.Duration) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
	}
}

// Register creates a user with a hashed password. email is expected to be
// normalised by the caller. An existing email yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrorConflict
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Status:       models.DefaultUserStatus,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and issues a session token.
// Unknown emails fail with common.ErrUnknownEmail, bad passwords with
// common.ErrWrongPassword; both match common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownEmail
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrWrongPassword
	}

	token, err := s.tokens.Issue(auth.Claims{UserID: user.ID, Email: user.Email}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: issuing token: %v", common.ErrorInternal, err)
	}

	return &Session{Token: token, UserID: user.ID}, nil
}
