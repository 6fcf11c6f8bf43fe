// Package services contains the server-side business logic. AuthService
// implements registration, login, email verification and profile lookup.
package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/logging"
	"github.com/dmitrijs2005/nexusauth/internal/server/mailer"
	"github.com/dmitrijs2005/nexusauth/internal/server/models"
	"github.com/dmitrijs2005/nexusauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

// PingMessage is returned by Ping.
const PingMessage = "Server is working correctly!"

// PasswordHasher is satisfied by *passwords.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type AuthService struct {
	users           users.Repository
	hasher          PasswordHasher
	mailer          mailer.Sender
	logger          logging.Logger
	requireVerified bool

	now      func() time.Time
	newID    func() string
	newToken func() (string, error)

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the service. With requireVerified set, Login rejects
// accounts that have not confirmed their email.
func NewAuthService(repo users.Repository, hasher PasswordHasher, sender mailer.Sender, logger logging.Logger, requireVerified bool) *AuthService {
	return &AuthService{
		users:           repo,
		hasher:          hasher,
		mailer:          sender,
		logger:          logger,
		requireVerified: requireVerified,
		now:             time.Now,
		newID:           uuid.NewString,
		newToken: func() (string, error) {
			return common.MakeRandHexString(common.VerificationTokenSize)
		},
	}
}

// storageErr tags repository failures with common.ErrStorage unless they
// already carry a domain sentinel.
func storageErr(op string, err error) error {
	if errors.Is(err, common.ErrStorage) || errors.Is(err, common.ErrDuplicateKey) {
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrStorage, err)
}

// Register creates an unverified account and mails its verification token.
// It returns a *validation.Error for bad input and a duplicate sentinel when
// the username or email is taken.
func (s *AuthService) Register(ctx context.Context, form validation.Registration) (*models.Profile, error) {
	form = validation.SanitizeRegistration(form)
	if err := validation.ValidateRegistration(form); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(form.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	token, err := s.newToken()
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:                s.newID(),
		FullName:          form.FullName,
		Email:             form.Email,
		Username:          form.Username,
		PasswordHash:      hash,
		Gender:            form.Gender,
		Hobbies:           form.Hobbies,
		Country:           form.Country,
		RegisteredAt:      s.now().UTC(),
		IsVerified:        false,
		VerificationToken: &token,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateKey) {
			s.logger.Info(ctx, "registration rejected", "username", form.Username, "reason", err.Error())
			return nil, err
		}
		s.logger.Error(ctx, "failed to store user", "username", form.Username, "error", err)
		return nil, storageErr("insert user", err)
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.FullName, token); err != nil {
		s.logger.Warn(ctx, "verification email not delivered", "user_id", user.ID, "error", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user.Profile(), nil
}

// Login checks credentials for a username or email. A missing account and a
// wrong password both yield common.ErrInvalidCredentials; the hash is still
// computed for missing accounts so response time does not reveal which.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*models.Profile, error) {
	form := validation.Login{Username: validation.Sanitize(usernameOrEmail), Password: password}
	if err := validation.ValidateLogin(form); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, form.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummy())
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, storageErr("find user", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if s.requireVerified && !user.IsVerified {
		return nil, common.ErrNotVerified
	}

	now := s.now().UTC()
	if err := s.users.Update(ctx, user.ID, models.UserPatch{LastLogin: &now}); err != nil {
		s.logger.Error(ctx, "failed to record login", "user_id", user.ID, "error", err)
		return nil, storageErr("update last login", err)
	}
	user.LastLogin = &now

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user.Profile(), nil
}

// Verify marks the account holding token as verified and clears the token,
// so a token works once.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	form := validation.Verification{Token: validation.Sanitize(token)}
	if err := validation.ValidateVerification(form); err != nil {
		return err
	}

	user, err := s.users.ConsumeVerificationToken(ctx, form.Token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		s.logger.Error(ctx, "failed to update verification status", "error", err)
		return storageErr("consume token", err)
	}

	s.logger.Info(ctx, "email verified", "user_id", user.ID)
	return nil
}

// GetUserData returns the public profile for username. Emails are not
// accepted here.
func (s *AuthService) GetUserData(ctx context.Context, username string) (*models.Profile, error) {
	form := validation.UserLookup{Username: validation.Sanitize(username)}
	if err := validation.ValidateUserLookup(form); err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, storageErr("find user", err)
	}
	return user.Profile(), nil
}

// Ping answers the "test" action.
func (s *AuthService) Ping(ctx context.Context) string {
	s.logger.Debug(ctx, "ping")
	return PingMessage
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
