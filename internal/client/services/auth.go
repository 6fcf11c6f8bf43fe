// Package services contains the client's application services. AuthService
// validates forms locally, calls the server and keeps the session cache in
// step with the result.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nexusauth/internal/client/client"
	"github.com/dmitrijs2005/nexusauth/internal/client/session"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

var ErrNotSignedIn = errors.New("not signed in")

// AuthService defines authentication operations for the CLI.
//
// Register and Login return a *validation.Error without contacting the
// server when the form is incomplete. Server refusals surface as
// *client.APIError and transport trouble as client.ErrUnavailable.
type AuthService interface {
	Register(ctx context.Context, form validation.Registration) (*session.Profile, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*session.Profile, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*session.Profile, error)
	Refresh(ctx context.Context) (*session.Profile, error)
	Verify(ctx context.Context, token string) error
	Ping(ctx context.Context) (string, error)
}

type SessionStore interface {
	Save(ctx context.Context, p session.Profile) error
	Load(ctx context.Context) (*session.Profile, error)
	Clear(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions SessionStore
}

func NewAuthService(c client.Client, sessions SessionStore) AuthService {
	return &authService{client: c, sessions: sessions}
}

func (a *authService) Register(ctx context.Context, form validation.Registration) (*session.Profile, error) {
	if err := validation.ValidateRegistration(validation.SanitizeRegistration(form)); err != nil {
		return nil, err
	}

	p, err := a.client.Register(ctx, form)
	if err != nil {
		return nil, err
	}
	return a.remember(ctx, session.FromProfile(p))
}

func (a *authService) Login(ctx context.Context, usernameOrEmail, password string) (*session.Profile, error) {
	form := validation.Login{Username: validation.Sanitize(usernameOrEmail), Password: password}
	if err := validation.ValidateLogin(form); err != nil {
		return nil, err
	}

	p, err := a.client.Login(ctx, form.Username, password)
	if err != nil {
		return nil, err
	}
	return a.remember(ctx, session.FromProfile(p))
}

func (a *authService) remember(ctx context.Context, p session.Profile) (*session.Profile, error) {
	if err := a.sessions.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &p, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

// CurrentUser returns the cached profile or ErrNotSignedIn.
func (a *authService) CurrentUser(ctx context.Context) (*session.Profile, error) {
	p, err := a.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotSignedIn
	}
	return p, nil
}

// Refresh reloads the signed-in user's profile from the server. A user the
// server no longer knows is signed out.
func (a *authService) Refresh(ctx context.Context) (*session.Profile, error) {
	current, err := a.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	p, err := a.client.GetUserData(ctx, current.Username)
	if err != nil {
		if client.IsUserNotFound(err) {
			if cerr := a.sessions.Clear(ctx); cerr != nil {
				return nil, cerr
			}
		}
		return nil, err
	}
	return a.remember(ctx, session.FromProfile(p))
}

func (a *authService) Verify(ctx context.Context, token string) error {
	form := validation.Verification{Token: validation.Sanitize(token)}
	if err := validation.ValidateVerification(form); err != nil {
		return err
	}
	return a.client.Verify(ctx, form.Token)
}

func (a *authService) Ping(ctx context.Context) (string, error) {
	return a.client.Ping(ctx)
}
