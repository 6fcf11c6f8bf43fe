package client

import (
	"context"

	"github.com/dmitrijs2005/nexusauth/internal/client/models"
	"github.com/dmitrijs2005/nexusauth/internal/validation"
)

type Client interface {
	Register(ctx context.Context, form validation.Registration) (*models.Profile, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*models.Profile, error)
	Verify(ctx context.Context, token string) error
	GetUserData(ctx context.Context, username string) (*models.Profile, error)
	// Ping returns the server's health message.
	Ping(ctx context.Context) (string, error)
}
