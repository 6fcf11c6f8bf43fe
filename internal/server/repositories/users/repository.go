// Package users stores user accounts.
//
// Three backends implement Repository: a JSON file (the default), an
// in-memory list and a SQL table (sqlite or postgres). Username and email
// lookups are case-insensitive in all of them.
package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/server/models"
)

type Repository interface {
	// FindByUsernameOrEmail matches key against username or email.
	FindByUsernameOrEmail(ctx context.Context, key string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	// Insert fails with common.ErrDuplicateUsername or common.ErrDuplicateEmail.
	// The username is checked first.
	Insert(ctx context.Context, user *models.User) error
	// Update fails with common.ErrorNotFound for an unknown id.
	Update(ctx context.Context, id string, patch models.UserPatch) error
	// ConsumeVerificationToken marks the holder of token verified and clears
	// the token in one step, so only one caller can use a given token. It
	// returns the updated user or common.ErrorNotFound.
	ConsumeVerificationToken(ctx context.Context, token string) (*models.User, error)
}

var verifiedPatch = func() models.UserPatch {
	verified := true
	return models.UserPatch{IsVerified: &verified, ClearVerificationToken: true}
}()

// userList is the shared logic of the list-backed stores.
type userList []*models.User

func (l userList) find(match func(*models.User) bool) (*models.User, error) {
	for _, u := range l {
		if match(u) {
			return u.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (l userList) byUsernameOrEmail(key string) (*models.User, error) {
	return l.find(func(u *models.User) bool {
		return strings.EqualFold(u.Username, key) || strings.EqualFold(u.Email, key)
	})
}

func (l userList) byUsername(username string) (*models.User, error) {
	return l.find(func(u *models.User) bool { return strings.EqualFold(u.Username, username) })
}

func (l userList) byVerificationToken(token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}
	return l.find(func(u *models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	})
}

func (l userList) consumeToken(token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}
	for _, u := range l {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			verifiedPatch.Apply(u)
			return u.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (l userList) checkUnique(user *models.User) error {
	for _, u := range l {
		if strings.EqualFold(u.Username, user.Username) {
			return common.ErrDuplicateUsername
		}
	}
	for _, u := range l {
		if strings.EqualFold(u.Email, user.Email) {
			return common.ErrDuplicateEmail
		}
	}
	return nil
}

func (l userList) insert(user *models.User) (userList, error) {
	if err := l.checkUnique(user); err != nil {
		return l, err
	}
	return append(l, user.Clone()), nil
}

func (l userList) update(id string, patch models.UserPatch) error {
	for _, u := range l {
		if u.ID == id {
			patch.Apply(u)
			return nil
		}
	}
	return common.ErrorNotFound
}
