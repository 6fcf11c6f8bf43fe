// Package session caches the signed-in user's public profile in the
// client's local database under a single key. A cached session has no
// expiry; it lasts until Clear.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nexusauth/internal/client/models"
	"github.com/dmitrijs2005/nexusauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexusauth/internal/common"
)

// Profile is the cached part of the server's user profile.
type Profile struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Gender       string    `json:"gender"`
	Hobbies      []string  `json:"hobbies"`
	Country      string    `json:"country"`
	RegisteredAt time.Time `json:"registeredAt"`
	IsVerified   bool      `json:"isVerified"`
}

// Cache stores one Profile in a metadata.Repository.
type Cache struct {
	repo metadata.Repository
	key  string
}

func NewCache(repo metadata.Repository) *Cache {
	return &Cache{repo: repo, key: common.SessionKey}
}

func (c *Cache) Save(ctx context.Context, p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return c.repo.Set(ctx, c.key, data)
}

// Load returns the cached profile, or nil when nobody is signed in. An
// unreadable entry is removed and reported as absent.
func (c *Cache) Load(ctx context.Context) (*Profile, error) {
	rec, err := c.repo.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	var p Profile
	if err := json.Unmarshal(rec.Value, &p); err != nil || p.Username == "" {
		if derr := c.repo.Delete(ctx, c.key); derr != nil {
			return nil, derr
		}
		return nil, nil
	}
	return &p, nil
}

// SavedAt reports when the session was last written; zero when absent.
func (c *Cache) SavedAt(ctx context.Context) (time.Time, error) {
	rec, err := c.repo.Get(ctx, c.key)
	if err != nil || rec == nil {
		return time.Time{}, err
	}
	return rec.UpdatedAt, nil
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.repo.Delete(ctx, c.key)
}

// FromProfile keeps the cached fields of a server profile.
func FromProfile(p *models.Profile) Profile {
	hobbies := make([]string, len(p.Hobbies))
	copy(hobbies, p.Hobbies)

	return Profile{
		ID:           p.ID,
		Username:     p.Username,
		FullName:     p.FullName,
		Email:        p.Email,
		Gender:       p.Gender,
		Hobbies:      hobbies,
		Country:      p.Country,
		RegisteredAt: p.RegisteredAt,
		IsVerified:   p.IsVerified,
	}
}
