package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nexusauth/internal/server/models"
)

// MemoryRepository keeps users in process memory. Nothing survives a restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	users userList
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) FindByUsernameOrEmail(_ context.Context, key string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users.byUsernameOrEmail(key)
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users.byUsername(username)
}

func (r *MemoryRepository) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.users.byVerificationToken(token)
}

func (r *MemoryRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, err := r.users.insert(user)
	if err != nil {
		return err
	}
	r.users = next
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, id string, patch models.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users.update(id, patch)
}

func (r *MemoryRepository) ConsumeVerificationToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users.consumeToken(token)
}
