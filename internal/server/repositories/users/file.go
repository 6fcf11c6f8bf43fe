package users

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nexusauth/internal/common"
	"github.com/dmitrijs2005/nexusauth/internal/filex"
	"github.com/dmitrijs2005/nexusauth/internal/server/models"
)

// FileRepository keeps every user in one JSON array on disk. Each mutation
// reads the whole file, changes it and writes it back. The mutex serializes
// this within one process; two processes sharing the file still race and the
// last writer wins.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

// load returns the stored users. A missing or blank file is an empty store;
// anything that is not a JSON array of users wraps common.ErrStorage.
func (r *FileRepository) load() (userList, error) {
	data, err := filex.ReadIfExists(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return userList{}, nil
	}

	var list userList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", common.ErrStorage, r.path, err)
	}
	return list, nil
}

func (r *FileRepository) save(list userList) error {
	if list == nil {
		list = userList{}
	}
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", common.ErrStorage, err)
	}
	if err := filex.WriteAtomic(r.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *FileRepository) read(fn func(userList) (*models.User, error)) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	return fn(list)
}

func (r *FileRepository) FindByUsernameOrEmail(_ context.Context, key string) (*models.User, error) {
	return r.read(func(l userList) (*models.User, error) { return l.byUsernameOrEmail(key) })
}

func (r *FileRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.read(func(l userList) (*models.User, error) { return l.byUsername(username) })
}

func (r *FileRepository) FindByVerificationToken(_ context.Context, token string) (*models.User, error) {
	return r.read(func(l userList) (*models.User, error) { return l.byVerificationToken(token) })
}

func (r *FileRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	list, err = list.insert(user)
	if err != nil {
		return err
	}
	return r.save(list)
}

func (r *FileRepository) Update(_ context.Context, id string, patch models.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	if err := list.update(id, patch); err != nil {
		return err
	}
	return r.save(list)
}

func (r *FileRepository) ConsumeVerificationToken(_ context.Context, token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	user, err := list.consumeToken(token)
	if err != nil {
		return nil, err
	}
	if err := r.save(list); err != nil {
		return nil, err
	}
	return user, nil
}
