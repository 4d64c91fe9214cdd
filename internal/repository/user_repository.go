package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/tenant-notes/internal/model"
)

// UserRepo is the read-only identity store.  Users are supplied once at
// construction and never change afterwards.
type UserRepo struct {
	mu    sync.RWMutex
	users []model.User
}

// NewUserRepo copies the given users into a new store.
func NewUserRepo(users []model.User) *UserRepo {
	cp := make([]model.User, len(users))
	copy(cp, users)
	return &UserRepo{users: cp}
}

// FindByEmail returns the user whose email matches exactly (case-sensitive).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}
