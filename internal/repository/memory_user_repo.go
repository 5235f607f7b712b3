package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs the
// STORE_DRIVER=memory mode and the package tests.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]model.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    map[string]model.User{},
		byEmail: map[string]string{},
	}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byEmail[model.NormalizeEmail(email)]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.byID[id]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, email string, passwordHash string, name string) (model.User, error) {
	key := model.NormalizeEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[key]; exists {
		return model.User{}, model.ErrDuplicateEmail
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        key,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	r.byID[user.ID] = user
	r.byEmail[key] = user.ID

	return user, nil
}

func (r *MemoryUserRepository) Save(_ context.Context, user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[user.ID]
	if !exists {
		return model.ErrUserNotFound
	}

	// Email is the identity key and never changes after creation.
	user.Email = current.Email
	user.CreatedAt = current.CreatedAt
	r.byID[user.ID] = user

	return nil
}

func (r *MemoryUserRepository) SetRole(_ context.Context, id string, role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return model.ErrUserNotFound
	}
	user.Role = role
	r.byID[id] = user

	return nil
}

func (r *MemoryUserRepository) RecordFailedLogin(_ context.Context, id string, maxAttempts int) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return model.User{}, model.ErrUserNotFound
	}
	if user.Locked {
		return user, nil
	}

	user.LoginAttempts++
	if user.LoginAttempts >= maxAttempts {
		user.Locked = true
	}
	r.byID[id] = user

	return user, nil
}

func (r *MemoryUserRepository) ResetLoginAttempts(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, exists := r.byID[id]
	if !exists {
		return model.ErrUserNotFound
	}
	if user.Locked {
		return model.ErrAccountLocked
	}
	user.LoginAttempts = 0
	r.byID[id] = user

	return nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, user)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Email < users[j].Email
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}
