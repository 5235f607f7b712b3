package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockCredentialStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockCredentialStore) Create(ctx context.Context, email string, passwordHash string, name string) (model.User, error) {
	args := m.Called(ctx, email, passwordHash, name)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockCredentialStore) Save(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCredentialStore) SetRole(ctx context.Context, id string, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockCredentialStore) RecordFailedLogin(ctx context.Context, id string, maxAttempts int) (model.User, error) {
	args := m.Called(ctx, id, maxAttempts)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockCredentialStore) ResetLoginAttempts(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCredentialStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}
