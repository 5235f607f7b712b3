package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Jonatndm/API-Authenticate/internal/model"
	"github.com/Jonatndm/API-Authenticate/internal/repository"
)

func TestUserService_Profile(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	svc := NewUserService(users)

	created, err := users.Create(ctx, "a@x.com", "$2a$04$hash", "A")
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, &model.AuthClaims{Principal: created.Principal()})
	require.NoError(t, err)
	assert.Equal(t, created.Public(), profile)

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")

	_, err = svc.Profile(ctx, &model.AuthClaims{Principal: model.Principal{UserID: "gone", Role: model.RoleUser}})
	require.ErrorIs(t, err, model.ErrUserNotFound)

	_, err = svc.Profile(ctx, nil)
	require.ErrorIs(t, err, model.ErrMissingToken)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryUserRepository()
	svc := NewUserService(users)

	empty, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Users)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		_, err := users.Create(ctx, email, "hash", "N")
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.Len(t, list.Users, 2)
}

func TestUserService_ListStoreFailure(t *testing.T) {
	store := new(MockCredentialStore)
	store.On("List", mock.Anything).Return(nil, errors.Join(model.ErrStoreUnavailable, errors.New("timeout")))

	_, err := NewUserService(store).List(context.Background())
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
	store.AssertExpectations(t)
}
