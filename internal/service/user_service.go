package service

import (
	"context"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

type UserService struct {
	users CredentialStore
}

func NewUserService(users CredentialStore) *UserService {
	return &UserService{users: users}
}

// Profile returns the current record of the authenticated caller, not the
// possibly stale copy embedded in the token.
func (s *UserService) Profile(ctx context.Context, claims *model.AuthClaims) (model.PublicUser, error) {
	if claims == nil {
		return model.PublicUser{}, model.ErrMissingToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) List(ctx context.Context) (model.UserList, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return model.UserList{}, err
	}

	out := make([]model.PublicUser, 0, len(users))
	for _, user := range users {
		out = append(out, user.Public())
	}
	return model.UserList{Count: len(out), Users: out}, nil
}
