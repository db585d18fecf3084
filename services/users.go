package services

import (
	"context"
	"net/http"

	"github.com/joy-dx/gosession/dto"
)

type UsersService struct {
	r dto.Requester
}

func (s *UsersService) Profile(ctx context.Context) (dto.User, error) {
	return call[dto.User](ctx, s.r, http.MethodGet, usersEndpoint+"/me", nil)
}

func (s *UsersService) Get(ctx context.Context, id int64) (dto.User, error) {
	return call[dto.User](ctx, s.r, http.MethodGet, byID(usersEndpoint, id), nil)
}

func (s *UsersService) UpdateProfile(ctx context.Context, req dto.UserUpdateRequest) (dto.User, error) {
	return call[dto.User](ctx, s.r, http.MethodPut, usersEndpoint+"/me", req)
}

func (s *UsersService) UpdatePassword(ctx context.Context, password string) (dto.User, error) {
	return call[dto.User](ctx, s.r, http.MethodPatch, usersEndpoint+"/me/password", map[string]string{"password": password})
}

// Children lists the users whose parent is the current user.
func (s *UsersService) Children(ctx context.Context) ([]dto.User, error) {
	return call[[]dto.User](ctx, s.r, http.MethodGet, usersEndpoint+"/me/parent", nil)
}

// Create registers a new user; it does not need a session.
func (s *UsersService) Create(ctx context.Context, req dto.UserCreateRequest) (dto.User, error) {
	return call[dto.User](ctx, s.r, http.MethodPost, usersEndpoint+"/register", req)
}
