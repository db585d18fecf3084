package services

import (
	"context"
	"net/http"

	"github.com/joy-dx/gosession/dto"
)

type AccountsService struct {
	r dto.Requester
}

func (s *AccountsService) List(ctx context.Context) ([]dto.Account, error) {
	return call[[]dto.Account](ctx, s.r, http.MethodGet, accountsEndpoint, nil)
}

func (s *AccountsService) Get(ctx context.Context, id int64) (dto.Account, error) {
	return call[dto.Account](ctx, s.r, http.MethodGet, byID(accountsEndpoint, id), nil)
}

func (s *AccountsService) Create(ctx context.Context, req dto.AccountRequest) (dto.Account, error) {
	return call[dto.Account](ctx, s.r, http.MethodPost, accountsEndpoint, req)
}

func (s *AccountsService) Update(ctx context.Context, id int64, req dto.AccountRequest) (dto.Account, error) {
	return call[dto.Account](ctx, s.r, http.MethodPut, byID(accountsEndpoint, id), req)
}

func (s *AccountsService) Delete(ctx context.Context, id int64) error {
	return callNoContent(ctx, s.r, http.MethodDelete, byID(accountsEndpoint, id))
}
