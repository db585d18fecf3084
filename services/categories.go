package services

import (
	"context"
	"net/http"

	"github.com/joy-dx/gosession/dto"
)

type CategoriesService struct {
	r dto.Requester
}

func (s *CategoriesService) List(ctx context.Context) ([]dto.Category, error) {
	return call[[]dto.Category](ctx, s.r, http.MethodGet, categoriesEndpoint, nil)
}

func (s *CategoriesService) Get(ctx context.Context, id int64) (dto.Category, error) {
	return call[dto.Category](ctx, s.r, http.MethodGet, byID(categoriesEndpoint, id), nil)
}

func (s *CategoriesService) Create(ctx context.Context, req dto.CategoryRequest) (dto.Category, error) {
	return call[dto.Category](ctx, s.r, http.MethodPost, categoriesEndpoint, req)
}

func (s *CategoriesService) Update(ctx context.Context, id int64, req dto.CategoryRequest) (dto.Category, error) {
	return call[dto.Category](ctx, s.r, http.MethodPut, byID(categoriesEndpoint, id), req)
}

func (s *CategoriesService) Delete(ctx context.Context, id int64) error {
	return callNoContent(ctx, s.r, http.MethodDelete, byID(categoriesEndpoint, id))
}
