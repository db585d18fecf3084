package services

import (
	"context"
	"net/http"

	"github.com/joy-dx/gosession/dto"
)

type TransactionsService struct {
	r dto.Requester
}

// List returns every transaction, or only installment parents when parentsOnly is set.
func (s *TransactionsService) List(ctx context.Context, parentsOnly bool) ([]dto.Transaction, error) {
	endpoint := transactionsEndpoint
	if parentsOnly {
		endpoint += "?isParent=true"
	}
	return call[[]dto.Transaction](ctx, s.r, http.MethodGet, endpoint, nil)
}

func (s *TransactionsService) Get(ctx context.Context, id int64) (dto.Transaction, error) {
	return call[dto.Transaction](ctx, s.r, http.MethodGet, byID(transactionsEndpoint, id), nil)
}

func (s *TransactionsService) Create(ctx context.Context, req dto.TransactionRequest) (dto.Transaction, error) {
	return call[dto.Transaction](ctx, s.r, http.MethodPost, transactionsEndpoint, prepareTransaction(req))
}

// CreateBatch splits req into req.QtdeInstallments installments server side.
func (s *TransactionsService) CreateBatch(ctx context.Context, req dto.TransactionRequest) ([]dto.Transaction, error) {
	return call[[]dto.Transaction](ctx, s.r, http.MethodPost, transactionsEndpoint+"/batch", prepareTransaction(req))
}

func (s *TransactionsService) Update(ctx context.Context, id int64, req dto.TransactionRequest) (dto.Transaction, error) {
	return call[dto.Transaction](ctx, s.r, http.MethodPut, byID(transactionsEndpoint, id), prepareTransaction(req))
}

func (s *TransactionsService) Delete(ctx context.Context, id int64) error {
	return callNoContent(ctx, s.r, http.MethodDelete, byID(transactionsEndpoint, id))
}

// Effectivate settles a transaction with the amount actually paid or received.
func (s *TransactionsService) Effectivate(ctx context.Context, id int64, req dto.TransactionEffectivationRequest) (dto.Transaction, error) {
	req.EffectiveDate = FormatDate(req.EffectiveDate)
	return call[dto.Transaction](ctx, s.r, http.MethodPatch, byID(transactionsEndpoint, id)+"/effective", req)
}

func prepareTransaction(req dto.TransactionRequest) dto.TransactionRequest {
	req.DueDate = FormatDate(req.DueDate)
	req.EffectiveDate = FormatDate(req.EffectiveDate)
	return req
}
