package services

import (
	"context"
	"net/http"

	"github.com/joy-dx/gosession/dto"
)

type LoansService struct {
	r dto.Requester
}

func (s *LoansService) Create(ctx context.Context, req dto.LoanRequest) (dto.Loan, error) {
	req.DueDate = FormatDate(req.DueDate)
	req.EffectiveDate = FormatDate(req.EffectiveDate)
	req.DueDateLoan = FormatDate(req.DueDateLoan)
	req.EffectiveDateLoan = FormatDate(req.EffectiveDateLoan)
	return call[dto.Loan](ctx, s.r, http.MethodPost, loansEndpoint, req)
}
