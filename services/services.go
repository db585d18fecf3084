// Package services wraps the wallet REST resources on top of a dto.Requester,
// normally the session service so every call is authenticated.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/joy-dx/gosession/dto"
)

const (
	accountsEndpoint     = "/accounts"
	categoriesEndpoint   = "/categories"
	transactionsEndpoint = "/transactions"
	usersEndpoint        = "/users"
	loansEndpoint        = "/loan"
)

type Services struct {
	Accounts     *AccountsService
	Categories   *CategoriesService
	Transactions *TransactionsService
	Users        *UsersService
	Loans        *LoansService
}

func New(r dto.Requester) *Services {
	return &Services{
		Accounts:     &AccountsService{r: r},
		Categories:   &CategoriesService{r: r},
		Transactions: &TransactionsService{r: r},
		Users:        &UsersService{r: r},
		Loans:        &LoansService{r: r},
	}
}

func byID(endpoint string, id int64) string {
	return endpoint + "/" + strconv.FormatInt(id, 10)
}

// call sends one request and decodes the payload into T. Only reads are retried.
func call[T any](ctx context.Context, r dto.Requester, method, endpoint string, body any) (T, error) {
	var out T

	cfg := dto.DefaultRequestConfig()
	cfg.WithMethod(method).
		WithEndpoint(endpoint).
		WithTaskName(method + " " + endpoint)
	if body != nil {
		cfg.WithBody(body)
	}
	if method != http.MethodGet {
		cfg.WithMaxRetries(0)
	}

	resp, err := r.Request(ctx, &cfg)
	if err != nil {
		return out, err
	}
	if !resp.OK() {
		return out, apiError(resp)
	}
	if err := decode(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decode %s %s: %w", method, endpoint, err)
	}
	return out, nil
}

func callNoContent(ctx context.Context, r dto.Requester, method, endpoint string) error {
	_, err := call[json.RawMessage](ctx, r, method, endpoint, nil)
	return err
}

// decode unwraps the {status,message,data} envelope when present.
func decode(body []byte, out any) error {
	if len(body) == 0 {
		return nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err == nil {
		if data, ok := env["data"]; ok {
			body = data
		}
	}
	return json.Unmarshal(body, out)
}

func apiError(resp dto.Response) error {
	apiErr := &dto.APIError{}
	_ = json.Unmarshal(resp.Body, apiErr)
	apiErr.Status = resp.StatusCode
	return apiErr
}

// FormatDate converts an ISO date (2006-01-02) to the backend's 02/01/2006
// layout. Values in any other shape are returned as is.
func FormatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
