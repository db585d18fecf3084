package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Account struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Balance     float64  `json:"balance"`
	Credit      *float64 `json:"credit,omitempty"`
	DueDate     *int     `json:"dueDate,omitempty"`
}

type AccountRequest struct {
	Description string   `json:"description,omitempty"`
	Balance     *float64 `json:"balance,omitempty"`
	Credit      *float64 `json:"credit,omitempty"`
	// DueDate day of month the credit line closes
	DueDate *int `json:"dueDate,omitempty"`
}

// CategoryType IN for income, EX for expenses. The backend accepts the
// numeric form (0, 1) on write and may answer with either form.
type CategoryType string

const (
	CategoryIncome  CategoryType = "IN"
	CategoryExpense CategoryType = "EX"
)

// Code is the numeric form sent in requests.
func (t CategoryType) Code() int {
	if t == CategoryExpense {
		return 1
	}
	return 0
}

func (t *CategoryType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = CategoryType(s)
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("category type %s: %w", b, err)
	}
	switch n {
	case 0:
		*t = CategoryIncome
	case 1:
		*t = CategoryExpense
	default:
		return fmt.Errorf("category type %d out of range", n)
	}
	return nil
}

type Category struct {
	ID       int64        `json:"id"`
	Category string       `json:"category"`
	Type     CategoryType `json:"type"`
	Color    string       `json:"color,omitempty"`
}

type CategoryRequest struct {
	Category string `json:"category,omitempty"`
	Type     int    `json:"type"`
	Color    string `json:"color,omitempty"`
}

// Transaction dates use the backend's dd/MM/yyyy layout.
type Transaction struct {
	ID              int64    `json:"id"`
	Description     string   `json:"description"`
	Amount          float64  `json:"amount"`
	Type            int      `json:"type"`
	DueDate         string   `json:"dueDate,omitempty"`
	EffectiveDate   string   `json:"effectiveDate,omitempty"`
	EffectiveAmount *float64 `json:"effectiveAmount,omitempty"`
	AccountID       int64    `json:"accountId"`
	Account         string   `json:"account,omitempty"`
	CategoryID      *int64   `json:"categoryId,omitempty"`
	Category        string   `json:"category,omitempty"`
	Username        string   `json:"username,omitempty"`
}

type TransactionRequest struct {
	DueDate          string   `json:"dueDate,omitempty"`
	Description      string   `json:"description,omitempty"`
	Amount           float64  `json:"amount"`
	Type             int      `json:"type"`
	EffectiveDate    string   `json:"effectiveDate,omitempty"`
	EffectiveAmount  *float64 `json:"effectiveAmount,omitempty"`
	AccountID        int64    `json:"accountId"`
	CategoryID       *int64   `json:"categoryId,omitempty"`
	QtdeInstallments int      `json:"qtdeInstallments,omitempty"`
}

type TransactionEffectivationRequest struct {
	EffectiveDate   string  `json:"effectiveDate"`
	EffectiveAmount float64 `json:"effectiveAmount"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type UserUpdateRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

// LoanRequest creates a loan in one call: the money movement described by
// the plain fields and the repayment described by the *Loan fields, split into
// QtdeInstallments installments. Dates use yyyy-MM-dd or dd/MM/yyyy.
type LoanRequest struct {
	Description   string  `json:"description,omitempty"`
	Amount        float64 `json:"amount"`
	Type          int     `json:"type"`
	DueDate       string  `json:"dueDate,omitempty"`
	EffectiveDate string  `json:"effectiveDate,omitempty"`
	AccountID     int64   `json:"accountId"`
	CategoryID    *int64  `json:"categoryId,omitempty"`

	DescriptionLoan     string   `json:"descriptionLoan,omitempty"`
	QtdeInstallments    int      `json:"qtdeInstallments,omitempty"`
	AmountLoan          float64  `json:"amountLoan,omitempty"`
	EffectiveAmountLoan *float64 `json:"effectiveAmountLoan,omitempty"`
	TypeLoan            *int     `json:"typeLoan,omitempty"`
	DueDateLoan         string   `json:"dueDateLoan,omitempty"`
	EffectiveDateLoan   string   `json:"effectiveDateLoan,omitempty"`
	AccountIDLoan       *int64   `json:"accountIdLoan,omitempty"`
	CategoryIDLoan      *int64   `json:"categoryIdLoan,omitempty"`
}

type LoanInstallment struct {
	DueDate string  `json:"dueDate"`
	Amount  float64 `json:"amount"`
}

type Loan struct {
	ID              int64             `json:"id"`
	Description     string            `json:"description"`
	Amount          float64           `json:"amount"`
	Type            int               `json:"type"`
	DueDate         string            `json:"dueDate,omitempty"`
	EffectiveDate   string            `json:"effectiveDate,omitempty"`
	EffectiveAmount *float64          `json:"effectiveAmount,omitempty"`
	AccountID       int64             `json:"accountId"`
	Account         string            `json:"account,omitempty"`
	CategoryID      *int64            `json:"categoryId,omitempty"`
	Category        string            `json:"category,omitempty"`
	Username        string            `json:"username,omitempty"`
	Installments    []LoanInstallment `json:"installments,omitempty"`
}
