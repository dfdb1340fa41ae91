package dto

import (
	"github.com/shopspring/decimal"

	"github.com/trackmint/expense_tracker_app/internal/core/domain"
)

// timestampFormat renders timestamps as e.g. "2025-07-04 09:30 PM".
const timestampFormat = "2006-01-02 03:04 PM"

// ExpenseRequest is the payload for creating or replacing an expense record.
// Update is full replacement, so the same required fields apply to both.
// Any owner information in the payload is ignored; ownership always comes
// from the authenticated principal.
type ExpenseRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type" binding:"required,oneof=debit credit"`
	Tax             decimal.Decimal `json:"tax"`
	TaxType         string          `json:"tax_type" binding:"required,oneof=flat percentage"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size"`
}

// ExpenseResponse is the detail projection of an expense record, including
// the derived total and formatted timestamps.
type ExpenseResponse struct {
	ID              string          `json:"id"`
	User            string          `json:"user"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	Tax             decimal.Decimal `json:"tax"`
	TaxType         string          `json:"tax_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// ExpenseSummaryResponse is the list projection; description, owner, tax
// detail and updated_at are omitted.
type ExpenseSummaryResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedAt       string          `json:"created_at"`
}

// ListExpensesResponse is the pagination envelope for expense listings.
type ListExpensesResponse struct {
	Count    int64                    `json:"count"`
	Next     *string                  `json:"next"`
	Previous *string                  `json:"previous"`
	Results  []ExpenseSummaryResponse `json:"results"`
}

// ToExpenseResponse converts a domain.Expense to its detail projection.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:              e.ExpenseID,
		User:            e.OwnerUsername,
		Title:           e.Title,
		Description:     e.Description,
		Amount:          e.Amount,
		TransactionType: string(e.TransactionType),
		Tax:             e.Tax,
		TaxType:         string(e.TaxType),
		TotalAmount:     e.TotalAmount(),
		CreatedAt:       e.CreatedAt.Format(timestampFormat),
		UpdatedAt:       e.UpdatedAt.Format(timestampFormat),
	}
}

// ToExpenseSummaryResponse converts a domain.Expense to its list projection.
func ToExpenseSummaryResponse(e *domain.Expense) ExpenseSummaryResponse {
	return ExpenseSummaryResponse{
		ID:              e.ExpenseID,
		Title:           e.Title,
		Amount:          e.Amount,
		TransactionType: string(e.TransactionType),
		TotalAmount:     e.TotalAmount(),
		CreatedAt:       e.CreatedAt.Format(timestampFormat),
	}
}

// ToExpenseSummaryResponses converts a slice of domain.Expense to list projections.
func ToExpenseSummaryResponses(expenses []domain.Expense) []ExpenseSummaryResponse {
	responses := make([]ExpenseSummaryResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseSummaryResponse(&expenses[i])
	}
	return responses
}
