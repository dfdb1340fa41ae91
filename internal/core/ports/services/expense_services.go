package services

import (
	"context"

	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	"github.com/trackmint/expense_tracker_app/internal/dto"
)

// ExpenseSvcFacade defines the CRUD operations over expense records.
// Every operation takes the requesting principal explicitly; visibility is
// limited to the principal's own records unless it is a superuser, and a
// record the principal may not see behaves exactly like a missing one.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, principal domain.Principal, req dto.ExpenseRequest) (*domain.Expense, error)
	ListExpenses(ctx context.Context, principal domain.Principal, limit int, offset int) ([]domain.Expense, int64, error)
	GetExpenseByID(ctx context.Context, principal domain.Principal, expenseID string) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, principal domain.Principal, expenseID string, req dto.ExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, principal domain.Principal, expenseID string) error
}
