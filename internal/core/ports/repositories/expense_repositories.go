package repositories

import (
	"context"

	"github.com/trackmint/expense_tracker_app/internal/core/domain"
)

// ExpenseRepository defines persistence operations for expense records.
// List and count calls take an ownerID filter; an empty ownerID means no
// ownership filter (superuser view).
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	FindExpenses(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Expense, error)
	CountExpenses(ctx context.Context, ownerID string) (int64, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
}
