package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	portsrepo "github.com/trackmint/expense_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/trackmint/expense_tracker_app/internal/core/ports/services"
	"github.com/trackmint/expense_tracker_app/internal/dto"
)

type expenseService struct {
	expenseRepo portsrepo.ExpenseRepository
}

// NewExpenseService creates the expense service.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepository) portssvc.ExpenseSvcFacade {
	return &expenseService{expenseRepo: expenseRepo}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// ownerFilter returns the owner id a repository query must be scoped to.
// Superusers see everything, signalled by the empty filter.
func ownerFilter(principal domain.Principal) string {
	if principal.IsSuperuser {
		return ""
	}
	return principal.UserID
}

// visibleTo reports whether the principal may see the given record.
func visibleTo(principal domain.Principal, expense *domain.Expense) bool {
	return principal.IsSuperuser || expense.UserID == principal.UserID
}

// CreateExpense validates and persists a new record. Ownership is always the
// requesting principal; any owner value a payload might carry is never
// consulted.
func (s *expenseService) CreateExpense(ctx context.Context, principal domain.Principal, req dto.ExpenseRequest) (*domain.Expense, error) {
	now := time.Now()
	expense := domain.Expense{
		ExpenseID:       uuid.NewString(),
		UserID:          principal.UserID,
		OwnerUsername:   principal.Username,
		Title:           req.Title,
		Description:     req.Description,
		Amount:          req.Amount,
		TransactionType: domain.TransactionType(req.TransactionType),
		Tax:             req.Tax,
		TaxType:         domain.TaxType(req.TaxType),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return &expense, nil
}

// ListExpenses returns one page of records visible to the principal together
// with the total visible count.
func (s *expenseService) ListExpenses(ctx context.Context, principal domain.Principal, limit int, offset int) ([]domain.Expense, int64, error) {
	owner := ownerFilter(principal)

	expenses, err := s.expenseRepo.FindExpenses(ctx, owner, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	count, err := s.expenseRepo.CountExpenses(ctx, owner)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	return expenses, count, nil
}

// GetExpenseByID retrieves a single record. A record owned by someone else is
// reported as not found, identical to a record that does not exist.
func (s *expenseService) GetExpenseByID(ctx context.Context, principal domain.Principal, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(principal, expense) {
		return nil, apperrors.ErrNotFound
	}
	return expense, nil
}

// UpdateExpense replaces all mutable fields of a visible record. The owner is
// immutable; invisible records behave as missing.
func (s *expenseService) UpdateExpense(ctx context.Context, principal domain.Principal, expenseID string, req dto.ExpenseRequest) (*domain.Expense, error) {
	existing, err := s.GetExpenseByID(ctx, principal, expenseID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Title = req.Title
	updated.Description = req.Description
	updated.Amount = req.Amount
	updated.TransactionType = domain.TransactionType(req.TransactionType)
	updated.Tax = req.Tax
	updated.TaxType = domain.TaxType(req.TaxType)
	updated.UpdatedAt = time.Now()

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.UpdateExpense(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return &updated, nil
}

// DeleteExpense permanently removes a visible record.
func (s *expenseService) DeleteExpense(ctx context.Context, principal domain.Principal, expenseID string) error {
	if _, err := s.GetExpenseByID(ctx, principal, expenseID); err != nil {
		return err
	}
	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	return nil
}
