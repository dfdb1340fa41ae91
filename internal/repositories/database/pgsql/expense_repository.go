package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
	"github.com/trackmint/expense_tracker_app/internal/core/domain"
	portsrepo "github.com/trackmint/expense_tracker_app/internal/core/ports/repositories"
	"github.com/trackmint/expense_tracker_app/internal/models"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(db *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{BaseRepository{Pool: db}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepository
var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

func toModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID:       d.ExpenseID,
		UserID:          d.UserID,
		Title:           d.Title,
		Description:     d.Description,
		Amount:          d.Amount,
		TransactionType: string(d.TransactionType),
		Tax:             d.Tax,
		TaxType:         string(d.TaxType),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID:       m.ExpenseID,
		UserID:          m.UserID,
		OwnerUsername:   m.OwnerUsername,
		Title:           m.Title,
		Description:     m.Description,
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		Tax:             m.Tax,
		TaxType:         domain.TaxType(m.TaxType),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = toDomainExpense(m)
	}
	return ds
}

// expenseColumns joins users so read paths carry the owner's username for the
// detail projection without a second query.
const expenseColumns = `e.expense_id, e.user_id, u.username, e.title, e.description, e.amount, e.transaction_type, e.tax, e.tax_type, e.created_at, e.updated_at`

// ownerPredicate scopes a query to one owner. The parameter must be cast
// explicitly: user_id is a uuid column and pgx sends parameters without a
// type OID, so an untyped $1 would be inferred as text and uuid = text has
// no operator. The unscoped case is signalled with NULL rather than an empty
// string because '' is not a valid uuid literal either.
const ownerPredicate = `($1::uuid IS NULL OR e.user_id = $1::uuid)`

// ownerParam converts an owner filter to its SQL parameter: nil disables the
// predicate, anything else scopes to that owner.
func ownerParam(ownerID string) *string {
	if ownerID == "" {
		return nil
	}
	return &ownerID
}

func scanExpense(row pgx.Row) (*models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.UserID,
		&m.OwnerUsername,
		&m.Title,
		&m.Description,
		&m.Amount,
		&m.TransactionType,
		&m.Tax,
		&m.TaxType,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)
	query := `
        INSERT INTO expenses (expense_id, user_id, title, description, amount, transaction_type, tax, tax_type, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.UserID,
		m.Title,
		m.Description,
		m.Amount,
		m.TransactionType,
		m.Tax,
		m.TaxType,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN users u ON u.user_id = e.user_id
		WHERE e.expense_id = $1;
	`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	d := toDomainExpense(*m)
	return &d, nil
}

// FindExpenses returns one page of expense records, newest first with the id
// as a unique tiebreak so pagination stays stable. An empty ownerID returns
// records from every owner.
func (r *PgxExpenseRepository) FindExpenses(ctx context.Context, ownerID string, limit int, offset int) ([]domain.Expense, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + expenseColumns + `
        FROM expenses e
        JOIN users u ON u.user_id = e.user_id
        WHERE ` + ownerPredicate + `
        ORDER BY e.created_at DESC, e.expense_id DESC
        LIMIT $2 OFFSET $3;
    `
	rows, err := r.Pool.Query(ctx, query, ownerParam(ownerID), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	modelExpenses := []models.Expense{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		modelExpenses = append(modelExpenses, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}

	return toDomainExpenseSlice(modelExpenses), nil
}

func (r *PgxExpenseRepository) CountExpenses(ctx context.Context, ownerID string) (int64, error) {
	query := `SELECT COUNT(*) FROM expenses e WHERE ` + ownerPredicate + `;`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, ownerParam(ownerID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// UpdateExpense replaces the mutable fields of a record. The owner is never
// part of the SET clause.
func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)
	query := `
        UPDATE expenses
        SET title = $1, description = $2, amount = $3, transaction_type = $4, tax = $5, tax_type = $6, updated_at = $7
        WHERE expense_id = $8;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Title,
		m.Description,
		m.Amount,
		m.TransactionType,
		m.Tax,
		m.TaxType,
		m.UpdatedAt,
		m.ExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update expense query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	query := `DELETE FROM expenses WHERE expense_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
