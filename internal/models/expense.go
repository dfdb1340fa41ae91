package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is the persistence row for an expense record.
// The derived total amount is intentionally absent; it is computed at
// response-construction time from amount, tax and tax_type.
type Expense struct {
	ExpenseID       string          `db:"expense_id"`
	UserID          string          `db:"user_id"`
	OwnerUsername   string          `db:"username"` // joined from users at read time
	Title           string          `db:"title"`
	Description     string          `db:"description"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType string          `db:"transaction_type"`
	Tax             decimal.Decimal `db:"tax"`
	TaxType         string          `db:"tax_type"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}
