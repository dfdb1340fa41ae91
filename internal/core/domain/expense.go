package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trackmint/expense_tracker_app/internal/apperrors"
)

// TransactionType indicates whether an expense record is a debit or a credit.
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// TaxType determines how the tax field contributes to the total amount.
type TaxType string

const (
	// TaxFlat adds tax as an absolute amount on top of the base amount.
	TaxFlat TaxType = "flat"
	// TaxPercentage adds tax as a proportion of the base amount.
	TaxPercentage TaxType = "percentage"
)

var hundred = decimal.NewFromInt(100)

// Expense represents a single income/expense record owned by one user.
// The owner never changes after creation.
type Expense struct {
	ExpenseID       string          `json:"expenseID"` // Primary Key (UUID)
	UserID          string          `json:"userID"`    // Owner, immutable
	OwnerUsername   string          `json:"-"`         // Resolved at read time, not stored on the row
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transactionType"`
	Tax             decimal.Decimal `json:"tax"`
	TaxType         TaxType         `json:"taxType"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TotalAmount derives the record total from amount, tax and tax type,
// rounded to 2 fractional digits. It is computed at response time and
// never stored, so it cannot go stale.
//
// flat:       total = amount + tax
// percentage: total = amount + (amount * tax / 100)
func (e Expense) TotalAmount() decimal.Decimal {
	if e.TaxType == TaxPercentage {
		return e.Amount.Add(e.Amount.Mul(e.Tax).Div(hundred)).Round(2)
	}
	return e.Amount.Add(e.Tax).Round(2)
}

// Validate checks the field-level invariants of an expense record.
func (e Expense) Validate() error {
	fields := map[string]string{}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		fields["amount"] = "Amount must be positive."
	}
	if e.Tax.IsNegative() {
		fields["tax"] = "Tax cannot be negative."
	}
	if e.TransactionType != Debit && e.TransactionType != Credit {
		fields["transaction_type"] = "Transaction type must be debit or credit."
	}
	if e.TaxType != TaxFlat && e.TaxType != TaxPercentage {
		fields["tax_type"] = "Tax type must be flat or percentage."
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}
