// internal/models/transaction.go
package models

import "github.com/shopspring/decimal"

// TransactionType classifies a transaction row.
type TransactionType string

const (
	TypeIncome        TransactionType = "Income"
	TypeMandatory     TransactionType = "Mandatory"
	TypeDiscretionary TransactionType = "Discretionary"
)

// IsExpense reports whether the type counts toward spending.
func (t TransactionType) IsExpense() bool {
	return t == TypeMandatory || t == TypeDiscretionary
}

// ExpenseTypes lists the two spending classifications.
func ExpenseTypes() []TransactionType {
	return []TransactionType{TypeMandatory, TypeDiscretionary}
}

// Transaction is a single ledger row. Amounts keep the sign convention of
// the source data; expense aggregations normalize to magnitudes.
type Transaction struct {
	Date        Date            `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	AccountID   string          `json:"accountId,omitempty"`
	AccountName string          `json:"accountName"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
}

// AccountRecord is linked or demo account metadata.
type AccountRecord struct {
	AccountID       string          `json:"accountId"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	Subtype         string          `json:"subtype,omitempty"`
	InstitutionName string          `json:"institutionName,omitempty"`
	Mask            string          `json:"mask,omitempty"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
}
