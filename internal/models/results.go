// internal/models/results.go
package models

import "github.com/shopspring/decimal"

// QueryResult is the sealed union of retrieval outcomes. Only the result
// types in this package implement it, so a switch over variants is
// exhaustive by construction.
type QueryResult interface {
	isQueryResult()
}

// IncomeResult holds income transactions newest-first with their exact sum.
type IncomeResult struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	Transactions []Transaction   `json:"transactions"`
}

// CategoryExpenses groups the spending within one category.
type CategoryExpenses struct {
	Total        decimal.Decimal `json:"total"`
	Transactions []Transaction   `json:"transactions"`
}

// ExpenseResult holds spending grouped by category. All amounts are
// magnitudes regardless of the sign convention in the source rows.
type ExpenseResult struct {
	TotalExpenses       decimal.Decimal              `json:"totalExpenses"`
	CategorizedExpenses map[string]*CategoryExpenses `json:"categorizedExpenses"`
}

// PeriodCashflow is one time bucket of the cashflow breakdown.
type PeriodCashflow struct {
	Period      string          `json:"period"`
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	NetCashflow decimal.Decimal `json:"netCashflow"`
}

// CashflowResult is income versus spending over a window, bucketed by
// month or week and sorted ascending by period key.
type CashflowResult struct {
	NetCashflow     decimal.Decimal  `json:"netCashflow"`
	TotalIncome     decimal.Decimal  `json:"totalIncome"`
	TotalExpenses   decimal.Decimal  `json:"totalExpenses"`
	PeriodBreakdown []PeriodCashflow `json:"periodBreakdown"`
}

// AccountSummaryResult is the user's account directory.
type AccountSummaryResult struct {
	Accounts []AccountRecord `json:"accounts"`
}

// CategoryTrend ranks one category's spending.
type CategoryTrend struct {
	Category          string          `json:"category"`
	Total             decimal.Decimal `json:"total"`
	TransactionCount  int             `json:"transactionCount"`
	AvgPerTransaction decimal.Decimal `json:"avgPerTransaction"`
}

// SpendingTrendsResult ranks categories by total spend, descending.
type SpendingTrendsResult struct {
	TopSpendingCategories []CategoryTrend `json:"topSpendingCategories"`
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	CategoryCount         int             `json:"categoryCount"`
}

func (*IncomeResult) isQueryResult()         {}
func (*ExpenseResult) isQueryResult()        {}
func (*CashflowResult) isQueryResult()       {}
func (*AccountSummaryResult) isQueryResult() {}
func (*SpendingTrendsResult) isQueryResult() {}

// RAGResponse is the end-to-end answer returned to callers. Data is nil
// when no retrieval ran or retrieval failed.
type RAGResponse struct {
	Answer        string      `json:"answer"`
	Data          QueryResult `json:"data"`
	FunctionsUsed []string    `json:"functionsUsed"`
	Confidence    float64     `json:"confidence"`
}

// DataReadiness reports whether a user has enough linked data for the
// assistant to be useful.
type DataReadiness struct {
	HasAccounts      bool `json:"hasAccounts"`
	HasTransactions  bool `json:"hasTransactions"`
	AccountCount     int  `json:"accountCount"`
	TransactionCount int  `json:"transactionCount"`
}
