// internal/models/intent.go
package models

// Intent is the classified purpose of a user query. Wire format is
// snake_case to match the model contract.
type Intent string

const (
	IntentGetIncome         Intent = "get_income"
	IntentGetExpenses       Intent = "get_expenses"
	IntentGetCashflow       Intent = "get_cashflow"
	IntentGetAccountSummary Intent = "get_account_summary"
	IntentGetSpendingTrends Intent = "get_spending_trends"
	IntentGeneralChat       Intent = "general_chat"
)

// AllIntents lists every recognized intent in wire order.
func AllIntents() []Intent {
	return []Intent{
		IntentGetIncome,
		IntentGetExpenses,
		IntentGetCashflow,
		IntentGetAccountSummary,
		IntentGetSpendingTrends,
		IntentGeneralChat,
	}
}

// Valid reports whether i is one of the recognized intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentGetIncome, IntentGetExpenses, IntentGetCashflow,
		IntentGetAccountSummary, IntentGetSpendingTrends, IntentGeneralChat:
		return true
	}
	return false
}

// NeedsDateRange reports whether the intent operates over a time window.
// Account summaries are point-in-time and general chat retrieves nothing.
func (i Intent) NeedsDateRange() bool {
	switch i {
	case IntentGetIncome, IntentGetExpenses, IntentGetCashflow, IntentGetSpendingTrends:
		return true
	}
	return false
}

func (i Intent) String() string { return string(i) }

// PeriodType selects the cashflow bucketing granularity.
type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
	PeriodWeekly  PeriodType = "weekly"
)

// IntentParameters carries the extracted arguments for a data intent.
// All fields are optional; absent date ranges are defaulted downstream.
type IntentParameters struct {
	DateRange  *DateRange `json:"dateRange,omitempty"`
	AccountIDs []string   `json:"accountIds,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	PeriodType PeriodType `json:"periodType,omitempty"`
}

// IntentAnalysis is the parser's verdict on a user query.
type IntentAnalysis struct {
	Intent     Intent           `json:"intent"`
	Parameters IntentParameters `json:"parameters"`
	Confidence float64          `json:"confidence"`
	Reasoning  string           `json:"reasoning"`
}
