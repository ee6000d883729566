// internal/agent/query-transactions/service.go
package querytransactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/storage"
)

// UncategorizedLabel groups expense rows whose category is empty.
const UncategorizedLabel = "Uncategorized"

var (
	ErrIncomeQueryFailed         = errors.New("INCOME_QUERY_FAILED")
	ErrExpenseQueryFailed        = errors.New("EXPENSE_QUERY_FAILED")
	ErrCashflowQueryFailed       = errors.New("CASHFLOW_QUERY_FAILED")
	ErrAccountQueryFailed        = errors.New("ACCOUNT_QUERY_FAILED")
	ErrSpendingTrendsQueryFailed = errors.New("SPENDING_TRENDS_QUERY_FAILED")
)

// TransactionReader is the storage surface the query functions read from.
type TransactionReader interface {
	ListTransactions(ctx context.Context, userID string, isDemo bool, dr models.DateRange, filter storage.TransactionFilter, ascending bool) ([]models.Transaction, error)
	ListAccounts(ctx context.Context, userID string, isDemo bool) ([]models.AccountRecord, error)
}

// AccountCache is the optional read-through cache for account summaries.
type AccountCache interface {
	Get(ctx context.Context, userID string, isDemo bool) ([]models.AccountRecord, bool)
	Set(ctx context.Context, userID string, isDemo bool, accounts []models.AccountRecord)
}

// Service implements the read-only retrieval functions the router
// dispatches to. Empty result sets are successful zero values; errors only
// surface when the date range is invalid or storage fails.
type Service struct {
	store  TransactionReader
	cache  AccountCache
	logger logger.Logger
}

// NewService builds the query service. cache may be nil, in which case
// account summaries always hit storage.
func NewService(store TransactionReader, cache AccountCache, log logger.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{
			"component": "query-transactions",
		}),
	}
}

// GetIncome returns income transactions in the window, newest first, with
// their exact decimal sum.
func (s *Service) GetIncome(ctx context.Context, userID string, isDemo bool, dr models.DateRange, accountIDs []string) (*models.IncomeResult, error) {
	if err := dr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncomeQueryFailed, err)
	}

	txs, err := s.store.ListTransactions(ctx, userID, isDemo, dr, storage.TransactionFilter{
		Types:      []models.TransactionType{models.TypeIncome},
		AccountIDs: accountIDs,
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve income data: %v", ErrIncomeQueryFailed, err)
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}

	return &models.IncomeResult{
		TotalIncome:  total,
		Transactions: txs,
	}, nil
}

// GetExpenses returns spending grouped by category. Amounts are
// normalized to magnitudes so the sign convention of the source rows
// never leaks into results.
func (s *Service) GetExpenses(ctx context.Context, userID string, isDemo bool, dr models.DateRange, categories []string) (*models.ExpenseResult, error) {
	if err := dr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpenseQueryFailed, err)
	}

	txs, err := s.store.ListTransactions(ctx, userID, isDemo, dr, storage.TransactionFilter{
		Types:      models.ExpenseTypes(),
		Categories: categories,
	}, false)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve expense data: %v", ErrExpenseQueryFailed, err)
	}

	total := decimal.Zero
	grouped := make(map[string]*models.CategoryExpenses)
	for _, tx := range txs {
		amount := tx.Amount.Abs()
		total = total.Add(amount)

		category := tx.Category
		if category == "" {
			category = UncategorizedLabel
		}

		bucket, ok := grouped[category]
		if !ok {
			bucket = &models.CategoryExpenses{Total: decimal.Zero}
			grouped[category] = bucket
		}
		bucket.Total = bucket.Total.Add(amount)

		normalized := tx
		normalized.Amount = amount
		bucket.Transactions = append(bucket.Transactions, normalized)
	}

	return &models.ExpenseResult{
		TotalExpenses:       total,
		CategorizedExpenses: grouped,
	}, nil
}

// GetAccountSummary returns the account directory, served from the cache
// when a fresh entry exists.
func (s *Service) GetAccountSummary(ctx context.Context, userID string, isDemo bool) (*models.AccountSummaryResult, error) {
	if s.cache != nil {
		if accounts, ok := s.cache.Get(ctx, userID, isDemo); ok {
			return &models.AccountSummaryResult{Accounts: accounts}, nil
		}
	}

	accounts, err := s.store.ListAccounts(ctx, userID, isDemo)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to retrieve account data: %v", ErrAccountQueryFailed, err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, isDemo, accounts)
	}

	return &models.AccountSummaryResult{Accounts: accounts}, nil
}
