// internal/agent/route-function/router.go
package routefunction

import (
	"context"
	"fmt"
	"time"

	parseintent "github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/agent/parse-intent"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

const (
	StageName = "route-function"
)

// QueryService is the retrieval surface the router dispatches to.
type QueryService interface {
	GetIncome(ctx context.Context, userID string, isDemo bool, dr models.DateRange, accountIDs []string) (*models.IncomeResult, error)
	GetExpenses(ctx context.Context, userID string, isDemo bool, dr models.DateRange, categories []string) (*models.ExpenseResult, error)
	GetCashflow(ctx context.Context, userID string, isDemo bool, dr models.DateRange, period models.PeriodType) (*models.CashflowResult, error)
	GetAccountSummary(ctx context.Context, userID string, isDemo bool) (*models.AccountSummaryResult, error)
	GetSpendingTrends(ctx context.Context, userID string, isDemo bool, dr models.DateRange) (*models.SpendingTrendsResult, error)
}

// Router maps a classified intent onto the matching query function.
type Router struct {
	queries QueryService
	logger  logger.Logger
}

func NewRouter(queries QueryService, log logger.Logger) *Router {
	return &Router{
		queries: queries,
		logger: log.WithFields(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Route executes the query function for the analysis' intent. A nil result
// with a nil error means no retrieval applies (general chat or an intent
// this build does not recognize). Retrieval errors are wrapped and
// returned, never swallowed.
func (r *Router) Route(ctx context.Context, analysis *models.IntentAnalysis, userID string, isDemo bool) (models.QueryResult, error) {
	var result models.QueryResult
	var err error

	switch analysis.Intent {
	case models.IntentGetIncome:
		result, err = r.queries.GetIncome(ctx, userID, isDemo, r.dateRange(analysis), analysis.Parameters.AccountIDs)
	case models.IntentGetExpenses:
		result, err = r.queries.GetExpenses(ctx, userID, isDemo, r.dateRange(analysis), analysis.Parameters.Categories)
	case models.IntentGetCashflow:
		result, err = r.queries.GetCashflow(ctx, userID, isDemo, r.dateRange(analysis), analysis.Parameters.PeriodType)
	case models.IntentGetAccountSummary:
		result, err = r.queries.GetAccountSummary(ctx, userID, isDemo)
	case models.IntentGetSpendingTrends:
		result, err = r.queries.GetSpendingTrends(ctx, userID, isDemo, r.dateRange(analysis))
	default:
		r.logger.Debug("no query function for intent", map[string]interface{}{
			"intent": analysis.Intent,
		})
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", analysis.Intent, err)
	}
	return result, nil
}

// dateRange returns the analysis' window, falling back to the standard
// lookback when a caller hands in an analysis that skipped defaulting.
func (r *Router) dateRange(analysis *models.IntentAnalysis) models.DateRange {
	if analysis.Parameters.DateRange != nil {
		return *analysis.Parameters.DateRange
	}
	return models.LastNDays(time.Now(), parseintent.DefaultLookbackDays)
}
