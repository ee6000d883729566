// internal/agent/orchestrator/readiness.go
package orchestrator

import (
	"context"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

// ReadinessLookbackDays is the window probed when checking whether a user
// has enough data for the assistant to be useful.
const ReadinessLookbackDays = 90

// ValidateUserData reports whether the user has linked accounts and
// recent transactions. Any retrieval error yields an all-zero readiness
// rather than an error; callers treat that the same as "no data yet".
func (o *Orchestrator) ValidateUserData(ctx context.Context, userID string, isDemo bool) *models.DataReadiness {
	log := o.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"is_demo": isDemo,
	})

	summary, err := o.queries.GetAccountSummary(ctx, userID, isDemo)
	if err != nil {
		log.WithError(err).Warn("readiness check could not list accounts", nil)
		return &models.DataReadiness{}
	}

	dr := models.LastNDays(o.now(), ReadinessLookbackDays)

	income, err := o.queries.GetIncome(ctx, userID, isDemo, dr, nil)
	if err != nil {
		log.WithError(err).Warn("readiness check could not read income", nil)
		return &models.DataReadiness{}
	}

	expenses, err := o.queries.GetExpenses(ctx, userID, isDemo, dr, nil)
	if err != nil {
		log.WithError(err).Warn("readiness check could not read expenses", nil)
		return &models.DataReadiness{}
	}

	txCount := len(income.Transactions)
	for _, bucket := range expenses.CategorizedExpenses {
		txCount += len(bucket.Transactions)
	}

	return &models.DataReadiness{
		HasAccounts:      len(summary.Accounts) > 0,
		HasTransactions:  txCount > 0,
		AccountCount:     len(summary.Accounts),
		TransactionCount: txCount,
	}
}
