// internal/storage/store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

// Table pairs for the two data partitions. Demo users get seeded copies of
// the Plaid-shaped tables so the query pipeline is identical for both.
const (
	tableTransactions     = "plaid_transactions"
	tableDemoTransactions = "demo_transactions"
	tableAccounts         = "plaid_accounts"
	tableDemoAccounts     = "demo_plaid_accounts"
)

// TransactionFilter narrows a ListTransactions call. Empty slices mean no
// filtering on that dimension.
type TransactionFilter struct {
	Types      []models.TransactionType
	AccountIDs []string
	Categories []string
}

// Store reads and writes transaction data in Postgres.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

func NewStore(db *sql.DB, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

func transactionTable(isDemo bool) string {
	if isDemo {
		return tableDemoTransactions
	}
	return tableTransactions
}

func accountTable(isDemo bool) string {
	if isDemo {
		return tableDemoAccounts
	}
	return tableAccounts
}

// ListTransactions returns the user's transactions within the inclusive
// date range, ordered by date. Filters apply conjunctively.
func (s *Store) ListTransactions(ctx context.Context, userID string, isDemo bool, dr models.DateRange, filter TransactionFilter, ascending bool) ([]models.Transaction, error) {
	var sb strings.Builder
	args := []interface{}{userID, dr.Start, dr.End}

	fmt.Fprintf(&sb,
		`SELECT date, amount, description, account_id, account_name, category, type
		 FROM %s
		 WHERE user_id = $1 AND date >= $2 AND date <= $3`,
		transactionTable(isDemo),
	)

	if len(filter.Types) > 0 {
		typeStrs := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			typeStrs = append(typeStrs, string(t))
		}
		args = append(args, pq.Array(typeStrs))
		fmt.Fprintf(&sb, " AND type = ANY($%d)", len(args))
	}
	if len(filter.AccountIDs) > 0 {
		args = append(args, pq.Array(filter.AccountIDs))
		fmt.Fprintf(&sb, " AND account_id = ANY($%d)", len(args))
	}
	if len(filter.Categories) > 0 {
		args = append(args, pq.Array(filter.Categories))
		fmt.Fprintf(&sb, " AND category = ANY($%d)", len(args))
	}

	if ascending {
		sb.WriteString(" ORDER BY date ASC")
	} else {
		sb.WriteString(" ORDER BY date DESC")
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var accountID, accountName, category sql.NullString
		if err := rows.Scan(&tx.Date, &tx.Amount, &tx.Description, &accountID, &accountName, &category, &tx.Type); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		tx.AccountID = accountID.String
		tx.AccountName = accountName.String
		tx.Category = category.String
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transaction rows iteration failed: %w", err)
	}

	return txs, nil
}

// ListAccounts returns the user's account directory ordered by name.
func (s *Store) ListAccounts(ctx context.Context, userID string, isDemo bool) ([]models.AccountRecord, error) {
	query := fmt.Sprintf(
		`SELECT account_id, name, type, COALESCE(subtype, ''), COALESCE(institution_name, ''), COALESCE(mask, ''), current_balance
		 FROM %s
		 WHERE user_id = $1
		 ORDER BY name ASC`,
		accountTable(isDemo),
	)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.AccountRecord
	for rows.Next() {
		var a models.AccountRecord
		if err := rows.Scan(&a.AccountID, &a.Name, &a.Type, &a.Subtype, &a.InstitutionName, &a.Mask, &a.CurrentBalance); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("account rows iteration failed: %w", err)
	}

	return accounts, nil
}

// InsertDemoTransactions writes ingested statement rows into the demo
// partition inside one transaction. The query pipeline stays read-only;
// this is the only write path.
func (s *Store) InsertDemoTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO demo_transactions (user_id, date, amount, description, account_name, category, type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		if _, err := stmt.ExecContext(ctx, userID, tx.Date, tx.Amount, tx.Description, tx.AccountName, tx.Category, tx.Type); err != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", tx.Description, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit inserts: %w", err)
	}

	s.log.Info("inserted demo transactions", map[string]interface{}{
		"user_id": userID,
		"count":   len(txs),
	})
	return nil
}
