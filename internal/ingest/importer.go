// internal/ingest/importer.go
package ingest

import (
	"context"
	"fmt"
	"io"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

// ImportedAccountName labels statement rows in the demo partition, which
// has no linked institution to attribute them to.
const ImportedAccountName = "Imported Statement"

// DemoWriter is the storage write path for ingested rows.
type DemoWriter interface {
	InsertDemoTransactions(ctx context.Context, userID string, txs []models.Transaction) error
}

// CacheInvalidator drops cached account summaries after an import.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// ImportSummary reports what an import did.
type ImportSummary struct {
	RowsParsed   int `json:"rowsParsed"`
	RowsSkipped  int `json:"rowsSkipped"`
	RowsImported int `json:"rowsImported"`
}

// Importer runs the statement ingestion path: parse, categorize, insert
// into the demo partition.
type Importer struct {
	writer      DemoWriter
	categorizer *Categorizer
	cache       CacheInvalidator
	logger      logger.Logger
}

// NewImporter builds the importer. cache may be nil.
func NewImporter(writer DemoWriter, categorizer *Categorizer, cache CacheInvalidator, log logger.Logger) *Importer {
	return &Importer{
		writer:      writer,
		categorizer: categorizer,
		cache:       cache,
		logger: log.WithFields(map[string]interface{}{
			"component": "ingest-importer",
		}),
	}
}

// Import ingests one CSV statement for a demo user.
func (imp *Importer) Import(ctx context.Context, userID string, r io.Reader) (*ImportSummary, error) {
	parsed, err := ParseStatement(r)
	if err != nil {
		return nil, fmt.Errorf("statement parse failed: %w", err)
	}

	categorized, err := imp.categorizer.Categorize(ctx, parsed.Transactions)
	if err != nil {
		return nil, fmt.Errorf("statement categorization failed: %w", err)
	}

	txs := make([]models.Transaction, 0, len(categorized))
	for _, row := range categorized {
		txs = append(txs, models.Transaction{
			Date:        row.Date,
			Amount:      row.Amount,
			Description: row.Description,
			AccountName: ImportedAccountName,
			Category:    row.Category,
			Type:        row.Type,
		})
	}

	if err := imp.writer.InsertDemoTransactions(ctx, userID, txs); err != nil {
		return nil, fmt.Errorf("statement insert failed: %w", err)
	}

	if imp.cache != nil {
		imp.cache.Invalidate(ctx, userID)
	}

	imp.logger.Info("statement imported", map[string]interface{}{
		"user_id":  userID,
		"imported": len(txs),
		"skipped":  parsed.RowsSkipped,
	})

	return &ImportSummary{
		RowsParsed:   len(parsed.Transactions),
		RowsSkipped:  parsed.RowsSkipped,
		RowsImported: len(txs),
	}, nil
}
