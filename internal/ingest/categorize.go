// internal/ingest/categorize.go
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

var ErrCategorizationFailed = errors.New("CATEGORIZATION_FAILED")

// CategorizedTransaction is a statement row with its assigned category
// and classification.
type CategorizedTransaction struct {
	RawTransaction
	Category string
	Type     models.TransactionType
}

const categorizeSystemPrompt = `You classify bank statement rows for a personal finance app.

For each numbered transaction assign:
- category: a short spending or income category such as Groceries, Dining Out, Rent, Utilities, Transportation, Entertainment, Salary, Transfer
- type: exactly one of Income, Mandatory, Discretionary. Positive amounts that look like pay or deposits are Income. Essential bills are Mandatory. Everything else is Discretionary.

Respond with a single JSON array and nothing else:
[{"index": 0, "category": "...", "type": "..."}]

Include every index exactly once.`

var categorySchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type":     "object",
		"required": []string{"index", "category", "type"},
		"properties": map[string]interface{}{
			"index":    map[string]interface{}{"type": "integer", "minimum": 0},
			"category": map[string]interface{}{"type": "string"},
			"type": map[string]interface{}{
				"type": "string",
				"enum": []string{"Income", "Mandatory", "Discretionary"},
			},
		},
	},
}

// Categorizer assigns categories to statement rows via the model,
// batching rows to bound prompt size.
type Categorizer struct {
	client    llm.Client
	batchSize int
	logger    logger.Logger
}

func NewCategorizer(client llm.Client, batchSize int, log logger.Logger) *Categorizer {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Categorizer{
		client:    client,
		batchSize: batchSize,
		logger: log.WithFields(map[string]interface{}{
			"component": "ingest-categorizer",
		}),
	}
}

// Categorize labels every row. Rows the model skips fall back to
// Uncategorized Discretionary rather than failing the import.
func (c *Categorizer) Categorize(ctx context.Context, rows []RawTransaction) ([]CategorizedTransaction, error) {
	out := make([]CategorizedTransaction, 0, len(rows))

	for start := 0; start < len(rows); start += c.batchSize {
		end := start + c.batchSize
		if end > len(rows) {
			end = len(rows)
		}

		batch, err := c.categorizeBatch(ctx, rows[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}

	return out, nil
}

func (c *Categorizer) categorizeBatch(ctx context.Context, rows []RawTransaction) ([]CategorizedTransaction, error) {
	completion, err := c.client.Complete(ctx, llm.CompletionRequest{
		System:    categorizeSystemPrompt,
		Prompt:    buildCategorizePrompt(rows),
		Prefill:   "[",
		MaxTokens: 4096,
		Purpose:   "categorization",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCategorizationFailed, err)
	}

	cleaned := llm.CleanJSON(completion)

	validation, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(categorySchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: schema validation error: %v", ErrCategorizationFailed, err)
	}
	if !validation.Valid() {
		return nil, fmt.Errorf("%w: model reply violates contract: %v", ErrCategorizationFailed, validation.Errors())
	}

	var assignments []struct {
		Index    int    `json:"index"`
		Category string `json:"category"`
		Type     string `json:"type"`
	}
	if err := json.Unmarshal([]byte(cleaned), &assignments); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrCategorizationFailed, err)
	}

	byIndex := make(map[int]struct {
		category string
		txType   models.TransactionType
	}, len(assignments))
	for _, a := range assignments {
		if a.Index < 0 || a.Index >= len(rows) {
			continue
		}
		byIndex[a.Index] = struct {
			category string
			txType   models.TransactionType
		}{a.Category, models.TransactionType(a.Type)}
	}

	out := make([]CategorizedTransaction, 0, len(rows))
	missed := 0
	for i, row := range rows {
		ct := CategorizedTransaction{
			RawTransaction: row,
			Category:       "Uncategorized",
			Type:           models.TypeDiscretionary,
		}
		if a, ok := byIndex[i]; ok {
			ct.Category = a.category
			ct.Type = a.txType
		} else {
			missed++
		}
		out = append(out, ct)
	}

	if missed > 0 {
		c.logger.Warn("model skipped rows during categorization", map[string]interface{}{
			"missed": missed,
			"batch":  len(rows),
		})
	}

	return out, nil
}

func buildCategorizePrompt(rows []RawTransaction) string {
	var sb strings.Builder
	sb.WriteString("Transactions:\n")
	for i, row := range rows {
		fmt.Fprintf(&sb, "%d. %s | %s | %s\n", i, row.Date, row.Description, row.Amount.StringFixed(2))
	}
	return sb.String()
}
