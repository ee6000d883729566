package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

type fakeClient struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (f *fakeClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.prompts = append(f.prompts, req.Prompt)
	idx := f.calls
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	return f.replies[idx], nil
}

type fakeWriter struct {
	userID string
	txs    []models.Transaction
	err    error
}

func (f *fakeWriter) InsertDemoTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	f.userID = userID
	f.txs = txs
	return f.err
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, userID string) {
	f.invalidated = append(f.invalidated, userID)
}

const sampleStatement = `Date,Description,Amount
2025-01-05,ACME PAYROLL,2500.00
2025-01-10,SUPERMARKET,-52.40
`

func TestImportHappyPath(t *testing.T) {
	client := &fakeClient{replies: []string{
		`[{"index": 0, "category": "Salary", "type": "Income"}, {"index": 1, "category": "Groceries", "type": "Discretionary"}]`,
	}}
	writer := &fakeWriter{}
	invalidator := &fakeInvalidator{}
	imp := NewImporter(writer, NewCategorizer(client, 50, logger.NewTestLogger(t)), invalidator, logger.NewTestLogger(t))

	summary, err := imp.Import(context.Background(), "user-1", strings.NewReader(sampleStatement))

	require.NoError(t, err)
	assert.Equal(t, 2, summary.RowsParsed)
	assert.Equal(t, 2, summary.RowsImported)
	assert.Zero(t, summary.RowsSkipped)

	require.Len(t, writer.txs, 2)
	assert.Equal(t, "user-1", writer.userID)
	assert.Equal(t, "Salary", writer.txs[0].Category)
	assert.Equal(t, models.TypeIncome, writer.txs[0].Type)
	assert.Equal(t, "Groceries", writer.txs[1].Category)
	assert.Equal(t, ImportedAccountName, writer.txs[0].AccountName)

	assert.Equal(t, []string{"user-1"}, invalidator.invalidated)
}

func TestImportUnparseableStatement(t *testing.T) {
	imp := NewImporter(&fakeWriter{}, NewCategorizer(&fakeClient{}, 50, logger.NewTestLogger(t)), nil, logger.NewTestLogger(t))

	_, err := imp.Import(context.Background(), "user-1", strings.NewReader("garbage"))

	assert.ErrorIs(t, err, ErrNoUsableRows)
}

func TestImportCategorizationFailure(t *testing.T) {
	client := &fakeClient{err: assert.AnError}
	imp := NewImporter(&fakeWriter{}, NewCategorizer(client, 50, logger.NewTestLogger(t)), nil, logger.NewTestLogger(t))

	_, err := imp.Import(context.Background(), "user-1", strings.NewReader(sampleStatement))

	assert.ErrorIs(t, err, ErrCategorizationFailed)
}

func TestImportInsertFailure(t *testing.T) {
	client := &fakeClient{replies: []string{
		`[{"index": 0, "category": "Salary", "type": "Income"}, {"index": 1, "category": "Groceries", "type": "Discretionary"}]`,
	}}
	invalidator := &fakeInvalidator{}
	imp := NewImporter(&fakeWriter{err: assert.AnError}, NewCategorizer(client, 50, logger.NewTestLogger(t)), invalidator, logger.NewTestLogger(t))

	_, err := imp.Import(context.Background(), "user-1", strings.NewReader(sampleStatement))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement insert failed")
	assert.Empty(t, invalidator.invalidated)
}

func TestCategorizeFallsBackOnSkippedRows(t *testing.T) {
	client := &fakeClient{replies: []string{
		`[{"index": 0, "category": "Salary", "type": "Income"}]`,
	}}
	c := NewCategorizer(client, 50, logger.NewTestLogger(t))

	rows := []RawTransaction{
		{Description: "ACME PAYROLL"},
		{Description: "SUPERMARKET"},
	}
	out, err := c.Categorize(context.Background(), rows)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Salary", out[0].Category)
	assert.Equal(t, "Uncategorized", out[1].Category)
	assert.Equal(t, models.TypeDiscretionary, out[1].Type)
}

func TestCategorizeBatches(t *testing.T) {
	client := &fakeClient{replies: []string{
		`[{"index": 0, "category": "Groceries", "type": "Discretionary"}, {"index": 1, "category": "Groceries", "type": "Discretionary"}]`,
		`[{"index": 0, "category": "Rent", "type": "Mandatory"}]`,
	}}
	c := NewCategorizer(client, 2, logger.NewTestLogger(t))

	rows := []RawTransaction{
		{Description: "STORE A"},
		{Description: "STORE B"},
		{Description: "LANDLORD"},
	}
	out, err := c.Categorize(context.Background(), rows)

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "Rent", out[2].Category)
	assert.Contains(t, client.prompts[1], "LANDLORD")
}

func TestCategorizeRejectsContractViolations(t *testing.T) {
	client := &fakeClient{replies: []string{
		`[{"index": 0, "category": "Salary", "type": "Deferred"}]`,
	}}
	c := NewCategorizer(client, 50, logger.NewTestLogger(t))

	_, err := c.Categorize(context.Background(), []RawTransaction{{Description: "PAYROLL"}})

	assert.ErrorIs(t, err, ErrCategorizationFailed)
}
