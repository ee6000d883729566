package generateresponse

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

type fakeClient struct {
	replies []string
	errs    []error
	calls   int
	lastReq llm.CompletionRequest
}

func (f *fakeClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.lastReq = req
	idx := f.calls
	f.calls++
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	return f.replies[idx], err
}

func incomeAnalysis() *models.IntentAnalysis {
	return &models.IntentAnalysis{
		Intent:     models.IntentGetIncome,
		Confidence: 0.9,
		Reasoning:  "income question",
	}
}

func newTestHandler(t *testing.T, client llm.Client) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), client, logger.NewTestLogger(t))
}

func TestGenerateReturnsAnswer(t *testing.T) {
	client := &fakeClient{replies: []string{"You earned $3,000.00 last month."}}

	answer := newTestHandler(t, client).Generate(context.Background(), "how much did I earn?", incomeAnalysis(), nil, "")

	assert.Equal(t, "You earned $3,000.00 last month.", answer)
}

func TestGenerateEmbedsRetrievedData(t *testing.T) {
	client := &fakeClient{replies: []string{"ok"}}
	result := &models.IncomeResult{TotalIncome: decimal.RequireFromString("3000")}

	newTestHandler(t, client).Generate(context.Background(), "how much did I earn?", incomeAnalysis(), result, "I'm saving for a house")

	assert.Contains(t, client.lastReq.Prompt, "how much did I earn?")
	assert.Contains(t, client.lastReq.Prompt, `"totalIncome": "3000"`)
	assert.Contains(t, client.lastReq.Prompt, "I'm saving for a house")
	assert.Contains(t, client.lastReq.Prompt, "get_income")
	assert.Equal(t, "response_generation", client.lastReq.Purpose)
}

func TestGenerateMentionsMissingData(t *testing.T) {
	client := &fakeClient{replies: []string{"ok"}}

	newTestHandler(t, client).Generate(context.Background(), "hello!", incomeAnalysis(), nil, "")

	assert.Contains(t, client.lastReq.Prompt, "No financial data was retrieved")
}

func TestGenerateStripsMarkdownEmphasis(t *testing.T) {
	client := &fakeClient{replies: []string{"  You spent **$50.00** on __groceries__.  "}}

	answer := newTestHandler(t, client).Generate(context.Background(), "groceries?", incomeAnalysis(), nil, "")

	assert.Equal(t, "You spent $50.00 on groceries.", answer)
}

func TestGenerateApologizesOnFailure(t *testing.T) {
	client := &fakeClient{replies: []string{"", ""}, errs: []error{assert.AnError, assert.AnError}}

	answer := newTestHandler(t, client).Generate(context.Background(), "income?", incomeAnalysis(), nil, "")

	assert.Equal(t, GenerationApology, answer)
	// One initial attempt plus one retry.
	assert.Equal(t, 2, client.calls)
}

func TestGenerateApologizesOnEmptyAnswer(t *testing.T) {
	client := &fakeClient{replies: []string{"   "}}

	answer := newTestHandler(t, client).Generate(context.Background(), "income?", incomeAnalysis(), nil, "")

	assert.Equal(t, GenerationApology, answer)
}

func TestGenerateTimeoutNotRetried(t *testing.T) {
	client := &fakeClient{replies: []string{""}, errs: []error{context.DeadlineExceeded}}

	answer := newTestHandler(t, client).Generate(context.Background(), "income?", incomeAnalysis(), nil, "")

	assert.Equal(t, GenerationApology, answer)
	assert.Equal(t, 1, client.calls)
}

func TestGenerateRetriesTransientError(t *testing.T) {
	client := &fakeClient{
		replies: []string{"", "All good: you earned $100.00."},
		errs:    []error{assert.AnError, nil},
	}

	answer := newTestHandler(t, client).Generate(context.Background(), "income?", incomeAnalysis(), nil, "")

	require.Equal(t, 2, client.calls)
	assert.Equal(t, "All good: you earned $100.00.", answer)
}
