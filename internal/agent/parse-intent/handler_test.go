package parseintent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

// fakeClient scripts one reply per call; the last entry repeats.
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

func newTestHandler(t *testing.T, client llm.Client) *Handler {
	t.Helper()
	h := NewHandler(LoadConfig(), client, logger.NewTestLogger(t))
	h.now = func() time.Time {
		return time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	}
	return h
}

func TestParseIntentValidReply(t *testing.T) {
	client := &fakeClient{replies: []string{
		`{"intent": "get_expenses", "parameters": {"dateRange": {"start": "2025-01-01", "end": "2025-01-31"}, "categories": ["Groceries"]}, "confidence": 0.92, "reasoning": "spending question"}`,
	}}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "how much did I spend on groceries in January?")

	assert.Equal(t, models.IntentGetExpenses, analysis.Intent)
	assert.Equal(t, 0.92, analysis.Confidence)
	assert.Equal(t, []string{"Groceries"}, analysis.Parameters.Categories)
	require.NotNil(t, analysis.Parameters.DateRange)
	assert.Equal(t, "2025-01-01", analysis.Parameters.DateRange.Start.String())
	assert.Equal(t, "2025-01-31", analysis.Parameters.DateRange.End.String())
}

func TestParseIntentDefaultDateRange(t *testing.T) {
	client := &fakeClient{replies: []string{
		`{"intent": "get_income", "parameters": {}, "confidence": 0.9, "reasoning": "income question"}`,
	}}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "how much did I earn?")

	assert.Equal(t, models.IntentGetIncome, analysis.Intent)
	require.NotNil(t, analysis.Parameters.DateRange)
	assert.Equal(t, "2025-01-02", analysis.Parameters.DateRange.Start.String())
	assert.Equal(t, "2025-02-01", analysis.Parameters.DateRange.End.String())
}

func TestParseIntentNoDefaultRangeForAccountSummary(t *testing.T) {
	client := &fakeClient{replies: []string{
		`{"intent": "get_account_summary", "parameters": {}, "confidence": 0.95, "reasoning": "balance question"}`,
	}}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "what are my balances?")

	assert.Equal(t, models.IntentGetAccountSummary, analysis.Intent)
	assert.Nil(t, analysis.Parameters.DateRange)
}

func TestParseIntentCleansCodeFences(t *testing.T) {
	client := &fakeClient{replies: []string{
		"```json\n{\"intent\": \"get_cashflow\", \"parameters\": {\"periodType\": \"monthly\"}, \"confidence\": 0.8, \"reasoning\": \"cashflow\"}\n```",
	}}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "am I saving money?")

	assert.Equal(t, models.IntentGetCashflow, analysis.Intent)
	assert.Equal(t, models.PeriodMonthly, analysis.Parameters.PeriodType)
}

func TestParseIntentFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"unknown intent", `{"intent": "get_stocks", "parameters": {}, "confidence": 0.9, "reasoning": "x"}`},
		{"confidence above bounds", `{"intent": "get_income", "parameters": {}, "confidence": 1.5, "reasoning": "x"}`},
		{"confidence below bounds", `{"intent": "get_income", "parameters": {}, "confidence": -0.1, "reasoning": "x"}`},
		{"malformed date", `{"intent": "get_income", "parameters": {"dateRange": {"start": "Jan 1", "end": "2025-01-31"}}, "confidence": 0.9, "reasoning": "x"}`},
		{"not json at all", `I think the user wants income data.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{replies: []string{tt.reply}}
			analysis := newTestHandler(t, client).ParseIntent(context.Background(), "anything")

			assert.Equal(t, models.IntentGeneralChat, analysis.Intent)
			assert.Equal(t, float64(0), analysis.Confidence)
			assert.NotEmpty(t, analysis.Reasoning)
		})
	}
}

func TestParseIntentClientErrorFallsBack(t *testing.T) {
	client := &fakeClient{replies: []string{""}, errs: []error{assert.AnError}}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "hello")

	assert.Equal(t, models.IntentGeneralChat, analysis.Intent)
	assert.Equal(t, float64(0), analysis.Confidence)
}

func TestParseIntentRetriesTransientError(t *testing.T) {
	client := &fakeClient{
		replies: []string{"", `{"intent": "get_income", "parameters": {}, "confidence": 0.9, "reasoning": "x"}`},
		errs:    []error{assert.AnError, nil},
	}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "income?")

	assert.Equal(t, models.IntentGetIncome, analysis.Intent)
	assert.Equal(t, 2, client.calls)
}

func TestParseIntentTimeoutNotRetried(t *testing.T) {
	client := &fakeClient{replies: []string{""}, errs: []error{context.DeadlineExceeded}}

	analysis := newTestHandler(t, client).ParseIntent(context.Background(), "income?")

	assert.Equal(t, models.IntentGeneralChat, analysis.Intent)
	assert.Equal(t, 1, client.calls)
}

func TestParseIntentIdempotent(t *testing.T) {
	reply := `{"intent": "get_spending_trends", "parameters": {}, "confidence": 0.85, "reasoning": "trends"}`
	client := &fakeClient{replies: []string{reply}}
	h := newTestHandler(t, client)

	first := h.ParseIntent(context.Background(), "where does my money go?")
	second := h.ParseIntent(context.Background(), "where does my money go?")

	assert.Equal(t, first, second)
}

func TestParseIntentUsesPrefill(t *testing.T) {
	client := &fakeClient{replies: []string{
		`{"intent": "general_chat", "parameters": {}, "confidence": 0.6, "reasoning": "greeting"}`,
	}}

	newTestHandler(t, client).ParseIntent(context.Background(), "hi there")

	assert.Equal(t, "{", client.lastReq.Prefill)
	assert.Contains(t, client.lastReq.System, "2025-02-01")
}
