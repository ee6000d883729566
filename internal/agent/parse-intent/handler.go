// internal/agent/parse-intent/handler.go
package parseintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/metrics"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

const (
	StageName = "parse-intent"
)

var (
	ErrIntentParsingFailed = errors.New("INTENT_PARSING_FAILED")
	ErrIntentAPITimeout    = errors.New("INTENT_API_TIMEOUT")
)

type Handler struct {
	config *Config
	client llm.Client
	logger logger.Logger
	now    func() time.Time
}

func NewHandler(config *Config, client llm.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{
			"stage": StageName,
		}),
		now: time.Now,
	}
}

// ParseIntent classifies a user query. It never returns an error: any
// failure degrades to a general_chat analysis with confidence 0 so the
// caller can still produce a conversational answer.
func (h *Handler) ParseIntent(ctx context.Context, userQuery string) *models.IntentAnalysis {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	analysis, err := h.execute(ctx, userQuery)
	if err != nil {
		errorCode := "INTENT_PARSING_FAILED"
		if errors.Is(err, ErrIntentAPITimeout) {
			errorCode = "INTENT_API_TIMEOUT"
		}
		metrics.AgentStageFailures.WithLabelValues(StageName, errorCode).Inc()
		h.logger.WithError(err).Warn("intent parsing failed, falling back to general chat", map[string]interface{}{
			"errorCode": errorCode,
		})

		return &models.IntentAnalysis{
			Intent:     models.IntentGeneralChat,
			Parameters: models.IntentParameters{},
			Confidence: 0,
			Reasoning:  "Could not determine intent from query, defaulting to general conversation",
		}
	}

	return analysis
}

func (h *Handler) execute(ctx context.Context, userQuery string) (*models.IntentAnalysis, error) {
	req := llm.CompletionRequest{
		System:    buildSystemPrompt(h.now()),
		Prompt:    userQuery,
		Prefill:   "{",
		MaxTokens: h.config.MaxTokens,
		Purpose:   "intent_parsing",
	}

	var completion string
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {

		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrIntentAPITimeout
			}
		}

		completion, lastErr = h.client.Complete(ctx, req)

		// If the context expired during the call, stop retrying and report
		// a timeout immediately.
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {

			return nil, ErrIntentAPITimeout
		}

		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntentParsingFailed, lastErr)
	}

	analysis, err := h.decodeAnalysis(completion)
	if err != nil {
		return nil, err
	}

	h.applyDefaultDateRange(analysis)

	h.logger.Info("intent parsed", map[string]interface{}{
		"intent":     analysis.Intent,
		"confidence": analysis.Confidence,
	})

	return analysis, nil
}

// decodeAnalysis cleans, validates, and decodes the model's JSON reply.
func (h *Handler) decodeAnalysis(completion string) (*models.IntentAnalysis, error) {
	cleaned := llm.CleanJSON(completion)

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(intentSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: schema validation error: %v", ErrIntentParsingFailed, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: model reply violates contract: %v", ErrIntentParsingFailed, result.Errors())
	}

	var analysis models.IntentAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrIntentParsingFailed, err)
	}

	return &analysis, nil
}

// applyDefaultDateRange fills the last 30 days for data intents that
// arrived without an explicit window.
func (h *Handler) applyDefaultDateRange(analysis *models.IntentAnalysis) {
	if !analysis.Intent.NeedsDateRange() || analysis.Parameters.DateRange != nil {
		return
	}
	dr := models.LastNDays(h.now(), DefaultLookbackDays)
	analysis.Parameters.DateRange = &dr
}
