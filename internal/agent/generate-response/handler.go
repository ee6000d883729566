// internal/agent/generate-response/handler.go
package generateresponse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/llm"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/logger"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/metrics"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

const (
	StageName = "generate-response"

	// GenerationApology is returned whenever the model call fails. The
	// data retrieval already succeeded at this point, so the user is asked
	// to simply retry.
	GenerationApology = "I encountered an error while analyzing your financial data. Please try asking your question again."
)

var (
	ErrResponseGenerationFailed = errors.New("RESPONSE_GENERATION_FAILED")
	ErrResponseAPITimeout       = errors.New("RESPONSE_API_TIMEOUT")
)

type Handler struct {
	config *Config
	client llm.Client
	logger logger.Logger
}

func NewHandler(config *Config, client llm.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{
			"stage": StageName,
		}),
	}
}

// Generate produces the grounded natural-language answer. It never
// returns an error: failures degrade to a fixed apology so the pipeline
// always ends with something to show the user.
func (h *Handler) Generate(ctx context.Context, userQuery string, analysis *models.IntentAnalysis, result models.QueryResult, userContext string) string {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	answer, err := h.execute(ctx, userQuery, analysis, result, userContext)
	if err != nil {
		errorCode := "RESPONSE_GENERATION_FAILED"
		if errors.Is(err, ErrResponseAPITimeout) {
			errorCode = "RESPONSE_API_TIMEOUT"
		}
		metrics.AgentStageFailures.WithLabelValues(StageName, errorCode).Inc()
		h.logger.WithError(err).Error("response generation failed, returning apology", map[string]interface{}{
			"errorCode": errorCode,
			"intent":    analysis.Intent,
		})
		return GenerationApology
	}

	return answer
}

func (h *Handler) execute(ctx context.Context, userQuery string, analysis *models.IntentAnalysis, result models.QueryResult, userContext string) (string, error) {
	req := llm.CompletionRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(userQuery, analysis, result, userContext),
		MaxTokens:   h.config.MaxTokens,
		Temperature: 0.7,
		Purpose:     "response_generation",
	}

	var completion string
	var lastErr error

	for attempt := 0; attempt <= h.config.MaxRetries; attempt++ {

		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrResponseAPITimeout
			}
		}

		completion, lastErr = h.client.Complete(ctx, req)

		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {

			return "", ErrResponseAPITimeout
		}

		if lastErr == nil {
			break
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: %v", ErrResponseGenerationFailed, lastErr)
	}

	answer := strings.TrimSpace(stripMarkdownEmphasis(completion))
	if answer == "" {
		return "", fmt.Errorf("%w: model returned an empty answer", ErrResponseGenerationFailed)
	}

	return answer, nil
}
