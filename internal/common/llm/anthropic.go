// internal/common/llm/anthropic.go
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/config"
	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/metrics"
)

// AnthropicClient calls the Anthropic messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropic builds a client from config. The SDK reads
// ANTHROPIC_API_KEY itself when the key option is omitted.
func NewAnthropic(cfg config.AnthropicConfig) *AnthropicClient {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.GetDuration(cfg.Timeout)))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(cfg.Model),
	}
}

// Complete runs one user-turn completion and concatenates the text blocks
// of the reply. A Prefill becomes the opening of the assistant turn and is
// prepended to the returned text so callers see the full completion.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	msgs := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
	}
	if req.Prefill != "" {
		msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(req.Prefill)))
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(req.MaxTokens),
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	start := time.Now()
	message, err := c.client.Messages.New(ctx, params)
	metrics.LLMCallDuration.WithLabelValues(req.Purpose).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("anthropic completion failed: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(req.Prefill)
	for _, block := range message.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
