// internal/common/llm/client.go
package llm

import "context"

// CompletionRequest is a single-turn completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Prefill     string // optional assistant prefill, included in the returned text
	MaxTokens   int
	Temperature float64
	Purpose     string // metrics label: intent_parsing, response_generation, categorization
}

// Client is the minimal model interface the pipeline depends on. Tests
// substitute fakes; production wires the Anthropic implementation.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
