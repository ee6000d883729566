// internal/agent/parse-intent/config.go
package parseintent

import (
	"time"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/common/config"
)

// DefaultLookbackDays is the window applied when a data intent arrives
// without an explicit date range.
const DefaultLookbackDays = 30

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	MaxTokens  int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 1,
		MaxTokens:  1024,
	}
}

// NewConfigFromStage maps the shared stage settings onto this stage.
func NewConfigFromStage(sc config.StageConfig, maxTokens int) *Config {
	cfg := LoadConfig()
	if sc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(sc.Timeout)
	}
	if sc.MaxRetries > 0 {
		cfg.MaxRetries = sc.MaxRetries
	}
	if maxTokens > 0 {
		cfg.MaxTokens = maxTokens
	}
	return cfg
}
