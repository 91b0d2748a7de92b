package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// NewClient creates a raw LLM client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return newOpenAIClient(cfg)
	case ProviderGroq:
		return newGroqClient(cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedProvider, cfg.Provider)
	}
}
