package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/llm"
)

// Defaults applied when the corresponding llm.* key is unset.
const (
	DefaultProvider   = llm.ProviderGroq
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
	DefaultCacheTTL   = 24 * time.Hour
	DefaultRateLimit  = 30 // requests per minute
	DefaultTimeout    = 15 * time.Second
)

var apiKeyEnv = map[string]string{
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderGroq:      "GROQ_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// DatabasePath returns the expanded database.path setting.
func DatabasePath(v *viper.Viper) string {
	path := strings.TrimSpace(v.GetString("database.path"))
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// UserID returns the user whose data commands operate on.
func UserID(v *viper.Viper) (string, error) {
	id := strings.TrimSpace(v.GetString("user.id"))
	if id == "" {
		return "", fmt.Errorf("%w: user.id (set --user or SPICE_USER_ID)", common.ErrMissingConfig)
	}
	return id, nil
}

// LLM builds the language model configuration from the llm.* keys. The API
// key comes from llm.api_key, then llm.<provider>_api_key, then the
// provider's environment variable. A missing key yields common.ErrMissingConfig.
func LLM(v *viper.Viper) (llm.Config, error) {
	return llmConfig(v, os.Getenv)
}

func llmConfig(v *viper.Viper, getenv func(string) string) (llm.Config, error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	if provider == "" {
		provider = DefaultProvider
	}
	envKey, ok := apiKeyEnv[provider]
	if !ok {
		return llm.Config{}, fmt.Errorf("%w: %s", common.ErrUnsupportedProvider, provider)
	}

	cfg := llm.Config{
		Provider:    provider,
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
		MaxRetries:  v.GetInt("llm.max_retries"),
		RetryDelay:  v.GetDuration("llm.retry_delay"),
		CacheTTL:    v.GetDuration("llm.cache_ttl"),
		RateLimit:   v.GetInt("llm.rate_limit"),
		Timeout:     v.GetDuration("llm.timeout"),
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return llm.Config{}, fmt.Errorf("%w: llm.temperature %v out of range [0, 2]", common.ErrInvalidConfig, cfg.Temperature)
	}
	if cfg.MaxTokens < 0 || cfg.MaxRetries < 0 || cfg.RateLimit < 0 {
		return llm.Config{}, fmt.Errorf("%w: llm limits must not be negative", common.ErrInvalidConfig)
	}

	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	for _, key := range []string{
		v.GetString("llm.api_key"),
		v.GetString("llm." + provider + "_api_key"),
		getenv(envKey),
	} {
		if key = strings.TrimSpace(key); key != "" {
			cfg.APIKey = key
			break
		}
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("%w: %s API key not found in config or %s", common.ErrMissingConfig, provider, envKey)
	}

	return cfg, nil
}
