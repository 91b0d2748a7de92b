package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

// GuardedClient wraps a Client with a shared rate limit and retries.
type GuardedClient struct {
	client      Client
	rateLimiter *rateLimiter
	logger      *slog.Logger
	retryOpts   service.RetryOptions
}

// NewGuardedClient wraps client using the limits in cfg.
func NewGuardedClient(client Client, cfg Config, logger *slog.Logger) *GuardedClient {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	return &GuardedClient{
		client:      client,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		logger:      logger,
		retryOpts:   retryOpts,
	}
}

// Complete waits for rate-limit capacity and calls the wrapped client,
// retrying transient failures.
func (g *GuardedClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var reply string

	err := common.WithRetry(ctx, func() error {
		if err := g.rateLimiter.wait(ctx); err != nil {
			return common.Permanent(err)
		}

		text, err := g.client.Complete(ctx, req)
		if err != nil {
			g.logger.Warn("LLM completion attempt failed", "error", err)
			return err
		}

		reply = text
		return nil
	}, g.retryOpts)
	if err != nil {
		return "", err
	}

	return reply, nil
}
