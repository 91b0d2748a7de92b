package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-spice-must-learn/internal/classification"
	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/config"
	"github.com/Veraticus/the-spice-must-learn/internal/engine"
	"github.com/Veraticus/the-spice-must-learn/internal/llm"
	"github.com/Veraticus/the-spice-must-learn/internal/pattern"
	"github.com/Veraticus/the-spice-must-learn/internal/storage"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath(viper.GetViper()))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func currentUserID() (string, error) {
	return config.UserID(viper.GetViper())
}

// app bundles what most commands need: the user's store and a wired engine.
type app struct {
	store   *storage.SQLiteStorage
	matcher *pattern.Matcher
	engine  *engine.Engine
	llm     llm.Client // nil when no API key is configured
	logger  *slog.Logger
	userID  string
}

func newApp(ctx context.Context) (*app, error) {
	userID, err := currentUserID()
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := store.SeedDefaultCategories(ctx, userID); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed default categories: %w", err)
	}

	logger := slog.Default()
	a := &app{
		store:   store,
		matcher: pattern.NewMatcher(store, logger),
		logger:  logger,
		userID:  userID,
	}

	client, cfg, err := newLLMClient(logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var remote engine.RemoteClassifier
	if client != nil {
		a.llm = client
		categories, err := store.GetCategories(ctx, userID)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		remote = llm.NewRemoteClassifier(client, names, cfg, logger)
	}

	a.engine = engine.New(
		store,
		a.matcher,
		pattern.NewLearner(store, store, logger),
		classification.NewDefaultRuleClassifier(),
		remote,
		logger,
	)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}

// newLLMClient returns a rate-limited, retrying client, or nil when no API
// key is configured so commands can still run on patterns and rules alone.
func newLLMClient(logger *slog.Logger) (llm.Client, llm.Config, error) {
	cfg, err := config.LLM(viper.GetViper())
	if errors.Is(err, common.ErrMissingConfig) {
		logger.Warn("language model disabled", "reason", err)
		return nil, cfg, nil
	}
	if err != nil {
		return nil, cfg, err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.NewGuardedClient(client, cfg, logger), cfg, nil
}
