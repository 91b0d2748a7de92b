// Package insight turns a user's categorized spending into savings advice,
// next-month forecasts and conversational answers. Every operation degrades
// to a deterministic fallback when the language model is unavailable.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/llm"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
	"github.com/Veraticus/the-spice-must-learn/internal/service"
)

// Fallback texts returned when the language model cannot answer.
const (
	FallbackAdvice      = "Unable to generate advice right now. Please try again later."
	FallbackChat        = "Sorry, I can't answer right now. Please try again later."
	FallbackExplanation = "Prediction based on the average of previous months."
)

const (
	adviceTemperature  = 0.7
	predictTemperature = 0.5
	chatTemperature    = 0.7

	// DefaultHistoryMonths is how many completed months feed a forecast.
	DefaultHistoryMonths = 3
	recentTransactions   = 5
)

// SpendingSource is the read side of the store the advisor summarizes.
type SpendingSource interface {
	GetCategorySummary(ctx context.Context, userID string, start, end time.Time) ([]model.CategoryTotal, error)
	GetMonthlyTotals(ctx context.Context, userID string, end time.Time, months int) ([]model.MonthlyTotal, error)
	GetTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error)
}

// Forecast is a next-month spending prediction.
type Forecast struct {
	ByCategory  map[string]decimal.Decimal
	Month       string // YYYY-MM being predicted
	Explanation string
	History     []model.MonthlyTotal
	Total       decimal.Decimal
	Fallback    bool // true when computed locally instead of by the model
}

// Advisor answers spending questions with a language model.
type Advisor struct {
	client  llm.Client
	store   SpendingSource
	prompts *promptBuilder
	logger  *slog.Logger
	now     func() time.Time
}

// NewAdvisor creates an advisor. A nil client makes every operation use
// its fallback.
func NewAdvisor(client llm.Client, store SpendingSource, logger *slog.Logger) (*Advisor, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: spending source is required", common.ErrMissingConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	prompts, err := newPromptBuilder()
	if err != nil {
		return nil, err
	}

	return &Advisor{
		client:  client,
		store:   store,
		prompts: prompts,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// SavingsAdvice suggests ways to save based on the spending of the month
// containing month. Only storage failures are returned as errors.
func (a *Advisor) SavingsAdvice(ctx context.Context, userID string, month time.Time) (string, error) {
	start, end := monthBounds(month)
	summary, err := a.store.GetCategorySummary(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to load category summary: %w", err)
	}

	prompt, err := a.prompts.buildAdvice(advicePromptData{
		Total:      sumTotals(summary),
		Categories: summary,
	})
	if err != nil {
		return "", err
	}

	reply, err := a.complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: adviceTemperature,
	})
	if err != nil {
		common.LogError(ctx, a.logger, err, "savings advice failed", common.Fields{"user_id": userID})
		return FallbackAdvice, nil
	}
	return reply, nil
}

// PredictNextMonth forecasts the current month's spending from the given
// number of completed months before it. Months <= 0 selects
// DefaultHistoryMonths. It fails with common.ErrNoTransactions when the
// history holds no spending at all.
func (a *Advisor) PredictNextMonth(ctx context.Context, userID string, months int) (Forecast, error) {
	if months <= 0 {
		months = DefaultHistoryMonths
	}

	current, _ := monthBounds(a.now())
	history, err := a.store.GetMonthlyTotals(ctx, userID, current.AddDate(0, 0, -1), months)
	if err != nil {
		return Forecast{}, fmt.Errorf("failed to load monthly totals: %w", err)
	}
	if !hasSpending(history) {
		return Forecast{}, fmt.Errorf("%w: no spending in the last %d months", common.ErrNoTransactions, months)
	}

	forecast := Forecast{
		Month:   current.Format("2006-01"),
		History: history,
	}

	prompt, err := a.prompts.buildPrediction(predictPromptData{Months: history})
	if err != nil {
		return Forecast{}, err
	}

	reply, err := a.complete(ctx, llm.CompletionRequest{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: predictTemperature,
	})
	if err == nil {
		var parsed *parsedForecast
		parsed, err = parseForecast(reply)
		if err == nil {
			forecast.Total = *parsed.Total
			forecast.ByCategory = parsed.ByCategory
			forecast.Explanation = parsed.Explanation
			return forecast, nil
		}
	}

	common.LogError(ctx, a.logger, err, "spending prediction failed, using monthly average", common.Fields{
		"user_id": userID,
		"months":  months,
	})
	forecast.Total, forecast.ByCategory = averageSpending(history)
	forecast.Explanation = FallbackExplanation
	forecast.Fallback = true
	return forecast, nil
}

// Chat answers a question about the user's spending. History carries the
// earlier turns of the conversation, oldest first.
func (a *Advisor) Chat(ctx context.Context, userID, question string, history []llm.Message) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", common.NewUserError("question cannot be empty", nil)
	}

	start, end := monthBounds(a.now())
	summary, err := a.store.GetCategorySummary(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("failed to load category summary: %w", err)
	}
	txns, err := a.store.GetTransactions(ctx, userID, service.TransactionFilter{Limit: recentTransactions})
	if err != nil {
		return "", fmt.Errorf("failed to load recent transactions: %w", err)
	}

	recent := make([]recentTransaction, 0, len(txns))
	for _, txn := range txns {
		recent = append(recent, recentTransaction{
			Date:        txn.Date,
			Amount:      txn.Amount,
			Category:    txn.Category,
			Description: txn.Description(),
		})
	}

	system, err := a.prompts.buildChat(chatPromptData{
		Total:      sumTotals(summary),
		Categories: summary,
		Recent:     recent,
	})
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		if msg.Role == llm.RoleUser || msg.Role == llm.RoleAssistant {
			messages = append(messages, msg)
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	reply, err := a.complete(ctx, llm.CompletionRequest{
		System:      system,
		Messages:    messages,
		Temperature: chatTemperature,
	})
	if err != nil {
		common.LogError(ctx, a.logger, err, "spending chat failed", common.Fields{"user_id": userID})
		return FallbackChat, nil
	}
	return reply, nil
}

func (a *Advisor) complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if a.client == nil {
		return "", common.ErrRemoteUnavailable
	}
	reply, err := a.client.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", llm.ErrEmptyCompletion
	}
	return reply, nil
}

type parsedForecast struct {
	Total       *decimal.Decimal           `json:"total"`
	ByCategory  map[string]decimal.Decimal `json:"byCategory"`
	Explanation string                     `json:"explanation"`
}

func parseForecast(reply string) (*parsedForecast, error) {
	var parsed parsedForecast
	if err := json.Unmarshal([]byte(llm.StripCodeFence(reply)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrMalformedResponse, err)
	}
	if parsed.Total == nil || parsed.Total.IsNegative() {
		return nil, fmt.Errorf("%w: missing or negative total", common.ErrMalformedResponse)
	}
	for category, amount := range parsed.ByCategory {
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: negative amount for %q", common.ErrMalformedResponse, category)
		}
	}
	if parsed.ByCategory == nil {
		parsed.ByCategory = map[string]decimal.Decimal{}
	}
	if strings.TrimSpace(parsed.Explanation) == "" {
		parsed.Explanation = FallbackExplanation
	}
	return &parsed, nil
}

// averageSpending averages the months that recorded any spending, rounded
// to whole currency units.
func averageSpending(history []model.MonthlyTotal) (decimal.Decimal, map[string]decimal.Decimal) {
	total := decimal.Zero
	sums := make(map[string]decimal.Decimal)
	active := int64(0)
	for _, month := range history {
		if month.Total.IsZero() {
			continue
		}
		active++
		total = total.Add(month.Total)
		for category, amount := range month.ByCategory {
			sums[category] = sums[category].Add(amount)
		}
	}

	byCategory := make(map[string]decimal.Decimal, len(sums))
	if active == 0 {
		return decimal.Zero, byCategory
	}
	n := decimal.NewFromInt(active)
	for category, sum := range sums {
		byCategory[category] = sum.Div(n).Round(0)
	}
	return total.Div(n).Round(0), byCategory
}

func hasSpending(history []model.MonthlyTotal) bool {
	for _, month := range history {
		if month.Total.IsPositive() {
			return true
		}
	}
	return false
}

func sumTotals(summary []model.CategoryTotal) decimal.Decimal {
	total := decimal.Zero
	for _, c := range summary {
		total = total.Add(c.Total)
	}
	return total
}

// monthBounds returns the UTC calendar month [start, end) containing t.
func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
