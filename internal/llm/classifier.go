package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

const (
	defaultClassifyTimeout     = 15 * time.Second
	defaultClassifyTemperature = 0.3
	classifyMaxTokens          = 20
)

// RemoteClassifier asks a language model to pick a category for
// transactions that neither learned patterns nor rules could place.
type RemoteClassifier struct {
	client     Client
	cache      *resultCache
	logger     *slog.Logger
	categories []string
	timeout    time.Duration
	fallback   string
}

// NewRemoteClassifier creates a classifier choosing among categories.
// An empty list selects the default category names.
func NewRemoteClassifier(client Client, categories []string, cfg Config, logger *slog.Logger) *RemoteClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	if len(categories) == 0 {
		categories = model.DefaultCategoryNames()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}

	return &RemoteClassifier{
		client:     client,
		cache:      newResultCache(cfg.CacheTTL),
		logger:     logger,
		categories: categories,
		timeout:    timeout,
		fallback:   model.CategoryTransfer,
	}
}

// Classify returns one of the configured categories. It never fails: an
// unreachable model, a timeout or an unrecognized answer all yield Transfer,
// the usual meaning of an otherwise unexplained bank movement.
func (c *RemoteClassifier) Classify(ctx context.Context, beneficiaryName, remark string, amount decimal.Decimal) string {
	if c.client == nil {
		c.logger.Debug("no language model configured", "beneficiary", beneficiaryName)
		return c.fallback
	}

	key := cacheKey(beneficiaryName, remark, amount)
	if category, ok := c.cache.get(key); ok {
		c.logger.Debug("cache hit for remote classification", "beneficiary", beneficiaryName)
		return category
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.client.Complete(ctx, CompletionRequest{
		Messages:    []Message{{Role: RoleUser, Content: c.buildPrompt(beneficiaryName, remark, amount)}},
		Temperature: defaultClassifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		common.LogError(ctx, c.logger, err, "remote classification failed", common.Fields{
			"beneficiary": beneficiaryName,
		})
		return c.fallback
	}

	category, ok := ParseCategory(reply, c.categories)
	if !ok {
		c.logger.Warn("remote classifier returned unknown category",
			"beneficiary", beneficiaryName,
			"reply", reply)
		return c.fallback
	}

	c.cache.set(key, category)
	c.logger.Info("transaction classified remotely",
		"beneficiary", beneficiaryName,
		"category", category)

	return category
}

func (c *RemoteClassifier) buildPrompt(beneficiaryName, remark string, amount decimal.Decimal) string {
	beneficiary := strings.TrimSpace(beneficiaryName)
	if beneficiary == "" {
		beneficiary = "Unknown"
	}
	note := strings.TrimSpace(remark)
	if note == "" {
		note = "None"
	}

	var b strings.Builder
	b.WriteString("You are an expert at categorizing personal spending. ")
	b.WriteString("Classify the transaction below into exactly ONE of these categories:\n")
	for _, cat := range c.categories {
		fmt.Fprintf(&b, "- %s\n", cat)
	}
	b.WriteString("\nTransaction:\n")
	fmt.Fprintf(&b, "- Beneficiary: %s\n", beneficiary)
	fmt.Fprintf(&b, "- Remark: %s\n", note)
	fmt.Fprintf(&b, "- Amount: %s\n", model.FormatAmount(amount))
	b.WriteString("\nReply with the category name only. Do not explain.")
	return b.String()
}

// ParseCategory finds the category named in a free-text model reply. An
// exact (case-insensitive) answer wins; otherwise the longest category name
// appearing in the reply as whole words is chosen, so "Bills & Utilities"
// beats "Bills" and "another" does not mean "Other".
func ParseCategory(reply string, categories []string) (string, bool) {
	answer := strings.ToLower(strings.Trim(strings.TrimSpace(reply), "\"'`.*"))
	if answer == "" {
		return "", false
	}

	for _, cat := range categories {
		if strings.ToLower(cat) == answer {
			return cat, true
		}
	}

	byLength := append([]string(nil), categories...)
	sort.SliceStable(byLength, func(i, j int) bool { return len(byLength[i]) > len(byLength[j]) })

	text := strings.ToLower(reply)
	for _, cat := range byLength {
		if containsWords(text, strings.ToLower(cat)) {
			return cat, true
		}
	}

	return "", false
}

// containsWords reports whether phrase occurs in text with no letter or
// digit directly before or after it.
func containsWords(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsNumber(r))
}

func cacheKey(beneficiaryName, remark string, amount decimal.Decimal) string {
	return strings.ToLower(strings.TrimSpace(beneficiaryName)) + "\x00" +
		strings.ToLower(strings.TrimSpace(remark)) + "\x00" +
		amount.String()
}
