package pattern

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

// minTokenLength is the rune count a word must exceed to become a keyword on its own.
const minTokenLength = 2

// Amount bucket tokens.
const (
	BucketUnder10K   = "under_10k"
	Bucket10KTo50K   = "10k_50k"
	Bucket50KTo100K  = "50k_100k"
	Bucket100KTo500K = "100k_500k"
	Bucket500KTo1M   = "500k_1m"
	BucketOver1M     = "over_1m"
)

var bucketBounds = []struct {
	limit decimal.Decimal
	token string
}{
	{decimal.NewFromInt(10_000), BucketUnder10K},
	{decimal.NewFromInt(50_000), Bucket10KTo50K},
	{decimal.NewFromInt(100_000), Bucket50KTo100K},
	{decimal.NewFromInt(500_000), Bucket100KTo500K},
	{decimal.NewFromInt(1_000_000), Bucket500KTo1M},
}

// AmountBucket maps an amount to its coarse magnitude token.
func AmountBucket(amount decimal.Decimal) string {
	for _, b := range bucketBounds {
		if amount.LessThan(b.limit) {
			return b.token
		}
	}
	return BucketOver1M
}

// ExtractKeywords derives the keyword set of a transaction. The result is
// sorted, free of duplicates and empty strings, and always contains the
// amount bucket token.
func ExtractKeywords(txn model.Transaction) []string {
	seen := make(map[string]struct{})
	add := func(kw string) {
		if kw != "" {
			seen[kw] = struct{}{}
		}
	}

	for _, text := range []string{txn.BeneficiaryName, txn.Remark} {
		phrase := strings.ToLower(strings.TrimSpace(text))
		if phrase == "" {
			continue
		}
		add(phrase)
		for _, word := range strings.Fields(phrase) {
			if utf8.RuneCountInString(word) > minTokenLength {
				add(word)
			}
		}
	}

	add(strings.TrimSpace(txn.BeneficiaryAccount))
	add(AmountBucket(txn.Amount))

	keywords := make([]string, 0, len(seen))
	for kw := range seen {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)
	return keywords
}
