package pattern

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

func TestAmountBucket(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", BucketUnder10K},
		{"9999.99", BucketUnder10K},
		{"10000", Bucket10KTo50K},
		{"49999", Bucket10KTo50K},
		{"50000", Bucket50KTo100K},
		{"99999", Bucket50KTo100K},
		{"100000", Bucket100KTo500K},
		{"499999", Bucket100KTo500K},
		{"500000", Bucket500KTo1M},
		{"999999.99", Bucket500KTo1M},
		{"1000000", BucketOver1M},
		{"25000000", BucketOver1M},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountBucket(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		txn  model.Transaction
		want []string
	}{
		{
			name: "beneficiary and remark tokens",
			txn: model.Transaction{
				BeneficiaryName: "  Highlands Coffee ",
				Remark:          "Ca phe sua",
				Amount:          decimal.NewFromInt(45000),
			},
			want: []string{
				"10k_50k",
				"ca phe sua",
				"coffee",
				"highlands",
				"highlands coffee",
				"phe",
				"sua",
			},
		},
		{
			name: "short words only survive inside the phrase",
			txn: model.Transaction{
				BeneficiaryName: "Nguyen Van A",
				Remark:          "tra da",
				Amount:          decimal.NewFromInt(5000),
			},
			want: []string{"nguyen", "nguyen van a", "tra", "tra da", "under_10k", "van"},
		},
		{
			name: "account kept verbatim",
			txn: model.Transaction{
				BeneficiaryName:    "EVN HCMC",
				BeneficiaryAccount: " VCB-0011AbC ",
				Amount:             decimal.NewFromInt(750000),
			},
			want: []string{"500k_1m", "VCB-0011AbC", "evn", "evn hcmc", "hcmc"},
		},
		{
			name: "empty transaction still has its bucket",
			txn:  model.Transaction{},
			want: []string{"under_10k"},
		},
		{
			name: "duplicates collapse",
			txn: model.Transaction{
				BeneficiaryName: "grab",
				Remark:          "GRAB",
				Amount:          decimal.NewFromInt(2_000_000),
			},
			want: []string{"grab", "over_1m"},
		},
		{
			name: "rune length counts, not bytes",
			txn: model.Transaction{
				Remark: "Trà đá",
				Amount: decimal.NewFromInt(8000),
			},
			want: []string{"trà", "trà đá", "under_10k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.txn))
		})
	}
}

func TestExtractKeywords_Idempotent(t *testing.T) {
	txn := model.Transaction{
		BeneficiaryName:    "Circle K Store 123",
		BeneficiaryAccount: "ACC-1",
		Remark:             "mua nuoc suoi",
		Amount:             decimal.NewFromInt(18000),
	}

	first := ExtractKeywords(txn)
	second := ExtractKeywords(txn)
	assert.Equal(t, first, second)
	assert.NotContains(t, first, "")
	assert.Contains(t, first, Bucket10KTo50K)
}
