// Package model defines the core data structures for the spice application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single financial transaction produced by an upstream ingestion source.
type Transaction struct {
	Date               time.Time
	Amount             decimal.Decimal // Non-negative, in whole currency units
	ID                 string
	UserID             string
	Hash               string
	BeneficiaryName    string // Empty when the source did not provide one
	BeneficiaryAccount string
	Remark             string
	Category           string
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		t.UserID,
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		strings.TrimSpace(t.BeneficiaryName),
		strings.TrimSpace(t.BeneficiaryAccount),
		strings.TrimSpace(t.Remark))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Description joins the free-text fields used for rule matching and prompts.
func (t *Transaction) Description() string {
	return strings.TrimSpace(t.BeneficiaryName + " " + t.Remark)
}
