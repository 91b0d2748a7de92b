// Package ofx reads bank and credit card statements in OFX/QFX format and
// turns their entries into uncategorized transactions.
package ofx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// An opening tag alone on its line with its closing bracket missing.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var bankPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
	"THANH TOAN ",
	"CHUYEN KHOAN ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
	"TRANSFER":        true,
	"IBFT":            true,
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new OFX parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its transactions in file
// order. Debits and credits both become non-negative amounts; credits are
// pre-labelled Income and everything else is left for the categorizer.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		transactions = append(transactions, p.convertAll(ctx, stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID))...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		transactions = append(transactions, p.convertAll(ctx, stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID))...)
	}

	p.logger.InfoContext(ctx, "parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertAll(ctx context.Context, entries []ofxgo.Transaction, accountID string) []model.Transaction {
	transactions := make([]model.Transaction, 0, len(entries))
	for _, entry := range entries {
		txn, err := p.convertTransaction(entry)
		if err != nil {
			p.logger.WarnContext(ctx, "skipping OFX transaction",
				"account", accountID,
				"fitid", string(entry.FiTID),
				"error", err)
			continue
		}
		transactions = append(transactions, txn)
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model.
func (p *Parser) convertTransaction(entry ofxgo.Transaction) (model.Transaction, error) {
	// OFX uses negative amounts for debits.
	amount, err := decimal.NewFromString(entry.TrnAmt.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	if entry.DtPosted.IsZero() {
		return model.Transaction{}, errors.New("missing posting date")
	}

	name, usedMemo := p.extractBeneficiaryName(entry)
	txn := model.Transaction{
		Date:               entry.DtPosted.Time,
		Amount:             amount.Abs(),
		BeneficiaryName:    name,
		BeneficiaryAccount: counterpartyAccount(entry),
	}
	if !usedMemo {
		txn.Remark = strings.TrimSpace(string(entry.Memo))
	}
	if amount.IsPositive() {
		txn.Category = model.CategoryIncome
	}

	return txn, nil
}

// extractBeneficiaryName picks the cleanest counterparty name. The second
// result reports whether MEMO was consumed as the name.
func (p *Parser) extractBeneficiaryName(entry ofxgo.Transaction) (string, bool) {
	if entry.Payee != nil && strings.TrimSpace(string(entry.Payee.Name)) != "" {
		return strings.TrimSpace(string(entry.Payee.Name)), false
	}

	name := strings.TrimSpace(string(entry.Name))
	usedMemo := false
	if entry.Memo != "" && (name == "" || genericNames[strings.ToUpper(name)]) {
		name = strings.TrimSpace(string(entry.Memo))
		usedMemo = true
	}

	upper := strings.ToUpper(name)
	for _, prefix := range bankPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}

	// Card networks often lead with the MM/DD of the purchase.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name, usedMemo
}

func counterpartyAccount(entry ofxgo.Transaction) string {
	switch {
	case entry.BankAcctTo != nil:
		return strings.TrimSpace(string(entry.BankAcctTo.AcctID))
	case entry.CCAcctTo != nil:
		return strings.TrimSpace(string(entry.CCAcctTo.AcctID))
	default:
		return ""
	}
}

// GetAccounts extracts the sorted unique statement account IDs from the OFX file.
func (p *Parser) GetAccounts(ctx context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
