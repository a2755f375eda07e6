// Package ofx converts OFX/QFX bank statements into expense and income
// records for bulk import.
package ofx

import (
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/model"
)

// Entry is one statement line, normalized to a positive amount plus a
// direction.
type Entry struct {
	FITID       string
	StatementID string
	Date        model.Date
	Amount      decimal.Decimal
	Description string
	IsDebit     bool
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocess fixes common formatting issues in OFX files.
func (p *Parser) preprocess(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Parse reads an OFX/QFX file and returns its statement entries.
func (p *Parser) Parse(reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(tx, string(stmt.BankAcctFrom.AcctID)))
			}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			for _, tx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(tx, string(stmt.CCAcctFrom.AcctID)))
			}
		}
	}

	slog.Info("parsed OFX file", "entries", len(entries))
	return entries, nil
}

// convert normalizes one OFX transaction: debits (negative amounts) become
// positive expense entries, credits become income entries.
func (p *Parser) convert(tx ofxgo.Transaction, statementID string) Entry {
	amount := decimal.NewFromBigInt(tx.TrnAmt.Num(), 0).
		Div(decimal.NewFromBigInt(tx.TrnAmt.Denom(), 0))

	entry := Entry{
		FITID:       string(tx.FiTID),
		StatementID: statementID,
		Date:        model.DateOf(tx.DtPosted.Time),
		Amount:      amount.Abs(),
		Description: cleanDescription(tx),
		IsDebit:     amount.IsNegative(),
	}
	return entry
}

// EntryID derives the deterministic record id for a statement entry, so
// re-importing the same file merges instead of duplicating.
func EntryID(e Entry) string {
	sum := sha256.Sum256([]byte(e.StatementID + ":" + e.FITID))
	return fmt.Sprintf("ofx-%x", sum[:12])
}

// ToRecords converts entries to expense and income records ready for bulk
// import. Debits map to expenses under expenseCategoryID; credits map to
// incomes under incomeCategoryID. Both sides optionally link accountID.
func ToRecords(entries []Entry, expenseCategoryID, incomeCategoryID, accountID string, importedAt int64) ([]model.Expense, []model.Income) {
	var expenses []model.Expense
	var incomes []model.Income

	for _, e := range entries {
		if e.Amount.IsZero() {
			continue
		}
		if e.IsDebit {
			expenses = append(expenses, model.Expense{
				ID:         EntryID(e),
				Amount:     e.Amount,
				CategoryID: expenseCategoryID,
				AccountID:  accountID,
				Date:       e.Date,
				Note:       e.Description,
				CreatedAt:  importedAt,
				UpdatedAt:  importedAt,
			})
		} else {
			incomes = append(incomes, model.Income{
				ID:         EntryID(e),
				Amount:     e.Amount,
				CategoryID: incomeCategoryID,
				AccountID:  accountID,
				Date:       e.Date,
				Note:       e.Description,
				CreatedAt:  importedAt,
				UpdatedAt:  importedAt,
			})
		}
	}
	return expenses, incomes
}

// cleanDescription extracts a readable description from OFX fields.
func cleanDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date fragments some banks prepend
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PURCHASE",
		"PAYMENT",
		"POS TRANSACTION",
		"CARD PURCHASE",
	}

	upperName := strings.ToUpper(name)
	for _, g := range generic {
		if upperName == g {
			return true
		}
	}
	return false
}
