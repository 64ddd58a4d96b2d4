package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// Regex patterns for scanning statement text lines.
var (
	// Dates: "01/15/2024", "1/5/24", "2024-01-15" or "Jan 15, 2024".
	statementDatePattern = regexp.MustCompile(
		`\b(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{2}-\d{2}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]* \d{1,2},? \d{4})\b`)

	// Money amounts: "-$1,234.56", "(45.00)", "12.99".
	statementAmountPattern = regexp.MustCompile(`-?\(?\$?\d{1,3}(?:,\d{3})*\.\d{2}\)?`)

	// Pure page-number lines: "3", "Page 2", "Page 2 of 10".
	pageNumberPattern = regexp.MustCompile(`(?i)^\s*(page\s+)?\d+(\s+of\s+\d+)?\s*$`)

	// Long runs of digits and punctuation with no letters at all.
	digitRunPattern = regexp.MustCompile(`^[\d\s.,\-/:*#]+$`)
)

// statementDateFormats mirrors the shapes statementDatePattern can match.
var statementDateFormats = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006-01-02",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
}

// Keyword heuristics for classifying lines and inferring amount signs.
var (
	headerKeywords = []string{"date", "description", "amount", "balance", "debit", "credit", "transaction"}
	footerKeywords = []string{"page", "continued", "statement period", "member fdic", "customer service", "total"}

	spendingKeywords = []string{"debit", "withdrawal", "payment", "purchase", "fee"}
	incomeKeywords   = []string{"credit", "deposit", "income", "refund", "interest paid"}
)

const (
	minStatementLineLen = 10
	minDescriptionLen   = 3
)

// FromStatementLines scans text lines extracted from a PDF statement and
// returns the ones that look like transactions. Header, footer and
// page-number furniture is filtered out; unparseable lines are logged and
// skipped. When the whole document yields nothing, common.ErrNoCandidates
// is returned so the caller can surface the failure.
func FromStatementLines(lines []string) ([]model.StatementTransaction, error) {
	var candidates []model.StatementTransaction

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if len(line) < minStatementLineLen || isFurniture(line) {
			continue
		}

		candidate, ok, err := parseStatementLine(line)
		if err != nil {
			slog.Warn("Skipping unparseable statement line",
				"line", i+1,
				"error", err)
			continue
		}
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("statement lines: %w", common.ErrNoCandidates)
	}
	return candidates, nil
}

// isFurniture reports whether a line is statement chrome rather than a
// transaction: column headers, footers, page numbers, or digit runs.
func isFurniture(line string) bool {
	lower := strings.ToLower(line)

	headerHits := 0
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			headerHits++
		}
	}
	if headerHits >= 2 {
		return true
	}

	if len(line) < 40 {
		for _, kw := range footerKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}

	if pageNumberPattern.MatchString(line) {
		return true
	}
	if len(line) >= 20 && digitRunPattern.MatchString(line) {
		return true
	}
	return false
}

// parseStatementLine pulls a date, an amount and a residual description out
// of one line. ok is false when the line simply is not a transaction.
func parseStatementLine(line string) (model.StatementTransaction, bool, error) {
	dateMatch := statementDatePattern.FindString(line)
	if dateMatch == "" {
		return model.StatementTransaction{}, false, nil
	}

	// The amount must not be the date itself; strip the date first.
	rest := strings.Replace(line, dateMatch, "", 1)
	amountMatch := statementAmountPattern.FindString(rest)
	if amountMatch == "" {
		return model.StatementTransaction{}, false, nil
	}

	date, err := parseStatementDate(dateMatch)
	if err != nil {
		return model.StatementTransaction{}, false, err
	}
	amount, err := parseAmount(amountMatch)
	if err != nil {
		return model.StatementTransaction{}, false, err
	}

	description := strings.Replace(rest, amountMatch, "", 1)
	description = strings.Trim(description, " \t-–—:*")
	description = strings.Join(strings.Fields(description), " ")
	if len(description) < minDescriptionLen {
		return model.StatementTransaction{}, false, nil
	}

	txType := inferType(amount.Sign(), strings.ToLower(line))
	return model.StatementTransaction{
		Date:        date,
		Amount:      amount.Abs(),
		Description: description,
		Type:        txType,
	}, true, nil
}

func parseStatementDate(s string) (t time.Time, err error) {
	s = strings.ReplaceAll(s, ",", ", ")
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range statementDateFormats {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// inferType maps an explicit sign, or failing that the line's contextual
// keywords, onto a transaction type. Unsigned lines with no keyword at all
// default to spending, the common case on bank statements.
func inferType(sign int, lowerLine string) model.TransactionType {
	if sign < 0 {
		return model.TypeSpending
	}
	for _, kw := range spendingKeywords {
		if strings.Contains(lowerLine, kw) {
			return model.TypeSpending
		}
	}
	for _, kw := range incomeKeywords {
		if strings.Contains(lowerLine, kw) {
			return model.TypeIncome
		}
	}
	return model.TypeSpending
}
