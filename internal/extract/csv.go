// Package extract interprets tokenized statement lines as transaction
// candidates. Reading bytes off disk and splitting them into lines belongs
// to the caller; this package only decides what each line means.
package extract

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo/internal/common"
	"github.com/centavo-app/centavo/internal/model"
)

// csvDateFormats is the fixed, ordered list of date layouts tried against
// the first column of a CSV row.
var csvDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// FromCSVRows turns CSV statement rows into candidates. The expected shape
// per row is date, signed amount, description; a leading header row is
// detected by the token "date" and skipped. Rows that fail to parse are
// logged and dropped so one bad row never spoils the batch. When nothing
// at all can be extracted, common.ErrNoCandidates is returned.
func FromCSVRows(lines []string) ([]model.StatementTransaction, error) {
	var candidates []model.StatementTransaction
	sawRow := false

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !sawRow && strings.Contains(strings.ToLower(line), "date") {
			// Header row.
			sawRow = true
			continue
		}
		sawRow = true

		candidate, err := parseCSVRow(line)
		if err != nil {
			slog.Warn("Skipping unparseable CSV row",
				"line", i+1,
				"error", err)
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("csv rows: %w", common.ErrNoCandidates)
	}
	return candidates, nil
}

// parseCSVRow interprets a single CSV line. Commas inside quoted fields do
// not split.
func parseCSVRow(line string) (model.StatementTransaction, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.TrimLeadingSpace = true
	fields, err := r.Read()
	if err != nil {
		return model.StatementTransaction{}, fmt.Errorf("split fields: %w", err)
	}
	if len(fields) < 3 {
		return model.StatementTransaction{}, fmt.Errorf("expected at least 3 columns, got %d", len(fields))
	}

	date, err := parseDate(strings.TrimSpace(fields[0]))
	if err != nil {
		return model.StatementTransaction{}, err
	}

	amount, err := parseAmount(strings.TrimSpace(fields[1]))
	if err != nil {
		return model.StatementTransaction{}, err
	}

	description := strings.TrimSpace(fields[2])
	if description == "" {
		return model.StatementTransaction{}, fmt.Errorf("empty description")
	}

	txType := model.TypeSpending
	if amount.IsPositive() {
		txType = model.TypeIncome
	}

	return model.StatementTransaction{
		Date:        date,
		Amount:      amount.Abs(),
		Description: description,
		Type:        txType,
	}, nil
}

// parseDate tries each supported layout in order.
func parseDate(s string) (time.Time, error) {
	for _, layout := range csvDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount parses a signed money string, tolerating currency symbols,
// thousands separators and the (1,234.56) negative convention.
func parseAmount(s string) (decimal.Decimal, error) {
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unrecognized amount %q: %w", s, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
