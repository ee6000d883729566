// internal/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GRDINESH821/WalletGyde-AI-Budget-Builder/internal/models"
)

var ErrNoUsableRows = errors.New("NO_USABLE_ROWS")

// RawTransaction is a statement row before categorization.
type RawTransaction struct {
	Date        models.Date
	Description string
	Amount      decimal.Decimal
}

// ParseResult reports what a statement parse produced.
type ParseResult struct {
	Transactions []RawTransaction
	RowsSkipped  int
}

// Bank exports disagree on header names; these alias sets cover the
// common variants, matched case-insensitively.
var (
	dateHeaders        = []string{"date", "transaction date", "posted date", "post date"}
	descriptionHeaders = []string{"description", "merchant", "name", "memo", "details"}
	amountHeaders      = []string{"amount", "transaction amount"}
	creditHeaders      = []string{"credit", "deposit"}
	debitHeaders       = []string{"debit", "withdrawal"}
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
}

// ParseStatement reads a CSV bank statement with flexible headers. Rows
// with an unparseable date or amount are skipped, not fatal; the parse
// only fails when no usable rows remain.
func ParseStatement(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrNoUsableRows
	}

	dateIdx := findColumn(header, dateHeaders)
	descIdx := findColumn(header, descriptionHeaders)
	amountIdx := findColumn(header, amountHeaders)
	creditIdx := findColumn(header, creditHeaders)
	debitIdx := findColumn(header, debitHeaders)

	if dateIdx < 0 || (amountIdx < 0 && creditIdx < 0 && debitIdx < 0) {
		return nil, ErrNoUsableRows
	}

	result := &ParseResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.RowsSkipped++
			continue
		}

		tx, ok := parseRow(record, dateIdx, descIdx, amountIdx, creditIdx, debitIdx)
		if !ok {
			result.RowsSkipped++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if len(result.Transactions) == 0 {
		return nil, ErrNoUsableRows
	}
	return result, nil
}

func parseRow(record []string, dateIdx, descIdx, amountIdx, creditIdx, debitIdx int) (RawTransaction, bool) {
	var tx RawTransaction

	date, ok := parseFlexibleDate(field(record, dateIdx))
	if !ok {
		return tx, false
	}
	tx.Date = date

	tx.Description = strings.TrimSpace(field(record, descIdx))
	if tx.Description == "" {
		tx.Description = "Unknown transaction"
	}

	amount, ok := parseAmount(record, amountIdx, creditIdx, debitIdx)
	if !ok {
		return tx, false
	}
	tx.Amount = amount

	return tx, true
}

// parseAmount prefers a single signed amount column and otherwise
// computes credit minus debit.
func parseAmount(record []string, amountIdx, creditIdx, debitIdx int) (decimal.Decimal, bool) {
	if amountIdx >= 0 {
		return parseMoney(field(record, amountIdx))
	}

	credit := decimal.Zero
	debit := decimal.Zero
	seen := false

	if creditIdx >= 0 {
		if v, ok := parseMoney(field(record, creditIdx)); ok {
			credit = v
			seen = true
		}
	}
	if debitIdx >= 0 {
		if v, ok := parseMoney(field(record, debitIdx)); ok {
			debit = v
			seen = true
		}
	}
	if !seen {
		return decimal.Zero, false
	}
	return credit.Sub(debit), true
}

func parseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.Trim(s, "()")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseFlexibleDate(s string) (models.Date, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOf(t), true
		}
	}
	return models.Date{}, false
}

func findColumn(header []string, aliases []string) int {
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		for _, alias := range aliases {
			if normalized == alias {
				return i
			}
		}
	}
	return -1
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
