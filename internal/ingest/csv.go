// Package ingest parses uploaded trade-ledger files into validated domain
// trades. It is the validation boundary: records that violate the ledger
// invariants are reported per row and skipped, so one bad line never blocks
// the rest of an upload.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

// Accepted layouts for the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// RowError describes one rejected ledger row.
type RowError struct {
	Line   int    `json:"line"` // 1-based line number in the uploaded file
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseResult carries the accepted trades and the per-row rejections of one
// ledger upload.
type ParseResult struct {
	Trades []domain.Trade
	Errors []RowError
}

// ParseLedger reads a CSV trade ledger with columns
//
//	date,symbol,quantity,price,side
//
// A header row is detected and skipped. Rows failing validation are collected
// in the result, not fatal; the returned error is non-nil only when the file
// itself is unreadable or yields no usable record at all.
func ParseLedger(r io.Reader) (ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var res ParseResult
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("%w: %v", ports.ErrMalformedLedger, err)
		}
		if line == 1 && isHeader(record) {
			continue
		}
		trade, rowErr := parseRow(record, line)
		if rowErr != nil {
			res.Errors = append(res.Errors, *rowErr)
			continue
		}
		res.Trades = append(res.Trades, trade)
	}

	if len(res.Trades) == 0 {
		return res, ports.ErrEmptyLedger
	}
	return res, nil
}

func parseRow(record []string, line int) (domain.Trade, *RowError) {
	fail := func(format string, args ...interface{}) (domain.Trade, *RowError) {
		return domain.Trade{}, &RowError{Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	if len(record) < 5 {
		return fail("expected 5 columns (date,symbol,quantity,price,side), got %d", len(record))
	}

	date, err := parseDate(record[0])
	if err != nil {
		return fail("unparseable date %q", record[0])
	}

	symbol := domain.NormalizeSymbol(record[1])
	if symbol == "" {
		return fail("empty symbol")
	}

	quantity, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return fail("unparseable quantity %q", record[2])
	}
	if quantity <= 0 {
		return fail("quantity must be positive, got %v", quantity)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		return fail("unparseable price %q", record[3])
	}
	if price <= 0 {
		return fail("price must be positive, got %v", price)
	}

	side, ok := domain.ParseTradeSide(record[4])
	if !ok {
		return fail("unknown side %q", record[4])
	}

	return domain.Trade{
		Date:     date,
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
		Side:     side,
	}, nil
}

// parseDate accepts the supported layouts and truncates to the calendar day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", s)
}

// isHeader reports whether the first row looks like column names rather
// than data: its date column parses as nothing and its quantity column is
// not numeric.
func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	if _, err := parseDate(record[0]); err == nil {
		return false
	}
	if len(record) >= 3 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64); err == nil {
			return false
		}
	}
	return true
}
