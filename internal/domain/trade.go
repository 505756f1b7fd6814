package domain

import "time"

// Trade represents one validated record from the uploaded trade ledger.
type Trade struct {
	ID       int64     `json:"id"`        // Unique identifier (assigned by the store, 0 before persistence)
	Date     time.Time `json:"date"`      // Execution date, calendar day only (midnight UTC)
	Symbol   string    `json:"symbol"`    // Ticker symbol, upper-cased (e.g. "AAPL")
	Quantity float64   `json:"quantity"`  // Number of shares traded, positive
	Price    float64   `json:"price"`     // Execution price per share, positive
	Side     TradeSide `json:"side"`      // BUY or SELL
	BatchID  string    `json:"batch_id"`  // Upload batch this record arrived in (empty for manual entries)
}

// DateKey returns the trade's calendar day formatted as YYYY-MM-DD.
// Trades are grouped and ordered by this key, never by wall-clock time.
func (t Trade) DateKey() string {
	return t.Date.Format("2006-01-02")
}

// SameDay reports whether two trades fall on the same calendar day.
func (t Trade) SameDay(other Trade) bool {
	ty, tm, td := t.Date.Date()
	oy, om, od := other.Date.Date()
	return ty == oy && tm == om && td == od
}
