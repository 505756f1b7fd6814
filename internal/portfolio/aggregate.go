// Package portfolio implements the dashboard's valuation engine:
// average-cost holdings aggregation over the trade ledger, summary valuation
// against the live quote map, day-by-day growth reconstruction, and sector
// allocation grouping. Every function is a pure transformation of its
// inputs; diagnostics are returned, never logged.
package portfolio

import (
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// Anomaly kinds reported by the aggregation.
const (
	// AnomalyOversell marks a sell that drove a symbol's quantity negative,
	// i.e. the ledger records more sell volume than buys.
	AnomalyOversell = "oversell"
	// AnomalyBadRecord marks a record that violates the ledger invariants
	// (empty symbol, non-positive quantity or price, unknown side). Such
	// records are skipped, not applied.
	AnomalyBadRecord = "bad_record"
)

// Anomaly is a non-fatal diagnostic about unexpected but handled ledger input.
type Anomaly struct {
	Kind     string  // AnomalyOversell or AnomalyBadRecord
	Symbol   string  // Symbol the record referenced (may be empty for bad records)
	Quantity float64 // Resulting position quantity (oversell) or the record's quantity (bad record)
}

// Result carries the raw position accumulators produced by Aggregate together
// with the diagnostics collected along the way. Order preserves the symbols'
// first-seen order so downstream sorts stay stable across runs.
type Result struct {
	Positions map[string]domain.Position
	Order     []string
	Anomalies []Anomaly
}

// Aggregate reduces the trade ledger into per-symbol positions using
// average-cost accounting. Trades are applied in the order given; the caller
// supplies them chronologically. A sell that exceeds the recorded holding
// completes with a negative quantity and an oversell anomaly rather than an
// error: a single bad record must not block the rest of the portfolio.
func Aggregate(trades []domain.Trade) Result {
	res := Result{Positions: make(map[string]domain.Position)}
	for _, t := range trades {
		if !validRecord(t) {
			res.Anomalies = append(res.Anomalies, Anomaly{
				Kind:     AnomalyBadRecord,
				Symbol:   t.Symbol,
				Quantity: t.Quantity,
			})
			continue
		}
		if _, seen := res.Positions[t.Symbol]; !seen {
			res.Order = append(res.Order, t.Symbol)
		}
		if oversold := applyTrade(res.Positions, t); oversold {
			res.Anomalies = append(res.Anomalies, Anomaly{
				Kind:     AnomalyOversell,
				Symbol:   t.Symbol,
				Quantity: res.Positions[t.Symbol].Quantity,
			})
		}
	}
	return res
}

// HeldSymbols returns the symbols that remain in the public holdings view
// (final quantity > 0), in first-seen order.
func (r Result) HeldSymbols() []string {
	held := make([]string, 0, len(r.Order))
	for _, sym := range r.Order {
		if r.Positions[sym].Quantity > 0 {
			held = append(held, sym)
		}
	}
	return held
}

// validRecord checks the ledger invariants the ingestion layer should have
// enforced. The engine skips violations instead of crashing on them.
func validRecord(t domain.Trade) bool {
	if t.Symbol == "" || t.Quantity <= 0 || t.Price <= 0 {
		return false
	}
	return t.Side == domain.Buy || t.Side == domain.Sell
}

// applyTrade folds one trade into the position map under average-cost
// accounting and reports whether a sell drove the quantity negative.
//
// On a sell the cost basis shrinks proportionally to the average cost of the
// shares held, never by the sell's execution price: this is the average-cost
// policy, not FIFO/LIFO lot tracking.
func applyTrade(positions map[string]domain.Position, t domain.Trade) bool {
	pos := positions[t.Symbol]
	switch t.Side {
	case domain.Buy:
		pos.Quantity += t.Quantity
		pos.CostBasis += t.Quantity * t.Price
	case domain.Sell:
		avgCost := 0.0
		if pos.Quantity > 0 {
			avgCost = pos.CostBasis / pos.Quantity
		}
		pos.CostBasis -= t.Quantity * avgCost
		pos.Quantity -= t.Quantity
	}
	positions[t.Symbol] = pos
	return t.Side == domain.Sell && pos.Quantity < 0
}
