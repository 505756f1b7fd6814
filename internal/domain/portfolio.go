package domain

import "time"

// Position is the running accumulator for one symbol while replaying the
// trade ledger under average-cost accounting. Quantity may legitimately be
// zero after a full liquidation, or negative when the ledger records more
// sells than buys (a data-quality condition, not an error).
type Position struct {
	Quantity  float64 `json:"quantity"`   // Running share count
	CostBasis float64 `json:"cost_basis"` // Total cost attributed to the currently-held shares
}

// Holding is the output snapshot of one open position, valued against the
// latest quote map. Only symbols with Quantity > 0 become holdings.
type Holding struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AveragePrice  float64 `json:"average_price"`  // CostBasis / Quantity
	InvestedValue float64 `json:"invested_value"` // = CostBasis
	CurrentValue  float64 `json:"current_value"`  // Quantity x latest price, 0 without a quote
	PNL           float64 `json:"pnl"`            // CurrentValue - InvestedValue
	PNLPercent    float64 `json:"pnl_percent"`    // PNL / InvestedValue x 100, 0 when InvestedValue is 0
	HasQuote      bool    `json:"has_quote"`      // Distinguishes "no quote yet" from a confirmed zero value
}

// PortfolioSummary aggregates all holdings, sorted descending by current value.
type PortfolioSummary struct {
	TotalInvested     float64   `json:"total_invested"`
	TotalCurrentValue float64   `json:"total_current_value"`
	TotalPNL          float64   `json:"total_pnl"`
	TotalPNLPercent   float64   `json:"total_pnl_percent"`
	Holdings          []Holding `json:"holdings"`
}

// GrowthPoint is one entry of the portfolio growth series: the value of the
// position held as of Date, priced at today's quotes. One point exists per
// distinct trade date in the ledger.
type GrowthPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Allocation is the total current value held in one sector, as a share of
// the whole portfolio.
type Allocation struct {
	Sector  string  `json:"sector"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}
