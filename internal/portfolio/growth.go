package portfolio

import (
	"sort"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// GrowthSeries replays the ledger in date order and values the position held
// as of each distinct trade date, producing one GrowthPoint per date in
// ascending order.
//
// Valuation uses today's live quotes, not the prices of the historical date:
// each point answers "what would my position as of date D be worth at current
// prices". There is no historical price feed in this system, and the semantic
// is pinned; do not substitute historical or interpolated prices.
func GrowthSeries(trades []domain.Trade, quotes map[string]domain.Quote) []domain.GrowthPoint {
	if len(trades) == 0 {
		return []domain.GrowthPoint{}
	}

	sorted := make([]domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	positions := make(map[string]domain.Position)
	points := make([]domain.GrowthPoint, 0)

	for i := 0; i < len(sorted); {
		// Apply every trade of this calendar day, same accounting and the
		// same oversell tolerance as Aggregate. Invalid records are skipped.
		j := i
		for ; j < len(sorted) && sorted[j].SameDay(sorted[i]); j++ {
			if validRecord(sorted[j]) {
				applyTrade(positions, sorted[j])
			}
		}

		// Fully liquidated symbols leave the running map. With average-cost
		// accounting, their remaining cost basis is zero, so a later re-buy
		// starts clean. Negative (oversold) quantities stay: a later buy
		// must net against them, exactly as Aggregate does.
		for sym, pos := range positions {
			if pos.Quantity == 0 {
				delete(positions, sym)
			}
		}

		var value float64
		for sym, pos := range positions {
			if pos.Quantity <= 0 {
				continue
			}
			if q, ok := quotes[sym]; ok {
				value += pos.Quantity * q.Price
			}
		}
		points = append(points, domain.GrowthPoint{
			Date:  sorted[i].Date,
			Value: RoundCents(value),
		})
		i = j
	}
	return points
}
