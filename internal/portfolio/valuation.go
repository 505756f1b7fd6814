package portfolio

import (
	"math"
	"sort"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// RoundCents rounds a monetary amount to the cent, half away from zero.
// Applied to every per-holding figure; aggregate totals are summed first
// and rounded once, so per-holding rounding may drift from the totals by
// up to a cent per holding. That reconciliation gap is accepted behavior.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize values the aggregated positions against the latest quote map.
// A symbol without a quote is valued at zero with HasQuote unset so the
// presentation layer can tell "no data" apart from a confirmed zero.
// Holdings are sorted descending by current value; ties keep first-seen order.
func Summarize(res Result, quotes map[string]domain.Quote) domain.PortfolioSummary {
	summary := domain.PortfolioSummary{Holdings: []domain.Holding{}}

	var invested, current float64
	for _, sym := range res.Order {
		pos := res.Positions[sym]
		if pos.Quantity <= 0 {
			continue
		}

		h := domain.Holding{
			Symbol:        sym,
			Quantity:      pos.Quantity,
			AveragePrice:  RoundCents(pos.CostBasis / pos.Quantity),
			InvestedValue: RoundCents(pos.CostBasis),
		}

		rawCurrent := 0.0
		if q, ok := quotes[sym]; ok {
			rawCurrent = pos.Quantity * q.Price
			h.CurrentValue = RoundCents(rawCurrent)
			h.HasQuote = true
		}
		h.PNL = RoundCents(h.CurrentValue - h.InvestedValue)
		if h.InvestedValue > 0 {
			h.PNLPercent = RoundCents(h.PNL / h.InvestedValue * 100)
		}

		invested += pos.CostBasis
		current += rawCurrent
		summary.Holdings = append(summary.Holdings, h)
	}

	sort.SliceStable(summary.Holdings, func(i, j int) bool {
		return summary.Holdings[i].CurrentValue > summary.Holdings[j].CurrentValue
	})

	summary.TotalInvested = RoundCents(invested)
	summary.TotalCurrentValue = RoundCents(current)
	summary.TotalPNL = RoundCents(current - invested)
	if invested > 0 {
		summary.TotalPNLPercent = RoundCents((current - invested) / invested * 100)
	}
	return summary
}
