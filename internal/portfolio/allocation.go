package portfolio

import (
	"sort"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// Allocate groups the summarized holdings by sector for the allocation chart,
// sorted descending by total value. Percentages are shares of the portfolio's
// total current value, 0 when that total is 0.
func Allocate(holdings []domain.Holding) []domain.Allocation {
	if len(holdings) == 0 {
		return []domain.Allocation{}
	}

	totals := make(map[string]float64)
	var order []string
	var grand float64
	for _, h := range holdings {
		sector := SectorFor(h.Symbol)
		if _, seen := totals[sector]; !seen {
			order = append(order, sector)
		}
		totals[sector] += h.CurrentValue
		grand += h.CurrentValue
	}

	out := make([]domain.Allocation, 0, len(order))
	for _, sector := range order {
		a := domain.Allocation{Sector: sector, Value: RoundCents(totals[sector])}
		if grand > 0 {
			a.Percent = RoundCents(totals[sector] / grand * 100)
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
