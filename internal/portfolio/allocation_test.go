package portfolio

import (
	"testing"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

func TestAllocateSingleSector(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "AAPL", CurrentValue: 8000, HasQuote: true},
	}

	allocs := Allocate(holdings)

	if len(allocs) != 1 {
		t.Fatalf("Expected 1 allocation, got %d", len(allocs))
	}
	a := allocs[0]
	if a.Sector != "Technology" || !almostEqual(a.Value, 8000) || !almostEqual(a.Percent, 100) {
		t.Errorf("Expected {Technology 8000 100}, got %+v", a)
	}
}

func TestAllocateUnknownSymbol(t *testing.T) {
	allocs := Allocate([]domain.Holding{
		{Symbol: "ZZZZ", CurrentValue: 100, HasQuote: true},
	})

	if len(allocs) != 1 || allocs[0].Sector != OtherSector {
		t.Errorf("Expected unmapped symbol in %q, got %+v", OtherSector, allocs)
	}
}

func TestAllocateGroupsAndSorts(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "AAPL", CurrentValue: 3000},
		{Symbol: "JPM", CurrentValue: 5000},
		{Symbol: "MSFT", CurrentValue: 1000},
	}

	allocs := Allocate(holdings)

	if len(allocs) != 2 {
		t.Fatalf("Expected 2 sectors, got %d", len(allocs))
	}
	if allocs[0].Sector != "Financials" || !almostEqual(allocs[0].Value, 5000) {
		t.Errorf("Expected Financials first with 5000, got %+v", allocs[0])
	}
	if allocs[1].Sector != "Technology" || !almostEqual(allocs[1].Value, 4000) {
		t.Errorf("Expected Technology with 4000, got %+v", allocs[1])
	}
	if !almostEqual(allocs[0].Percent+allocs[1].Percent, 100) {
		t.Errorf("Expected percentages to sum to 100, got %f", allocs[0].Percent+allocs[1].Percent)
	}
}

func TestAllocateZeroTotal(t *testing.T) {
	// Holdings without quotes value at zero; the denominator guard must hold.
	allocs := Allocate([]domain.Holding{
		{Symbol: "AAPL", CurrentValue: 0},
	})

	if len(allocs) != 1 || !almostEqual(allocs[0].Percent, 0) {
		t.Errorf("Expected zero percent on zero total, got %+v", allocs)
	}
}

func TestAllocateEmpty(t *testing.T) {
	if allocs := Allocate(nil); len(allocs) != 0 {
		t.Errorf("Expected no allocations, got %+v", allocs)
	}
}

func TestSectorFor(t *testing.T) {
	tests := []struct {
		symbol, want string
	}{
		{"AAPL", "Technology"},
		{"XOM", "Energy"},
		{"BTCUSDT", "Crypto"},
		{"ETHUSD", "Crypto"},
		{"UNLISTED", OtherSector},
	}
	for _, tt := range tests {
		if got := SectorFor(tt.symbol); got != tt.want {
			t.Errorf("SectorFor(%s) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}
