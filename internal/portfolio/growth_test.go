package portfolio

import (
	"testing"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

func TestGrowthSeriesBasic(t *testing.T) {
	trades := []domain.Trade{
		trade(day(2024, 1, 15), "AAPL", 100, 150.50, domain.Buy),
		trade(day(2024, 2, 1), "AAPL", 50, 155.00, domain.Sell),
	}
	quotes := map[string]domain.Quote{"AAPL": quote("AAPL", 160.00)}

	series := GrowthSeries(trades, quotes)

	if len(series) != 2 {
		t.Fatalf("Expected one point per distinct date (2), got %d", len(series))
	}
	// Both points are valued at today's quote, not the historical price.
	if !almostEqual(series[0].Value, 16000.00) {
		t.Errorf("Expected 16000.00 on the first date, got %f", series[0].Value)
	}
	if !almostEqual(series[1].Value, 8000.00) {
		t.Errorf("Expected 8000.00 after the sell, got %f", series[1].Value)
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("Expected strictly ascending dates")
	}
}

func TestGrowthSeriesGroupsSameDate(t *testing.T) {
	trades := []domain.Trade{
		trade(day(2024, 1, 15), "AAPL", 10, 150, domain.Buy),
		trade(day(2024, 1, 15), "MSFT", 5, 400, domain.Buy),
	}
	quotes := map[string]domain.Quote{
		"AAPL": quote("AAPL", 160),
		"MSFT": quote("MSFT", 410),
	}

	series := GrowthSeries(trades, quotes)

	if len(series) != 1 {
		t.Fatalf("Expected 1 point for a single-date ledger, got %d", len(series))
	}
	if !almostEqual(series[0].Value, 10*160+5*410) {
		t.Errorf("Expected 3650.00, got %f", series[0].Value)
	}
}

func TestGrowthSeriesUnsortedInput(t *testing.T) {
	trades := []domain.Trade{
		trade(day(2024, 2, 1), "AAPL", 50, 155.00, domain.Sell),
		trade(day(2024, 1, 15), "AAPL", 100, 150.50, domain.Buy),
	}
	quotes := map[string]domain.Quote{"AAPL": quote("AAPL", 160.00)}

	series := GrowthSeries(trades, quotes)

	if len(series) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(series))
	}
	if !almostEqual(series[0].Value, 16000.00) || !almostEqual(series[1].Value, 8000.00) {
		t.Errorf("Expected dates replayed in ascending order, got %+v", series)
	}
}

func TestGrowthSeriesLiquidatedSymbolDropped(t *testing.T) {
	trades := []domain.Trade{
		trade(day(2024, 1, 15), "AAPL", 10, 150, domain.Buy),
		trade(day(2024, 1, 20), "AAPL", 10, 155, domain.Sell),
		trade(day(2024, 1, 25), "MSFT", 1, 400, domain.Buy),
	}
	quotes := map[string]domain.Quote{
		"AAPL": quote("AAPL", 160),
		"MSFT": quote("MSFT", 410),
	}

	series := GrowthSeries(trades, quotes)

	if len(series) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(series))
	}
	if !almostEqual(series[1].Value, 0) {
		t.Errorf("Expected 0 on the liquidation date, got %f", series[1].Value)
	}
	if !almostEqual(series[2].Value, 410) {
		t.Errorf("Expected only MSFT valued on the last date, got %f", series[2].Value)
	}
}

func TestGrowthSeriesOversellCarriesAcrossDates(t *testing.T) {
	// An oversold quantity must survive the date boundary so a later buy
	// nets against it, the same accounting Aggregate applies.
	trades := []domain.Trade{
		trade(day(2024, 1, 15), "AAPL", 10, 150, domain.Sell),
		trade(day(2024, 1, 20), "AAPL", 10, 150, domain.Buy),
	}
	quotes := map[string]domain.Quote{"AAPL": quote("AAPL", 160)}

	series := GrowthSeries(trades, quotes)

	if len(series) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(series))
	}
	// The negative position is carried but never valued.
	if !almostEqual(series[0].Value, 0) {
		t.Errorf("Expected 0 while oversold, got %f", series[0].Value)
	}
	// Day 2's buy nets the -10 back to 0, so the final point must agree
	// with the summary, which also holds nothing.
	if !almostEqual(series[1].Value, 0) {
		t.Errorf("Expected 0 after the buy nets the oversell, got %f", series[1].Value)
	}
	summary := Summarize(Aggregate(trades), quotes)
	if !almostEqual(series[1].Value, summary.TotalCurrentValue) {
		t.Errorf("Final growth point %f disagrees with summary total %f",
			series[1].Value, summary.TotalCurrentValue)
	}
}

func TestGrowthSeriesPartialOversellRecovery(t *testing.T) {
	trades := []domain.Trade{
		trade(day(2024, 1, 15), "AAPL", 10, 150, domain.Sell),
		trade(day(2024, 1, 20), "AAPL", 15, 150, domain.Buy),
	}
	quotes := map[string]domain.Quote{"AAPL": quote("AAPL", 160)}

	series := GrowthSeries(trades, quotes)

	// -10 + 15 leaves 5 shares held; both replays must value them alike.
	if !almostEqual(series[1].Value, 5*160.0) {
		t.Errorf("Expected 800.00 after partial recovery, got %f", series[1].Value)
	}
	summary := Summarize(Aggregate(trades), quotes)
	if !almostEqual(series[1].Value, summary.TotalCurrentValue) {
		t.Errorf("Final growth point %f disagrees with summary total %f",
			series[1].Value, summary.TotalCurrentValue)
	}
}

func TestGrowthSeriesMissingQuote(t *testing.T) {
	trades := []domain.Trade{
		trade(day(2024, 1, 15), "AAPL", 10, 150, domain.Buy),
		trade(day(2024, 1, 15), "NOPE", 10, 50, domain.Buy),
	}
	quotes := map[string]domain.Quote{"AAPL": quote("AAPL", 160)}

	series := GrowthSeries(trades, quotes)

	// Unquoted symbols contribute nothing to the reconstructed value.
	if !almostEqual(series[0].Value, 1600) {
		t.Errorf("Expected 1600.00, got %f", series[0].Value)
	}
}

func TestGrowthSeriesEmptyLedger(t *testing.T) {
	series := GrowthSeries(nil, map[string]domain.Quote{"AAPL": quote("AAPL", 160)})
	if len(series) != 0 {
		t.Errorf("Expected empty series for empty ledger, got %d points", len(series))
	}
}
