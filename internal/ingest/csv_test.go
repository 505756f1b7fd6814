package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

func TestParseLedger(t *testing.T) {
	input := strings.Join([]string{
		"date,symbol,quantity,price,side",
		"2024-01-15,aapl,100,150.50,buy",
		"2024-02-01,AAPL,50,155.00,SELL",
	}, "\n")

	res, err := ParseLedger(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Trades, 2)
	assert.Empty(t, res.Errors)

	first := res.Trades[0]
	assert.Equal(t, "AAPL", first.Symbol, "symbols are upper-cased")
	assert.Equal(t, domain.Buy, first.Side)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 100.0, first.Quantity)
	assert.Equal(t, 150.50, first.Price)

	assert.Equal(t, domain.Sell, res.Trades[1].Side)
}

func TestParseLedgerWithoutHeader(t *testing.T) {
	res, err := ParseLedger(strings.NewReader("2024-01-15,MSFT,10,400,buy\n"))
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, "MSFT", res.Trades[0].Symbol)
}

func TestParseLedgerDateLayouts(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"iso", "2024-01-15,AAPL,1,10,buy"},
		{"slash", "2024/01/15,AAPL,1,10,buy"},
		{"us", "01/15/2024,AAPL,1,10,buy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseLedger(strings.NewReader(tt.row))
			require.NoError(t, err)
			require.Len(t, res.Trades, 1)
			assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), res.Trades[0].Date)
		})
	}
}

func TestParseLedgerCollectsRowErrors(t *testing.T) {
	input := strings.Join([]string{
		"date,symbol,quantity,price,side",
		"2024-01-15,AAPL,100,150.50,buy",
		"not-a-date,AAPL,10,150,buy",
		"2024-01-16,,10,150,buy",
		"2024-01-17,AAPL,-5,150,buy",
		"2024-01-18,AAPL,10,0,buy",
		"2024-01-19,AAPL,10,150,hold",
	}, "\n")

	res, err := ParseLedger(strings.NewReader(input))
	require.NoError(t, err, "bad rows are collected, not fatal")
	assert.Len(t, res.Trades, 1)
	require.Len(t, res.Errors, 5)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Reason, "date")
}

func TestParseLedgerAllRowsBad(t *testing.T) {
	input := "date,symbol,quantity,price,side\nnope,,x,y,z\n"
	res, err := ParseLedger(strings.NewReader(input))
	assert.True(t, errors.Is(err, ports.ErrEmptyLedger))
	assert.Empty(t, res.Trades)
	assert.Len(t, res.Errors, 1)
}

func TestParseLedgerEmptyFile(t *testing.T) {
	_, err := ParseLedger(strings.NewReader(""))
	assert.True(t, errors.Is(err, ports.ErrEmptyLedger))
}
