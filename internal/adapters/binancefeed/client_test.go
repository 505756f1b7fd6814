package binancefeed

import (
	"context"
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (nopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (nopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func TestNewRequiresLogger(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestApplyEvent(t *testing.T) {
	c, err := New(Config{Logger: nopLogger{}})
	require.NoError(t, err)

	now := time.Now().UnixMilli()
	c.applyEvent(&binance.WsMarketStatEvent{
		Symbol:             "BTCUSDT",
		LastPrice:          "64250.10",
		PriceChange:        "-120.40",
		PriceChangePercent: "-0.19",
		Time:               now,
	})

	snap := c.Snapshot()
	require.Contains(t, snap, "BTCUSDT")
	q := snap["BTCUSDT"]
	assert.Equal(t, 64250.10, q.Price)
	assert.Equal(t, -120.40, q.Change)
	assert.Equal(t, -0.19, q.ChangePercent)

	select {
	case update := <-c.Updates():
		assert.Equal(t, "BTCUSDT", update.Symbol)
	default:
		t.Fatal("expected a fanned-out update")
	}
}

func TestApplyEventIgnoresJunk(t *testing.T) {
	c, err := New(Config{Logger: nopLogger{}})
	require.NoError(t, err)

	c.applyEvent(nil)
	c.applyEvent(&binance.WsMarketStatEvent{Symbol: "BTCUSDT", LastPrice: "not-a-number"})
	c.applyEvent(&binance.WsMarketStatEvent{Symbol: "BTCUSDT", LastPrice: "0"})

	assert.Empty(t, c.Snapshot())
}
