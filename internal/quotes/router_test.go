package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// fakeSource records subscriptions and lets tests inject quotes.
type fakeSource struct {
	subscribed []string
	quotes     map[string]domain.Quote
	updates    chan domain.Quote
	started    bool
	closed     bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		quotes:  make(map[string]domain.Quote),
		updates: make(chan domain.Quote, 8),
	}
}

func (f *fakeSource) Start(ctx context.Context) error { f.started = true; return nil }
func (f *fakeSource) Subscribe(symbols ...string)     { f.subscribed = append(f.subscribed, symbols...) }
func (f *fakeSource) Snapshot() map[string]domain.Quote {
	out := make(map[string]domain.Quote, len(f.quotes))
	for k, v := range f.quotes {
		out[k] = v
	}
	return out
}
func (f *fakeSource) Updates() <-chan domain.Quote { return f.updates }
func (f *fakeSource) Close() error                 { f.closed = true; return nil }

func TestRouterPartitionsSymbols(t *testing.T) {
	equity := newFakeSource()
	crypto := newFakeSource()
	r := NewRouter(equity, crypto)

	r.Subscribe("AAPL", "BTCUSDT", "MSFT", "ETHUSD")

	assert.Equal(t, []string{"AAPL", "MSFT"}, equity.subscribed)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSD"}, crypto.subscribed)
}

func TestRouterWithoutCryptoSource(t *testing.T) {
	equity := newFakeSource()
	r := NewRouter(equity, nil)

	r.Subscribe("AAPL", "BTCUSDT")

	assert.Equal(t, []string{"AAPL", "BTCUSDT"}, equity.subscribed)
}

func TestRouterMergesSnapshots(t *testing.T) {
	equity := newFakeSource()
	crypto := newFakeSource()
	equity.quotes["AAPL"] = domain.Quote{Symbol: "AAPL", Price: 160}
	crypto.quotes["BTCUSDT"] = domain.Quote{Symbol: "BTCUSDT", Price: 64000}

	r := NewRouter(equity, crypto)
	snap := r.Snapshot()

	require.Len(t, snap, 2)
	assert.Equal(t, 160.0, snap["AAPL"].Price)
	assert.Equal(t, 64000.0, snap["BTCUSDT"].Price)
}

func TestRouterForwardsUpdates(t *testing.T) {
	equity := newFakeSource()
	crypto := newFakeSource()
	r := NewRouter(equity, crypto)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Start(ctx))
	assert.True(t, equity.started)
	assert.True(t, crypto.started)

	equity.updates <- domain.Quote{Symbol: "AAPL", Price: 160}
	crypto.updates <- domain.Quote{Symbol: "BTCUSDT", Price: 64000}

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case q := <-r.Updates():
			got[q.Symbol] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for merged updates")
		}
	}
	assert.True(t, got["AAPL"])
	assert.True(t, got["BTCUSDT"])
}

func TestRouterClose(t *testing.T) {
	equity := newFakeSource()
	crypto := newFakeSource()
	r := NewRouter(equity, crypto)

	require.NoError(t, r.Close())
	assert.True(t, equity.closed)
	assert.True(t, crypto.closed)
}
