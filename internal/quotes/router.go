// Package quotes multiplexes the live price feeds behind the single
// QuoteSource port the rest of the dashboard sees.
package quotes

import (
	"context"
	"sync"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

const updateBuffer = 256

// Router partitions the subscribed symbol set between an equity feed and an
// optional crypto feed: crypto-pair tickers (BTCUSDT, ETHUSD, ...) route to
// the crypto source, everything else to the equity source. Without a crypto
// source all symbols go to the equity feed.
type Router struct {
	equity ports.QuoteSource
	crypto ports.QuoteSource

	updates   chan domain.Quote
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewRouter creates a router over the given sources. crypto may be nil.
func NewRouter(equity, crypto ports.QuoteSource) *Router {
	return &Router{
		equity:  equity,
		crypto:  crypto,
		updates: make(chan domain.Quote, updateBuffer),
	}
}

// Start starts both underlying sources and begins merging their update
// streams.
func (r *Router) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	if err := r.equity.Start(runCtx); err != nil {
		cancel()
		return err
	}
	if r.crypto != nil {
		if err := r.crypto.Start(runCtx); err != nil {
			cancel()
			r.equity.Close()
			return err
		}
	}

	go r.forward(runCtx, r.equity.Updates())
	if r.crypto != nil {
		go r.forward(runCtx, r.crypto.Updates())
	}
	return nil
}

func (r *Router) forward(ctx context.Context, in <-chan domain.Quote) {
	for {
		select {
		case q, ok := <-in:
			if !ok {
				return
			}
			select {
			case r.updates <- q:
			default:
			}
		case <-ctx.Done():
			return
		}
	}
}

// Subscribe routes each symbol to the feed responsible for it.
func (r *Router) Subscribe(symbols ...string) {
	var equities, cryptos []string
	for _, s := range symbols {
		if r.crypto != nil && domain.IsCryptoSymbol(s) {
			cryptos = append(cryptos, s)
		} else {
			equities = append(equities, s)
		}
	}
	if len(equities) > 0 {
		r.equity.Subscribe(equities...)
	}
	if len(cryptos) > 0 {
		r.crypto.Subscribe(cryptos...)
	}
}

// Snapshot merges the latest quotes of both feeds. The symbol partitions are
// disjoint, so no feed shadows the other.
func (r *Router) Snapshot() map[string]domain.Quote {
	out := r.equity.Snapshot()
	if r.crypto != nil {
		for sym, q := range r.crypto.Snapshot() {
			out[sym] = q
		}
	}
	return out
}

// Updates exposes the merged stream of quote updates.
func (r *Router) Updates() <-chan domain.Quote {
	return r.updates
}

// Close stops both feeds.
func (r *Router) Close() error {
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
		r.equity.Close()
		if r.crypto != nil {
			r.crypto.Close()
		}
	})
	return nil
}
