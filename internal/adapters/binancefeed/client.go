// Package binancefeed streams live crypto-pair quotes (e.g. BTCUSDT held in
// the portfolio) from the Binance 24h ticker websocket. Equity symbols go
// through the quotestream adapter instead; the quotes.Router partitions them.
package binancefeed

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/jpillora/backoff"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

const updateBuffer = 256

// Config holds configuration specific to the Binance feed adapter.
type Config struct {
	Logger         ports.Logger
	ReconnectDelay time.Duration // initial reconnect delay (default 1s)
	MaxReconnect   time.Duration // backoff ceiling (default 1m)
}

// Client implements ports.QuoteSource using the go-binance market-stat
// stream, one websocket per subscribed symbol, each with its own
// reconnection loop.
type Client struct {
	cfg    Config
	logger ports.Logger

	mu      sync.RWMutex
	runCtx  context.Context
	cancel  context.CancelFunc
	symbols map[string]bool
	quotes  map[string]domain.Quote

	updates   chan domain.Quote
	closeOnce sync.Once
}

// New creates a new Binance feed adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance feed client")
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	if cfg.MaxReconnect <= 0 {
		cfg.MaxReconnect = time.Minute
	}
	return &Client{
		cfg:     cfg,
		logger:  cfg.Logger,
		symbols: make(map[string]bool),
		quotes:  make(map[string]domain.Quote),
		updates: make(chan domain.Quote, updateBuffer),
	}, nil
}

// Start begins streaming the already-subscribed symbols and enables
// streaming for later subscriptions.
func (c *Client) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.runCtx = runCtx
	c.cancel = cancel
	pending := make([]string, 0, len(c.symbols))
	for sym := range c.symbols {
		pending = append(pending, sym)
	}
	c.mu.Unlock()

	for _, sym := range pending {
		go c.streamSymbol(runCtx, sym)
	}
	return nil
}

// Subscribe registers interest in the given symbols. Streams begin
// immediately when the client is started, otherwise on Start.
func (c *Client) Subscribe(symbols ...string) {
	c.mu.Lock()
	runCtx := c.runCtx
	fresh := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := domain.NormalizeSymbol(s)
		if sym == "" || c.symbols[sym] {
			continue
		}
		c.symbols[sym] = true
		fresh = append(fresh, sym)
	}
	c.mu.Unlock()

	if runCtx == nil {
		return
	}
	for _, sym := range fresh {
		go c.streamSymbol(runCtx, sym)
	}
}

// streamSymbol runs one symbol's ticker stream, reconnecting until ctx ends.
func (c *Client) streamSymbol(ctx context.Context, symbol string) {
	b := &backoff.Backoff{
		Min:    c.cfg.ReconnectDelay,
		Max:    c.cfg.MaxReconnect,
		Jitter: true,
	}

	handler := func(event *binance.WsMarketStatEvent) {
		c.applyEvent(event)
	}
	errHandler := func(err error) {
		c.logger.Warn(ctx, "Binance stream error", map[string]interface{}{"symbol": symbol, "error": err.Error()})
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		doneCh, stopCh, err := binance.WsMarketStatServe(symbol, handler, errHandler)
		if err != nil {
			delay := b.Duration()
			c.logger.Warn(ctx, "Binance stream connection failed, retrying",
				map[string]interface{}{"symbol": symbol, "error": err.Error(), "delay": delay.String()})
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return
			}
		}
		b.Reset()
		c.logger.Info(ctx, "Binance stream connected", map[string]interface{}{"symbol": symbol})

		select {
		case <-doneCh:
			c.logger.Warn(ctx, "Binance stream closed, reconnecting", map[string]interface{}{"symbol": symbol})
		case <-ctx.Done():
			select {
			case stopCh <- struct{}{}:
			default:
			}
			return
		}
	}
}

// applyEvent folds one ticker event into the quote map and fans it out.
func (c *Client) applyEvent(event *binance.WsMarketStatEvent) {
	if event == nil {
		return
	}
	price, err := strconv.ParseFloat(event.LastPrice, 64)
	if err != nil || price <= 0 {
		return
	}
	change, _ := strconv.ParseFloat(event.PriceChange, 64)
	changePct, _ := strconv.ParseFloat(event.PriceChangePercent, 64)

	q := domain.Quote{
		Symbol:        domain.NormalizeSymbol(event.Symbol),
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Timestamp:     time.UnixMilli(event.Time),
	}
	if event.Time == 0 {
		q.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.quotes[q.Symbol] = q
	c.mu.Unlock()

	select {
	case c.updates <- q:
	default:
	}
}

// Snapshot returns a copy of the latest known quote per symbol.
func (c *Client) Snapshot() map[string]domain.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]domain.Quote, len(c.quotes))
	for sym, q := range c.quotes {
		out[sym] = q
	}
	return out
}

// Updates exposes the stream of individual quote updates.
func (c *Client) Updates() <-chan domain.Quote {
	return c.updates
}

// Close stops all symbol streams.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if c.cancel != nil {
			c.cancel()
		}
		c.mu.Unlock()
	})
	return nil
}
