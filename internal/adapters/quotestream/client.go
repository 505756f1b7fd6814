// Package quotestream streams live equity quotes from a finnhub-style JSON
// websocket feed and maintains the latest-quote map the valuation engine
// reads snapshots of.
package quotestream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for traffic before the
	// connection is considered dead.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// updateBuffer is the capacity of the fan-out channel. Slow consumers
	// drop updates rather than stalling the read loop; the snapshot map
	// always holds the latest state regardless.
	updateBuffer = 256
)

// feedMessage is the envelope the feed sends. Trade ticks arrive in batches.
type feedMessage struct {
	Type string     `json:"type"`
	Data []feedTick `json:"data"`
}

type feedTick struct {
	Symbol    string  `json:"s"`
	Price     float64 `json:"p"`
	Timestamp int64   `json:"t"` // unix milliseconds
	Volume    float64 `json:"v"`
}

// subscribeMsg is the JSON message sent to subscribe to one symbol.
type subscribeMsg struct {
	Type   string `json:"type"`
	Symbol string `json:"symbol"`
}

// Config holds configuration for the quote stream client.
type Config struct {
	URL            string        // websocket endpoint, e.g. "wss://ws.finnhub.io"
	Token          string        // API token appended as a query parameter
	Logger         ports.Logger
	ReconnectDelay time.Duration // initial reconnect delay (default 1s)
	MaxReconnect   time.Duration // backoff ceiling (default 1m)
}

// Client implements ports.QuoteSource over a single websocket connection,
// reconnecting with exponential backoff when the feed drops.
type Client struct {
	cfg    Config
	logger ports.Logger

	mu      sync.RWMutex
	conn    *websocket.Conn
	symbols map[string]bool
	quotes  map[string]domain.Quote

	// writeMu serializes data writes on the connection: gorilla/websocket
	// allows only one concurrent writer, and Subscribe can race the read
	// goroutine's pong replies.
	writeMu sync.Mutex

	updates   chan domain.Quote
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates a new quote stream client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for quote stream client")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: feed URL is required", ports.ErrConfigurationError)
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

// Start launches the connect/read loop. It returns immediately; the loop
// runs until ctx is cancelled or Close is called.
func (c *Client) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	go c.run(runCtx)
	return nil
}

// run is the reconnection loop: dial, resubscribe, read until failure, back
// off, repeat.
func (c *Client) run(ctx context.Context) {
	b := &backoff.Backoff{
		Min:    c.cfg.ReconnectDelay,
		Max:    c.cfg.MaxReconnect,
		Jitter: true,
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := c.dial(ctx)
		if err != nil {
			delay := b.Duration()
			c.logger.Warn(ctx, "Quote feed connection failed, retrying",
				map[string]interface{}{"error": err.Error(), "delay": delay.String()})
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return
			}
		}
		b.Reset()
		c.logger.Info(ctx, "Quote feed connected", map[string]interface{}{"url": c.cfg.URL})

		c.mu.Lock()
		c.conn = conn
		pending := make([]string, 0, len(c.symbols))
		for sym := range c.symbols {
			pending = append(pending, sym)
		}
		c.mu.Unlock()

		for _, sym := range pending {
			if err := c.sendSubscribe(conn, sym); err != nil {
				c.logger.Warn(ctx, "Resubscribe failed", map[string]interface{}{"symbol": sym, "error": err.Error()})
			}
		}

		err = c.readLoop(ctx, conn)
		conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		c.logger.Warn(ctx, "Quote feed disconnected, reconnecting", map[string]interface{}{"error": fmt.Sprint(err)})
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid feed URL: %v", ports.ErrConfigurationError, err)
	}
	if c.cfg.Token != "" {
		q := u.Query()
		q.Set("token", c.cfg.Token)
		u.RawQuery = q.Encode()
	}
	dialCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
	}
	return conn, nil
}

// readLoop consumes feed messages until the connection errors or ctx ends.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Keepalive pings so an idle feed is not mistaken for a dead one.
	pingDone := make(chan struct{})
	defer close(pingDone)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			case <-pingDone:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ports.ErrContextCanceled, ctx.Err())
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg feedMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug(ctx, "Skipping unparseable feed message", map[string]interface{}{"error": err.Error()})
			continue
		}
		switch msg.Type {
		case "trade":
			for _, tick := range msg.Data {
				c.applyTick(tick)
			}
		case "ping":
			c.writeJSON(conn, map[string]string{"type": "pong"})
		case "error":
			c.logger.Warn(ctx, "Quote feed reported an error", map[string]interface{}{"raw": string(raw)})
		}
	}
}

// applyTick folds one trade tick into the quote map and fans it out.
// Change figures are relative to the previously observed price.
func (c *Client) applyTick(tick feedTick) {
	sym := domain.NormalizeSymbol(tick.Symbol)
	if sym == "" || tick.Price <= 0 {
		return
	}

	c.mu.Lock()
	prev, hadPrev := c.quotes[sym]
	q := domain.Quote{
		Symbol:    sym,
		Price:     tick.Price,
		Timestamp: time.UnixMilli(tick.Timestamp),
	}
	if tick.Timestamp == 0 {
		q.Timestamp = time.Now()
	}
	if hadPrev && prev.Price > 0 {
		q.Change = tick.Price - prev.Price
		q.ChangePercent = q.Change / prev.Price * 100
	}
	c.quotes[sym] = q
	c.mu.Unlock()

	// Non-blocking publish: the snapshot map is the source of truth.
	select {
	case c.updates <- q:
	default:
	}
}

// Subscribe registers interest in the given symbols and, when connected,
// sends the subscribe messages immediately.
func (c *Client) Subscribe(symbols ...string) {
	c.mu.Lock()
	conn := c.conn
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

	if conn == nil {
		return // the run loop subscribes on (re)connect
	}
	for _, sym := range fresh {
		if err := c.sendSubscribe(conn, sym); err != nil {
			c.logger.Warn(context.Background(), "Subscribe failed", map[string]interface{}{"symbol": sym, "error": err.Error()})
		}
	}
}

func (c *Client) sendSubscribe(conn *websocket.Conn, symbol string) error {
	return c.writeJSON(conn, subscribeMsg{Type: "subscribe", Symbol: symbol})
}

func (c *Client) writeJSON(conn *websocket.Conn, v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrSubscribeFailed, err)
	}
	return nil
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

// Close stops the client and closes its connection.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if c.cancel != nil {
			c.cancel()
		}
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
	return nil
}
