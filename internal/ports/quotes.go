package ports

import (
	"context"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// QuoteSource defines the interface for a live price transport. The core
// valuation engine never talks to a feed directly; it receives a snapshot
// of this source's quote map per computation.
type QuoteSource interface {
	// Start begins streaming quotes. It returns once the source is running;
	// delivery happens in the background until ctx is cancelled or Close is called.
	Start(ctx context.Context) error
	// Subscribe registers interest in the given symbols. Calling it again
	// with new symbols extends the subscription set; duplicates are ignored.
	Subscribe(symbols ...string)
	// Snapshot returns a copy of the latest known quote per subscribed symbol.
	// Symbols with no observation yet are absent from the map.
	Snapshot() map[string]domain.Quote
	// Updates exposes the stream of individual quote updates.
	Updates() <-chan domain.Quote
	// Close stops the source and releases its connections.
	Close() error
}
