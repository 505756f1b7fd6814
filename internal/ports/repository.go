package ports

import (
	"context"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
)

// TradeRepository defines the interface for storing and retrieving the trade ledger.
type TradeRepository interface {
	// Add saves a single trade record and returns its assigned ID.
	Add(ctx context.Context, trade *domain.Trade) (int64, error)
	// AddBatch saves a batch of trade records under one upload batch ID.
	// Returns the number of records stored.
	AddBatch(ctx context.Context, batchID string, trades []domain.Trade) (int, error)
	// FindAll retrieves the full ledger ordered by trade date ascending,
	// insertion order preserved within a date.
	FindAll(ctx context.Context) ([]domain.Trade, error)
	// Symbols retrieves the distinct set of symbols present in the ledger.
	Symbols(ctx context.Context) ([]string, error)
	// Count returns the number of stored trade records.
	Count(ctx context.Context) (int, error)
	// DeleteAll removes every trade record (ledger reset).
	DeleteAll(ctx context.Context) error
}
