package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shreyas6123/stock-portfolio-dashboard/config"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ingest"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/portfolio"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"
)

// DashboardService orchestrates the portfolio dashboard: it owns the trade
// ledger store and the live quote source, and recomputes the valuation
// engine's outputs on demand. The engine itself is pure and cheap, so
// nothing is cached; every accessor works from a fresh (ledger, quotes)
// snapshot pair.
type DashboardService struct {
	cfg    *config.Config
	logger ports.Logger
	repo   ports.TradeRepository
	quotes ports.QuoteSource

	mu         sync.Mutex
	refreshFns []func()
	lastNotify time.Time
}

// ImportReport summarizes one ledger upload.
type ImportReport struct {
	BatchID  string            `json:"batch_id"`
	Imported int               `json:"imported"`
	Rejected []ingest.RowError `json:"rejected,omitempty"`
}

// NewDashboardService creates a new application service instance.
func NewDashboardService(
	cfg *config.Config,
	logger ports.Logger,
	repo ports.TradeRepository,
	quotes ports.QuoteSource,
) (*DashboardService, error) {
	if cfg == nil || logger == nil || repo == nil || quotes == nil {
		return nil, fmt.Errorf("missing required dependencies for DashboardService")
	}
	return &DashboardService{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		quotes: quotes,
	}, nil
}

// Start seeds the quote subscriptions from the stored ledger, starts the
// feed, and begins consuming quote updates until ctx is cancelled.
func (s *DashboardService) Start(ctx context.Context) error {
	symbols, err := s.repo.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger symbols: %w", err)
	}
	if len(symbols) > 0 {
		s.quotes.Subscribe(symbols...)
		s.logger.Info(ctx, "Subscribed ledger symbols", map[string]interface{}{"count": len(symbols)})
	}

	if err := s.quotes.Start(ctx); err != nil {
		return fmt.Errorf("failed to start quote source: %w", err)
	}

	go s.consumeUpdates(ctx)
	s.logger.Info(ctx, "Dashboard service started")
	return nil
}

// consumeUpdates turns the quote update stream into throttled refresh
// notifications for the presentation layer.
func (s *DashboardService) consumeUpdates(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case q, ok := <-s.quotes.Updates():
			if !ok {
				return
			}
			s.logger.Debug(ctx, "Quote update", map[string]interface{}{"symbol": q.Symbol, "price": q.Price})
			s.notifyRefresh()
		}
	}
}

// OnRefresh registers a listener invoked (throttled) whenever the dashboard
// state may have changed: a quote tick, an upload, a ledger reset.
func (s *DashboardService) OnRefresh(fn func()) {
	s.mu.Lock()
	s.refreshFns = append(s.refreshFns, fn)
	s.mu.Unlock()
}

func (s *DashboardService) notifyRefresh() {
	s.mu.Lock()
	if time.Since(s.lastNotify) < s.cfg.RefreshInterval {
		s.mu.Unlock()
		return
	}
	s.lastNotify = time.Now()
	fns := make([]func(), len(s.refreshFns))
	copy(fns, s.refreshFns)
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// forceRefresh bypasses the throttle; used after ledger mutations.
func (s *DashboardService) forceRefresh() {
	s.mu.Lock()
	s.lastNotify = time.Time{}
	s.mu.Unlock()
	s.notifyRefresh()
}

// Summary recomputes the portfolio summary from the current ledger and
// quote snapshot. Aggregation anomalies are logged as warnings, never fatal.
func (s *DashboardService) Summary(ctx context.Context) (domain.PortfolioSummary, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.PortfolioSummary{}, err
	}
	res := portfolio.Aggregate(trades)
	s.logAnomalies(ctx, res.Anomalies)
	return portfolio.Summarize(res, s.quotes.Snapshot()), nil
}

// Growth recomputes the portfolio growth series.
func (s *DashboardService) Growth(ctx context.Context) ([]domain.GrowthPoint, error) {
	trades, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.GrowthSeries(trades, s.quotes.Snapshot()), nil
}

// Allocations groups the current holdings by sector.
func (s *DashboardService) Allocations(ctx context.Context) ([]domain.Allocation, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.Allocate(summary.Holdings), nil
}

// Quotes returns the latest quote snapshot.
func (s *DashboardService) Quotes() map[string]domain.Quote {
	return s.quotes.Snapshot()
}

// Trades returns the stored ledger in date order.
func (s *DashboardService) Trades(ctx context.Context) ([]domain.Trade, error) {
	return s.repo.FindAll(ctx)
}

// TradeCount reports the number of stored ledger records.
func (s *DashboardService) TradeCount(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// ImportLedger parses an uploaded CSV ledger, stores the accepted records
// under a fresh batch ID, and subscribes any new symbols. Rejected rows come
// back in the report; the upload fails only when nothing was usable.
func (s *DashboardService) ImportLedger(ctx context.Context, r io.Reader) (ImportReport, error) {
	parsed, err := ingest.ParseLedger(r)
	report := ImportReport{Rejected: parsed.Errors}
	if err != nil {
		if errors.Is(err, ports.ErrEmptyLedger) {
			s.logger.Warn(ctx, "Upload contained no usable trades", map[string]interface{}{"rejected": len(parsed.Errors)})
		}
		return report, err
	}

	report.BatchID = uuid.NewString()
	n, err := s.repo.AddBatch(ctx, report.BatchID, parsed.Trades)
	if err != nil {
		return report, err
	}
	report.Imported = n

	symbols := make(map[string]bool)
	for _, t := range parsed.Trades {
		symbols[t.Symbol] = true
	}
	subs := make([]string, 0, len(symbols))
	for sym := range symbols {
		subs = append(subs, sym)
	}
	s.quotes.Subscribe(subs...)

	s.logger.Info(ctx, "Ledger batch imported", map[string]interface{}{
		"batchID":  report.BatchID,
		"imported": report.Imported,
		"rejected": len(report.Rejected),
	})
	s.forceRefresh()
	return report, nil
}

// ClearLedger removes every stored trade.
func (s *DashboardService) ClearLedger(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.forceRefresh()
	return nil
}

func (s *DashboardService) logAnomalies(ctx context.Context, anomalies []portfolio.Anomaly) {
	for _, a := range anomalies {
		s.logger.Warn(ctx, "Ledger anomaly", map[string]interface{}{
			"kind":     a.Kind,
			"symbol":   a.Symbol,
			"quantity": a.Quantity,
		})
	}
}
