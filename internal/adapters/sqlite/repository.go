package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/domain"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const dateLayout = "2006-01-02"

// Repository implements ports.TradeRepository using SQLite. The ledger is a
// simple local store: one table, no migrations beyond schema bootstrap.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/portfolio.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode keeps reads open while an upload batch is being written.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Trade ledger store ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_date TEXT NOT NULL,
		symbol TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		side TEXT NOT NULL,
		batch_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(trade_date);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Add saves a single trade record and returns its assigned ID.
func (r *Repository) Add(ctx context.Context, trade *domain.Trade) (int64, error) {
	const query = `INSERT INTO trades (trade_date, symbol, quantity, price, side, batch_id)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		trade.Date.Format(dateLayout), trade.Symbol, trade.Quantity, trade.Price, string(trade.Side), trade.BatchID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrInsertFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrInsertFailed, err)
	}
	trade.ID = id
	return id, nil
}

// AddBatch saves a batch of trade records under one upload batch ID inside a
// single transaction, so a failed upload leaves the ledger untouched.
func (r *Repository) AddBatch(ctx context.Context, batchID string, trades []domain.Trade) (int, error) {
	if len(trades) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrDBConnection, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO trades (trade_date, symbol, quantity, price, side, batch_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrInsertFailed, err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			t.Date.Format(dateLayout), t.Symbol, t.Quantity, t.Price, string(t.Side), batchID); err != nil {
			return 0, fmt.Errorf("%w: %v", ports.ErrInsertFailed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrInsertFailed, err)
	}
	r.logger.Debug(ctx, "Stored ledger batch", map[string]interface{}{"batchID": batchID, "count": len(trades)})
	return len(trades), nil
}

// FindAll retrieves the full ledger ordered by trade date ascending,
// insertion order preserved within a date.
func (r *Repository) FindAll(ctx context.Context) ([]domain.Trade, error) {
	const query = `SELECT id, trade_date, symbol, quantity, price, side, batch_id
		FROM trades ORDER BY trade_date ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var dateStr, side string
		if err := rows.Scan(&t.ID, &dateStr, &t.Symbol, &t.Quantity, &t.Price, &side, &t.BatchID); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
		}
		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			r.logger.Warn(ctx, "Skipping trade with corrupt date", map[string]interface{}{"id": t.ID, "date": dateStr})
			continue
		}
		t.Date = date
		t.Side = domain.TradeSide(side)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return trades, nil
}

// Symbols retrieves the distinct set of symbols present in the ledger.
func (r *Repository) Symbols(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM trades ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Count returns the number of stored trade records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return n, nil
}

// DeleteAll removes every trade record.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrDeleteFailed, err)
	}
	r.logger.Info(ctx, "Trade ledger cleared")
	return nil
}
