package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/logger"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/adapters/sqlite"
	"github.com/shreyas6123/stock-portfolio-dashboard/internal/ingest"
)

// Offline CSV importer: loads a trade ledger file straight into the
// dashboard database without going through the HTTP API.
func main() {
	dbPath := flag.String("db", "./data/portfolio.db", "path to the SQLite database")
	filePath := flag.String("file", "", "path to the CSV ledger file (required)")
	level := flag.String("level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		log.Fatal("FATAL: -file is required")
	}

	appLogger := logger.NewStdLogger(logger.ParseLevel(*level))

	// 1. Parse the ledger file.
	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to open ledger file: %v", err)
	}
	defer f.Close()

	parsed, err := ingest.ParseLedger(f)
	if err != nil {
		for _, rowErr := range parsed.Errors {
			fmt.Fprintf(os.Stderr, "  %v\n", rowErr)
		}
		log.Fatalf("FATAL: Failed to parse ledger: %v", err)
	}

	// 2. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: *dbPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 3. Insert all parsed trades as one batch.
	batchID := uuid.NewString()
	inserted, err := repo.AddBatch(context.Background(), batchID, parsed.Trades)
	if err != nil {
		log.Fatalf("FATAL: Failed to insert trades: %v", err)
	}

	fmt.Printf("Imported %d trades (batch %s)\n", inserted, batchID)
	if len(parsed.Errors) > 0 {
		fmt.Printf("Rejected %d rows:\n", len(parsed.Errors))
		for _, rowErr := range parsed.Errors {
			fmt.Printf("  %v\n", rowErr)
		}
	}
}
