package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Quote Feed Specific Errors
	ErrConnectionFailed = errors.New("failed to connect to the quote feed")
	ErrSubscribeFailed  = errors.New("failed to subscribe to symbol")

	// Ledger Ingestion Errors
	ErrEmptyLedger     = errors.New("ledger contains no usable trade records")
	ErrMalformedLedger = errors.New("ledger could not be parsed")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrInsertFailed = errors.New("database insert failed")
	ErrDeleteFailed = errors.New("database delete failed")
)
