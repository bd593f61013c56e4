package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking the balance rows
	DefaultTransactionTimeout = 10 * time.Second

	// DirectoryCacheTTL bounds staleness of cached directory lookups
	DirectoryCacheTTL = 5 * time.Minute

	// HistoryPageSize is the batch size for journal reads
	HistoryPageSize = 500
)
