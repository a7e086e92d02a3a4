package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultAccountCacheTTL is how long account number lookups stay cached
	DefaultAccountCacheTTL = 10 * time.Minute

	// UTRPrefix prefixes every generated unique transaction reference
	UTRPrefix = "UTR"

	// Suffixes for the two legs of a transfer submitted with a caller UTR
	transferDebitSuffix  = "-DR"
	transferCreditSuffix = "-CR"
)
