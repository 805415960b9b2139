package cache

import "time"

// Reason classifies why an invalidation happened.
type Reason string

const (
	// ReasonManual is a caller-initiated invalidation with no
	// triggering outcome.
	ReasonManual Reason = "manual"

	// ReasonTxSuccess follows a confirmed on-chain transaction.
	ReasonTxSuccess Reason = "tx_success"

	// ReasonTxFailedRetryable follows a transaction failure the
	// caller may retry.
	ReasonTxFailedRetryable Reason = "tx_failed_retryable"

	// ReasonTxFailedTerminal follows a transaction failure that will
	// not be retried.
	ReasonTxFailedTerminal Reason = "tx_failed_terminal"

	// ReasonMutationSuccess follows a successful off-chain mutation.
	ReasonMutationSuccess Reason = "mutation_success"

	// ReasonMutationFailedRetryable follows a retryable off-chain
	// mutation failure.
	ReasonMutationFailedRetryable Reason = "mutation_failed_retryable"

	// ReasonMutationFailedTerminal follows a terminal off-chain
	// mutation failure.
	ReasonMutationFailedTerminal Reason = "mutation_failed_terminal"

	// ReasonConsistencyCheck marks an entry whose refresh failed or
	// whose declared dependency went stale.
	ReasonConsistencyCheck Reason = "consistency_check"
)

// TxContext describes the on-chain transaction behind an invalidation.
type TxContext struct {
	// Contract is the invoked contract identifier.
	Contract string

	// Method is the invoked contract method.
	Method string

	// TxHash is the transaction hash, when known.
	TxHash string

	// Addresses lists the accounts the transaction touched.
	Addresses []string

	// GameID discriminates the game or tournament instance, when the
	// method targets one.
	GameID string
}

// MutationContext describes a generic off-chain mutation behind an
// invalidation.
type MutationContext struct {
	// Name identifies the mutation.
	Name string

	// Addresses lists the accounts the mutation touched.
	Addresses []string
}

// Event records why and when entries were invalidated. At most one of
// Tx and Mutation is set; events applied through the rule engine are
// stamped with an ID, the wall-clock time, and the derived reason.
type Event struct {
	ID       string
	At       time.Time
	Reason   Reason
	Tx       *TxContext
	Mutation *MutationContext
}
