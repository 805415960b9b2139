package rules

// Outcome is the result of an external state-changing operation, as
// reported by the execution layer.
type Outcome struct {
	// OK reports whether the operation succeeded.
	OK bool

	// TxHash is the confirmed transaction hash, when the operation
	// was an on-chain transaction and succeeded.
	TxHash string

	// Err is the failure, nil when OK.
	Err error

	// Retryable reports whether a failed operation may be retried.
	Retryable bool
}

// Success builds the outcome of a confirmed operation.
func Success(txHash string) Outcome {
	return Outcome{OK: true, TxHash: txHash}
}

// Failure builds the outcome of a failed operation.
func Failure(err error, retryable bool) Outcome {
	return Outcome{Err: err, Retryable: retryable}
}
