package wallet

import "errors"

// Precondition errors. Validate wraps these in a structured error with
// the expected and observed values.
var (
	// ErrWalletNotConnected indicates an operation that requires a
	// wallet ran without one.
	ErrWalletNotConnected = errors.New("wallet: wallet not connected")

	// ErrNetworkMismatch indicates the wallet is on a different
	// network than the operation targets.
	ErrNetworkMismatch = errors.New("wallet: network mismatch")

	// ErrBadContractAddress indicates a malformed contract address.
	ErrBadContractAddress = errors.New("wallet: malformed contract address")
)

// Session errors.
var (
	// ErrMissingSessionKey indicates a session manager was built
	// without a signing key.
	ErrMissingSessionKey = errors.New("wallet: session signing key is required")

	// ErrBadAccountAddress indicates a malformed account address.
	ErrBadAccountAddress = errors.New("wallet: malformed account address")

	// ErrUnknownNetwork indicates a network with no known passphrase.
	ErrUnknownNetwork = errors.New("wallet: unknown network")

	// ErrTokenExpired indicates a session token past its expiry.
	ErrTokenExpired = errors.New("wallet: session token expired")

	// ErrTokenMalformed indicates a session token that failed
	// signature or claim validation.
	ErrTokenMalformed = errors.New("wallet: session token malformed")
)
