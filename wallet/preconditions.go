package wallet

import "github.com/stellarcade/querycache/errs"

// Preconditions is the client state a privileged operation requires.
type Preconditions struct {
	// RequireWallet demands a connected wallet.
	RequireWallet bool

	// WalletConnected is the current connection state.
	WalletConnected bool

	// ExpectedNetwork is the network the operation targets; empty
	// skips the network check.
	ExpectedNetwork Network

	// CurrentNetwork is the wallet's active network.
	CurrentNetwork Network

	// ContractAddress is the target contract; empty skips the shape
	// check.
	ContractAddress string
}

// Validate checks p and returns a structured error for the first
// failed precondition, in order: wallet connection, network match,
// contract address shape. Nil when every precondition holds. Pure; no
// side effects.
func Validate(p Preconditions) error {
	if p.RequireWallet && !p.WalletConnected {
		return errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "wallet not connected", ErrWalletNotConnected)
	}
	if p.ExpectedNetwork != "" && p.CurrentNetwork != p.ExpectedNetwork {
		return errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "wrong network", ErrNetworkMismatch).
			WithDetail("expected", string(p.ExpectedNetwork)).
			WithDetail("current", string(p.CurrentNetwork))
	}
	if p.ContractAddress != "" && !IsContractAddress(p.ContractAddress) {
		return errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "malformed contract address", ErrBadContractAddress).
			WithDetail("address", p.ContractAddress)
	}
	return nil
}
