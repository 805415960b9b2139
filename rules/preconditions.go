package rules

import (
	"github.com/stellarcade/querycache/errs"
	"github.com/stellarcade/querycache/wallet"
)

// RequirePreconditions guards privileged cache-affecting operations:
// it validates p and returns a structured error naming op when any
// wallet, network, or address precondition fails, so the caller aborts
// before issuing the operation. Read-only cache access needs no guard.
func RequirePreconditions(op string, p wallet.Preconditions) error {
	err := wallet.Validate(p)
	if err == nil {
		return nil
	}
	return errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "precondition failed", err).
		WithDetail("operation", op)
}
