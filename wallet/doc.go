// Package wallet models the client-side wallet state that privileged
// operations depend on: network identity, Stellar address shapes,
// precondition validation, and HMAC-signed session tokens as the
// evidence of a wallet connection.
//
// Validate is a pure function with no side effects; it only inspects
// the Preconditions value it is given. Session tokens follow the
// SEP-10 convention of putting the account address in the subject
// claim.
package wallet
