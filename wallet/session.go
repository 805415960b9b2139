package wallet

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stellarcade/querycache/errs"
)

// Session is an authenticated wallet connection: evidence that the
// holder controls an account on a network.
type Session struct {
	Account   string
	Network   Network
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Active reports whether the session is usable at now.
func (s *Session) Active(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// SessionConfig configures token issuance and verification.
type SessionConfig struct {
	// Issuer is the token issuer (iss claim).
	// Default: "stellarcade"
	Issuer string

	// TTL bounds the token lifetime.
	// Default: 24h
	TTL time.Duration
}

// SessionManager issues and verifies HMAC-signed session tokens. The
// account address is the subject claim and the network rides the net
// claim.
type SessionManager struct {
	config SessionConfig
	key    []byte
}

// NewSessionManager creates a session manager signing with key.
func NewSessionManager(key []byte, config ...SessionConfig) (*SessionManager, error) {
	if len(key) == 0 {
		return nil, errs.Wrap(errs.KindValidation, errs.CodeBadConfig, "bad session config", ErrMissingSessionKey)
	}
	var cfg SessionConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	// Apply defaults
	if cfg.Issuer == "" {
		cfg.Issuer = "stellarcade"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}

	return &SessionManager{config: cfg, key: key}, nil
}

// IssueToken signs a session token for account on network.
func (m *SessionManager) IssueToken(account string, network Network) (string, error) {
	if !IsAccountAddress(account) {
		return "", errs.Wrap(errs.KindValidation, errs.CodePreconditionFailed, "cannot issue session", ErrBadAccountAddress).
			WithDetail("account", account)
	}
	if !network.Valid() {
		return "", errs.Wrap(errs.KindValidation, errs.CodePreconditionFailed, "cannot issue session", ErrUnknownNetwork).
			WithDetail("network", string(network))
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": m.config.Issuer,
		"sub": account,
		"net": string(network),
		"iat": now.Unix(),
		"exp": now.Add(m.config.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", errs.Wrap(errs.KindUnknown, errs.CodePreconditionFailed, "cannot sign session token", err)
	}
	return signed, nil
}

// VerifyToken validates tokenString and returns the session it
// represents.
func (m *SessionManager) VerifyToken(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return m.key, nil
	}, jwt.WithIssuer(m.config.Issuer), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "session expired", ErrTokenExpired)
		}
		return nil, errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "session rejected", ErrTokenMalformed)
	}
	if !token.Valid {
		return nil, errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "session rejected", ErrTokenMalformed)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "session rejected", ErrTokenMalformed)
	}
	account, _ := claims["sub"].(string)
	network, _ := claims["net"].(string)
	if !IsAccountAddress(account) || !Network(network).Valid() {
		return nil, errs.Wrap(errs.KindPrecondition, errs.CodePreconditionFailed, "session rejected", ErrTokenMalformed)
	}

	sess := &Session{Account: account, Network: Network(network)}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		sess.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	return sess, nil
}

// SessionPreconditions builds the Preconditions for an operation
// issued under sess at now, targeting contract on the expected
// network. A nil or expired session counts as no wallet.
func SessionPreconditions(sess *Session, now time.Time, expected Network, contract string) Preconditions {
	p := Preconditions{
		RequireWallet:   true,
		ExpectedNetwork: expected,
		ContractAddress: contract,
	}
	if sess.Active(now) {
		p.WalletConnected = true
		p.CurrentNetwork = sess.Network
	}
	return p
}
