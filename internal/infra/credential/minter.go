package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer identifies this gateway to the downstream service.
	Issuer = "RestGrpcForwarder"
	// Lifetime is the validity window of every minted token.
	Lifetime = 10 * time.Minute
)

var (
	ErrEmptySigningKey = errors.New("signing key is empty")
	ErrEmptyClientID   = errors.New("client id is empty")
	ErrEmptyAudience   = errors.New("audience is empty")
)

//nolint:gochecknoglobals // fixed algorithm shared by Mint and Parse
var signingMethod = jwt.SigningMethodHS512

// Minter produces a fresh HS512 signed JWT for every outbound call. Tokens are
// never cached or reused.
type Minter struct {
	key      []byte
	clientID string
	audience string
	now      func() time.Time
}

type Option func(*Minter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Minter) {
		m.now = now
	}
}

// NewMinter validates its inputs once so that a bad key surfaces at startup
// rather than on the first request.
func NewMinter(key []byte, clientID, audience string, opts ...Option) (*Minter, error) {
	if len(key) == 0 {
		return nil, ErrEmptySigningKey
	}
	if clientID == "" {
		return nil, ErrEmptyClientID
	}
	if audience == "" {
		return nil, ErrEmptyAudience
	}

	m := &Minter{
		key:      append([]byte(nil), key...),
		clientID: clientID,
		audience: audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Mint signs a token issued at now and expiring Lifetime later.
func (m *Minter) Mint(now time.Time) (string, error) {
	now = now.UTC().Truncate(time.Second)

	claims := jwt.RegisteredClaims{
		Subject:   m.clientID,
		Issuer:    Issuer,
		Audience:  jwt.ClaimStrings{m.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign credential: %w", err)
	}
	return signed, nil
}

// Token mints a token for the current time.
func (m *Minter) Token() (string, error) {
	return m.Mint(m.now())
}

// Parse verifies a token the way the downstream service does: HS512 with the
// shared key, the gateway issuer and the given audience.
func Parse(token string, key []byte, audience string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(_ *jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid credential: %w", err)
	}
	return claims, nil
}
