package credential_test

import (
	"testing"
	"time"

	"github.com/astro-web3/bws-gateway/internal/infra/credential"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:gochecknoglobals // test fixture
var testKey = []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")

func newMinter(t *testing.T, opts ...credential.Option) *credential.Minter {
	t.Helper()
	m, err := credential.NewMinter(testKey, "client-42", "bws", opts...)
	require.NoError(t, err)
	return m
}

func TestNewMinter_RejectsIncompleteConfig(t *testing.T) {
	_, err := credential.NewMinter(nil, "client", "bws")
	require.ErrorIs(t, err, credential.ErrEmptySigningKey)

	_, err = credential.NewMinter(testKey, "", "bws")
	require.ErrorIs(t, err, credential.ErrEmptyClientID)

	_, err = credential.NewMinter(testKey, "client", "")
	require.ErrorIs(t, err, credential.ErrEmptyAudience)
}

func TestMinter_Claims(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	m := newMinter(t, credential.WithClock(func() time.Time { return now }))

	token, err := m.Token()
	require.NoError(t, err)

	claims, err := credential.Parse(token, testKey, "bws")
	require.NoError(t, err)

	assert.Equal(t, "client-42", claims.Subject)
	assert.Equal(t, credential.Issuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"bws"}, claims.Audience)
	assert.True(t, claims.IssuedAt.Equal(now))
	assert.True(t, claims.NotBefore.Equal(now))
	assert.True(t, claims.ExpiresAt.Equal(claims.IssuedAt.Add(credential.Lifetime)))
	assert.NotEmpty(t, claims.ID)
}

func TestMinter_SignsWithHS512(t *testing.T) {
	token, err := newMinter(t).Token()
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS512", parsed.Header["alg"])
}

func TestMinter_FreshTokenPerCall(t *testing.T) {
	fixed := time.Now()
	m := newMinter(t, credential.WithClock(func() time.Time { return fixed }))

	first, err := m.Token()
	require.NoError(t, err)
	second, err := m.Token()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestMinter_ExpiresAfterLifetime(t *testing.T) {
	m := newMinter(t)

	token, err := m.Mint(time.Now().Add(-credential.Lifetime - time.Minute))
	require.NoError(t, err)

	_, err = credential.Parse(token, testKey, "bws")
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_RejectsForeignTokens(t *testing.T) {
	token, err := newMinter(t).Token()
	require.NoError(t, err)

	_, err = credential.Parse(token, []byte("another key"), "bws")
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = credential.Parse(token, testKey, "someone-else")
	require.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    credential.Issuer,
		Audience:  jwt.ClaimStrings{"bws"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(testKey)
	require.NoError(t, err)

	_, err = credential.Parse(hs256, testKey, "bws")
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}
