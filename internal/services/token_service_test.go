package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenService_SessionRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.IssueSession(42)
	require.NoError(t, err)

	userID, err := tokens.VerifySession(signed)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestTokenService_CorruptedSignature(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.IssueSession(42)
	require.NoError(t, err)

	corrupted := signed[:len(signed)-2] + "xx"
	_, err = tokens.VerifySession(corrupted)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a")
	verifier := NewTokenService("secret-b")

	signed, err := issuer.IssueSession(42)
	require.NoError(t, err)

	_, err = verifier.VerifySession(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_ResetRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.IssueReset(7, "$2a$10$somehash")
	require.NoError(t, err)

	userID, fingerprint, err := tokens.VerifyReset(signed)
	require.NoError(t, err)
	require.Equal(t, uint64(7), userID)
	require.Equal(t, HashFingerprint("$2a$10$somehash"), fingerprint)
}

func TestTokenService_ResetExpired(t *testing.T) {
	tokens := NewTokenService("test-secret")

	// Mint a token whose expiry already elapsed
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, resetClaims{
		UserID:      7,
		Fingerprint: HashFingerprint("$2a$10$somehash"),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-20 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-10 * time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = tokens.VerifyReset(signed)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_ResetRejectsMalformed(t *testing.T) {
	tokens := NewTokenService("test-secret")

	_, _, err := tokens.VerifyReset("not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_SessionTokenNotValidAsReset(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.IssueSession(42)
	require.NoError(t, err)

	// A session token has no reset user_id claim
	_, _, err = tokens.VerifyReset(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestHashFingerprint_Stable(t *testing.T) {
	a := HashFingerprint("hash-one")
	b := HashFingerprint("hash-one")
	c := HashFingerprint("hash-two")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 12)
}
