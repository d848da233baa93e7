package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/truehomes/truehomes-api/internal/constants"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenService issues and verifies the signed bearer tokens backing both the
// session cookie and the emailed password-reset link. Tokens are stateless:
// nothing is persisted server-side.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a new TokenService
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

type sessionClaims struct {
	UserID uint64 `json:"id"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	UserID uint64 `json:"user_id"`
	// Fingerprint binds the token to the password hash it was issued
	// against, so a reset link dies as soon as the password changes.
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// IssueSession creates a session token for the given user. The exp claim
// matches the cookie Max-Age so the token cannot outlive the cookie.
func (s *TokenService) IssueSession(userID uint64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.SessionDuration)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession validates a session token and returns the embedded user ID.
func (s *TokenService) VerifySession(tokenString string) (uint64, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, ErrTokenInvalid
	}
	return claims.UserID, nil
}

// IssueReset creates a short-lived password-reset token bound to the user's
// current password hash.
func (s *TokenService) IssueReset(userID uint64, passwordHash string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, resetClaims{
		UserID:      userID,
		Fingerprint: HashFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.ResetTokenDuration)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyReset validates a reset token and returns the embedded user ID and
// password-hash fingerprint. Expiry is reported separately from any other
// verification failure.
func (s *TokenService) VerifyReset(tokenString string) (uint64, string, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", ErrTokenExpired
		}
		return 0, "", ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 || claims.ExpiresAt == nil {
		return 0, "", ErrTokenInvalid
	}
	return claims.UserID, claims.Fingerprint, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secret, nil
}

// HashFingerprint derives a short stable fingerprint of a password hash for
// embedding in reset tokens.
func HashFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:])[:12]
}
