package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes the two credentials issued to a user.
type TokenKind string

const (
	// TokenKindAccess authorizes individual requests and is short-lived.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is exchanged for a new token pair and is long-lived.
	TokenKindRefresh TokenKind = "refresh"
)

var (
	// ErrTokenInvalid indicates a malformed token or a bad signature.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a well-formed token past its expiry. Expired
	// access tokens are the normal refresh trigger, so callers must be able
	// to tell this apart from ErrTokenInvalid.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenKindMismatch indicates the token kind does not match what the
	// caller expected, e.g. an access token presented for refresh.
	ErrTokenKindMismatch = errors.New("token kind mismatch")
	// ErrTokenRevoked indicates a refresh token that no longer matches the
	// stored value: it was rotated out, or the user logged out.
	ErrTokenRevoked = errors.New("refresh token revoked")
)

// Claims are the decoded fields carried by a token.
type Claims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded tokens. It holds no
// state beyond its secrets and TTLs; issuing and verifying are pure functions
// of the inputs and the configured clock.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	nowFunc       func() time.Time
}

// NewTokenService constructs a TokenService. Access and refresh tokens are
// signed with distinct secrets so a leaked access key cannot forge refresh
// tokens.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessSecret == "" || refreshSecret == "" {
		panic("auth: token secrets must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		nowFunc:       time.Now,
	}
}

// WithNowFunc overrides the time source. Useful for tests.
func (s *TokenService) WithNowFunc(now func() time.Time) *TokenService {
	s.nowFunc = now
	return s
}

// TTL reports the configured lifetime for the provided token kind.
func (s *TokenService) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue produces a signed token for the user with the kind's TTL. It returns
// the compact token string and its expiry.
func (s *TokenService) Issue(userID string, kind TokenKind) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("user id must be provided")
	}

	secret, err := s.secretFor(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.nowFunc().UTC()
	expiresAt := now.Add(s.TTL(kind))

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}

	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of the token and confirms it is of
// the expected kind. The signature is checked against the secret for the kind
// the token itself declares, so presenting a valid access token where a
// refresh token is expected fails ErrTokenKindMismatch, not ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string, expectedKind TokenKind) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc().UTC() }),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*Claims)
		if !ok {
			return nil, ErrTokenInvalid
		}
		return s.secretFor(c.Kind)
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	if claims.Kind != expectedKind {
		return Claims{}, ErrTokenKindMismatch
	}
	if claims.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}

func (s *TokenService) secretFor(kind TokenKind) ([]byte, error) {
	switch kind {
	case TokenKindAccess:
		return s.accessSecret, nil
	case TokenKindRefresh:
		return s.refreshSecret, nil
	default:
		return nil, ErrTokenInvalid
	}
}
