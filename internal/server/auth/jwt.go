// Package auth issues and verifies session tokens, hashes passwords and
// resolves the caller identity of protected requests.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity asserted by a session token.
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims is the signed JWT payload.
type sessionClaims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService signs session tokens with HS256 under the active key and
// verifies them against every known key. The key id travels in the "kid"
// header so keys can be rotated without invalidating live tokens.
type TokenService struct {
	activeKeyID string
	keys        map[string][]byte
	now         func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithVerificationKey registers an additional key accepted by Verify.
func WithVerificationKey(keyID string, secret []byte) TokenOption {
	return func(s *TokenService) {
		s.keys[keyID] = secret
	}
}

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(keyID string, secret []byte, opts ...TokenOption) *TokenService {
	s := &TokenService{
		activeKeyID: keyID,
		keys:        map[string][]byte{keyID: secret},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for claims that expires ttl from now. IssuedAt and
// ExpiresAt in claims are ignored.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email:  claims.Email,
		UserID: claims.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	token.Header["kid"] = s.activeKeyID

	return token.SignedString(s.keys[s.activeKeyID])
}

// Verify checks the signature, algorithm, key id and expiry of token.
// Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return Claims{}, common.ErrInvalidToken
	}

	return Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	key, ok := s.keys[kid]
	if !ok {
		return nil, errors.New("unknown key id")
	}
	return key, nil
}
