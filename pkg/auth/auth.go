// Package auth issues and verifies API credentials for the gateway.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

const issuer = "open-isbn"

// Claims are the JWT claims carried by gateway access tokens.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	signingKey []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{signingKey: []byte(secret)}
}

// GenerateToken signs a token for username valid for ttl.
func (s *TokenService) GenerateToken(username, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies tokenString and returns its claims.
func (s *TokenService) ParseToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashAPIKey returns a bcrypt hash suitable for GATEWAY_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

// APIKeyChecker matches presented keys against a plain key, a bcrypt hash,
// or both.
type APIKeyChecker struct {
	plain string
	hash  string
}

func NewAPIKeyChecker(plain, hash string) *APIKeyChecker {
	return &APIKeyChecker{plain: plain, hash: hash}
}

// Enabled reports whether any key is configured.
func (c *APIKeyChecker) Enabled() bool {
	return c.plain != "" || c.hash != ""
}

// Check reports whether key is accepted.
func (c *APIKeyChecker) Check(key string) bool {
	if key == "" {
		return false
	}
	if c.plain != "" && subtle.ConstantTimeCompare([]byte(key), []byte(c.plain)) == 1 {
		return true
	}
	if c.hash != "" && bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(key)) == nil {
		return true
	}
	return false
}
