package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tezga/tezga-server/config"
	"github.com/tezga/tezga-server/internal/api"
	"github.com/tezga/tezga-server/internal/types"
)

const defaultAccessTokenTTL = 30 * 24 * time.Hour

// TokenCodec mints and verifies signed access tokens. The signing key is
// injected once at construction and is read-only afterwards; rotating it
// invalidates every outstanding token.
type TokenCodec struct {
	secretKey []byte
	issuer    string
	audience  string
	ttl       time.Duration
}

func NewTokenCodec(cfg config.JWTConfig) (*TokenCodec, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is not configured")
	}
	ttl := cfg.AccessTokenTTL
	if ttl == 0 {
		ttl = defaultAccessTokenTTL
	}
	return &TokenCodec{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		ttl:       ttl,
	}, nil
}

// IssueToken mints a signed HS256 token embedding the user's identity claim.
func (c *TokenCodec) IssueToken(userID int64, email string) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature integrity and expiry and extracts the claim.
// Every failure cause collapses into api.ErrUnauthenticated so a caller
// cannot tell a forged signature from an expired token.
func (c *TokenCodec) VerifyToken(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secretKey, nil
	}, jwt.WithIssuer(c.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", api.ErrUnauthenticated)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token invalid: %w", api.ErrUnauthenticated)
	}
	if c.audience != "" && !api.VerifyAudience(claims.Audience, c.audience) {
		return nil, fmt.Errorf("token audience mismatch: %w", api.ErrUnauthenticated)
	}
	return claims, nil
}
