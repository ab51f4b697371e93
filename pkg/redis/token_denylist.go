package redis

import (
	"context"
	"errors"
	"time"
)

const revokedTokenPrefix = "auth:revoked:"

var (
	setRevoked    = Set
	existsRevoked = Exists
)

// TokenDenylist remembers revoked refresh tokens until they would have
// expired on their own.
type TokenDenylist struct{}

// NewTokenDenylist creates a denylist backed by the shared client
func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{}
}

// Revoke marks the token id as revoked until expiresAt
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id is required")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return setRevoked(ctx, revokedTokenPrefix+tokenID, "1", ttl)
}

// IsRevoked reports whether the token id has been revoked
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return existsRevoked(ctx, revokedTokenPrefix+tokenID)
}
