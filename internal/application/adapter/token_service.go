// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the identity carried by a verified access token.
type TokenClaims struct {
	UserID    uuid.UUID
	TenantID  uuid.UUID
	Email     string
	Role      string
	ExpiresAt time.Time
}

// TokenVerifier verifies access tokens issued by the hosted auth provider.
type TokenVerifier interface {
	// VerifyAccessToken validates the token signature and expiry and returns its claims.
	VerifyAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
