// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/crm-suite/backend/internal/application/adapter"
	domainerror "github.com/crm-suite/backend/internal/domain/error"
)

const signingMethod = "HS256"

// AppMetadata is the provider-managed part of the token. Users cannot edit it,
// which makes it the trusted place for the tenant assignment.
type AppMetadata struct {
	TenantID string `json:"tenant_id"`
}

// AccessClaims represents the claims of an access token issued by the auth provider.
type AccessClaims struct {
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// tokenVerifier implements the adapter.TokenVerifier interface.
type tokenVerifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

// NewTokenVerifier creates a verifier for HS256 tokens signed with the project JWT secret.
// An empty audience disables the audience check.
func NewTokenVerifier(secret, audience string) adapter.TokenVerifier {
	return newTokenVerifier(secret, audience, time.Now)
}

func newTokenVerifier(secret, audience string, now func() time.Time) *tokenVerifier {
	return &tokenVerifier{
		secret:   []byte(secret),
		audience: audience,
		now:      now,
	}
}

// VerifyAccessToken validates the token signature and expiry and returns its claims.
func (v *tokenVerifier) VerifyAccessToken(_ context.Context, tokenString string) (*adapter.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", domainerror.ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %w", domainerror.ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", domainerror.ErrInvalidToken)
	}

	tenantID, err := uuid.Parse(claims.AppMetadata.TenantID)
	if err != nil || tenantID == uuid.Nil {
		return nil, domainerror.ErrTenantNotAssigned
	}

	return &adapter.TokenClaims{
		UserID:    userID,
		TenantID:  tenantID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignAccessToken issues a token in the provider's format. It is used by the
// development CLI and tests; production tokens come from the provider.
func SignAccessToken(secret, audience string, userID, tenantID uuid.UUID, email string, ttl time.Duration, now time.Time) (string, error) {
	claims := AccessClaims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if tenantID != uuid.Nil {
		claims.AppMetadata.TenantID = tenantID.String()
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
