package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer string = "vowfolio"

// UserClaims is the payload of an API bearer token.
type UserClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// User returns the identity carried by the claims.
func (c *UserClaims) User() models.User {
	return models.User{ID: c.ID, Email: c.Email, Name: c.Name}
}

// SignToken issues an HS256 token for user that expires after ttl.
func SignToken(user models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies token against secret and returns its claims.
func ParseToken(token string, secret []byte) (*UserClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &UserClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*UserClaims)
	if !ok || !parsed.Valid {
		return nil, shared.ErrInvalidToken
	}
	return claims, nil
}

// DecodeToken reads the claims of token without verifying its signature.
//
// The client never holds the signing key, so this only rejects malformed or expired tokens.
func DecodeToken(token string) (*UserClaims, error) {
	claims := &UserClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, shared.ErrTokenExpired
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", shared.ErrInvalidToken)
	}
	return claims, nil
}
