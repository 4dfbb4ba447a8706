package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

func TestTokens(t *testing.T) {
	secret := []byte("test-secret")
	user := models.User{ID: "u1", Email: "ana@example.com", Name: "Ana"}

	t.Run("Sign And Parse", func(t *testing.T) {
		token, err := SignToken(user, secret, time.Hour)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		claims, err := ParseToken(token, secret)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claims.User() != user {
			t.Errorf("expected %+v, got %+v", user, claims.User())
		}
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token, _ := SignToken(user, secret, time.Hour)
		if _, err := ParseToken(token, []byte("other")); !errors.Is(err, shared.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token, _ := SignToken(user, secret, -time.Minute)
		if _, err := ParseToken(token, secret); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired from ParseToken, got %v", err)
		}
		if _, err := DecodeToken(token); !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired from DecodeToken, got %v", err)
		}
	})

	t.Run("Decode Without Secret", func(t *testing.T) {
		token, _ := SignToken(user, secret, time.Hour)
		claims, err := DecodeToken(token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claims.Email != "ana@example.com" {
			t.Errorf("unexpected claims %+v", claims)
		}
	})

	t.Run("Decode Malformed", func(t *testing.T) {
		for _, token := range []string{"", "abc", strings.Repeat("x.", 3)} {
			if _, err := DecodeToken(token); !errors.Is(err, shared.ErrInvalidToken) {
				t.Errorf("%q: expected ErrInvalidToken, got %v", token, err)
			}
		}
	})
}
