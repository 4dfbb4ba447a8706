package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	user := models.User{ID: "u1", Email: "ana@example.com", Name: "Ana"}
	token, err := SignToken(user, []byte("secret"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	mux.HandleFunc("POST /api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Reset link sent"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	auth := NewAuthService(NewAPIService(server.URL+"/api", nil))

	t.Run("Login", func(t *testing.T) {
		session, err := auth.Login(ctx, "ana@example.com", "hunter2")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.Token != token || session.User != user {
			t.Errorf("unexpected session %+v", session)
		}
	})

	t.Run("Login With Bad Password", func(t *testing.T) {
		_, err := auth.Login(ctx, "ana@example.com", "nope")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		var remote *shared.RemoteRequestError
		if !errors.As(err, &remote) || remote.Message != "Invalid credentials" {
			t.Errorf("expected remote message, got %v", err)
		}
	})

	t.Run("Login Requires Email", func(t *testing.T) {
		if _, err := auth.Login(ctx, "", "x"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Register", func(t *testing.T) {
		session, err := auth.Register(ctx, Credentials{Name: "Ana", Email: "ana@example.com", Password: "pw"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.User.Name != "Ana" {
			t.Errorf("unexpected user %+v", session.User)
		}
	})

	t.Run("Register Requires Name", func(t *testing.T) {
		_, err := auth.Register(ctx, Credentials{Email: "ana@example.com", Password: "pw"})
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Forgot Password", func(t *testing.T) {
		if err := auth.ForgotPassword(ctx, "ana@example.com"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
