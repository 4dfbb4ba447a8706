package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// Credentials are submitted to the login and register endpoints.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService talks to the /auth endpoints.
type AuthService struct {
	api *APIService
}

func NewAuthService(api *APIService) *AuthService {
	return &AuthService{api: api}
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges email and password for a session holding the bearer token and its decoded user.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := shared.Required("email", email); err != nil {
		return nil, err
	}
	if err := shared.Required("password", password); err != nil {
		return nil, err
	}
	return a.tokenRequest(ctx, "/auth/login", Credentials{Email: email, Password: password})
}

// Register creates an account and returns its session.
func (a *AuthService) Register(ctx context.Context, c Credentials) (*models.Session, error) {
	if err := errors.Join(
		shared.Required("name", c.Name),
		shared.Required("email", c.Email),
		shared.Required("password", c.Password),
	); err != nil {
		return nil, err
	}
	return a.tokenRequest(ctx, "/auth/register", c)
}

// ForgotPassword asks the API to send a reset link to email.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := shared.Required("email", email); err != nil {
		return err
	}
	g := GalleryService{api: a.api}
	return g.doJSON(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (a *AuthService) tokenRequest(ctx context.Context, path string, body Credentials) (*models.Session, error) {
	g := GalleryService{api: a.api}
	var resp tokenResponse
	if err := g.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		if shared.IsRemote(err) {
			return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
		}
		return nil, err
	}
	return NewSession(resp.Token)
}

// NewSession decodes token into a session.
func NewSession(token string) (*models.Session, error) {
	claims, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Session{
		ID:    shared.GenerateID(),
		Token: token,
		User:  claims.User(),
	}, nil
}
