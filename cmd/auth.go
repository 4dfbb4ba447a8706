package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) authService(ctx context.Context) (*services.AuthService, error) {
	api, err := r.api(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewAuthService(api), nil
}

func (r *Runner) password(cmd *cli.Command) (string, error) {
	password := cmd.String("password")
	if password == "" {
		return "", fmt.Errorf("%w: --password or VOWFOLIO_PASSWORD is required", shared.ErrMissingArgument)
	}
	return password, nil
}

// saveSession stores s as the current session and reports who is logged in.
func (r *Runner) saveSession(s *models.Session) error {
	repos, err := r.repositories()
	if err != nil {
		return err
	}
	if err := repos.Sessions.Save(s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	r.logger.Info("session saved", "user", s.User.Email)
	return r.writePlain("✓ Logged in as %s <%s>\n", s.User.Name, s.User.Email)
}

// AuthLogin exchanges email and password for a bearer token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}
	auth, err := r.authService(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "email", cmd.String("email"))
	s, err := auth.Login(ctx, cmd.String("email"), password)
	if err != nil {
		return err
	}
	return r.saveSession(s)
}

// AuthRegister creates an account and stores its bearer token.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	password, err := r.password(cmd)
	if err != nil {
		return err
	}
	auth, err := r.authService(ctx)
	if err != nil {
		return err
	}

	s, err := auth.Register(ctx, services.Credentials{
		Name:     cmd.String("name"),
		Email:    cmd.String("email"),
		Password: password,
	})
	if err != nil {
		return err
	}
	return r.saveSession(s)
}

// AuthForgot asks the API to email a password reset link.
func (r *Runner) AuthForgot(ctx context.Context, cmd *cli.Command) error {
	auth, err := r.authService(ctx)
	if err != nil {
		return err
	}
	if err := auth.ForgotPassword(ctx, cmd.String("email")); err != nil {
		return err
	}
	return r.writePlain("✓ If an account exists for %s, a reset link has been sent\n", cmd.String("email"))
}

// AuthStatus shows the stored session and checks the API health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	s, err := r.session()
	if err != nil {
		return err
	}

	r.writePlainHeader("Authentication")
	if s == nil {
		r.writePlain("Session: ✗ Not logged in\n")
	} else {
		r.writePlain("Session: ✓ %s <%s>\n", s.User.Name, s.User.Email)
		if claims, err := services.DecodeToken(s.Token); err == nil && claims.ExpiresAt != nil {
			expires := claims.ExpiresAt.Time
			if time.Now().After(expires) {
				r.writePlain("Token: ✗ expired at %s\n", expires.Format(time.RFC3339))
			} else {
				r.writePlain("Token: ✓ valid until %s\n", expires.Format(time.RFC3339))
			}
		}
	}

	api, err := r.api(ctx)
	if err != nil {
		return err
	}
	resp, err := api.Get(ctx, "/health")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !resp.OK() {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, resp.Err(http.MethodGet, "/health"))
	}
	return r.writePlain("API: ✓ %s is healthy\n", api.BaseURL())
}

// AuthLogout removes the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	repos, err := r.repositories()
	if err != nil {
		return err
	}
	if err := repos.Sessions.Clear(); err != nil {
		return err
	}
	r.logger.Info("session cleared")
	return r.writePlain("✓ Logged out\n")
}
