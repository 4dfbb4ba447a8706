package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the route patterns it serves.
//
// Patterns use the [http.ServeMux] syntax, including a method prefix ("GET /api/categories").
type Handler interface {
	http.Handler
	Routes() []string
}

// Router defines HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// Options configures the mock gallery API.
type Options struct {
	Store    *store.Store
	Secret   []byte
	TokenTTL time.Duration
	// Admin is registered at startup when its email is set.
	Admin  services.Credentials
	Logger *log.Logger
}

// New assembles the mock gallery API: auth endpoints, gallery endpoints and uploaded file serving.
func New(opts Options) (http.Handler, error) {
	if opts.Store == nil {
		return nil, shared.ErrServiceUnavailable
	}
	if len(opts.Secret) == 0 {
		return nil, shared.ErrInvalidConfig
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	logger := shared.WithLogger(opts.Logger, "component", "server")

	auth := NewAuthHandler(opts.Secret, opts.TokenTTL, logger)
	if opts.Admin.Email != "" {
		if err := auth.AddUser(opts.Admin); err != nil {
			return nil, err
		}
	}

	r := NewBasicRouter()
	r.Use(Recoverer(logger), Logging(logger))
	r.Handle(http.MethodGet, "/api/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	r.Handler(auth)
	r.Handler(NewGalleryHandler(opts.Store, RequireAuth(opts.Secret), logger))
	return r, nil
}
