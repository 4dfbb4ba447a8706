package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type account struct {
	user models.User
	hash []byte
}

// AuthHandler serves the /api/auth endpoints against an in-memory account list.
type AuthHandler struct {
	mu       sync.RWMutex
	accounts map[string]account
	secret   []byte
	ttl      time.Duration
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewAuthHandler creates an [AuthHandler] issuing tokens signed with secret.
func NewAuthHandler(secret []byte, ttl time.Duration, logger *log.Logger) *AuthHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	h := &AuthHandler{
		accounts: make(map[string]account),
		secret:   secret,
		ttl:      ttl,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	h.mux.HandleFunc("POST /api/auth/login", h.login)
	h.mux.HandleFunc("POST /api/auth/register", h.register)
	h.mux.HandleFunc("POST /api/auth/forgot-password", h.forgotPassword)
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"POST /api/auth/login",
		"POST /api/auth/register",
		"POST /api/auth/forgot-password",
	}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

var errAccountExists = errors.New("an account with this email already exists")

// AddUser registers an account. Emails are compared case-insensitively.
func (h *AuthHandler) AddUser(c services.Credentials) error {
	if err := validateCredentials(c); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	key := strings.ToLower(c.Email)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.accounts[key]; ok {
		return errAccountExists
	}
	h.accounts[key] = account{
		user: models.User{ID: shared.GenerateID(), Email: c.Email, Name: c.Name},
		hash: hash,
	}
	return nil
}

func validateCredentials(c services.Credentials) error {
	if err := errors.Join(
		shared.Required("name", c.Name),
		shared.Required("email", c.Email),
		shared.Required("password", c.Password),
	); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return &shared.ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if len(c.Password) < minPasswordLength {
		return &shared.ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}
	return nil
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, u models.User) {
	token, err := services.SignToken(u, h.secret, h.ttl)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, map[string]any{"token": token, "user": u})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var c services.Credentials
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, err)
		return
	}

	h.mu.RLock()
	acct, ok := h.accounts[strings.ToLower(c.Email)]
	h.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(c.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.logger.Info("user logged in", "email", acct.user.Email)
	h.issue(w, http.StatusOK, acct.user)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var c services.Credentials
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, err)
		return
	}

	switch err := h.AddUser(c); {
	case errors.Is(err, errAccountExists):
		writeMessage(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, err)
		return
	}

	h.mu.RLock()
	acct := h.accounts[strings.ToLower(c.Email)]
	h.mu.RUnlock()

	h.logger.Info("user registered", "email", acct.user.Email)
	h.issue(w, http.StatusCreated, acct.user)
}

// forgotPassword always answers the same way so account existence is not revealed.
func (h *AuthHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := shared.Required("email", body.Email); err != nil {
		writeError(w, err)
		return
	}

	h.mu.RLock()
	_, ok := h.accounts[strings.ToLower(body.Email)]
	h.mu.RUnlock()
	h.logger.Info("password reset requested", "email", body.Email, "known", ok)

	writeMessage(w, http.StatusOK, "If an account exists for this email, a reset link has been sent")
}
