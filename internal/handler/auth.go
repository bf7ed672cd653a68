package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/oklog/ulid/v2"

	"github.com/utilgate/utilgate/internal/auth"
	"github.com/utilgate/utilgate/internal/middleware"
	"github.com/utilgate/utilgate/internal/model"
	"github.com/utilgate/utilgate/internal/repository"
)

// Password length bounds enforced at registration.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MaxEmailLength    = 255
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore defines the persistence operations the auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	logger *slog.Logger
	users  UserStore
	tokens TokenIssuer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *slog.Logger, users UserStore, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

// Register handles POST /auth/register.
// Emails are stored exactly as given; duplicate detection is an exact,
// case-sensitive match against what was stored.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if !emailRegex.MatchString(req.Email) || len(req.Email) > MaxEmailLength {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if len(req.Password) < MinPasswordLength || len(req.Password) > MaxPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be between 8 and 100 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &model.User{
		ID:             ulid.Make().String(),
		Email:          req.Email,
		PasswordHash:   hash,
		RegistrationIP: middleware.ClientIP(r),
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email already exists")
			return
		}
		h.logger.Error("failed to create user", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.logger.Info("user registered", slog.String("user_id", user.ID))
	writeJSON(w, http.StatusOK, map[string]string{"message": "registered"})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, "user not found")
			return
		}
		h.logger.Error("failed to fetch user", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if err := auth.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.logger.Error("failed to issue token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, Email: user.Email})
}
