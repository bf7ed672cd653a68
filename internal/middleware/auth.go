package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utilgate/utilgate/internal/accesslog"
	"github.com/utilgate/utilgate/internal/auth"
	"github.com/utilgate/utilgate/internal/model"
	"github.com/utilgate/utilgate/internal/repository"
)

// TokenVerifier validates a session token and returns the user ID.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// UserFetcher resolves a user by ID. Satisfied by the repository.
type UserFetcher interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// KeyResolver resolves an API key to its owner. Satisfied by the repository.
type KeyResolver interface {
	GetAPIKeyOwner(ctx context.Context, key string) (userID, email string, err error)
}

// UsageIncrementer bumps a user's request counter. Satisfied by the repository.
type UsageIncrementer interface {
	IncrementUsage(ctx context.Context, userID string) error
}

// IdentityCache caches key-to-owner lookups. Satisfied by the Redis cache.
type IdentityCache interface {
	GetIdentity(ctx context.Context, apiKey string) (*auth.Identity, error)
	SetIdentity(ctx context.Context, apiKey string, id *auth.Identity) error
}

// APIKeyHeader is the fixed header carrying the service credential.
const APIKeyHeader = "X-API-Key"

// SessionAuthConfig holds dependencies for session authentication.
type SessionAuthConfig struct {
	Logger *slog.Logger
	Tokens TokenVerifier
}

// SessionAuth returns middleware that authenticates requests via a JWT
// bearer token. On success the user ID is attached to the request
// context; on any failure the pipeline halts with a 401.
func SessionAuth(cfg SessionAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			userID, err := cfg.Tokens.Verify(raw)
			if err != nil {
				cfg.Logger.Warn("session authentication failed",
					slog.String("ip", ClientIP(r)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), &auth.Identity{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminConfig holds dependencies for the admin authorization check.
type AdminConfig struct {
	Logger *slog.Logger
	Users  UserFetcher
	Admins *auth.AdminList
}

// RequireAdmin returns middleware layering authorization on top of
// session auth: the authenticated user's email must be on the admin
// allow-list. Must be applied after SessionAuth.
func RequireAdmin(cfg AdminConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := auth.IdentityFromContext(r.Context())
			if id == nil {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			user, err := cfg.Users.GetUserByID(r.Context(), id.UserID)
			if err != nil || !cfg.Admins.Contains(user.Email) {
				cfg.Logger.Warn("admin authorization denied",
					slog.String("user_id", id.UserID),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusForbidden, "access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyAuthConfig holds dependencies for service authentication.
type APIKeyAuthConfig struct {
	Logger *slog.Logger
	Keys   KeyResolver
	Usage  UsageIncrementer
	Cache  IdentityCache // optional
}

// APIKeyAuth returns middleware that authenticates requests via the
// X-API-Key header. On success it attaches the owner's identity, tags
// the access-log record, and increments the owner's usage counter
// exactly once, whatever the handler does afterwards.
func APIKeyAuth(cfg APIKeyAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				writeError(w, http.StatusUnauthorized, "missing API key")
				return
			}

			identity := cfg.lookup(r.Context(), key)
			if identity == nil {
				cfg.Logger.Warn("service authentication failed",
					slog.String("ip", ClientIP(r)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			if tag := accesslog.TagFromContext(r.Context()); tag != nil {
				tag.SetUser(identity.Email, identity.APIKey)
			}

			// Counting is best effort: a store hiccup here must not
			// turn an otherwise valid request into an error.
			if err := cfg.Usage.IncrementUsage(r.Context(), identity.UserID); err != nil {
				cfg.Logger.Error("usage increment failed",
					slog.String("user_id", identity.UserID),
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// lookup resolves a presented key to its owner, consulting the cache
// first. Returns nil for malformed or unknown keys and on store errors.
func (cfg APIKeyAuthConfig) lookup(ctx context.Context, key string) *auth.Identity {
	if !auth.ValidKeyFormat(key) {
		return nil
	}

	if cfg.Cache != nil {
		if id, err := cfg.Cache.GetIdentity(ctx, key); err == nil && id != nil {
			return id
		}
	}

	userID, email, err := cfg.Keys.GetAPIKeyOwner(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrAPIKeyNotFound) {
			cfg.Logger.Error("API key lookup failed",
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	id := &auth.Identity{UserID: userID, Email: email, APIKey: key}
	if cfg.Cache != nil {
		_ = cfg.Cache.SetIdentity(ctx, key, id)
	}
	return id
}
