package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/utilgate/utilgate/internal/auth"
	"github.com/utilgate/utilgate/internal/model"
)

// KeyStore defines the persistence operations for key issuance and stats.
type KeyStore interface {
	CreateAPIKey(ctx context.Context, key *model.APIKey) error
	ListAPIKeysByUserID(ctx context.Context, userID string) ([]model.APIKeySummary, error)
	EnsureUsage(ctx context.Context, userID string) error
	GetUsage(ctx context.Context, userID string) (int64, error)
	TotalUsage(ctx context.Context) (int64, error)
}

// APIKeyHandler handles key issuance and usage statistics.
type APIKeyHandler struct {
	logger *slog.Logger
	store  KeyStore
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(logger *slog.Logger, store KeyStore) *APIKeyHandler {
	return &APIKeyHandler{
		logger: logger,
		store:  store,
	}
}

// GenerateKey handles POST /keys/generate-key.
// Deliberately not idempotent: each call mints a new, permanently valid
// key for the session user. Also ensures the usage counter row exists
// so stats read zero before the first authenticated call.
func (h *APIKeyHandler) GenerateKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		h.logger.Error("failed to generate API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to generate key")
		return
	}

	apiKey := &model.APIKey{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Key:       key,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := h.store.CreateAPIKey(ctx, apiKey); err != nil {
		h.logger.Error("failed to create API key", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to generate key")
		return
	}

	if err := h.store.EnsureUsage(ctx, userID); err != nil {
		// The counter row will still appear on first authenticated use.
		h.logger.Error("failed to ensure usage row",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	h.logger.Info("API key created",
		slog.String("key_id", apiKey.ID),
		slog.String("user_id", userID),
	)

	writeJSON(w, http.StatusOK, map[string]string{"key": key})
}

// Stats handles GET /keys/stats.
func (h *APIKeyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserIDFromContext(ctx)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	userRequests, err := h.store.GetUsage(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get usage", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	totalRequests, err := h.store.TotalUsage(ctx)
	if err != nil {
		h.logger.Error("failed to get total usage", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	keys, err := h.store.ListAPIKeysByUserID(ctx, userID)
	if err != nil {
		h.logger.Error("failed to list API keys", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	writeJSON(w, http.StatusOK, model.StatsResponse{
		UserRequests:  userRequests,
		TotalRequests: totalRequests,
		APIKeys:       keys,
	})
}
