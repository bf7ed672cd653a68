package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/utilgate/utilgate/internal/accesslog"
	"github.com/utilgate/utilgate/internal/model"
)

// AdminUserLister lists users with usage counters. Satisfied by the repository.
type AdminUserLister interface {
	ListUsersWithUsage(ctx context.Context) ([]*model.AdminUser, error)
	ListAPIKeysByUserID(ctx context.Context, userID string) ([]model.APIKeySummary, error)
}

// LogReader reads back access-log entries. Satisfied by the accesslog writer.
type LogReader interface {
	Read(date string, limit int) ([]accesslog.Entry, error)
}

// AdminHandler provides the admin-only views. Routes using it must sit
// behind session auth plus the admin allow-list check.
type AdminHandler struct {
	logger *slog.Logger
	users  AdminUserLister
	logs   LogReader
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(logger *slog.Logger, users AdminUserLister, logs LogReader) *AdminHandler {
	return &AdminHandler{
		logger: logger,
		users:  users,
		logs:   logs,
	}
}

// Users handles GET /admin/users: every account with its request count
// and keys, newest account first.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsersWithUsage(ctx)
	if err != nil {
		h.logger.Error("failed to list users", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	for _, u := range users {
		keys, err := h.users.ListAPIKeysByUserID(ctx, u.ID)
		if err != nil {
			h.logger.Error("failed to list API keys",
				slog.String("user_id", u.ID),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to load users")
			return
		}
		u.APIKeys = keys
	}

	if users == nil {
		users = []*model.AdminUser{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Logs handles GET /admin/logs?date=YYYY-MM-DD&limit=N.
// Date defaults to today (UTC, matching the writer's partitioning);
// the reader enforces the date pattern, the directory boundary, and
// the entry cap.
func (h *AdminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	limit := accesslog.DefaultReadLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.logs.Read(date, limit)
	if err != nil {
		if errors.Is(err, accesslog.ErrInvalidDate) {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
		h.logger.Error("failed to read access logs", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load logs")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
