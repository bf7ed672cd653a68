package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utilgate/utilgate/internal/model"
)

// ErrAPIKeyNotFound indicates no key row matched the presented token.
var ErrAPIKeyNotFound = errors.New("API key not found")

// CreateAPIKey inserts a new API key. Keys are stored as presented to
// clients; the token itself is the unique lookup column.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, key, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.UserID,
		key.Key,
		key.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// GetAPIKeyOwner resolves a presented key to its owner's user ID and
// email in one round trip. Used on every service-authenticated request.
func (r *Repository) GetAPIKeyOwner(ctx context.Context, key string) (userID, email string, err error) {
	query := `
		SELECT u.id, u.email
		FROM api_keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.key = $1
	`

	err = r.pool.QueryRow(ctx, query, key).Scan(&userID, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrAPIKeyNotFound
		}
		return "", "", fmt.Errorf("failed to look up API key: %w", err)
	}

	return userID, email, nil
}

// ListAPIKeysByUserID retrieves all keys for a user, newest first.
func (r *Repository) ListAPIKeysByUserID(ctx context.Context, userID string) ([]model.APIKeySummary, error) {
	query := `
		SELECT key, created_at
		FROM api_keys
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list API keys: %w", err)
	}
	defer rows.Close()

	keys := make([]model.APIKeySummary, 0)
	for rows.Next() {
		var k model.APIKeySummary
		if err := rows.Scan(&k.Key, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}

	return keys, nil
}
