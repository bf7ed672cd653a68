package repository

import (
	"context"
	"fmt"
)

// EnsureUsage creates the counter row for a user at count 0 if it does
// not exist yet. Called at key issuance so stats read zero rather than
// missing before the first authenticated request.
func (r *Repository) EnsureUsage(ctx context.Context, userID string) error {
	query := `
		INSERT INTO usage (user_id, count)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to ensure usage row: %w", err)
	}
	return nil
}

// IncrementUsage atomically creates-or-increments the user's counter.
// The single upsert statement is what makes N concurrent requests land
// on exactly N; there is no read-modify-write window.
func (r *Repository) IncrementUsage(ctx context.Context, userID string) error {
	query := `
		INSERT INTO usage (user_id, count)
		VALUES ($1, 1)
		ON CONFLICT (user_id) DO UPDATE SET count = usage.count + 1
	`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// GetUsage returns the user's request count, zero when no row exists.
func (r *Repository) GetUsage(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(
			(SELECT count FROM usage WHERE user_id = $1), 0
		)
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get usage: %w", err)
	}
	return count, nil
}

// TotalUsage returns the sum of all users' request counts.
func (r *Repository) TotalUsage(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(count), 0) FROM usage`

	var total int64
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to get total usage: %w", err)
	}
	return total, nil
}
