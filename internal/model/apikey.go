package model

// APIKey represents a long-lived opaque credential bound to a user.
// Keys never expire and there is no revocation path.
type APIKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Key       string `json:"key"`
	CreatedAt int64  `json:"created_at"` // epoch milliseconds
}

// APIKeySummary is the per-key view returned by the stats endpoint.
type APIKeySummary struct {
	Key       string `json:"key"`
	CreatedAt int64  `json:"created_at"`
}

// StatsResponse is returned by GET /keys/stats.
type StatsResponse struct {
	UserRequests  int64           `json:"user_requests"`
	TotalRequests int64           `json:"total_requests"`
	APIKeys       []APIKeySummary `json:"api_keys"`
}
