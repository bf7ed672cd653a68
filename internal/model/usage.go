package model

// AdminUser is the per-user view returned by the admin users endpoint,
// combining the account, its usage counter and its keys. RequestCount
// mirrors the usage row, which is created lazily on first key issuance
// or first authenticated call and only ever increments.
type AdminUser struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	RegistrationIP string          `json:"registration_ip,omitempty"`
	RequestCount   int64           `json:"request_count"`
	APIKeys        []APIKeySummary `json:"api_keys"`
}
