package auth

import "strings"

// AdminList is the configured set of admin email addresses.
// Membership checks are case-insensitive and ignore surrounding whitespace.
type AdminList struct {
	emails map[string]struct{}
}

// NewAdminList builds an AdminList from the configured addresses.
// Empty entries are dropped.
func NewAdminList(emails []string) *AdminList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		normalized := normalizeEmail(e)
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return &AdminList{emails: set}
}

// Contains reports whether the email belongs to an admin.
func (a *AdminList) Contains(email string) bool {
	_, ok := a.emails[normalizeEmail(email)]
	return ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
