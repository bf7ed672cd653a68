package accesslog

import (
	"context"
	"sync"
)

// Tag is a mutable holder the logging middleware places in the request
// context before authentication runs. The service-auth middleware fills
// it in, and the logging middleware reads it once the handler returns.
// This is the only piece of request state written by an inner stage and
// read by an outer one, hence the mutex.
type Tag struct {
	mu     sync.Mutex
	email  string
	apiKey string
}

type tagKey struct{}

// ContextWithTag installs a Tag in the context.
func ContextWithTag(ctx context.Context, t *Tag) context.Context {
	return context.WithValue(ctx, tagKey{}, t)
}

// TagFromContext retrieves the Tag, or nil when logging is not active.
func TagFromContext(ctx context.Context) *Tag {
	t, ok := ctx.Value(tagKey{}).(*Tag)
	if !ok {
		return nil
	}
	return t
}

// SetUser records the authenticated caller for the access-log entry.
func (t *Tag) SetUser(email, apiKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.email = email
	t.apiKey = apiKey
}

// User returns the recorded caller, if any.
func (t *Tag) User() (email, apiKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.email, t.apiKey
}
