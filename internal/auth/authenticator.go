package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userKey contextKey = "user_id"

// Authenticator resolves the user behind an HTTP request.
type Authenticator struct {
	manager  *Manager
	disabled bool
	devUser  string
}

// NewAuthenticator verifies bearer tokens with manager.
func NewAuthenticator(manager *Manager) *Authenticator {
	return &Authenticator{manager: manager}
}

// NewDevAuthenticator skips token checks and treats every request as
// devUser. For local use only.
func NewDevAuthenticator(devUser string) *Authenticator {
	return &Authenticator{disabled: true, devUser: devUser}
}

// Disabled reports whether token checks are skipped.
func (a *Authenticator) Disabled() bool {
	return a.disabled
}

// UserID returns the user id carried by the request's bearer token.
func (a *Authenticator) UserID(r *http.Request) (string, error) {
	if a.disabled {
		return a.devUser, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}

	return a.manager.Verify(strings.TrimSpace(token))
}

// WithUser returns a copy of ctx carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserFromContext returns the user id stored by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey).(string)
	return id, ok && id != ""
}
