// Package auth resolves the caller identity supplied by the external
// identity provider. The provider (or an identity-aware proxy in front of
// this service) authenticates the session and forwards the resolved subject
// and role as trusted headers; no session protocol lives in this service.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/talankisai/financehub-fullstack/internal/model"
)

// Trusted headers set by the identity provider.
const (
	HeaderSubject   = "X-Auth-Subject"
	HeaderEmail     = "X-Auth-Email"
	HeaderRole      = "X-Auth-Role"
	HeaderFirstName = "X-Auth-First-Name"
	HeaderLastName  = "X-Auth-Last-Name"
	HeaderAvatarURL = "X-Auth-Avatar"
)

// Identity is the resolved caller. A zero Subject means anonymous.
type Identity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
	Role      string
}

// Authenticated reports whether a subject was resolved.
func (id Identity) Authenticated() bool { return id.Subject != "" }

// IsAdmin reports whether the caller carries the admin role.
func (id Identity) IsAdmin() bool { return id.Role == model.RoleAdmin }

// FromRequest reads the trusted identity headers.
func FromRequest(r *http.Request) Identity {
	return Identity{
		Subject:   strings.TrimSpace(r.Header.Get(HeaderSubject)),
		Email:     strings.TrimSpace(r.Header.Get(HeaderEmail)),
		FirstName: strings.TrimSpace(r.Header.Get(HeaderFirstName)),
		LastName:  strings.TrimSpace(r.Header.Get(HeaderLastName)),
		AvatarURL: strings.TrimSpace(r.Header.Get(HeaderAvatarURL)),
		Role:      strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderRole))),
	}
}

// User converts the identity to the persisted user shape for the
// upsert-on-login path. The role passes through as supplied; an empty role
// lets the store keep (or default) the stored one.
func (id Identity) User() model.User {
	return model.User{
		ID:        id.Subject,
		Email:     id.Email,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		AvatarURL: id.AvatarURL,
		Role:      id.Role,
	}
}

type ctxKey struct{}

// WithIdentity stashes the identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by the middleware, or a zero
// (anonymous) identity.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// Middleware resolves the caller identity once per request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), FromRequest(r))))
	})
}
