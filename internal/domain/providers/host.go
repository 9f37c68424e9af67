package providers

import (
	"context"
)

// MiniAppUser is the user identity supplied by the hosting mini-app
// environment.
type MiniAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

// HostCapabilities abstracts the mini-app host. Only the operations the
// wizard actually consumes are exposed, so nothing outside this interface
// ever touches a concrete host SDK. Outside a hosting environment the noop
// implementation is used and the wizard works as a plain web flow.
type HostCapabilities interface {
	// User returns the authenticated host user for the request, if any.
	User(ctx context.Context) (*MiniAppUser, bool)
}

// NoopHost satisfies HostCapabilities outside a mini-app host.
type NoopHost struct{}

// User always reports no user.
func (NoopHost) User(ctx context.Context) (*MiniAppUser, bool) {
	return nil, false
}
