package ports

import (
	"context"

	"github.com/personaquiz/platform-client/internal/core/domain"
)

// AuthGateway is the stateless client for the platform's auth endpoints.
// Every method classifies its remote outcome into the structured error kinds
// in domain/errors.go; the bearer token is passed explicitly so the gateway
// holds no session state of its own.
type AuthGateway interface {
	// Login exchanges credentials for a bearer token. The gateway stores
	// nothing; the caller decides what to do with the token.
	// Fails with domain.ErrInvalidCredentials or domain.ErrNetwork.
	Login(ctx context.Context, email, password string) (string, error)

	// CurrentUser resolves the account behind token.
	// Fails with domain.ErrUnauthorized (401/403) or domain.ErrNetwork.
	CurrentUser(ctx context.Context, token string) (domain.User, error)

	// Subscriptions lists the subscriptions matching filter, in server
	// order.
	Subscriptions(ctx context.Context, token string, filter domain.SubscriptionFilter) ([]domain.Subscription, error)

	// Logout asks the platform to invalidate token. Best-effort: callers
	// proceed with local teardown whatever this returns.
	Logout(ctx context.Context, token string) error

	// Refresh exchanges a still-valid token for a fresh one.
	Refresh(ctx context.Context, token string) (string, error)

	// Profile fetches the visitor's quiz profile for presentational
	// consumers.
	Profile(ctx context.Context, token string) (domain.Profile, error)
}
