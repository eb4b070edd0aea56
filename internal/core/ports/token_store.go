package ports

import "context"

// TokenStore persists the single bearer credential slot that survives
// restarts. Implementations never fail outward: write problems are logged
// locally and read problems report the token as absent, so session logic can
// stay free of storage error plumbing.
type TokenStore interface {
	// Set stores token. Empty or whitespace-only values are never
	// persisted; such a call is a logged no-op.
	Set(ctx context.Context, token string)

	// Get returns the stored credential and whether one is present.
	Get(ctx context.Context) (token string, ok bool)

	// Clear removes any stored credential. Idempotent.
	Clear(ctx context.Context)
}
