package ports

import (
	"context"

	"github.com/personaquiz/platform-client/internal/core/domain"
)

// SessionReader is the read-only view of session state handed to route
// guards and presentational consumers.
type SessionReader interface {
	// Snapshot returns the current session value.
	Snapshot() domain.Session

	// Subscribe registers for session snapshots published on every
	// transition. The returned cancel func releases the subscription.
	Subscribe() (<-chan domain.Session, func())
}

// SessionService orchestrates the session lifecycle. Transitions are
// mutually exclusive: a call made while another transition is in flight
// fails with domain.ErrTransitionInFlight (logout requests are ignored
// instead).
type SessionService interface {
	SessionReader

	// Initialize resolves the stored credential into a session exactly
	// once at startup.
	Initialize(ctx context.Context) error

	// Login authenticates, persists the token, and resolves the user.
	Login(ctx context.Context, email, password string) error

	// Logout tears the session down locally regardless of remote outcome.
	Logout(ctx context.Context) error

	// Close disposes the controller; later publishes become no-ops.
	Close()
}
