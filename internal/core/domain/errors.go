package domain

import "errors"

// Structured error kinds for every remote outcome the session core reacts to.
// The gateway classifies HTTP results into exactly one of these; callers
// branch with errors.Is instead of parsing message text.
var (
	// ErrUnauthorized means the platform rejected the bearer credential
	// (HTTP 401/403) — it is provably invalid or expired.
	ErrUnauthorized = errors.New("credential rejected")

	// ErrInvalidCredentials is the login-specific rejection of an
	// email/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNetwork covers every other remote failure: timeouts, server
	// errors, malformed payloads. The credential may still be valid.
	ErrNetwork = errors.New("network failure")

	// ErrPostLoginResolve marks a user resolution that failed after a
	// successful login. Consumers must be able to tell this apart from a
	// login rejection and from silent startup degradation.
	ErrPostLoginResolve = errors.New("post-login user resolution failed")

	// ErrTransitionInFlight is returned when a session transition is
	// requested while another is still running.
	ErrTransitionInFlight = errors.New("session transition already in flight")

	// ErrControllerClosed is returned by transitions on a disposed
	// controller.
	ErrControllerClosed = errors.New("session controller closed")
)
