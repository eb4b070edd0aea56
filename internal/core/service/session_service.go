package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/personaquiz/platform-client/internal/core/domain"
	"github.com/personaquiz/platform-client/internal/core/ports"
	"github.com/personaquiz/platform-client/internal/observability/metrics"
)

// subscriptionStatusFilter is the server-side status the session core cares
// about when loading a student's subscriptions.
const subscriptionStatusFilter = "active"

// Notifier receives informational lifecycle events for the presentation
// layer. Implementations must not block: session state is already final when
// a notification fires.
type Notifier interface {
	LoggedOut()
}

// ControllerOptions groups dependencies for SessionController.
type ControllerOptions struct {
	Store    ports.TokenStore
	Gateway  ports.AuthGateway
	Notifier Notifier // optional
	Log      zerolog.Logger
}

// SessionController owns the session state machine: startup initialization,
// login, logout, and token refresh. The session snapshot is rebuilt
// wholesale on every transition and broadcast to subscribers; nothing
// outside this controller mutates it.
//
// Transitions are mutually exclusive. A transition runs to completion,
// including its remote calls, before the next is accepted; competing calls
// fail fast with domain.ErrTransitionInFlight (logouts are ignored instead).
type SessionController struct {
	store    ports.TokenStore
	gateway  ports.AuthGateway
	notifier Notifier
	log      zerolog.Logger
	validate *validator.Validate

	// transition is TryLock-ed for the full duration of every transition,
	// remote suspension points included.
	transition sync.Mutex

	mu      sync.RWMutex
	session domain.Session
	closed  bool

	bus *broadcaster
}

// NewSessionController constructs a controller in the Initializing state.
func NewSessionController(opts ControllerOptions) *SessionController {
	return &SessionController{
		store:    opts.Store,
		gateway:  opts.Gateway,
		notifier: opts.Notifier,
		log:      opts.Log,
		validate: validator.New(),
		session:  domain.NewSession(),
		bus:      newBroadcaster(opts.Log),
	}
}

// Snapshot returns a defensive copy of the current session.
func (s *SessionController) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSession(s.session)
}

// Subscribe registers for session snapshots published on every transition.
func (s *SessionController) Subscribe() (<-chan domain.Session, func()) {
	return s.bus.subscribe()
}

// Initialize resolves the stored credential into a session. It terminates in
// a published terminal state exactly once in every branch; remote failures
// degrade silently to Unauthenticated per the startup policy:
//   - credential absent: Unauthenticated, no network call
//   - credential rejected (401/403): credential cleared, Unauthenticated
//   - any other failure: credential kept (it may still be valid), Unauthenticated
func (s *SessionController) Initialize(ctx context.Context) error {
	release, err := s.begin("initialize")
	if err != nil {
		return err
	}
	defer release()
	timer := prometheus.NewTimer(metrics.TransitionDuration.WithLabelValues("initialize"))
	defer timer.ObserveDuration()

	token, ok := s.store.Get(ctx)
	if !ok {
		s.publish(domain.Unauthenticated())
		metrics.SessionTransitionsTotal.WithLabelValues("initialize", "unauthenticated").Inc()
		return nil
	}

	sess, err := s.resolveUser(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.log.Info().Msg("stored credential rejected by platform, clearing")
			s.store.Clear(ctx)
		} else {
			s.log.Warn().Err(err).Msg("could not resolve user at startup, keeping credential")
		}
		s.publish(domain.Unauthenticated())
		metrics.SessionTransitionsTotal.WithLabelValues("initialize", "unauthenticated").Inc()
		return nil
	}

	s.publish(sess)
	metrics.SessionTransitionsTotal.WithLabelValues("initialize", "authenticated").Inc()
	return nil
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Login authenticates against the platform, persists the returned token, and
// resolves the user the same way startup does.
//
// A rejected email/password pair surfaces as domain.ErrInvalidCredentials
// with no TokenStore or session mutation. A user resolution that fails after
// a successful login surfaces as domain.ErrPostLoginResolve so callers can
// tell it apart from both.
func (s *SessionController) Login(ctx context.Context, email, password string) error {
	release, err := s.begin("login")
	if err != nil {
		return err
	}
	defer release()
	timer := prometheus.NewTimer(metrics.TransitionDuration.WithLabelValues("login"))
	defer timer.ObserveDuration()

	if err := s.validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("login", "error").Inc()
		return fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	token, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		metrics.SessionTransitionsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	s.store.Set(ctx, token)

	sess, err := s.resolveUser(ctx, token)
	if err != nil {
		// Credential stored, identity uncertain: stay signed out rather
		// than present a logged-in UI on an unresolved user.
		s.publish(domain.Unauthenticated())
		metrics.SessionTransitionsTotal.WithLabelValues("login", "error").Inc()
		return fmt.Errorf("%w: %v", domain.ErrPostLoginResolve, err)
	}

	s.publish(sess)
	metrics.SessionTransitionsTotal.WithLabelValues("login", "authenticated").Inc()
	return nil
}

// Logout tears the session down. Remote invalidation is best-effort; the
// local credential is cleared and Unauthenticated published no matter what.
// A logout requested while another transition is in flight is ignored.
func (s *SessionController) Logout(ctx context.Context) error {
	if !s.transition.TryLock() {
		s.log.Debug().Msg("logout ignored, transition already in flight")
		metrics.SessionTransitionsTotal.WithLabelValues("logout", "ignored").Inc()
		return nil
	}
	defer s.transition.Unlock()
	if s.isClosed() {
		return domain.ErrControllerClosed
	}
	timer := prometheus.NewTimer(metrics.TransitionDuration.WithLabelValues("logout"))
	defer timer.ObserveDuration()

	if token, ok := s.store.Get(ctx); ok {
		if err := s.gateway.Logout(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("remote logout failed, proceeding with local teardown")
		}
	}

	s.store.Clear(ctx)
	s.publish(domain.Unauthenticated())
	metrics.SessionTransitionsTotal.WithLabelValues("logout", "unauthenticated").Inc()

	// Informational only, scheduled after state is already final.
	if s.notifier != nil {
		s.notifier.LoggedOut()
	}
	return nil
}

// Close disposes the controller. Transitions started afterwards fail with
// domain.ErrControllerClosed and publishes from in-flight work become no-ops.
func (s *SessionController) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.bus.close()
}

// resolveUser turns a credential into an Authenticated snapshot. The
// subscription lookup runs only after the user fetch resolved, only for
// students, and its failure never propagates: the session stays
// Authenticated with empty subscriptions.
func (s *SessionController) resolveUser(ctx context.Context, token string) (domain.Session, error) {
	user, err := s.gateway.CurrentUser(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}

	var subs []domain.Subscription
	if user.Role == domain.RoleStudent {
		subs, err = s.gateway.Subscriptions(ctx, token, domain.SubscriptionFilter{
			UID:    user.ID,
			Status: subscriptionStatusFilter,
		})
		if err != nil {
			s.log.Warn().Err(err).Str("uid", user.ID).Msg("subscription lookup failed, continuing without")
			subs = nil
		}
	}

	return domain.Authenticated(user, subs), nil
}

// begin acquires the transition guard without waiting.
func (s *SessionController) begin(name string) (func(), error) {
	if !s.transition.TryLock() {
		metrics.SessionTransitionsTotal.WithLabelValues(name, "rejected").Inc()
		return nil, domain.ErrTransitionInFlight
	}
	if s.isClosed() {
		s.transition.Unlock()
		return nil, domain.ErrControllerClosed
	}
	return s.transition.Unlock, nil
}

func (s *SessionController) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// publish replaces the session snapshot and broadcasts it. Publishing into a
// closed controller is a no-op so late async work cannot resurrect state.
func (s *SessionController) publish(next domain.Session) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.session.State.CanTransitionTo(next.State) {
		s.log.Error().
			Str("from", string(s.session.State)).
			Str("to", string(next.State)).
			Msg("invalid session transition")
		s.mu.Unlock()
		return
	}
	s.session = next
	s.mu.Unlock()

	s.bus.publish(cloneSession(next))
}

func cloneSession(sess domain.Session) domain.Session {
	out := sess
	if sess.User != nil {
		u := *sess.User
		out.User = &u
	}
	if sess.Subscriptions != nil {
		out.Subscriptions = append([]domain.Subscription(nil), sess.Subscriptions...)
	}
	return out
}
