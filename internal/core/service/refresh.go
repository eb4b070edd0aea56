package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/personaquiz/platform-client/internal/core/domain"
	"github.com/personaquiz/platform-client/internal/observability/metrics"
)

// refreshRecheckInterval is how often the loop re-inspects the slot when no
// usable expiry is available.
const refreshRecheckInterval = time.Minute

// refreshRetryInterval floors the wake-up delay after a failed or skipped
// attempt. An already-expired token would otherwise schedule with zero wait
// and spin against a dead upstream.
const refreshRetryInterval = 15 * time.Second

// TokenExpiry extracts the exp claim from a bearer token without verifying
// its signature. The client treats the credential as opaque for
// authentication; peeking expiry only schedules refresh.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// RunRefreshLoop keeps the stored credential fresh until ctx is cancelled,
// firing lead ahead of the token's expiry. Network failures are retried on
// the next wake-up; a rejected refresh tears the session down locally since
// the credential is provably dead.
func (s *SessionController) RunRefreshLoop(ctx context.Context, lead time.Duration) {
	var floor time.Duration
	for {
		wait := refreshRecheckInterval
		if token, ok := s.store.Get(ctx); ok {
			if exp, known := TokenExpiry(token); known {
				wait = time.Until(exp) - lead
				if wait < 0 {
					wait = 0
				}
			}
		}
		if wait < floor {
			wait = floor
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		floor = 0
		if err := s.refreshOnce(ctx); err != nil {
			if errors.Is(err, domain.ErrControllerClosed) {
				return
			}
			if !errors.Is(err, domain.ErrTransitionInFlight) {
				s.log.Warn().Err(err).Msg("token refresh failed")
			}
			floor = refreshRetryInterval
		}
	}
}

// refreshOnce exchanges the stored token for a fresh one under the
// transition guard. Skipped when another transition is running.
func (s *SessionController) refreshOnce(ctx context.Context) error {
	release, err := s.begin("refresh")
	if err != nil {
		return err
	}
	defer release()

	token, ok := s.store.Get(ctx)
	if !ok {
		return nil
	}

	fresh, err := s.gateway.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			// Credential is dead; local teardown mirrors an
			// unauthorized startup.
			s.store.Clear(ctx)
			s.publish(domain.Unauthenticated())
			metrics.SessionTransitionsTotal.WithLabelValues("refresh", "unauthenticated").Inc()
			return err
		}
		metrics.SessionTransitionsTotal.WithLabelValues("refresh", "error").Inc()
		return err
	}

	s.store.Set(ctx, fresh)
	metrics.SessionTransitionsTotal.WithLabelValues("refresh", "authenticated").Inc()
	return nil
}
