package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/personaquiz/platform-client/internal/core/domain"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	if !ok {
		t.Fatalf("expected expiry to be readable")
	}
	if !got.Equal(exp) {
		t.Fatalf("expiry = %v, want %v", got, exp)
	}

	if _, ok := TokenExpiry("not-a-jwt"); ok {
		t.Fatalf("opaque token must report no expiry")
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"})
	signed, err := noExp.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, ok := TokenExpiry(signed); ok {
		t.Fatalf("token without exp must report no expiry")
	}
}

func TestRefreshOnce_RotatesToken(t *testing.T) {
	store := &stubStore{token: "tok-old"}
	gw := newStubGateway()
	gw.refreshFn = func(token string) (string, error) {
		if token != "tok-old" {
			t.Fatalf("refresh called with %q", token)
		}
		return "tok-new", nil
	}
	ctl := newController(store, gw, nil)

	if err := ctl.refreshOnce(context.Background()); err != nil {
		t.Fatalf("refreshOnce returned error: %v", err)
	}
	if store.current() != "tok-new" {
		t.Fatalf("token not rotated, store holds %q", store.current())
	}
}

func TestRefreshOnce_UnauthorizedTearsDown(t *testing.T) {
	store := &stubStore{token: "tok-dead"}
	gw := studentGateway(nil)
	ctl := newController(store, gw, nil)
	if err := ctl.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	gw.refreshFn = func(string) (string, error) {
		return "", fmt.Errorf("%w: status 401", domain.ErrUnauthorized)
	}
	err := ctl.refreshOnce(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.current() != "" {
		t.Fatalf("dead credential must be cleared")
	}
	if ctl.Snapshot().Authenticated {
		t.Fatalf("session must be torn down after a rejected refresh")
	}
}

func TestRefreshOnce_NetworkFailureKeepsToken(t *testing.T) {
	store := &stubStore{token: "tok-1"}
	gw := newStubGateway()
	gw.refreshFn = func(string) (string, error) {
		return "", fmt.Errorf("%w: timeout", domain.ErrNetwork)
	}
	ctl := newController(store, gw, nil)

	err := ctl.refreshOnce(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if store.current() != "tok-1" {
		t.Fatalf("token must survive a transient refresh failure")
	}
}

func TestRunRefreshLoop_DueTokenRotatesOnce(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	store := &stubStore{token: signedToken(t, time.Now().Add(-time.Minute))}
	gw := newStubGateway()
	gw.refreshFn = func(string) (string, error) { return fresh, nil }
	ctl := newController(store, gw, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	ctl.RunRefreshLoop(ctx, 2*time.Minute)

	if got := gw.count("refresh"); got != 1 {
		t.Fatalf("refresh ran %d times, want 1", got)
	}
	if store.current() != fresh {
		t.Fatalf("token not rotated by the loop")
	}
}

func TestRunRefreshLoop_FailedAttemptBacksOff(t *testing.T) {
	store := &stubStore{token: signedToken(t, time.Now().Add(-time.Minute))}
	gw := newStubGateway()
	gw.refreshFn = func(string) (string, error) {
		return "", fmt.Errorf("%w: connection refused", domain.ErrNetwork)
	}
	ctl := newController(store, gw, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	ctl.RunRefreshLoop(ctx, 2*time.Minute)

	// The first attempt fires immediately; a retry floor must keep the
	// loop from spinning on the overdue token while the upstream is down.
	if got := gw.count("refresh"); got != 1 {
		t.Fatalf("refresh ran %d times against a dead upstream, want 1", got)
	}
	if store.current() == "" {
		t.Fatalf("token must survive transient refresh failures")
	}
}

func TestRefreshOnce_NoTokenIsANoOp(t *testing.T) {
	store := &stubStore{}
	gw := newStubGateway()
	ctl := newController(store, gw, nil)

	if err := ctl.refreshOnce(context.Background()); err != nil {
		t.Fatalf("refreshOnce returned error: %v", err)
	}
	if gw.total() != 0 {
		t.Fatalf("no token means no network call")
	}
}
