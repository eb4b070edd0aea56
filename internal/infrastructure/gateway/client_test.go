package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/personaquiz/platform-client/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":{"token":"tok-1"}}`))
	})

	token, err := c.Login(context.Background(), "kid@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token = %q, want tok-1", token)
	}
}

func TestLogin_Rejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Login(context.Background(), "kid@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_ServerErrorIsNetwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Login(context.Background(), "kid@example.com", "hunter2")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestLogin_EmptyTokenIsNetwork(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"token":""}}`))
	})

	_, err := c.Login(context.Background(), "kid@example.com", "hunter2")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork for tokenless response, got %v", err)
	}
}

func TestCurrentUser_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/users/me" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"kid@example.com","role":"STUDENT","full_name":"Kid"}`))
	})

	user, err := c.CurrentUser(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("role label must be normalized, got %q", user.Role)
	}
	if user.ID != "u1" || user.FullName != "Kid" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestCurrentUser_ErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, "", domain.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "", domain.ErrUnauthorized},
		{"server error", http.StatusInternalServerError, "", domain.ErrNetwork},
		{"malformed payload", http.StatusOK, `{"id":`, domain.ErrNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.CurrentUser(context.Background(), "tok-1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCurrentUser_UnreachableHostIsNetwork(t *testing.T) {
	c, err := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.CurrentUser(context.Background(), "tok-1"); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestSubscriptions_FilterAndOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("uid") != "u1" || q.Get("status") != "active" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`[{"id":"s2","uid":"u1","status":"active"},{"id":"s1","uid":"u1","status":"active"}]`))
	})

	subs, err := c.Subscriptions(context.Background(), "tok-1", domain.SubscriptionFilter{UID: "u1", Status: "active"})
	if err != nil {
		t.Fatalf("Subscriptions returned error: %v", err)
	}
	if len(subs) != 2 || subs[0].ID != "s2" || subs[1].ID != "s1" {
		t.Fatalf("server order must be preserved, got %+v", subs)
	}
}

func TestLogout_CarriesToken(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/logout" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		buf := make([]byte, 256)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	})

	if err := c.Logout(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if gotBody != `{"token":"tok-1"}` {
		t.Fatalf("body = %s", gotBody)
	}
}

func TestRefresh_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/refresh" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":{"token":"tok-2"}}`))
	})

	token, err := c.Refresh(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if token != "tok-2" {
		t.Fatalf("token = %q, want tok-2", token)
	}
}

func TestProfile_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profiles" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"p1","uid":"u1","nickname":"kiddo","persona_type":"INTP"}`))
	})

	profile, err := c.Profile(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.PersonaType != "INTP" || profile.UserID != "u1" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for missing base URL")
	}
}
