package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/personaquiz/platform-client/internal/infrastructure/config"
	"github.com/personaquiz/platform-client/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:     "0",
		Env:      "test",
		LogLevel: "error",
		Platform: config.PlatformConfig{
			BaseURL:     "http://127.0.0.1:1",
			HTTPTimeout: time.Second,
		},
		Store: config.StoreConfig{
			Backend:  "file",
			FilePath: filepath.Join(t.TempDir(), "token"),
		},
		Session: config.SessionConfig{
			NotifyDuration: 20 * time.Millisecond,
			RefreshLead:    time.Minute,
			LoginPath:      "/login",
		},
	}
}

func TestBuild_FileBackend(t *testing.T) {
	logger.Reset()
	app, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer app.Close()

	// No stored credential: startup resolves offline, no platform call.
	if err := app.Sessions.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if app.Sessions.Snapshot().Authenticated {
		t.Fatalf("expected unauthenticated startup")
	}

	// The assembled surface serves health and session state.
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Fatalf("session = %d: %s", rec.Code, rec.Body.String())
	}

	// Guarded routes bounce signed-out visitors towards login.
	rec = httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("guarded route = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?next=") {
		t.Fatalf("redirect location = %q", loc)
	}
}

func TestBuild_UnknownBackend(t *testing.T) {
	logger.Reset()
	cfg := testConfig(t)
	cfg.Store.Backend = "carrier-pigeon"

	if _, err := Build(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown token store backend")
	}
}
