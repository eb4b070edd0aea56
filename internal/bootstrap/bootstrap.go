// Package bootstrap assembles the session core from configuration: token
// store backend, platform gateway, session controller, notifier, and the
// embedding HTTP surface.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/personaquiz/platform-client/internal/api"
	"github.com/personaquiz/platform-client/internal/api/handler"
	"github.com/personaquiz/platform-client/internal/api/notify"
	"github.com/personaquiz/platform-client/internal/core/ports"
	"github.com/personaquiz/platform-client/internal/core/service"
	"github.com/personaquiz/platform-client/internal/infrastructure/config"
	"github.com/personaquiz/platform-client/internal/infrastructure/gateway"
	"github.com/personaquiz/platform-client/internal/infrastructure/store"
	"github.com/personaquiz/platform-client/pkg/logger"
)

// App is the assembled session core plus its embedding surface.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	Sessions *service.SessionController
	Store    ports.TokenStore
	Gateway  ports.AuthGateway
	Toast    *notify.Toast
	Router   *echo.Echo

	closers []func()
}

// Build wires every component from cfg. The returned App is not yet
// initialized: callers run Sessions.Initialize (and optionally
// Sessions.RunRefreshLoop) themselves so startup stays under their control.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	app := &App{Config: cfg, Log: log}

	tokenStore, pinger, err := buildTokenStore(ctx, cfg, log, app)
	if err != nil {
		return nil, err
	}
	app.Store = tokenStore

	gw, err := gateway.NewClient(gateway.Config{
		BaseURL: cfg.Platform.BaseURL,
		Timeout: cfg.Platform.HTTPTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	app.Gateway = gw

	app.Toast = notify.NewToast(cfg.Session.NotifyDuration, log)

	app.Sessions = service.NewSessionController(service.ControllerOptions{
		Store:    tokenStore,
		Gateway:  gw,
		Notifier: app.Toast,
		Log:      log,
	})
	app.closers = append(app.closers, app.Sessions.Close)

	app.Router = api.NewRouter(api.RouterOptions{
		Config:      cfg,
		Sessions:    app.Sessions,
		Store:       tokenStore,
		Gateway:     gw,
		StorePinger: pinger,
		Log:         log,
	})

	return app, nil
}

// Close releases every component in reverse construction order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildTokenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, app *App) (ports.TokenStore, handler.Pinger, error) {
	switch strings.ToLower(cfg.Store.Backend) {
	case "file":
		return store.NewFileTokenStore(cfg.Store.FilePath, log), nil, nil

	case "redis":
		client, err := store.Connect(ctx, store.RedisConfig{
			Addr: cfg.Store.RedisAddr,
			DB:   cfg.Store.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: token store: %w", err)
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		s := store.NewRedisTokenStore(client, cfg.Store.RedisKey, log)
		return s, s, nil

	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown token store backend %q", cfg.Store.Backend)
	}
}
