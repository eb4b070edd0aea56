package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/personaquiz/platform-client/internal/core/ports"
)

// SessionHandler is the HTTP surface the embedding UI talks to: login form
// submit, navbar session lookup, sign-out. It is glue over the session
// controller; all policy lives below.
type SessionHandler struct {
	sessions ports.SessionService
	store    ports.TokenStore
	gateway  ports.AuthGateway
}

func NewSessionHandler(sessions ports.SessionService, store ports.TokenStore, gateway ports.AuthGateway) *SessionHandler {
	return &SessionHandler{sessions: sessions, store: store, gateway: gateway}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates the visitor and returns the resulting session.
//
// @Summary      Sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Session
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.sessions.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// Logout tears the session down and responds once local state is final.
//
// @Summary      Sign out
// @Tags         session
// @Success      204
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the session snapshot for navbar/guard rendering.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Session
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

// Profile proxies the visitor's quiz profile for presentational consumers.
//
// @Summary      Visitor profile
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *SessionHandler) Profile(c echo.Context) error {
	token, ok := h.store.Get(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not signed in"})
	}

	profile, err := h.gateway.Profile(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
