// Package gateway implements the HTTP client for the quiz/event platform's
// auth endpoints. Every remote outcome is classified into one of the
// structured error kinds in internal/core/domain before it reaches session
// logic.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/personaquiz/platform-client/internal/core/domain"
	"github.com/personaquiz/platform-client/internal/observability/metrics"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the platform API.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

// Client is the stateless AuthGateway adapter. The bearer token travels as a
// parameter on every authenticated call; the client itself caches nothing.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient builds a platform API client. Callers should pass a validated
// config.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: baseURL, client: hc, log: log}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Result struct {
		Token string `json:"token"`
	} `json:"result"`
}

// Login exchanges credentials for a bearer token via POST /auth/token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", fmt.Errorf("%w: encode login payload: %v", domain.ErrNetwork, err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/token", "", bytes.NewReader(body))
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("login", "network_error").Inc()
		return "", err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		metrics.GatewayRequestsTotal.WithLabelValues("login", "rejected").Inc()
		return "", fmt.Errorf("%w: status %d", domain.ErrInvalidCredentials, resp.StatusCode)
	default:
		metrics.GatewayRequestsTotal.WithLabelValues("login", "network_error").Inc()
		return "", fmt.Errorf("%w: unexpected status %d", domain.ErrNetwork, resp.StatusCode)
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("login", "network_error").Inc()
		return "", fmt.Errorf("%w: decode login response: %v", domain.ErrNetwork, err)
	}
	if strings.TrimSpace(out.Result.Token) == "" {
		metrics.GatewayRequestsTotal.WithLabelValues("login", "network_error").Inc()
		return "", fmt.Errorf("%w: login response carried no token", domain.ErrNetwork)
	}

	metrics.GatewayRequestsTotal.WithLabelValues("login", "ok").Inc()
	return out.Result.Token, nil
}

type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// CurrentUser resolves the account behind token via GET /users/me.
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users/me", token, nil)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("current_user", "network_error").Inc()
		return domain.User{}, err
	}
	defer drain(resp)

	if err := classify(resp.StatusCode); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("current_user", outcome(err)).Inc()
		return domain.User{}, err
	}

	var payload userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("current_user", "network_error").Inc()
		return domain.User{}, fmt.Errorf("%w: decode user: %v", domain.ErrNetwork, err)
	}

	metrics.GatewayRequestsTotal.WithLabelValues("current_user", "ok").Inc()
	return domain.User{
		ID:       payload.ID,
		Email:    payload.Email,
		Role:     domain.ParseRole(payload.Role),
		FullName: payload.FullName,
	}, nil
}

type subscriptionPayload struct {
	ID     string `json:"id"`
	UserID string `json:"uid"`
	Status string `json:"status"`
	Plan   string `json:"plan"`
}

// Subscriptions lists subscriptions via GET /subscriptions?uid&status,
// preserving server order.
func (c *Client) Subscriptions(ctx context.Context, token string, filter domain.SubscriptionFilter) ([]domain.Subscription, error) {
	q := url.Values{}
	if filter.UID != "" {
		q.Set("uid", filter.UID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	path := "/subscriptions"
	if enc := q.Encode(); enc != "" {
		path += "?" + enc
	}

	resp, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("subscriptions", "network_error").Inc()
		return nil, err
	}
	defer drain(resp)

	if err := classify(resp.StatusCode); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("subscriptions", outcome(err)).Inc()
		return nil, err
	}

	var payload []subscriptionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("subscriptions", "network_error").Inc()
		return nil, fmt.Errorf("%w: decode subscriptions: %v", domain.ErrNetwork, err)
	}

	subs := make([]domain.Subscription, 0, len(payload))
	for _, p := range payload {
		subs = append(subs, domain.Subscription{ID: p.ID, UserID: p.UserID, Status: p.Status, Plan: p.Plan})
	}

	metrics.GatewayRequestsTotal.WithLabelValues("subscriptions", "ok").Inc()
	return subs, nil
}

type logoutRequest struct {
	Token string `json:"token"`
}

// Logout posts a best-effort invalidation via POST /auth/logout. Callers are
// expected to swallow failures and proceed with local teardown.
func (c *Client) Logout(ctx context.Context, token string) error {
	body, err := json.Marshal(logoutRequest{Token: token})
	if err != nil {
		return fmt.Errorf("%w: encode logout payload: %v", domain.ErrNetwork, err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", token, bytes.NewReader(body))
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("logout", "network_error").Inc()
		return err
	}
	defer drain(resp)

	if err := classify(resp.StatusCode); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("logout", outcome(err)).Inc()
		return err
	}

	metrics.GatewayRequestsTotal.WithLabelValues("logout", "ok").Inc()
	return nil
}

type refreshResponse struct {
	Result struct {
		Token string `json:"token"`
	} `json:"result"`
}

// Refresh exchanges a still-valid token for a fresh one via POST /auth/refresh.
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/auth/refresh", token, nil)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("refresh", "network_error").Inc()
		return "", err
	}
	defer drain(resp)

	if err := classify(resp.StatusCode); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("refresh", outcome(err)).Inc()
		return "", err
	}

	var out refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("refresh", "network_error").Inc()
		return "", fmt.Errorf("%w: decode refresh response: %v", domain.ErrNetwork, err)
	}
	if strings.TrimSpace(out.Result.Token) == "" {
		metrics.GatewayRequestsTotal.WithLabelValues("refresh", "network_error").Inc()
		return "", fmt.Errorf("%w: refresh response carried no token", domain.ErrNetwork)
	}

	metrics.GatewayRequestsTotal.WithLabelValues("refresh", "ok").Inc()
	return out.Result.Token, nil
}

type profilePayload struct {
	ID          string `json:"id"`
	UserID      string `json:"uid"`
	Nickname    string `json:"nickname"`
	PersonaType string `json:"persona_type"`
	AvatarURL   string `json:"avatar_url"`
}

// Profile fetches the visitor's quiz profile via GET /profiles.
func (c *Client) Profile(ctx context.Context, token string) (domain.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, "/profiles", token, nil)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("profile", "network_error").Inc()
		return domain.Profile{}, err
	}
	defer drain(resp)

	if err := classify(resp.StatusCode); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("profile", outcome(err)).Inc()
		return domain.Profile{}, err
	}

	var payload profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues("profile", "network_error").Inc()
		return domain.Profile{}, fmt.Errorf("%w: decode profile: %v", domain.ErrNetwork, err)
	}

	metrics.GatewayRequestsTotal.WithLabelValues("profile", "ok").Inc()
	return domain.Profile{
		ID:          payload.ID,
		UserID:      payload.UserID,
		Nickname:    payload.Nickname,
		PersonaType: payload.PersonaType,
		AvatarURL:   payload.AvatarURL,
	}, nil
}

// do issues one request with optional bearer auth. Transport-level failures
// (DNS, timeouts, cancelled contexts) come back as domain.ErrNetwork.
func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrNetwork, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("platform request failed")
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrNetwork, method, path, err)
	}
	return resp, nil
}

// classify maps an authenticated endpoint's status code onto the error
// taxonomy: 2xx passes, 401/403 is ErrUnauthorized, everything else is
// ErrNetwork.
func classify(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", domain.ErrUnauthorized, status)
	default:
		return fmt.Errorf("%w: unexpected status %d", domain.ErrNetwork, status)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "network_error"
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
