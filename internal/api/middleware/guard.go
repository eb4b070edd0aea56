package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/personaquiz/platform-client/internal/core/domain"
	"github.com/personaquiz/platform-client/internal/core/ports"
	"github.com/personaquiz/platform-client/internal/observability/metrics"
)

// accessDenied is the view rendered to an authenticated visitor whose role
// does not satisfy the route. Roles are carried for display only.
type accessDenied struct {
	Error        string `json:"error"`
	UserRole     string `json:"user_role"`
	RequiredRole string `json:"required_role"`
}

// Guard gates a route on the published session state plus its declared role
// requirement.
//
// Unauthenticated visitors are redirected to loginPath carrying the
// originating path in ?next= so the caller can return there post-login
// (best-effort). A nil requirement only demands authentication. Otherwise
// the pure role decision picks between the protected content and an
// access-denied view.
func Guard(sessions ports.SessionReader, loginPath string, req *domain.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := sessions.Snapshot()

			if !sess.Authenticated {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				target := loginPath + "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
				return c.Redirect(http.StatusFound, target)
			}

			if req == nil {
				metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
				return next(c)
			}

			if !domain.Decide(sess.Role(), *req) {
				metrics.GuardDecisionsTotal.WithLabelValues("deny").Inc()
				return c.JSON(http.StatusForbidden, accessDenied{
					Error:        "access denied",
					UserRole:     sess.Role().Display(),
					RequiredRole: req.DisplayRole().Display(),
				})
			}

			metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
