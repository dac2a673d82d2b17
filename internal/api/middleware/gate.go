package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/dashboard/internal/api/metrics"
	"github.com/userhub/dashboard/internal/core/domain"
)

// Context keys set by the gate for downstream handlers.
const (
	ContextSession = "session"
	ContextRole    = "role"
	ContextToken   = "session_token"
)

// SessionBootstrapper confirms a session cookie against the user backend.
type SessionBootstrapper interface {
	Bootstrap(ctx context.Context, token string) (*domain.Session, error)
}

// Gate is the access gate evaluated on every protected navigation. Each
// activation bootstraps the session exactly once, then permits or denies
// based on role membership.
type Gate struct {
	sessions   SessionBootstrapper
	cookieName string
	logger     zerolog.Logger
}

func NewGate(sessions SessionBootstrapper, cookieName string, logger zerolog.Logger) *Gate {
	return &Gate{sessions: sessions, cookieName: cookieName, logger: logger}
}

// Protect returns middleware permitting only sessions whose role is in
// allowedRoles. Outcomes:
//   - no cookie, or bootstrap failure of any kind: denied as unauthenticated
//     (browser navigations are redirected to /login, API calls get 401)
//   - session confirmed but role not allowed: denied (redirect to
//     /unauthorized, or 403 for API calls)
//   - otherwise: session injected into context and the request proceeds
//
// Bootstrap failures are never distinguished from "no session": the gate
// fails toward denial, not permission.
func (g *Gate) Protect(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := g.sessionToken(c)
			if token == "" {
				metrics.SessionBootstrapsTotal.WithLabelValues("denied_unauthenticated").Inc()
				return g.denyUnauthenticated(c)
			}

			sess, err := g.sessions.Bootstrap(c.Request().Context(), token)
			if err != nil || sess == nil || sess.User == nil {
				metrics.SessionBootstrapsTotal.WithLabelValues("denied_unauthenticated").Inc()
				return g.denyUnauthenticated(c)
			}

			if _, ok := allowed[sess.User.Role]; !ok {
				metrics.SessionBootstrapsTotal.WithLabelValues("denied_role").Inc()
				g.logger.Info().
					Str("role", sess.User.Role).
					Str("path", c.Path()).
					Msg("role not allowed for route")
				return g.denyForbidden(c)
			}

			metrics.SessionBootstrapsTotal.WithLabelValues("permitted").Inc()
			c.Set(ContextSession, sess)
			c.Set(ContextRole, sess.User.Role)
			c.Set(ContextToken, token)
			return next(c)
		}
	}
}

func (g *Gate) sessionToken(c echo.Context) string {
	cookie, err := c.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (g *Gate) denyUnauthenticated(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}

func (g *Gate) denyForbidden(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/unauthorized")
	}
	return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
}

// wantsHTML reports whether the request is a browser navigation rather than
// an API call, which decides between a redirect and a JSON error.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}
