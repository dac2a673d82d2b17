package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/dashboard/internal/api/middleware"
	"github.com/userhub/dashboard/internal/core/domain"
)

// ctxSession extracts the session injected by the access gate and performs a
// fast-fail check before any service call: a handler on a protected route
// must never run without a confirmed session, so a missing one means the
// route is miswired and the only safe answer is 401.
func ctxSession(c echo.Context) (*domain.Session, string, error) {
	sess, _ := c.Get(middleware.ContextSession).(*domain.Session)
	if sess == nil || sess.User == nil {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}

	token, _ := c.Get(middleware.ContextToken).(string)
	if token == "" {
		return nil, "", echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
	}

	return sess, token, nil
}
