package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/dashboard/internal/core/domain"
	"github.com/userhub/dashboard/internal/core/ports"
)

// AuthHandler proxies the login, signup and logout flows to the user
// backend, relaying the session cookies it issues.
type AuthHandler struct {
	backend    ports.BackendClient
	sessions   ports.SessionService
	cookieName string
}

func NewAuthHandler(backend ports.BackendClient, sessions ports.SessionService, cookieName string) *AuthHandler {
	return &AuthHandler{backend: backend, sessions: sessions, cookieName: cookieName}
}

// Login authenticates against the backend and passes its session cookie to
// the browser.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.backend.Login(c.Request().Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.relayCookies(c, result.Cookies)
	return c.JSON(http.StatusOK, authResponse{User: result.User, Message: result.Message})
}

// Signup registers a new account. The requested role is always "user":
// signup never grants elevated roles, whatever the client sends.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.backend.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return err
	}

	h.relayCookies(c, result.Cookies)
	return c.JSON(http.StatusCreated, authResponse{User: result.User, Message: result.Message})
}

// Logout ends the backend session and expires the local cookie. The response
// is 200 even when the backend call fails: the local session is cleared
// regardless, so from the browser's point of view logout always succeeds.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  mutationResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(h.cookieName); err == nil {
		token = cookie.Value
	}

	h.sessions.Logout(c.Request().Context(), token)

	c.SetCookie(&http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, mutationResponse{Message: "logged out"})
}

func (h *AuthHandler) relayCookies(c echo.Context, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		c.SetCookie(cookie)
	}
}
