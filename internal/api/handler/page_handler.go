package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/dashboard/internal/core/ports"
	"github.com/userhub/dashboard/internal/core/userform"
)

// TokenIssuer mints CSRF tokens bound to a session, included in every page
// view so the client can attach them to mutations.
type TokenIssuer interface {
	Issue(sessionToken string) (string, error)
}

// PageHandler serves the view models behind each route of the dashboard.
// The admin and manager pages are the same directory view: what differs is
// the capability descriptor the directory service derives from the role.
type PageHandler struct {
	directory ports.DirectoryService
	csrf      TokenIssuer
}

func NewPageHandler(directory ports.DirectoryService, csrf TokenIssuer) *PageHandler {
	return &PageHandler{directory: directory, csrf: csrf}
}

// Home serves the self-profile view for any authenticated role.
//
// @Summary      Home page view
// @Tags         pages
// @Produce      json
// @Success      200  {object}  homeView
// @Failure      401  {object}  errorResponse
// @Router       / [get]
func (h *PageHandler) Home(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	csrf, err := h.csrf.Issue(token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, homeView{
		User: sess.User,
		Form: userform.New(sess.User),
		CSRF: csrf,
	})
}

// Admin serves the admin directory view.
//
// @Summary      Admin dashboard view
// @Tags         pages
// @Produce      json
// @Param        role    query     string  false  "Role filter: all, admin, manager, user"
// @Param        search  query     string  false  "Substring match on name or email"
// @Success      200     {object}  directoryPageView
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /admin [get]
func (h *PageHandler) Admin(c echo.Context) error {
	return h.directoryPage(c)
}

// Manager serves the manager directory view.
//
// @Summary      Manager dashboard view
// @Tags         pages
// @Produce      json
// @Param        role    query     string  false  "Role filter: all, admin, manager, user"
// @Param        search  query     string  false  "Substring match on name or email"
// @Success      200     {object}  directoryPageView
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /manager [get]
func (h *PageHandler) Manager(c echo.Context) error {
	return h.directoryPage(c)
}

func (h *PageHandler) directoryPage(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	view, err := h.directory.View(c.Request().Context(), token, sess.User.Role, ports.DirectoryFilter{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return err
	}

	csrf, err := h.csrf.Issue(token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, directoryPageView{
		DirectoryView: *view,
		Form:          userform.New(nil),
		CSRF:          csrf,
	})
}

// LoginPage describes the login entry point for unauthenticated clients.
func (h *PageHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, entryView{Page: "login", Fields: []string{"email", "password"}})
}

// SignupPage describes the signup entry point.
func (h *PageHandler) SignupPage(c echo.Context) error {
	return c.JSON(http.StatusOK, entryView{Page: "signup", Fields: []string{"name", "email", "password"}})
}

// Unauthorized is the landing target for sessions denied by role.
func (h *PageHandler) Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusForbidden, errorResponse{Error: "you do not have permission to view this page"})
}

// NotFound is the catch-all for unknown routes.
func (h *PageHandler) NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: "page not found"})
}
