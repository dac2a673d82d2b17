package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/dashboard/internal/api/metrics"
	"github.com/userhub/dashboard/internal/core/ports"
)

// maxUploadBytes caps bulk spreadsheet uploads read into memory.
const maxUploadBytes = 8 << 20

// UserHandler serves the directory mutation API and the self-profile update.
// Role checks happen twice: the gate keeps the wrong roles off these routes,
// and the services re-derive capabilities from the session role, so hiding a
// button client-side is never what enforces access.
type UserHandler struct {
	directory ports.DirectoryService
	sessions  ports.SessionService
}

func NewUserHandler(directory ports.DirectoryService, sessions ports.SessionService) *UserHandler {
	return &UserHandler{directory: directory, sessions: sessions}
}

// List returns the directory view as JSON, used by clients to refetch after
// a mutation without reloading the whole page.
//
// @Summary      List users with aggregates
// @Tags         users
// @Produce      json
// @Param        role    query     string  false  "Role filter: all, admin, manager, user"
// @Param        search  query     string  false  "Substring match on name or email"
// @Success      200     {object}  ports.DirectoryView
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
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
	return c.JSON(http.StatusOK, view)
}

// Create adds a user to the directory.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  mutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, msg, err := h.directory.Create(c.Request().Context(), token, sess.User.Role, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Image:    req.Image,
	})
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("create").Inc()
	if msg == "" {
		msg = "user created"
	}
	return c.JSON(http.StatusCreated, mutationResponse{User: user, Message: msg})
}

// Update edits a user in the directory.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Changed fields"
// @Success      200   {object}  mutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id is required")
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, msg, err := h.directory.Update(c.Request().Context(), token, sess.User.Role, id, ports.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
		Image: req.Image,
	})
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	if msg == "" {
		msg = "user updated"
	}
	return c.JSON(http.StatusOK, mutationResponse{User: user, Message: msg})
}

// Delete removes a user from the directory.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  mutationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id is required")
	}

	msg, err := h.directory.Delete(c.Request().Context(), token, sess.User.Role, id)
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("delete").Inc()
	if msg == "" {
		msg = "user deleted"
	}
	return c.JSON(http.StatusOK, mutationResponse{Message: msg})
}

// Bulk validates an uploaded spreadsheet of users and forwards it to the
// backend.
//
// @Summary      Bulk user upload
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx workbook: Name | Email | Password | Role"
// @Success      200   {object}  bulkUploadResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users/bulk [post]
func (h *UserHandler) Bulk(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}

	msg, rows, err := h.directory.BulkImport(c.Request().Context(), token, sess.User.Role, fileHeader.Filename, data)
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("bulk").Inc()
	if msg == "" {
		msg = "users imported"
	}
	return c.JSON(http.StatusOK, bulkUploadResponse{Message: msg, Rows: rows})
}

// Profile applies a self-edit to the session user, then returns the freshly
// re-bootstrapped session user. The success message is part of the response
// so the client can show it immediately.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      profileUpdateRequest  true  "Profile fields"
// @Success      200   {object}  mutationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/profile [put]
func (h *UserHandler) Profile(c echo.Context) error {
	sess, token, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	refreshed, msg, err := h.sessions.UpdateProfile(c.Request().Context(), token, sess.User.ID, ports.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("profile").Inc()
	if msg == "" {
		msg = "profile updated"
	}
	return c.JSON(http.StatusOK, mutationResponse{User: refreshed.User, Message: msg})
}
