package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/c-library/catalog-admin/internal/api/metrics"
	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
)

// UserHandler handles account management requests. All routes sit behind
// the manage_users permission; the self-delete rule is enforced again in the
// service so no transport can bypass it.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns all accounts in insertion order.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single account by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Add creates a new account.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Add(c echo.Context) error {
	var req addUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.AddUser(c.Request().Context(), ports.AddUserInput{
		Username:    req.Username,
		FullName:    req.FullName,
		Password:    req.Password,
		Role:        req.Role,
		Permissions: toPermissions(req.Permissions),
	})
	if err != nil {
		metrics.UserMutationsTotal.WithLabelValues("add", "error").Inc()
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("add", "ok").Inc()
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial account update.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := ports.UpdateUserInput{
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if req.Permissions != nil {
		perms := toPermissions(*req.Permissions)
		input.Permissions = &perms
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), id, input)
	if err != nil {
		metrics.UserMutationsTotal.WithLabelValues("update", "error").Inc()
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("update", "ok").Inc()
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account. The caller's own account is rejected with 422.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actorID, _ := c.Get("user_id").(int64)

	if err := h.userService.DeleteUser(c.Request().Context(), actorID, id); err != nil {
		metrics.UserMutationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("delete", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}

// ChangePassword verifies the current password, then stores the new one.
//
// @Summary      Change a user's password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "User id"
// @Param        body  body      changePasswordRequest  true  "Passwords"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  map[string]string
// @Router       /v1/users/{id}/password [post]
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		metrics.UserMutationsTotal.WithLabelValues("change_password", "error").Inc()
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("change_password", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password changed"})
}

// UpdateProfile updates the caller's own display name.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Router       /v1/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	actorID, _ := c.Get("user_id").(int64)

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), actorID, req.FullName)
	if err != nil {
		metrics.UserMutationsTotal.WithLabelValues("update_profile", "error").Inc()
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("update_profile", "ok").Inc()
	return c.JSON(http.StatusOK, user)
}

// Permissions returns the closed permission catalog, for account forms.
//
// @Summary      Permission catalog
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PermissionInfo
// @Router       /v1/permissions [get]
func (h *UserHandler) Permissions(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.AllPermissions)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
