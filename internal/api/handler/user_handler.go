package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gsme/workorder-system/internal/core/ports"
)

// UserHandler handles admin-only account management.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create provisions a subordinate account.
//
// @Summary      Create a subordinate account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      CreateUserRequest  true  "Account details"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.CreateSubordinate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, UserResponse{Username: user.Username, Role: user.Role})
}

// List returns the usernames of all subordinate accounts.
//
// @Summary      List subordinate usernames
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SubordinatesResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	usernames, err := h.users.ListSubordinates(c.Request().Context())
	if err != nil {
		return err
	}
	if usernames == nil {
		usernames = []string{}
	}

	return c.JSON(http.StatusOK, SubordinatesResponse{Usernames: usernames})
}

// Delete removes an account. Accounts that still own work orders are kept.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  map[string]string
// @Failure      401       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Router       /v1/users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	username := c.Param("username")

	if err := h.users.DeleteUser(c.Request().Context(), username); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}
