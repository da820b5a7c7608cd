package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	msgUsersLoadFailed  = "Failed to load users"
	msgRoleUpdateFailed = "Failed to update role"
	msgInvalidUserID    = "Invalid user id"
)

// AdminHandler serves the user-management dashboard.
type AdminHandler struct {
	users ports.UserAdminService
	log   zerolog.Logger
}

func NewAdminHandler(users ports.UserAdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{users: users, log: log}
}

type roleForm struct {
	Role string `form:"role" validate:"required,oneof=user admin"`
}

// ListUsers renders every backend user with a role selector.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.renderUsers(c, sess, http.StatusOK, "")
}

// UpdateRole changes one user's role and returns to the dashboard.
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return h.renderUsers(c, sess, http.StatusBadRequest, msgInvalidUserID)
	}

	var form roleForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderUsers(c, sess, http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.users.UpdateRole(c.Request().Context(), sess, id, form.Role); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return seeOther(c, "/login")
		}
		h.log.Error().Err(err).Int64("user_id", id).Msg("role update failed")
		return h.renderUsers(c, sess, http.StatusBadGateway, msgRoleUpdateFailed)
	}
	return seeOther(c, "/admin/users")
}

func (h *AdminHandler) renderUsers(c echo.Context, sess ports.Session, status int, errMsg string) error {
	users, err := h.users.ListUsers(c.Request().Context(), sess)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return seeOther(c, "/login")
		}
		h.log.Error().Err(err).Msg("list users failed")
		if errMsg == "" {
			errMsg = msgUsersLoadFailed
			status = http.StatusBadGateway
		}
	}
	return renderPage(c, status, "admin_users", Page{Title: "Users", Error: errMsg, Data: users})
}
