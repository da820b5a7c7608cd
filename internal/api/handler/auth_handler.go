package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/metrics"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	msgLoginFailed        = "Invalid username or password"
	msgLoginUnavailable   = "Login failed. Please try again."
	msgRegisterForbidden  = "Your admin session is not authorized to register users"
	msgRegisterFailed     = "Registration failed. Please try again."
	msgRegisterSuccessFmt = "User %s registered successfully"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type loginForm struct {
	UsernameOrEmail string `form:"usernameOrEmail" validate:"required"`
	Password        string `form:"password"        validate:"required"`
}

type registerForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
	FirstName       string `form:"firstName"`
	LastName        string `form:"lastName"`
	Phone           string `form:"phone"`
	Role            string `form:"role"`
}

// LoginPage renders the login form. Signed-in users go home.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if sess.User() != nil {
		return seeOther(c, "/")
	}
	return renderPage(c, http.StatusOK, "login", Page{Title: "Log in", Data: loginForm{}})
}

// Login authenticates against the backend and stores the user in the session.
func (h *AuthHandler) Login(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&form); err != nil {
		return renderPage(c, http.StatusUnprocessableEntity, "login", Page{Title: "Log in", Error: err.Error(), Data: loginForm{UsernameOrEmail: form.UsernameOrEmail}})
	}

	if _, err := h.authService.Login(c.Request().Context(), sess, form.UsernameOrEmail, form.Password); err != nil {
		status, msg := http.StatusBadGateway, msgLoginUnavailable
		if errors.Is(err, domain.ErrInvalidCredentials) {
			status, msg = http.StatusUnauthorized, msgLoginFailed
		} else {
			h.log.Error().Err(err).Str("session_id", sess.ID()).Msg("login failed")
		}
		return renderPage(c, status, "login", Page{Title: "Log in", Error: msg, Data: loginForm{UsernameOrEmail: form.UsernameOrEmail}})
	}

	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	return seeOther(c, "/")
}

// Logout clears the session user.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), sess); err != nil {
		return err
	}
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	return seeOther(c, "/login")
}

// RegisterPage renders the admin registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return renderPage(c, http.StatusOK, "admin_register", Page{Title: "Register user", Data: registerForm{Role: domain.RoleUser}})
}

// Register creates a user on behalf of the signed-in admin.
func (h *AuthHandler) Register(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	created, err := h.authService.Register(c.Request().Context(), sess, ports.RegistrationForm{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		Phone:           form.Phone,
		Role:            form.Role,
	})
	if err != nil {
		form.Password, form.ConfirmPassword = "", ""
		page := Page{Title: "Register user", Data: form}

		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			page.Error = ve.Message
			return renderPage(c, http.StatusUnprocessableEntity, "admin_register", page)
		case errors.Is(err, domain.ErrForbidden):
			page.Error = msgRegisterForbidden
			return renderPage(c, http.StatusForbidden, "admin_register", page)
		default:
			h.log.Error().Err(err).Str("session_id", sess.ID()).Msg("registration failed")
			page.Error = msgRegisterFailed
			return renderPage(c, http.StatusBadGateway, "admin_register", page)
		}
	}

	return renderPage(c, http.StatusCreated, "admin_register", Page{
		Title:  "Register user",
		Notice: fmt.Sprintf(msgRegisterSuccessFmt, created.Username),
		Data:   registerForm{Role: domain.RoleUser},
	})
}
