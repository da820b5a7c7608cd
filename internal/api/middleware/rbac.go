package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin lets a request through only when the session user is an
// admin; anyone else is redirected to redirectTo. The check waits for the
// session to finish loading.
func RequireAdmin(redirectTo string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess != nil && sess.Loading() {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session is still loading")
			}
			if sess == nil || !sess.IsAdmin() {
				return c.Redirect(http.StatusSeeOther, redirectTo)
			}
			return next(c)
		}
	}
}
