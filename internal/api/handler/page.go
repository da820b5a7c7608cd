package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/middleware"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

// Page is the view model every template receives.
type Page struct {
	Title   string
	User    *domain.User
	IsAdmin bool
	Error   string
	Notice  string
	Data    any
}

// ctxSession returns the session injected by the Session middleware. Its
// absence means the middleware did not run, which is a wiring bug.
func ctxSession(c echo.Context) (ports.Session, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return sess, nil
}

// renderPage fills the identity fields from the session and renders name.
func renderPage(c echo.Context, status int, name string, p Page) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		p.User = sess.User()
		p.IsAdmin = sess.IsAdmin()
	}
	return c.Render(status, name, p)
}

func seeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}
