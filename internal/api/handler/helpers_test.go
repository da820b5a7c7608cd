package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/middleware"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

type stubSession struct {
	id   string
	user *domain.User
}

func (s *stubSession) ID() string         { return s.id }
func (s *stubSession) User() *domain.User { return s.user }
func (s *stubSession) Loading() bool      { return false }
func (s *stubSession) IsAdmin() bool      { return domain.IsAdmin(s.user) }
func (s *stubSession) Login(_ context.Context, u *domain.User) error {
	s.user = u
	return nil
}
func (s *stubSession) Logout(context.Context) error {
	s.user = nil
	return nil
}

// recordingRenderer captures the last rendered page instead of writing HTML.
type recordingRenderer struct {
	name string
	page Page
}

func (r *recordingRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	r.name = name
	r.page, _ = data.(Page)
	_, err := io.WriteString(w, name)
	return err
}

// newPageContext builds an echo context carrying sess, a validator and a
// recording renderer. form, when non-nil, is sent url-encoded.
func newPageContext(method, target string, form url.Values, sess *stubSession) (echo.Context, *httptest.ResponseRecorder, *recordingRenderer) {
	e := echo.New()
	e.Validator = NewValidator()
	r := &recordingRenderer{}
	e.Renderer = r

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.ContextKeySession, sess)
	}
	return c, rec, r
}

func adminUser() *domain.User {
	return &domain.User{ID: 1, Username: "root", Role: domain.RoleAdmin, Token: "$2a$10$hash"}
}
