package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		sess       *stubSession
		wantStatus int
		wantNext   bool
	}{
		{"no session", nil, http.StatusSeeOther, false},
		{"anonymous", &stubSession{id: "s"}, http.StatusSeeOther, false},
		{"regular user", &stubSession{id: "s", user: &domain.User{Role: domain.RoleUser}}, http.StatusSeeOther, false},
		{"admin", &stubSession{id: "s", user: &domain.User{Role: domain.RoleAdmin}}, http.StatusOK, true},
		{"loading", &stubSession{id: "s", loading: true}, http.StatusServiceUnavailable, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/users", nil), rec)
			if tc.sess != nil {
				c.Set(ContextKeySession, tc.sess)
			}

			called := false
			h := RequireAdmin("/login")(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}

			if called != tc.wantNext {
				t.Fatalf("next called = %v, want %v", called, tc.wantNext)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantStatus == http.StatusSeeOther && rec.Header().Get(echo.HeaderLocation) != "/login" {
				t.Fatalf("expected redirect to /login, got %q", rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}
