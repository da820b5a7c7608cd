package ports

import (
	"context"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

// RegistrationForm is what the admin types into the registration page.
type RegistrationForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Role            string
}

// AuthService logs users in and out of a session and registers new users.
type AuthService interface {
	Login(ctx context.Context, sess Session, usernameOrEmail, password string) (*domain.User, error)
	Logout(ctx context.Context, sess Session) error
	Register(ctx context.Context, sess Session, form RegistrationForm) (*domain.User, error)
}

// UserAdminService backs the admin dashboard.
type UserAdminService interface {
	ListUsers(ctx context.Context, sess Session) ([]domain.User, error)
	UpdateRole(ctx context.Context, sess Session, userID int64, role string) (*domain.User, error)
}
