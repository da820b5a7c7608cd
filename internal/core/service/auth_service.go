package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const minPasswordLength = 6

// Registration form messages.
const (
	MsgRequiredFields   = "Please fill in all required fields"
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
	MsgInvalidRole      = "Role must be user or admin"
)

// AuthService authenticates through the backend and keeps the result in the
// browser session.
type AuthService struct {
	gateway ports.AuthGateway
	log     zerolog.Logger
}

func NewAuthService(gateway ports.AuthGateway, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, log: log}
}

func (s *AuthService) Login(ctx context.Context, sess ports.Session, usernameOrEmail, password string) (*domain.User, error) {
	if usernameOrEmail == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.gateway.Login(ctx, usernameOrEmail, password)
	if err != nil {
		return nil, err
	}

	if err := sess.Login(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Str("session_id", sess.ID()).Msg("user logged in")
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sess ports.Session) error {
	if u := sess.User(); u != nil {
		s.log.Info().Int64("user_id", u.ID).Str("session_id", sess.ID()).Msg("user logged out")
	}
	return sess.Logout(ctx)
}

// Register creates a user on behalf of the admin held by sess. Form checks
// run locally and make no network call on failure.
func (s *AuthService) Register(ctx context.Context, sess ports.Session, form ports.RegistrationForm) (*domain.User, error) {
	admin := sess.User()
	if !domain.IsAdmin(admin) {
		return nil, domain.ErrForbidden
	}

	if form.Username == "" || form.Email == "" || form.Password == "" || form.FirstName == "" || form.LastName == "" {
		return nil, domain.NewValidationError(MsgRequiredFields)
	}
	if form.Password != form.ConfirmPassword {
		return nil, domain.NewValidationError(MsgPasswordMismatch)
	}
	if len(form.Password) < minPasswordLength {
		return nil, domain.NewValidationError(MsgPasswordTooShort)
	}
	role := form.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError(MsgInvalidRole)
	}

	created, err := s.gateway.Register(ctx, ports.RegisterInput{
		Username:      form.Username,
		Email:         form.Email,
		Password:      form.Password,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		Phone:         form.Phone,
		Role:          role,
		AdminUsername: admin.Username,
		AdminToken:    admin.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.log.Info().Str("username", created.Username).Str("admin", admin.Username).Msg("user registered")
	return created, nil
}

// UserAdminService lists users and changes roles for admins.
type UserAdminService struct {
	gateway ports.UserGateway
	log     zerolog.Logger
}

func NewUserAdminService(gateway ports.UserGateway, log zerolog.Logger) *UserAdminService {
	return &UserAdminService{gateway: gateway, log: log}
}

func (s *UserAdminService) ListUsers(ctx context.Context, sess ports.Session) ([]domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserAdminService) UpdateRole(ctx context.Context, sess ports.Session, userID int64, role string) (*domain.User, error) {
	if !sess.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidRole(role) {
		return nil, domain.NewValidationError(MsgInvalidRole)
	}
	updated, err := s.gateway.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	s.log.Info().Int64("user_id", userID).Str("role", role).Str("session_id", sess.ID()).Msg("user role updated")
	return updated, nil
}
