package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the authenticated identity held by a browser session.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`

	// Token is the password-hash field the backend returns on login. The
	// registration endpoint accepts it as the admin credential, so it has to
	// survive in the session record. Never render it.
	Token string `json:"token,omitempty"`
}

// IsAdmin reports whether u holds the admin role. A nil user is never admin.
func IsAdmin(u *User) bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidRole reports whether role is one the backend accepts.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// DisplayName is the name shown in page headers.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
