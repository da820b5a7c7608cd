package ports

import (
	"context"
	"net/url"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

// TableGateway reads tables from the backend.
type TableGateway interface {
	ListTables(ctx context.Context) ([]domain.RestaurantTable, error)
	GetTable(ctx context.Context, id int64) (*domain.RestaurantTable, error)
	ListAvailableTables(ctx context.Context, q domain.AvailabilityQuery) ([]domain.RestaurantTable, error)
}

// ReservationGateway creates the customer/reservation pair and undoes an
// orphaned customer.
type ReservationGateway interface {
	CreateCustomer(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	CreateReservation(ctx context.Context, r domain.Reservation) (*domain.Reservation, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// RestaurantFilter carries the optional restaurant search parameters.
type RestaurantFilter struct {
	Location   string
	Category   string
	MinRating  string
	PriceRange string
	Date       string
	Time       string
	PartySize  string
}

// RestaurantGateway lists restaurants.
type RestaurantGateway interface {
	ListRestaurants(ctx context.Context, f RestaurantFilter) ([]domain.Restaurant, error)
}

// RegisterInput is the registration wire contract. AdminUsername and
// AdminToken identify the admin performing the registration.
type RegisterInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	AdminUsername string `json:"adminUsername"`
	AdminToken    string `json:"adminToken"`
}

// AuthGateway authenticates against the backend.
type AuthGateway interface {
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}

// UserGateway exposes the admin-only user endpoints.
type UserGateway interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, id int64, role string) (*domain.User, error)
}

// ForwardResult is a backend response relayed without decoding.
type ForwardResult struct {
	Status      int
	ContentType string
	Body        []byte
}

// Forwarder issues raw GET requests for the proxy routes.
type Forwarder interface {
	Forward(ctx context.Context, path string, query url.Values) (*ForwardResult, error)
}
