// Package backend is the HTTP client for the reservation backend API. It
// implements every gateway port plus the raw forwarder used by the proxy
// routes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/metrics"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	// maxErrorBody bounds how much of a failed response is kept for logs.
	maxErrorBody = 2048
)

// Config captures the settings for reaching the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks JSON to the backend. No retries, no caching.
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// NewClient parses the base URL and builds a client whose every call is
// bounded by cfg.Timeout.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("backend url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend url %q: missing scheme or host", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// ── Tables ────────────────────────────────────────────────────────────────────

func (c *Client) ListTables(ctx context.Context) ([]domain.RestaurantTable, error) {
	var out []domain.RestaurantTable
	if err := c.do(ctx, "list_tables", http.MethodGet, "/tables", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTable(ctx context.Context, id int64) (*domain.RestaurantTable, error) {
	var out domain.RestaurantTable
	err := c.do(ctx, "get_table", http.MethodGet, "/tables/"+strconv.FormatInt(id, 10), nil, nil, &out)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", domain.ErrTableNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAvailableTables(ctx context.Context, q domain.AvailabilityQuery) ([]domain.RestaurantTable, error) {
	params := url.Values{}
	params.Set("date", q.Date)
	params.Set("startTime", q.StartTime)
	params.Set("endTime", q.EndTime)
	params.Set("partySize", strconv.Itoa(q.PartySize))

	var out []domain.RestaurantTable
	if err := c.do(ctx, "list_available_tables", http.MethodGet, "/tables/available", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Customers & reservations ──────────────────────────────────────────────────

func (c *Client) CreateCustomer(ctx context.Context, in domain.Customer) (*domain.Customer, error) {
	in.ID = 0
	var out domain.Customer
	if err := c.do(ctx, "create_customer", http.MethodPost, "/customers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateReservation(ctx context.Context, in domain.Reservation) (*domain.Reservation, error) {
	in.ID = 0
	var out domain.Reservation
	if err := c.do(ctx, "create_reservation", http.MethodPost, "/reservations", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_customer", http.MethodDelete, "/customers/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// ── Restaurants ───────────────────────────────────────────────────────────────

func (c *Client) ListRestaurants(ctx context.Context, f ports.RestaurantFilter) ([]domain.Restaurant, error) {
	params := url.Values{}
	for k, v := range map[string]string{
		"location":   f.Location,
		"category":   f.Category,
		"minRating":  f.MinRating,
		"priceRange": f.PriceRange,
		"date":       f.Date,
		"time":       f.Time,
		"partySize":  f.PartySize,
	} {
		if v != "" {
			params.Set(k, v)
		}
	}

	var out []domain.Restaurant
	if err := c.do(ctx, "list_restaurants", http.MethodGet, "/restaurants", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Auth & users ──────────────────────────────────────────────────────────────

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// loginResponse mirrors the backend user record. Password holds the stored
// hash, which the registration endpoint accepts as the admin token.
type loginResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Password  string `json:"password"`
}

func (r loginResponse) user() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Role:      r.Role,
		Token:     r.Password,
	}
}

func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, error) {
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil,
		loginRequest{UsernameOrEmail: usernameOrEmail, Password: password}, &out)
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && (be.Status == http.StatusUnauthorized || be.Status == http.StatusBadRequest || be.Status == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
		}
		return nil, err
	}
	return out.user(), nil
}

func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	var out loginResponse
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", nil, in, &out)
	if err != nil {
		var be *domain.BackendError
		if errors.As(err, &be) && (be.Status == http.StatusUnauthorized || be.Status == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %v", domain.ErrForbidden, err)
		}
		return nil, err
	}
	u := out.user()
	u.Token = ""
	return u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []loginResponse
	if err := c.do(ctx, "list_users", http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(out))
	for _, r := range out {
		u := r.user()
		u.Token = ""
		users = append(users, *u)
	}
	return users, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	var out loginResponse
	path := "/users/" + strconv.FormatInt(id, 10) + "/role"
	if err := c.do(ctx, "update_user_role", http.MethodPut, path, nil, map[string]string{"role": role}, &out); err != nil {
		return nil, err
	}
	u := out.user()
	u.Token = ""
	return u, nil
}

// ── Forwarding ────────────────────────────────────────────────────────────────

// Forward issues a GET and returns the backend response untouched. Non-2xx
// statuses are not errors here; only transport failures are.
func (c *Client) Forward(ctx context.Context, path string, query url.Values) (*ports.ForwardResult, error) {
	start := time.Now()
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		observe("forward", "unreachable", start)
		return nil, fmt.Errorf("forward %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observe("forward", "unreachable", start)
		return nil, fmt.Errorf("forward %s: read body: %w", path, err)
	}
	observe("forward", outcomeFor(resp.StatusCode), start)

	return &ports.ForwardResult{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// ── Plumbing ──────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	start := time.Now()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		observe(op, "unreachable", start)
		c.log.Warn().Err(err).Str("operation", op).Str("path", path).Msg("backend unreachable")
		return fmt.Errorf("%s: %w: %v", op, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	outcome := outcomeFor(resp.StatusCode)
	observe(op, outcome, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn().
			Str("operation", op).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("backend returned non-success status")
		return &domain.BackendError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(detail))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	// path arrives escaped; RawPath keeps encoded segments such as %2F intact.
	raw := singleJoiningSlash(c.base.EscapedPath(), path)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("build request: invalid path %q: %w", path, err)
	}
	u := *c.base
	u.Path = decoded
	u.RawPath = raw
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func singleJoiningSlash(a, b string) string {
	slashA := strings.HasSuffix(a, "/")
	slashB := strings.HasPrefix(b, "/")
	switch {
	case slashA && slashB:
		return a + b[1:]
	case !slashA && !slashB:
		return a + "/" + b
	}
	return a + b
}

func outcomeFor(status int) string {
	switch {
	case status >= 200 && status <= 299:
		return "ok"
	case status == http.StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}

func observe(op, outcome string, start time.Time) {
	metrics.BackendRequestDuration.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

var (
	_ ports.TableGateway       = (*Client)(nil)
	_ ports.ReservationGateway = (*Client)(nil)
	_ ports.RestaurantGateway  = (*Client)(nil)
	_ ports.AuthGateway        = (*Client)(nil)
	_ ports.UserGateway        = (*Client)(nil)
	_ ports.Forwarder          = (*Client)(nil)
)

// Ping reports whether the backend answers HTTP at all. Any status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Forward(ctx, "/tables", nil)
	return err
}
