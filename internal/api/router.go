package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/BRMilev22/Bookbite-sub001/docs"
	"github.com/BRMilev22/Bookbite-sub001/internal/api/handler"
	"github.com/BRMilev22/Bookbite-sub001/internal/api/middleware"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
	"github.com/BRMilev22/Bookbite-sub001/internal/infrastructure/http/handlers"
)

// SessionOptions configures the browser session cookie.
type SessionOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Log      zerolog.Logger
	Renderer echo.Renderer

	Sessions       ports.SessionManager
	SessionOptions SessionOptions

	Tables       ports.TableGateway
	Restaurants  ports.RestaurantGateway
	Forwarder    ports.Forwarder
	Auth         ports.AuthService
	Users        ports.UserAdminService
	Wizard       ports.WizardService
	Reservations ports.ReservationLister

	SubmitTimeout   time.Duration
	ReadinessChecks map[string]handlers.Check

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()
	e.Renderer = d.Renderer

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(prometheusMiddleware(d.Registry))

	// --- Operational endpoints (no session) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.ReadinessChecks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Proxy routes ---
	proxyHandler := handler.NewProxyHandler(d.Forwarder, d.Log.With().Str("component", "proxy").Logger())
	apiGroup := e.Group("/api")
	apiGroup.GET("/restaurants", proxyHandler.Restaurants)
	apiGroup.GET("/restaurants/:id/tables", proxyHandler.RestaurantTables)

	// --- Pages (browser session required) ---
	pages := e.Group("", middleware.Session(middleware.SessionConfig{
		Manager:    d.Sessions,
		Secret:     d.SessionOptions.Secret,
		CookieName: d.SessionOptions.CookieName,
		TTL:        d.SessionOptions.TTL,
		Secure:     d.SessionOptions.Secure,
		Log:        d.Log,
	}))

	restaurantHandler := handler.NewRestaurantHandler(d.Restaurants, d.Log)
	tableHandler := handler.NewTableHandler(d.Tables, d.Log)
	reservationHandler := handler.NewReservationHandler(d.Reservations, d.Log)
	wizardHandler := handler.NewWizardHandler(d.Wizard, d.Tables, d.SubmitTimeout, d.Log.With().Str("component", "wizard").Logger())
	authHandler := handler.NewAuthHandler(d.Auth, d.Log)
	adminHandler := handler.NewAdminHandler(d.Users, d.Log)

	pages.GET("/", restaurantHandler.Home)
	pages.GET("/tables", tableHandler.List)
	pages.GET("/tables/available", tableHandler.Available)
	pages.GET("/tables/:id", tableHandler.Detail)
	pages.GET("/reservations", reservationHandler.List)
	pages.GET("/reservations/new", wizardHandler.Show)
	pages.POST("/reservations/new/customer", wizardHandler.Customer)
	pages.POST("/reservations/new/back", wizardHandler.Back)
	pages.POST("/reservations/new/submit", wizardHandler.Submit)

	pages.GET("/login", authHandler.LoginPage)
	pages.POST("/login", authHandler.Login)
	pages.POST("/logout", authHandler.Logout)

	// --- Admin (is-admin gate) ---
	admin := pages.Group("/admin", middleware.RequireAdmin("/login"))
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/role", adminHandler.UpdateRole)
	admin.GET("/register", authHandler.RegisterPage)
	admin.POST("/register", authHandler.Register)

	return e
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("bookbite")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "bookbite",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// requestLogger logs one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
