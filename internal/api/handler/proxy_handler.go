package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/metrics"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

// Query parameters each proxy route passes through. Anything else is dropped.
var (
	restaurantParams      = []string{"location", "category", "minRating", "priceRange", "date", "time", "partySize"}
	restaurantTableParams = []string{"date", "time", "partySize"}
)

// Messages returned to the browser; backend detail only reaches the logs.
const (
	msgRestaurantsFailed = "Failed to fetch restaurants"
	msgTablesFailed      = "Failed to fetch available tables"
	msgRestaurantMissing = "Restaurant not found"
)

// ProxyHandler forwards browser requests to the backend.
type ProxyHandler struct {
	forwarder ports.Forwarder
	log       zerolog.Logger
}

func NewProxyHandler(forwarder ports.Forwarder, log zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{forwarder: forwarder, log: log}
}

// Restaurants forwards a restaurant search.
//
// @Summary      Search restaurants
// @Description  Forwards the whitelisted filters to the backend and relays its response.
// @Tags         proxy
// @Produce      json
// @Param        location    query     string  false  "Location"
// @Param        category    query     string  false  "Category"
// @Param        minRating   query     number  false  "Minimum rating"
// @Param        priceRange  query     string  false  "Price range"
// @Param        date        query     string  false  "Date (YYYY-MM-DD)"
// @Param        time        query     string  false  "Time (HH:MM)"
// @Param        partySize   query     int     false  "Party size"
// @Success      200  {array}   domain.Restaurant
// @Failure      500  {object}  map[string]string
// @Router       /api/restaurants [get]
func (h *ProxyHandler) Restaurants(c echo.Context) error {
	return h.forward(c, "restaurants", "/restaurants", restaurantParams, false, msgRestaurantsFailed)
}

// RestaurantTables forwards a per-restaurant availability lookup.
//
// @Summary      Available tables for a restaurant
// @Tags         proxy
// @Produce      json
// @Param        id         path      string  true   "Restaurant ID"
// @Param        date       query     string  false  "Date (YYYY-MM-DD)"
// @Param        time       query     string  false  "Time (HH:MM)"
// @Param        partySize  query     int     false  "Party size"
// @Success      200  {array}   domain.RestaurantTable
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/restaurants/{id}/tables [get]
func (h *ProxyHandler) RestaurantTables(c echo.Context) error {
	path := "/restaurants/" + url.PathEscape(pathParam(c, "id")) + "/tables/availability"
	return h.forward(c, "restaurant_tables", path, restaurantTableParams, true, msgTablesFailed)
}

func (h *ProxyHandler) forward(c echo.Context, route, path string, allowed []string, notFoundAware bool, failMsg string) error {
	query := pickParams(c.QueryParams(), allowed)

	res, err := h.forwarder.Forward(c.Request().Context(), path, query)
	if err != nil {
		metrics.ProxyRequestsTotal.WithLabelValues(route, "error").Inc()
		h.log.Error().Err(err).Str("route", route).Str("path", path).Msg("proxy request failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": failMsg})
	}

	switch {
	case res.Status >= 200 && res.Status <= 299:
		metrics.ProxyRequestsTotal.WithLabelValues(route, "ok").Inc()
		contentType := res.ContentType
		if contentType == "" {
			contentType = echo.MIMEApplicationJSON
		}
		return c.Blob(http.StatusOK, contentType, res.Body)
	case res.Status == http.StatusNotFound && notFoundAware:
		metrics.ProxyRequestsTotal.WithLabelValues(route, "not_found").Inc()
		return c.JSON(http.StatusNotFound, map[string]string{"error": msgRestaurantMissing})
	default:
		metrics.ProxyRequestsTotal.WithLabelValues(route, "error").Inc()
		h.log.Error().
			Str("route", route).
			Str("path", path).
			Int("status", res.Status).
			Bytes("body", truncate(res.Body, 512)).
			Msg("backend rejected proxied request")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": failMsg})
	}
}

// pathParam returns the decoded value of a route param. echo hands back the
// raw segment when the request path carries escapes.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// pickParams keeps the allowed keys that carry a non-empty value.
func pickParams(in url.Values, allowed []string) url.Values {
	out := url.Values{}
	for _, k := range allowed {
		if v := in.Get(k); v != "" {
			out.Set(k, v)
		}
	}
	return out
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
