package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const msgRestaurantsLoadFailed = "Failed to load restaurants"

// RestaurantHandler renders the restaurant browsing page.
type RestaurantHandler struct {
	restaurants ports.RestaurantGateway
	log         zerolog.Logger
}

func NewRestaurantHandler(restaurants ports.RestaurantGateway, log zerolog.Logger) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, log: log}
}

type restaurantsView struct {
	Filter      ports.RestaurantFilter
	Restaurants []domain.Restaurant
}

// Home lists restaurants matching the query filters.
func (h *RestaurantHandler) Home(c echo.Context) error {
	filter := ports.RestaurantFilter{
		Location:   c.QueryParam("location"),
		Category:   c.QueryParam("category"),
		MinRating:  c.QueryParam("minRating"),
		PriceRange: c.QueryParam("priceRange"),
		Date:       c.QueryParam("date"),
		Time:       c.QueryParam("time"),
		PartySize:  c.QueryParam("partySize"),
	}

	page := Page{Title: "Restaurants"}
	restaurants, err := h.restaurants.ListRestaurants(c.Request().Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("list restaurants failed")
		page.Error = msgRestaurantsLoadFailed
	}
	page.Data = restaurantsView{Filter: filter, Restaurants: restaurants}
	return renderPage(c, http.StatusOK, "restaurants", page)
}
