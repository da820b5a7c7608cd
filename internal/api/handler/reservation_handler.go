package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const msgReservationsLoadFailed = "Failed to load reservations"

// ReservationHandler renders the reservation list.
type ReservationHandler struct {
	reservations ports.ReservationLister
	log          zerolog.Logger
}

func NewReservationHandler(reservations ports.ReservationLister, log zerolog.Logger) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, log: log}
}

func (h *ReservationHandler) List(c echo.Context) error {
	page := Page{Title: "Reservations"}
	list, err := h.reservations.ListReservations(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list reservations failed")
		page.Error = msgReservationsLoadFailed
	}
	page.Data = list
	return renderPage(c, http.StatusOK, "reservations", page)
}
