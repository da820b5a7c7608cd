package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/api/metrics"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const wizardPath = "/reservations/new"

// WizardHandler serves the two-step reservation form.
type WizardHandler struct {
	wizard        ports.WizardService
	tables        ports.TableGateway
	submitTimeout time.Duration
	log           zerolog.Logger
}

func NewWizardHandler(wizard ports.WizardService, tables ports.TableGateway, submitTimeout time.Duration, log zerolog.Logger) *WizardHandler {
	return &WizardHandler{wizard: wizard, tables: tables, submitTimeout: submitTimeout, log: log}
}

type customerForm struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Email     string `form:"email"`
	Phone     string `form:"phone"`
}

type detailsForm struct {
	TableID         string `form:"tableId"`
	ReservationDate string `form:"reservationDate"`
	StartTime       string `form:"startTime"`
	EndTime         string `form:"endTime"`
	PartySize       string `form:"partySize"`
	SpecialRequests string `form:"specialRequests"`
}

type wizardView struct {
	Wizard *domain.Wizard
	Tables []domain.RestaurantTable
	// TablesError is shown next to the table picker, independent of the
	// form error.
	TablesError string
}

type successView struct {
	Reservation *domain.Reservation
	RedirectURL string
}

// Show renders the wizard at its stored step.
func (h *WizardHandler) Show(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	w, err := h.wizard.Load(c.Request().Context(), sess.ID())
	if err != nil {
		return err
	}
	return h.render(c, http.StatusOK, w)
}

// Customer records step one and moves on when it is complete.
func (h *WizardHandler) Customer(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form customerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	w, err := h.wizard.Advance(c.Request().Context(), sess.ID(), domain.CustomerInfo(form))
	switch {
	case err == nil:
		return seeOther(c, wizardPath)
	case errors.Is(err, domain.ErrValidation):
		return h.render(c, http.StatusUnprocessableEntity, w)
	case errors.Is(err, domain.ErrInvalidWizardStep):
		return seeOther(c, wizardPath)
	default:
		return err
	}
}

// Back returns to step one keeping every entered value.
func (h *WizardHandler) Back(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if _, err := h.wizard.Back(c.Request().Context(), sess.ID()); err != nil && !errors.Is(err, domain.ErrInvalidWizardStep) {
		return err
	}
	return seeOther(c, wizardPath)
}

// Submit creates the customer and then the reservation. On success the
// page refreshes to the reservation list after the configured delay.
func (h *WizardHandler) Submit(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	var form detailsForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	ctx := c.Request().Context()
	if h.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.submitTimeout)
		defer cancel()
	}

	w, res, err := h.wizard.Submit(ctx, sess.ID(), domain.ReservationDetails(form))
	switch {
	case err == nil:
		metrics.WizardSubmissionsTotal.WithLabelValues("success").Inc()
		c.Response().Header().Set("Refresh", refreshHeader(res.RedirectAfter, res.RedirectURL))
		return renderPage(c, http.StatusCreated, "reservation_success", Page{
			Title:  "Reservation confirmed",
			Notice: domain.MsgReservationCreated,
			Data:   successView{Reservation: res.Reservation, RedirectURL: res.RedirectURL},
		})
	case errors.Is(err, domain.ErrInvalidWizardStep):
		return seeOther(c, wizardPath)
	case w == nil:
		return err
	case errors.Is(err, domain.ErrValidation):
		metrics.WizardSubmissionsTotal.WithLabelValues("invalid").Inc()
		return h.render(c, http.StatusUnprocessableEntity, w)
	case errors.Is(err, domain.ErrSubmissionInFlight):
		metrics.WizardSubmissionsTotal.WithLabelValues("in_flight").Inc()
		return h.render(c, http.StatusConflict, w)
	default:
		metrics.WizardSubmissionsTotal.WithLabelValues("failed").Inc()
		return h.render(c, http.StatusBadGateway, w)
	}
}

// render shows the wizard. Tables are fetched on every render; a failure is
// reported alongside any form error without blocking either step.
func (h *WizardHandler) render(c echo.Context, status int, w *domain.Wizard) error {
	page := Page{Title: "New reservation", Error: w.Error}
	view := wizardView{Wizard: w}

	tables, err := h.tables.ListTables(c.Request().Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to load tables for wizard")
		view.TablesError = domain.MsgTablesLoadFailed
	}
	view.Tables = tables
	page.Data = view
	return renderPage(c, status, "wizard", page)
}

func refreshHeader(after time.Duration, url string) string {
	return fmt.Sprintf("%d; url=%s", int(math.Ceil(after.Seconds())), url)
}
