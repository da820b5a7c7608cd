package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	msgTableNotFound      = "Table not found"
	msgTableLoadFailed    = "Failed to load table"
	msgAvailabilityFields = "Please fill in date, start time, end time and party size"
	msgAvailabilityFailed = "Failed to check availability"
)

// TableHandler renders the table pages.
type TableHandler struct {
	tables ports.TableGateway
	log    zerolog.Logger
}

func NewTableHandler(tables ports.TableGateway, log zerolog.Logger) *TableHandler {
	return &TableHandler{tables: tables, log: log}
}

// List renders every table.
func (h *TableHandler) List(c echo.Context) error {
	page := Page{Title: "Tables"}
	tables, err := h.tables.ListTables(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list tables failed")
		page.Error = domain.MsgTablesLoadFailed
	}
	page.Data = tables
	return renderPage(c, http.StatusOK, "tables", page)
}

// Detail renders one table.
func (h *TableHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return renderPage(c, http.StatusNotFound, "table_detail", Page{Title: "Table", Error: msgTableNotFound})
	}

	table, err := h.tables.GetTable(c.Request().Context(), id)
	switch {
	case errors.Is(err, domain.ErrTableNotFound):
		return renderPage(c, http.StatusNotFound, "table_detail", Page{Title: "Table", Error: msgTableNotFound})
	case err != nil:
		h.log.Error().Err(err).Int64("table_id", id).Msg("get table failed")
		return renderPage(c, http.StatusBadGateway, "table_detail", Page{Title: "Table", Error: msgTableLoadFailed})
	}
	return renderPage(c, http.StatusOK, "table_detail", Page{Title: "Table #" + strconv.Itoa(table.TableNumber), Data: table})
}

type availabilityView struct {
	Query     domain.AvailabilityQuery
	PartySize string
	Searched  bool
	Tables    []domain.RestaurantTable
}

// Available searches free tables once the whole query is present.
func (h *TableHandler) Available(c echo.Context) error {
	view := availabilityView{
		Query: domain.AvailabilityQuery{
			Date:      c.QueryParam("date"),
			StartTime: c.QueryParam("startTime"),
			EndTime:   c.QueryParam("endTime"),
		},
		PartySize: c.QueryParam("partySize"),
	}
	page := Page{Title: "Available tables", Data: &view}

	if view.Query.Date == "" && view.Query.StartTime == "" && view.Query.EndTime == "" && view.PartySize == "" {
		return renderPage(c, http.StatusOK, "tables_available", page)
	}

	size, err := strconv.Atoi(strings.TrimSpace(view.PartySize))
	if view.Query.Date == "" || view.Query.StartTime == "" || view.Query.EndTime == "" || err != nil || size <= 0 {
		page.Error = msgAvailabilityFields
		return renderPage(c, http.StatusUnprocessableEntity, "tables_available", page)
	}
	view.Query.PartySize = size

	tables, err := h.tables.ListAvailableTables(c.Request().Context(), view.Query)
	if err != nil {
		h.log.Error().Err(err).Msg("list available tables failed")
		page.Error = msgAvailabilityFailed
		return renderPage(c, http.StatusOK, "tables_available", page)
	}
	view.Searched = true
	view.Tables = tables
	return renderPage(c, http.StatusOK, "tables_available", page)
}
