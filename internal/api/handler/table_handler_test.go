package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

func TestTableHandler_Detail(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		getErr     error
		wantStatus int
	}{
		{"found", "7", nil, http.StatusOK},
		{"not found", "99", fmt.Errorf("%w: 99", domain.ErrTableNotFound), http.StatusNotFound},
		{"bad id", "x", nil, http.StatusNotFound},
		{"backend down", "7", errors.New("get_table: backend unavailable"), http.StatusBadGateway},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tables := &stubTableGateway{getFn: func(_ context.Context, id int64) (*domain.RestaurantTable, error) {
				if tc.getErr != nil {
					return nil, tc.getErr
				}
				return &domain.RestaurantTable{ID: id, TableNumber: 3, Capacity: 4}, nil
			}}
			h := NewTableHandler(tables, zerolog.Nop())

			c, rec, _ := newPageContext(http.MethodGet, "/tables/"+tc.id, nil, &stubSession{id: "s1"})
			c.SetParamNames("id")
			c.SetParamValues(tc.id)
			if err := h.Detail(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestTableHandler_Available(t *testing.T) {
	var got domain.AvailabilityQuery
	tables := &stubTableGateway{availableFn: func(_ context.Context, q domain.AvailabilityQuery) ([]domain.RestaurantTable, error) {
		got = q
		return []domain.RestaurantTable{{ID: 7}}, nil
	}}
	h := NewTableHandler(tables, zerolog.Nop())

	c, rec, r := newPageContext(http.MethodGet, "/tables/available?date=2025-06-01&startTime=18:00&endTime=20:00&partySize=4", nil, &stubSession{id: "s1"})
	if err := h.Available(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.PartySize != 4 || got.Date != "2025-06-01" {
		t.Fatalf("unexpected query: %+v", got)
	}
	if view := r.page.Data.(*availabilityView); !view.Searched || len(view.Tables) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestTableHandler_Available_InvalidPartySize(t *testing.T) {
	h := NewTableHandler(&stubTableGateway{availableFn: func(context.Context, domain.AvailabilityQuery) ([]domain.RestaurantTable, error) {
		t.Fatalf("no backend call expected")
		return nil, nil
	}}, zerolog.Nop())

	c, rec, r := newPageContext(http.MethodGet, "/tables/available?date=2025-06-01&startTime=18:00&endTime=20:00&partySize=four", nil, &stubSession{id: "s1"})
	if err := h.Available(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity || r.page.Error != msgAvailabilityFields {
		t.Fatalf("got %d %q", rec.Code, r.page.Error)
	}
}

type stubRestaurantGateway struct {
	filter ports.RestaurantFilter
}

func (s *stubRestaurantGateway) ListRestaurants(_ context.Context, f ports.RestaurantFilter) ([]domain.Restaurant, error) {
	s.filter = f
	return []domain.Restaurant{{ID: 1, Name: "Trattoria"}}, nil
}

func TestRestaurantHandler_Home_PassesFilters(t *testing.T) {
	gw := &stubRestaurantGateway{}
	h := NewRestaurantHandler(gw, zerolog.Nop())

	c, rec, r := newPageContext(http.MethodGet, "/?category=italian&partySize=2", nil, &stubSession{id: "s1"})
	if err := h.Home(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || r.name != "restaurants" {
		t.Fatalf("unexpected render %d %q", rec.Code, r.name)
	}
	if gw.filter.Category != "italian" || gw.filter.PartySize != "2" || gw.filter.Location != "" {
		t.Fatalf("unexpected filter: %+v", gw.filter)
	}
}
